package models

import "time"

// Response is a student's answer to one question within an attempt. At most
// one row exists per (attempt, question); re-answering overwrites it while
// the attempt is non-terminal.
type Response struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	AttemptID      uint      `gorm:"not null;uniqueIndex:idx_response_attempt_question" json:"attempt_id"`
	QuestionRef    string    `gorm:"size:255;not null;uniqueIndex:idx_response_attempt_question" json:"question_ref"`
	SelectedAnswer string    `gorm:"size:255;not null" json:"selected_answer"`
	IsCorrect      bool      `gorm:"not null" json:"is_correct"`
	RecordedAt     time.Time `json:"recorded_at"`
	SecondsSpent   int       `gorm:"not null;default:0" json:"seconds_spent"`
}
