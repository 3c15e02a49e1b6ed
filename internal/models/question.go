package models

import "time"

// Question is the minimal question-bank row the engine needs to grade a
// response. Question authoring lives elsewhere.
type Question struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	QuizID        uint      `gorm:"not null;uniqueIndex:idx_question_quiz_ref" json:"quiz_id"`
	Ref           string    `gorm:"size:255;not null;uniqueIndex:idx_question_quiz_ref" json:"ref"`
	CorrectAnswer string    `gorm:"size:255;not null" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}
