package models

import (
	"time"

	"github.com/google/uuid"
)

type AttemptState string

const (
	AttemptInProgress    AttemptState = "in_progress"
	AttemptPaused        AttemptState = "paused"
	AttemptCompleted     AttemptState = "completed"
	AttemptAutoSubmitted AttemptState = "auto_submitted"
)

func (s AttemptState) String() string { return string(s) }

func (s AttemptState) Valid() bool {
	switch s {
	case AttemptInProgress, AttemptPaused, AttemptCompleted, AttemptAutoSubmitted:
		return true
	default:
		return false
	}
}

// Terminal reports whether the attempt has reached a final outcome.
func (s AttemptState) Terminal() bool {
	return s == AttemptCompleted || s == AttemptAutoSubmitted
}

// Attempt is one student's timed pass at a quiz. Rows are never deleted;
// they only transition into a terminal state. At most one non-terminal
// attempt may exist per (student, quiz).
type Attempt struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	QuizID    uint         `gorm:"not null;index:idx_attempt_quiz_student,priority:1;uniqueIndex:idx_attempt_active,priority:1,where:state IN ('in_progress','paused')" json:"quiz_id"`
	StudentID uuid.UUID    `gorm:"type:uuid;not null;index:idx_attempt_quiz_student,priority:2;uniqueIndex:idx_attempt_active,priority:2,where:state IN ('in_progress','paused')" json:"student_id"`
	State     AttemptState `gorm:"size:20;not null;default:'in_progress';index" json:"state"`

	StartedAt         time.Time  `json:"started_at"`
	TotalPauseSeconds int64      `gorm:"not null;default:0" json:"total_pause_seconds"`
	CurrentPauseStart *time.Time `json:"current_pause_start,omitempty"`
	EndedAt           *time.Time `json:"ended_at,omitempty"`

	SubmittedAutomatically bool `gorm:"not null;default:false" json:"submitted_automatically"`

	CurrentQuestionIndex int      `gorm:"not null;default:0" json:"current_question_index"`
	CorrectAnswers       int      `gorm:"not null;default:0" json:"correct_answers"`
	TotalQuestions       int      `gorm:"not null;default:0" json:"total_questions"`
	Score                *float64 `json:"score,omitempty"`
	Passed               *bool    `json:"passed,omitempty"`

	// Version is bumped on every committed mutation; updates are rejected
	// when the stored version no longer matches.
	Version int `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
