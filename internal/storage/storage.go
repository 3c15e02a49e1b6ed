package storage

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"assessment-backend/internal/models"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("version conflict")
	// ErrDuplicateActiveAttempt is returned by CreateAttempt when a
	// non-terminal attempt already exists for the same (student, quiz).
	ErrDuplicateActiveAttempt = errors.New("non-terminal attempt already exists")
)

type QuizStore interface {
	CreateQuiz(quiz models.Quiz) (models.Quiz, error)
	GetQuiz(id uint) (models.Quiz, error)
	// ListQuizzesToActivate returns inactive quizzes whose activation instant
	// has passed and whose deactivation instant (if any) has not.
	ListQuizzesToActivate(now time.Time) ([]models.Quiz, error)
	// ListQuizzesToDeactivate returns active quizzes whose deactivation
	// instant has passed.
	ListQuizzesToDeactivate(now time.Time) ([]models.Quiz, error)
	SetQuizActive(id uint, active bool) error

	CreateQuestion(q models.Question) (models.Question, error)
	CorrectAnswerFor(quizID uint, questionRef string) (string, error)
}

type AttemptStore interface {
	CreateAttempt(a models.Attempt) (models.Attempt, error)
	GetAttempt(id uint) (models.Attempt, error)
	// GetActiveAttempt returns the single non-terminal attempt for the pair,
	// or ErrNotFound.
	GetActiveAttempt(studentID uuid.UUID, quizID uint) (models.Attempt, error)
	ListAttempts(studentID uuid.UUID, quizID uint) ([]models.Attempt, error)
	ListNonTerminalAttempts() ([]models.Attempt, error)
	// UpdateAttempt commits a mutation if and only if the stored version
	// matches a.Version; on success the returned attempt carries the bumped
	// version. A stale version yields ErrVersionConflict.
	UpdateAttempt(a models.Attempt) (models.Attempt, error)
}

type ResponseStore interface {
	// UpsertResponse inserts the response or overwrites the existing row for
	// the same (attempt, question).
	UpsertResponse(r models.Response) (models.Response, error)
	ListResponses(attemptID uint) ([]models.Response, error)
}

type ScheduleStore interface {
	CreateScheduleEntry(e models.ScheduleEntry) (models.ScheduleEntry, error)
	// ListScheduleEntries returns entries sharing at least one populated
	// dimension of the owner key.
	ListScheduleEntries(key models.OwnerKey) ([]models.ScheduleEntry, error)
}

type Store interface {
	QuizStore
	AttemptStore
	ResponseStore
	ScheduleStore
}
