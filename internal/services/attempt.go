package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"assessment-backend/internal/models"
	"assessment-backend/internal/storage"
)

// QuestionBank resolves the correct answer for a question. Question
// authoring is owned elsewhere; the engine only grades against it.
type QuestionBank interface {
	CorrectAnswerFor(quizID uint, questionRef string) (string, error)
}

// NetElapsed is the wall-clock time since the attempt started minus all
// accumulated pause time. While paused, time stands still: the pause start
// stands in for "now".
func NetElapsed(a models.Attempt, now time.Time) time.Duration {
	effective := now
	if a.State == models.AttemptPaused && a.CurrentPauseStart != nil {
		effective = *a.CurrentPauseStart
	}
	return effective.Sub(a.StartedAt) - time.Duration(a.TotalPauseSeconds)*time.Second
}

type AttemptService struct {
	store      storage.Store
	bank       QuestionBank
	scoring    *ScoringService
	clock      Clock
	retryLimit int
}

func NewAttemptService(store storage.Store, bank QuestionBank, scoring *ScoringService, clock Clock, retryLimit int) *AttemptService {
	if retryLimit <= 0 {
		retryLimit = 3
	}
	return &AttemptService{
		store:      store,
		bank:       bank,
		scoring:    scoring,
		clock:      clock,
		retryLimit: retryLimit,
	}
}

type StartAttemptInput struct {
	QuizID    uint      `validate:"required"`
	StudentID uuid.UUID `validate:"required"`
}

func (s *AttemptService) Start(in StartAttemptInput) (models.Attempt, error) {
	if err := validateStruct(in); err != nil {
		return models.Attempt{}, err
	}

	quiz, err := s.store.GetQuiz(in.QuizID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Attempt{}, ErrNotFound
		}
		return models.Attempt{}, err
	}

	now := s.clock.Now()
	if !QuizOpen(quiz, now) {
		return models.Attempt{}, ErrNotOpen
	}

	if _, err := s.store.GetActiveAttempt(in.StudentID, in.QuizID); err == nil {
		return models.Attempt{}, ErrDuplicateActiveAttempt
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.Attempt{}, err
	}

	a, err := s.store.CreateAttempt(models.Attempt{
		QuizID:         in.QuizID,
		StudentID:      in.StudentID,
		State:          models.AttemptInProgress,
		StartedAt:      now,
		TotalQuestions: quiz.TotalQuestions,
	})
	if err != nil {
		// The store rejects a concurrent second start that slipped past the
		// active-attempt check above.
		if errors.Is(err, storage.ErrDuplicateActiveAttempt) {
			return models.Attempt{}, ErrDuplicateActiveAttempt
		}
		return models.Attempt{}, err
	}
	return a, nil
}

func (s *AttemptService) Pause(attemptID uint) (models.Attempt, error) {
	return s.mutate(attemptID, func(a *models.Attempt) error {
		if a.State != models.AttemptInProgress {
			return ErrInvalidTransition
		}
		now := s.clock.Now()
		a.State = models.AttemptPaused
		a.CurrentPauseStart = &now
		return nil
	})
}

func (s *AttemptService) Resume(attemptID uint) (models.Attempt, error) {
	return s.mutate(attemptID, func(a *models.Attempt) error {
		if a.State != models.AttemptPaused || a.CurrentPauseStart == nil {
			return ErrInvalidTransition
		}
		now := s.clock.Now()
		a.TotalPauseSeconds += int64(now.Sub(*a.CurrentPauseStart) / time.Second)
		a.CurrentPauseStart = nil
		a.State = models.AttemptInProgress
		return nil
	})
}

type RecordResponseInput struct {
	AttemptID   uint   `validate:"required"`
	QuestionRef string `validate:"required"`
	Answer      string `validate:"required"`
}

// RecordResponse grades and upserts the student's answer, then recomputes
// the attempt's progress counters from the full response set rather than
// incrementing them, so a re-answered question cannot cause drift.
func (s *AttemptService) RecordResponse(in RecordResponseInput) (models.Attempt, error) {
	if err := validateStruct(in); err != nil {
		return models.Attempt{}, err
	}

	return s.mutate(in.AttemptID, func(a *models.Attempt) error {
		if a.State != models.AttemptInProgress {
			return ErrInvalidTransition
		}

		correct, err := s.bank.CorrectAnswerFor(a.QuizID, in.QuestionRef)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%w: unknown question %q", ErrValidation, in.QuestionRef)
			}
			return err
		}

		now := s.clock.Now()
		answer := strings.TrimSpace(in.Answer)
		resp := models.Response{
			AttemptID:      a.ID,
			QuestionRef:    in.QuestionRef,
			SelectedAnswer: answer,
			IsCorrect:      answer == correct,
			RecordedAt:     now,
		}

		// secondsSpent on this question: net elapsed time not yet attributed
		// to other responses.
		others, err := s.store.ListResponses(a.ID)
		if err != nil {
			return err
		}
		attributed := 0
		for _, r := range others {
			if r.QuestionRef != in.QuestionRef {
				attributed += r.SecondsSpent
			}
		}
		resp.SecondsSpent = int(NetElapsed(*a, now)/time.Second) - attributed
		if resp.SecondsSpent < 0 {
			resp.SecondsSpent = 0
		}

		if _, err := s.store.UpsertResponse(resp); err != nil {
			return err
		}

		responses, err := s.store.ListResponses(a.ID)
		if err != nil {
			return err
		}
		a.CurrentQuestionIndex = len(responses)
		a.CorrectAnswers = countCorrect(responses)
		return nil
	})
}

// Complete transitions the attempt into a terminal state and computes its
// final score from the persisted responses. Completing an already-terminal
// attempt is a no-op returning the existing result, so a manual submit and
// the auto-submit sweep can race safely: first writer wins.
func (s *AttemptService) Complete(attemptID uint, manual bool) (models.Attempt, error) {
	return s.mutate(attemptID, func(a *models.Attempt) error {
		if a.State.Terminal() {
			return errNoMutation
		}
		if a.State != models.AttemptInProgress && a.State != models.AttemptPaused {
			return ErrInvalidTransition
		}

		now := s.clock.Now()
		if a.State == models.AttemptPaused && a.CurrentPauseStart != nil {
			a.TotalPauseSeconds += int64(now.Sub(*a.CurrentPauseStart) / time.Second)
			a.CurrentPauseStart = nil
		}

		responses, err := s.store.ListResponses(a.ID)
		if err != nil {
			return err
		}
		a.CurrentQuestionIndex = len(responses)
		a.CorrectAnswers = countCorrect(responses)

		quiz, err := s.store.GetQuiz(a.QuizID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		score := s.scoring.Score(a.TotalQuestions, a.CorrectAnswers)
		a.Score = &score
		a.Passed = s.scoring.Passed(score, quiz.PassingScore)
		a.EndedAt = &now
		a.SubmittedAutomatically = !manual
		if manual {
			a.State = models.AttemptCompleted
		} else {
			a.State = models.AttemptAutoSubmitted
		}
		return nil
	})
}

func (s *AttemptService) Get(attemptID uint) (models.Attempt, error) {
	a, err := s.store.GetAttempt(attemptID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Attempt{}, ErrNotFound
		}
		return models.Attempt{}, err
	}
	return a, nil
}

func (s *AttemptService) ListByStudent(studentID uuid.UUID, quizID uint) ([]models.Attempt, error) {
	return s.store.ListAttempts(studentID, quizID)
}

// TimeRemaining returns the seconds left in the attempt's budget,
// zero-floored. Attempts at quizzes without a time limit report -1.
func (s *AttemptService) TimeRemaining(attemptID uint) (int64, error) {
	a, err := s.Get(attemptID)
	if err != nil {
		return 0, err
	}
	if a.State.Terminal() {
		return 0, nil
	}

	quiz, err := s.store.GetQuiz(a.QuizID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if quiz.TimeLimitMinutes <= 0 {
		return -1, nil
	}

	remaining := int64(quiz.TimeLimitMinutes)*60 - int64(NetElapsed(a, s.clock.Now())/time.Second)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// BestScore returns the highest score among the student's terminal attempts
// at the quiz, or nil when none have finished.
func (s *AttemptService) BestScore(studentID uuid.UUID, quizID uint) (*float64, error) {
	attempts, err := s.store.ListAttempts(studentID, quizID)
	if err != nil {
		return nil, err
	}
	var best *float64
	for _, a := range attempts {
		if !a.State.Terminal() || a.Score == nil {
			continue
		}
		if best == nil || *a.Score > *best {
			score := *a.Score
			best = &score
		}
	}
	return best, nil
}

// AverageScore returns the mean score across the student's terminal
// attempts at the quiz, or nil when none have finished.
func (s *AttemptService) AverageScore(studentID uuid.UUID, quizID uint) (*float64, error) {
	attempts, err := s.store.ListAttempts(studentID, quizID)
	if err != nil {
		return nil, err
	}
	var sum float64
	var n int
	for _, a := range attempts {
		if !a.State.Terminal() || a.Score == nil {
			continue
		}
		sum += *a.Score
		n++
	}
	if n == 0 {
		return nil, nil
	}
	avg := sum / float64(n)
	return &avg, nil
}

// errNoMutation signals that the mutation function decided the current row
// should be returned unchanged.
var errNoMutation = errors.New("no mutation")

// mutate applies fn to a fresh read of the attempt and commits it with an
// optimistic version check, retrying a bounded number of times when a
// concurrent writer got there first.
func (s *AttemptService) mutate(attemptID uint, fn func(a *models.Attempt) error) (models.Attempt, error) {
	for i := 0; i < s.retryLimit; i++ {
		a, err := s.store.GetAttempt(attemptID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return models.Attempt{}, ErrNotFound
			}
			return models.Attempt{}, err
		}

		if err := fn(&a); err != nil {
			if errors.Is(err, errNoMutation) {
				return a, nil
			}
			return models.Attempt{}, err
		}

		updated, err := s.store.UpdateAttempt(a)
		if err != nil {
			if errors.Is(err, storage.ErrVersionConflict) {
				continue
			}
			if errors.Is(err, storage.ErrNotFound) {
				return models.Attempt{}, ErrNotFound
			}
			return models.Attempt{}, err
		}
		return updated, nil
	}
	return models.Attempt{}, ErrConcurrencyConflict
}

func countCorrect(responses []models.Response) int {
	n := 0
	for _, r := range responses {
		if r.IsCorrect {
			n++
		}
	}
	return n
}
