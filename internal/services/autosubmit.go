package services

import (
	"log"
	"time"

	"assessment-backend/internal/models"
	"assessment-backend/internal/storage"
)

// AutoSubmitService force-completes attempts that have exhausted their time
// budget. The timeout is stored data (the quiz's time limit) evaluated by a
// periodic sweep, not a call-level deadline.
type AutoSubmitService struct {
	store    storage.Store
	attempts *AttemptService
	clock    Clock
}

func NewAutoSubmitService(store storage.Store, attempts *AttemptService, clock Clock) *AutoSubmitService {
	return &AutoSubmitService{store: store, attempts: attempts, clock: clock}
}

// FindOverdue returns the non-terminal attempts whose net elapsed time has
// reached the quiz's time limit. Quizzes without a limit never qualify.
func (s *AutoSubmitService) FindOverdue(now time.Time) ([]models.Attempt, error) {
	attempts, err := s.store.ListNonTerminalAttempts()
	if err != nil {
		return nil, err
	}

	limits := make(map[uint]time.Duration)
	var overdue []models.Attempt
	for _, a := range attempts {
		limit, ok := limits[a.QuizID]
		if !ok {
			quiz, err := s.store.GetQuiz(a.QuizID)
			if err != nil {
				log.Printf("auto-submit sweep: quiz %d for attempt %d: %v", a.QuizID, a.ID, err)
				continue
			}
			limit = time.Duration(quiz.TimeLimitMinutes) * time.Minute
			limits[a.QuizID] = limit
		}
		if limit <= 0 {
			continue
		}
		if NetElapsed(a, now) >= limit {
			overdue = append(overdue, a)
		}
	}
	return overdue, nil
}

// RunSweep force-completes every overdue attempt and returns how many were
// submitted. Re-running is harmless: settled attempts are no longer
// non-terminal and are not selected again. A single attempt's failure is
// logged and does not abort the pass.
func (s *AutoSubmitService) RunSweep(now time.Time) (int, error) {
	overdue, err := s.FindOverdue(now)
	if err != nil {
		return 0, err
	}

	submitted := 0
	for _, a := range overdue {
		if _, err := s.attempts.Complete(a.ID, false); err != nil {
			log.Printf("auto-submit sweep: attempt %d: %v", a.ID, err)
			continue
		}
		submitted++
	}
	return submitted, nil
}

// Run executes the sweep on a timer until stopCh closes.
func (s *AutoSubmitService) Run(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			submitted, err := s.RunSweep(s.clock.Now())
			if err != nil {
				log.Printf("auto-submit sweep: %v", err)
				continue
			}
			if submitted > 0 {
				log.Printf("auto-submit sweep: force-completed %d attempts", submitted)
			}
		}
	}
}
