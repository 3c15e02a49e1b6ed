package services

import (
	"errors"
	"log"
	"time"

	"assessment-backend/internal/models"
	"assessment-backend/internal/storage"
)

// QuizOpen reports whether the quiz accepts new attempts at the given
// instant: it must be flagged active and `now` must fall inside the
// activation window (both bounds optional, both inclusive).
func QuizOpen(quiz models.Quiz, now time.Time) bool {
	if !quiz.IsActive {
		return false
	}
	if quiz.ActivationAt != nil && now.Before(*quiz.ActivationAt) {
		return false
	}
	if quiz.DeactivationAt != nil && now.After(*quiz.DeactivationAt) {
		return false
	}
	return true
}

type QuizService struct {
	store storage.QuizStore
	clock Clock
}

func NewQuizService(store storage.QuizStore, clock Clock) *QuizService {
	return &QuizService{store: store, clock: clock}
}

func (s *QuizService) IsOpen(quiz models.Quiz, now time.Time) bool {
	return QuizOpen(quiz, now)
}

func (s *QuizService) IsQuizOpen(quizID uint) (bool, error) {
	quiz, err := s.store.GetQuiz(quizID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	return QuizOpen(quiz, s.clock.Now()), nil
}

// ReconcileActivation flips is_active on quizzes whose activation or
// deactivation instant has passed. Safe to re-run: a quiz already in its
// target state is not selected again. A failed flip is logged and does not
// abort the pass.
func (s *QuizService) ReconcileActivation(now time.Time) (activated, deactivated int, err error) {
	toActivate, err := s.store.ListQuizzesToActivate(now)
	if err != nil {
		return 0, 0, err
	}
	for _, quiz := range toActivate {
		if err := s.store.SetQuizActive(quiz.ID, true); err != nil {
			log.Printf("activation sweep: activate quiz %d: %v", quiz.ID, err)
			continue
		}
		activated++
	}

	toDeactivate, err := s.store.ListQuizzesToDeactivate(now)
	if err != nil {
		return activated, 0, err
	}
	for _, quiz := range toDeactivate {
		if err := s.store.SetQuizActive(quiz.ID, false); err != nil {
			log.Printf("activation sweep: deactivate quiz %d: %v", quiz.ID, err)
			continue
		}
		deactivated++
	}
	return activated, deactivated, nil
}

// RunActivationSweep runs ReconcileActivation on a timer until stopCh closes.
func (s *QuizService) RunActivationSweep(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			activated, deactivated, err := s.ReconcileActivation(s.clock.Now())
			if err != nil {
				log.Printf("activation sweep: %v", err)
				continue
			}
			if activated > 0 || deactivated > 0 {
				log.Printf("activation sweep: %d activated, %d deactivated", activated, deactivated)
			}
		}
	}
}
