package services

import (
	"errors"
	"testing"
	"time"

	"assessment-backend/internal/models"
)

func TestQuizOpen(t *testing.T) {
	now := time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		quiz models.Quiz
		want bool
	}{
		{"inactive", models.Quiz{IsActive: false}, false},
		{"active, no window", models.Quiz{IsActive: true}, true},
		{"activation in the future", models.Quiz{IsActive: true, ActivationAt: &future}, false},
		{"deactivation in the past", models.Quiz{IsActive: true, DeactivationAt: &past}, false},
		{"inside window", models.Quiz{IsActive: true, ActivationAt: &past, DeactivationAt: &future}, true},
		{"deactivated flag wins over open window", models.Quiz{IsActive: false, ActivationAt: &past, DeactivationAt: &future}, false},
		{"activation boundary is inclusive", models.Quiz{IsActive: true, ActivationAt: &now}, true},
		{"deactivation boundary is inclusive", models.Quiz{IsActive: true, DeactivationAt: &now}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuizOpen(tt.quiz, now); got != tt.want {
				t.Errorf("QuizOpen() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReconcileActivation(t *testing.T) {
	env := newTestEnv()
	now := env.clock.Now()

	due, err := env.store.CreateQuiz(models.Quiz{
		Title:        "due",
		ActivationAt: timePtr(now.Add(-time.Hour)),
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	notYet, err := env.store.CreateQuiz(models.Quiz{
		Title:        "not yet",
		ActivationAt: timePtr(now.Add(time.Hour)),
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	// activation due but the whole window already passed: must stay inactive
	expired, err := env.store.CreateQuiz(models.Quiz{
		Title:          "expired window",
		ActivationAt:   timePtr(now.Add(-2 * time.Hour)),
		DeactivationAt: timePtr(now.Add(-time.Hour)),
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	stale, err := env.store.CreateQuiz(models.Quiz{
		Title:          "stale active",
		IsActive:       true,
		DeactivationAt: timePtr(now.Add(-time.Minute)),
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	activated, deactivated, err := env.quizzes.ReconcileActivation(now)
	if err != nil {
		t.Fatalf("ReconcileActivation: %v", err)
	}
	if activated != 1 || deactivated != 1 {
		t.Fatalf("got (%d activated, %d deactivated), want (1, 1)", activated, deactivated)
	}

	assertActive := func(id uint, want bool) {
		t.Helper()
		quiz, err := env.store.GetQuiz(id)
		if err != nil {
			t.Fatalf("get quiz %d: %v", id, err)
		}
		if quiz.IsActive != want {
			t.Errorf("quiz %d IsActive = %v, want %v", id, quiz.IsActive, want)
		}
	}
	assertActive(due.ID, true)
	assertActive(notYet.ID, false)
	assertActive(expired.ID, false)
	assertActive(stale.ID, false)

	// idempotent: a second pass finds nothing to do
	activated, deactivated, err = env.quizzes.ReconcileActivation(now)
	if err != nil {
		t.Fatalf("ReconcileActivation (second pass): %v", err)
	}
	if activated != 0 || deactivated != 0 {
		t.Fatalf("second pass got (%d, %d), want (0, 0)", activated, deactivated)
	}
}

func TestIsQuizOpen(t *testing.T) {
	env := newTestEnv()
	quiz := env.seedQuiz(t, 30, 1, nil)

	open, err := env.quizzes.IsQuizOpen(quiz.ID)
	if err != nil {
		t.Fatalf("IsQuizOpen: %v", err)
	}
	if !open {
		t.Error("expected quiz to be open")
	}

	if _, err := env.quizzes.IsQuizOpen(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
