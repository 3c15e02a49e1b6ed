package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"assessment-backend/internal/models"
	"assessment-backend/internal/storage"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	store    *storage.MemoryStore
	clock    *fakeClock
	quizzes  *QuizService
	attempts *AttemptService
	sweeper  *AutoSubmitService
}

func newTestEnv() *testEnv {
	store := storage.NewMemoryStore()
	clock := newFakeClock(time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC))
	scoring := NewScoringService()
	attempts := NewAttemptService(store, store, scoring, clock, 3)
	return &testEnv{
		store:    store,
		clock:    clock,
		quizzes:  NewQuizService(store, clock),
		attempts: attempts,
		sweeper:  NewAutoSubmitService(store, attempts, clock),
	}
}

// seedQuiz creates an active quiz with questions q1..qN whose correct answer
// is always "a".
func (e *testEnv) seedQuiz(t *testing.T, timeLimitMinutes, totalQuestions int, passingScore *float64) models.Quiz {
	t.Helper()

	quiz, err := e.store.CreateQuiz(models.Quiz{
		Title:            "test quiz",
		IsActive:         true,
		TimeLimitMinutes: timeLimitMinutes,
		TotalQuestions:   totalQuestions,
		PassingScore:     passingScore,
	})
	if err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	for i := 1; i <= totalQuestions; i++ {
		_, err := e.store.CreateQuestion(models.Question{
			QuizID:        quiz.ID,
			Ref:           fmt.Sprintf("q%d", i),
			CorrectAnswer: "a",
		})
		if err != nil {
			t.Fatalf("seed question: %v", err)
		}
	}
	return quiz
}

func timePtr(t time.Time) *time.Time { return &t }

func float64Ptr(f float64) *float64 { return &f }
