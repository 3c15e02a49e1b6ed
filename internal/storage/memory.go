package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"assessment-backend/internal/models"
)

// MemoryStore is an in-memory Store used by tests. It reproduces the GORM
// store's semantics, including the version check on attempt updates.
type MemoryStore struct {
	mu sync.Mutex

	quizzes   map[uint]models.Quiz
	questions map[uint]map[string]models.Question
	attempts  map[uint]models.Attempt
	responses map[uint]map[string]models.Response
	entries   []models.ScheduleEntry

	nextQuizID     uint
	nextQuestionID uint
	nextAttemptID  uint
	nextResponseID uint
	nextEntryID    uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quizzes:   make(map[uint]models.Quiz),
		questions: make(map[uint]map[string]models.Question),
		attempts:  make(map[uint]models.Attempt),
		responses: make(map[uint]map[string]models.Response),
	}
}

func (s *MemoryStore) CreateQuiz(quiz models.Quiz) (models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextQuizID++
	quiz.ID = s.nextQuizID
	quiz.CreatedAt = time.Now().UTC()
	quiz.UpdatedAt = quiz.CreatedAt
	s.quizzes[quiz.ID] = quiz
	return quiz, nil
}

func (s *MemoryStore) GetQuiz(id uint) (models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz, ok := s.quizzes[id]
	if !ok {
		return models.Quiz{}, ErrNotFound
	}
	return quiz, nil
}

func (s *MemoryStore) ListQuizzesToActivate(now time.Time) ([]models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Quiz
	for _, q := range s.quizzes {
		if q.IsActive || q.ActivationAt == nil || q.ActivationAt.After(now) {
			continue
		}
		if q.DeactivationAt != nil && !q.DeactivationAt.After(now) {
			continue
		}
		out = append(out, q)
	}
	sortQuizzes(out)
	return out, nil
}

func (s *MemoryStore) ListQuizzesToDeactivate(now time.Time) ([]models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Quiz
	for _, q := range s.quizzes {
		if q.IsActive && q.DeactivationAt != nil && !q.DeactivationAt.After(now) {
			out = append(out, q)
		}
	}
	sortQuizzes(out)
	return out, nil
}

func (s *MemoryStore) SetQuizActive(id uint, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz, ok := s.quizzes[id]
	if !ok {
		return ErrNotFound
	}
	quiz.IsActive = active
	quiz.UpdatedAt = time.Now().UTC()
	s.quizzes[id] = quiz
	return nil
}

func (s *MemoryStore) CreateQuestion(q models.Question) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextQuestionID++
	q.ID = s.nextQuestionID
	q.CreatedAt = time.Now().UTC()
	if s.questions[q.QuizID] == nil {
		s.questions[q.QuizID] = make(map[string]models.Question)
	}
	s.questions[q.QuizID][q.Ref] = q
	return q, nil
}

func (s *MemoryStore) CorrectAnswerFor(quizID uint, questionRef string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[quizID][questionRef]
	if !ok {
		return "", ErrNotFound
	}
	return q.CorrectAnswer, nil
}

func (s *MemoryStore) CreateAttempt(a models.Attempt) (models.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Matches the partial unique index on (quiz_id, student_id) over
	// non-terminal states: the check and the insert share one lock hold.
	for _, existing := range s.attempts {
		if existing.StudentID == a.StudentID && existing.QuizID == a.QuizID && !existing.State.Terminal() {
			return models.Attempt{}, ErrDuplicateActiveAttempt
		}
	}

	s.nextAttemptID++
	a.ID = s.nextAttemptID
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	s.attempts[a.ID] = a
	return a, nil
}

func (s *MemoryStore) GetAttempt(id uint) (models.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attempts[id]
	if !ok {
		return models.Attempt{}, ErrNotFound
	}
	return a, nil
}

func (s *MemoryStore) GetActiveAttempt(studentID uuid.UUID, quizID uint) (models.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.attempts {
		if a.StudentID == studentID && a.QuizID == quizID && !a.State.Terminal() {
			return a, nil
		}
	}
	return models.Attempt{}, ErrNotFound
}

func (s *MemoryStore) ListAttempts(studentID uuid.UUID, quizID uint) ([]models.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Attempt
	for _, a := range s.attempts {
		if a.StudentID == studentID && a.QuizID == quizID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func (s *MemoryStore) ListNonTerminalAttempts() ([]models.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Attempt
	for _, a := range s.attempts {
		if !a.State.Terminal() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpdateAttempt(a models.Attempt) (models.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.attempts[a.ID]
	if !ok {
		return models.Attempt{}, ErrNotFound
	}
	if cur.Version != a.Version {
		return models.Attempt{}, ErrVersionConflict
	}
	a.Version++
	a.UpdatedAt = time.Now().UTC()
	s.attempts[a.ID] = a
	return a, nil
}

func (s *MemoryStore) UpsertResponse(r models.Response) (models.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.responses[r.AttemptID] == nil {
		s.responses[r.AttemptID] = make(map[string]models.Response)
	}
	if prev, ok := s.responses[r.AttemptID][r.QuestionRef]; ok {
		r.ID = prev.ID
	} else {
		s.nextResponseID++
		r.ID = s.nextResponseID
	}
	s.responses[r.AttemptID][r.QuestionRef] = r
	return r, nil
}

func (s *MemoryStore) ListResponses(attemptID uint) ([]models.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Response
	for _, r := range s.responses[attemptID] {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (s *MemoryStore) CreateScheduleEntry(e models.ScheduleEntry) (models.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEntryID++
	e.ID = s.nextEntryID
	e.CreatedAt = time.Now().UTC()
	s.entries = append(s.entries, e)
	return e, nil
}

func (s *MemoryStore) ListScheduleEntries(key models.OwnerKey) ([]models.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ScheduleEntry
	for _, e := range s.entries {
		if key.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func sortQuizzes(quizzes []models.Quiz) {
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].ID < quizzes[j].ID })
}
