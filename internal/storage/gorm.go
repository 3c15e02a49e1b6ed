package storage

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"assessment-backend/internal/models"
)

var nonTerminalStates = []models.AttemptState{models.AttemptInProgress, models.AttemptPaused}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateQuiz(quiz models.Quiz) (models.Quiz, error) {
	if err := s.db.Create(&quiz).Error; err != nil {
		return models.Quiz{}, err
	}
	return quiz, nil
}

func (s *GormStore) GetQuiz(id uint) (models.Quiz, error) {
	var quiz models.Quiz
	if err := s.db.First(&quiz, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Quiz{}, ErrNotFound
		}
		return models.Quiz{}, err
	}
	return quiz, nil
}

func (s *GormStore) ListQuizzesToActivate(now time.Time) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.
		Where("is_active = ? AND activation_at IS NOT NULL AND activation_at <= ?", false, now).
		Where("deactivation_at IS NULL OR deactivation_at > ?", now).
		Find(&quizzes).Error
	return quizzes, err
}

func (s *GormStore) ListQuizzesToDeactivate(now time.Time) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.
		Where("is_active = ? AND deactivation_at IS NOT NULL AND deactivation_at <= ?", true, now).
		Find(&quizzes).Error
	return quizzes, err
}

func (s *GormStore) SetQuizActive(id uint, active bool) error {
	res := s.db.Model(&models.Quiz{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CreateQuestion(q models.Question) (models.Question, error) {
	if err := s.db.Create(&q).Error; err != nil {
		return models.Question{}, err
	}
	return q, nil
}

func (s *GormStore) CorrectAnswerFor(quizID uint, questionRef string) (string, error) {
	var q models.Question
	err := s.db.Where("quiz_id = ? AND ref = ?", quizID, questionRef).First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return q.CorrectAnswer, nil
}

func (s *GormStore) CreateAttempt(a models.Attempt) (models.Attempt, error) {
	if err := s.db.Create(&a).Error; err != nil {
		// The partial unique index idx_attempt_active rejects a second
		// non-terminal attempt for the same (quiz, student).
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Attempt{}, ErrDuplicateActiveAttempt
		}
		return models.Attempt{}, err
	}
	return a, nil
}

func (s *GormStore) GetAttempt(id uint) (models.Attempt, error) {
	var a models.Attempt
	if err := s.db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Attempt{}, ErrNotFound
		}
		return models.Attempt{}, err
	}
	return a, nil
}

func (s *GormStore) GetActiveAttempt(studentID uuid.UUID, quizID uint) (models.Attempt, error) {
	var a models.Attempt
	err := s.db.
		Where("student_id = ? AND quiz_id = ? AND state IN ?", studentID, quizID, nonTerminalStates).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Attempt{}, ErrNotFound
		}
		return models.Attempt{}, err
	}
	return a, nil
}

func (s *GormStore) ListAttempts(studentID uuid.UUID, quizID uint) ([]models.Attempt, error) {
	var attempts []models.Attempt
	err := s.db.
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Order("started_at ASC").
		Find(&attempts).Error
	return attempts, err
}

func (s *GormStore) ListNonTerminalAttempts() ([]models.Attempt, error) {
	var attempts []models.Attempt
	err := s.db.Where("state IN ?", nonTerminalStates).Find(&attempts).Error
	return attempts, err
}

func (s *GormStore) UpdateAttempt(a models.Attempt) (models.Attempt, error) {
	res := s.db.Model(&models.Attempt{}).
		Where("id = ? AND version = ?", a.ID, a.Version).
		Updates(map[string]interface{}{
			"state":                   a.State,
			"total_pause_seconds":     a.TotalPauseSeconds,
			"current_pause_start":     a.CurrentPauseStart,
			"ended_at":                a.EndedAt,
			"submitted_automatically": a.SubmittedAutomatically,
			"current_question_index":  a.CurrentQuestionIndex,
			"correct_answers":         a.CorrectAnswers,
			"score":                   a.Score,
			"passed":                  a.Passed,
			"version":                 a.Version + 1,
			"updated_at":              time.Now().UTC(),
		})
	if res.Error != nil {
		return models.Attempt{}, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.Attempt{}).Where("id = ?", a.ID).Count(&count).Error; err != nil {
			return models.Attempt{}, err
		}
		if count == 0 {
			return models.Attempt{}, ErrNotFound
		}
		return models.Attempt{}, ErrVersionConflict
	}
	a.Version++
	return a, nil
}

func (s *GormStore) UpsertResponse(r models.Response) (models.Response, error) {
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "attempt_id"}, {Name: "question_ref"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"selected_answer", "is_correct", "recorded_at", "seconds_spent",
		}),
	}).Create(&r).Error
	if err != nil {
		return models.Response{}, err
	}
	return r, nil
}

func (s *GormStore) ListResponses(attemptID uint) ([]models.Response, error) {
	var responses []models.Response
	err := s.db.
		Where("attempt_id = ?", attemptID).
		Order("recorded_at ASC").
		Find(&responses).Error
	return responses, err
}

func (s *GormStore) CreateScheduleEntry(e models.ScheduleEntry) (models.ScheduleEntry, error) {
	if err := s.db.Create(&e).Error; err != nil {
		return models.ScheduleEntry{}, err
	}
	return e, nil
}

func (s *GormStore) ListScheduleEntries(key models.OwnerKey) ([]models.ScheduleEntry, error) {
	if key.Empty() {
		return nil, nil
	}
	q := s.db.Model(&models.ScheduleEntry{})
	cond := s.db.Where("1 = 0")
	if key.TeacherID != nil {
		cond = cond.Or("teacher_id = ?", *key.TeacherID)
	}
	if key.LocationID != nil {
		cond = cond.Or("location_id = ?", *key.LocationID)
	}
	if key.ClassID != nil {
		cond = cond.Or("class_id = ?", *key.ClassID)
	}
	var entries []models.ScheduleEntry
	err := q.Where(cond).Order("start_at ASC").Find(&entries).Error
	return entries, err
}
