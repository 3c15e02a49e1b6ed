package services

import (
	"time"

	"github.com/google/uuid"

	"assessment-backend/internal/models"
	"assessment-backend/internal/storage"
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any instant. Adjacent intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ConflictQuery describes a candidate booking to check against existing
// schedule entries. At least one owner dimension must be set.
type ConflictQuery struct {
	TeacherID  *uuid.UUID `validate:"required_without_all=LocationID ClassID"`
	LocationID *uuid.UUID
	ClassID    *uuid.UUID
	Start      time.Time `validate:"required"`
	End        time.Time `validate:"required,gtfield=Start"`
}

type ScheduleService struct {
	store storage.ScheduleStore
}

func NewScheduleService(store storage.ScheduleStore) *ScheduleService {
	return &ScheduleService{store: store}
}

// FindConflicts returns every stored entry in the query's owner scope whose
// interval overlaps the candidate. The result is advisory: whether a
// non-empty set blocks the booking is the caller's policy.
func (s *ScheduleService) FindConflicts(q ConflictQuery) ([]models.ScheduleEntry, error) {
	if err := validateStruct(q); err != nil {
		return nil, err
	}

	entries, err := s.store.ListScheduleEntries(models.OwnerKey{
		TeacherID:  q.TeacherID,
		LocationID: q.LocationID,
		ClassID:    q.ClassID,
	})
	if err != nil {
		return nil, err
	}

	var conflicts []models.ScheduleEntry
	for _, e := range entries {
		if Overlaps(e.StartAt, e.EndAt, q.Start, q.End) {
			conflicts = append(conflicts, e)
		}
	}
	return conflicts, nil
}
