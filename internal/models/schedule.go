package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleEntry is a time-bound booking scoped to a teacher, a location,
// a class, or any combination of the three. Intervals are half-open:
// [StartAt, EndAt).
type ScheduleEntry struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	TeacherID  *uuid.UUID `gorm:"type:uuid;index" json:"teacher_id,omitempty"`
	LocationID *uuid.UUID `gorm:"type:uuid;index" json:"location_id,omitempty"`
	ClassID    *uuid.UUID `gorm:"type:uuid;index" json:"class_id,omitempty"`
	StartAt    time.Time  `gorm:"not null" json:"start_at"`
	EndAt      time.Time  `gorm:"not null" json:"end_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// OwnerKey selects the scope a conflict check runs against. Any subset of
// the three dimensions may be populated; an entry is in scope when it shares
// at least one populated dimension.
type OwnerKey struct {
	TeacherID  *uuid.UUID
	LocationID *uuid.UUID
	ClassID    *uuid.UUID
}

func (k OwnerKey) Empty() bool {
	return k.TeacherID == nil && k.LocationID == nil && k.ClassID == nil
}

func (k OwnerKey) Matches(e ScheduleEntry) bool {
	if k.TeacherID != nil && e.TeacherID != nil && *k.TeacherID == *e.TeacherID {
		return true
	}
	if k.LocationID != nil && e.LocationID != nil && *k.LocationID == *e.LocationID {
		return true
	}
	if k.ClassID != nil && e.ClassID != nil && *k.ClassID == *e.ClassID {
		return true
	}
	return false
}
