package domain

import (
	"errors"
	"time"
)

type ShiftRole string

const (
	RolePrimary ShiftRole = "PRIMARY"
	RoleBackup  ShiftRole = "BACKUP"
)

type ShiftStatus string

const (
	StatusScheduled ShiftStatus = "SCHEDULED"
	StatusCompleted ShiftStatus = "COMPLETED"
	StatusSwapped   ShiftStatus = "SWAPPED"
)

// At most one shift may exist per (date, role) slot; PRIMARY and BACKUP are
// independent slots on the same date.
type Shift struct {
	ID         int64       `json:"id"`
	Date       time.Time   `json:"date"`
	AssigneeID int64       `json:"assigneeID"`
	Role       ShiftRole   `json:"role"`
	Status     ShiftStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
	Version    int32       `json:"-"`
}

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateShift = errors.New("shift already exists for this date and role")
)
