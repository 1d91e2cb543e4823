// Package roster implements the schedule pattern engine: spreadsheet date
// normalization, bulk shift import, periodic pattern repetition and the
// auto-completion sweep. It talks to storage only through the narrow store
// interfaces below so it can be exercised against fakes.
package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/rosterpro-dev/rosterpro/backend/internal/domain"
)

type ShiftFilter struct {
	From   time.Time // zero value means unbounded
	To     time.Time // inclusive; zero value means unbounded
	Status domain.ShiftStatus
}

type ShiftStore interface {
	ListShifts(ctx context.Context, filter ShiftFilter) ([]*domain.Shift, error)
	// GetShiftByDateRole returns domain.ErrNotFound when the slot is empty.
	GetShiftByDateRole(ctx context.Context, date time.Time, role domain.ShiftRole) (*domain.Shift, error)
	// CreateShift returns domain.ErrDuplicateShift when the (date, role)
	// slot was taken concurrently.
	CreateShift(ctx context.Context, shift *domain.Shift) error
	UpdateShiftAssignee(ctx context.Context, id int64, assigneeID int64) error
	UpdateShiftStatus(ctx context.Context, id int64, status domain.ShiftStatus) error
}

type UserStore interface {
	GetAllUsers(ctx context.Context) ([]*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	// AddCompOffs returns the new balance.
	AddCompOffs(ctx context.Context, userID int64, delta int32) (int32, error)
}

// Sink enqueues notifications best-effort: implementations log failures and
// never propagate them.
type Sink interface {
	Enqueue(ctx context.Context, n *domain.Notification)
}

// ValidationError marks operation-level precondition failures so transport
// code can tell them apart from repository failures.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
