package roster

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rosterpro-dev/rosterpro/backend/internal/domain"
)

type CompOffGrant struct {
	AssigneeID int64 `json:"assigneeID"`
	NewBalance int32 `json:"newBalance"`
}

type SweepReport struct {
	UpdatedCount  int            `json:"updatedCount"`
	CompOffGrants []CompOffGrant `json:"compOffGrants"`
}

// Sweeper finalizes elapsed shifts: anything still SCHEDULED and dated on or
// before yesterday becomes COMPLETED, with a comp-off granted for weekend
// dates.
type Sweeper struct {
	shifts ShiftStore
	users  UserStore
	sink   Sink
	now    func() time.Time
}

func NewSweeper(shifts ShiftStore, users UserStore, sink Sink) *Sweeper {
	return &Sweeper{
		shifts: shifts,
		users:  users,
		sink:   sink,
		now:    time.Now,
	}
}

func (sw *Sweeper) Run(ctx context.Context) (*SweepReport, error) {
	eligible, err := sw.eligibleShifts(ctx)
	if err != nil {
		return nil, err
	}

	report := &SweepReport{
		CompOffGrants: []CompOffGrant{},
	}

	for _, shift := range eligible {
		// a single bad record must not abort the sweep
		if err := sw.shifts.UpdateShiftStatus(ctx, shift.ID, domain.StatusCompleted); err != nil {
			slog.Error("failed to complete elapsed shift", "shiftID", shift.ID, "date", Canonical(shift.Date), "error", err)
			continue
		}
		report.UpdatedCount++

		if !isWeekend(shift.Date) {
			continue
		}

		balance, err := sw.users.AddCompOffs(ctx, shift.AssigneeID, 1)
		if err != nil {
			slog.Warn("failed to grant weekend comp-off", "assigneeID", shift.AssigneeID, "date", Canonical(shift.Date), "error", err)
			continue
		}
		report.CompOffGrants = append(report.CompOffGrants, CompOffGrant{
			AssigneeID: shift.AssigneeID,
			NewBalance: balance,
		})

		sw.sink.Enqueue(ctx, &domain.Notification{
			UserID:  shift.AssigneeID,
			Type:    domain.NotificationCompOffGranted,
			Title:   "Comp-off granted",
			Message: fmt.Sprintf("You earned 1 comp-off for your on-call shift on %s. New balance: %d.", Canonical(shift.Date), balance),
		})
	}

	return report, nil
}

// EligibleCount reports how many shifts the next sweep would touch without
// performing any mutation.
func (sw *Sweeper) EligibleCount(ctx context.Context) (int, error) {
	eligible, err := sw.eligibleShifts(ctx)
	if err != nil {
		return 0, err
	}
	return len(eligible), nil
}

func (sw *Sweeper) eligibleShifts(ctx context.Context) ([]*domain.Shift, error) {
	cutoff := Midnight(sw.now()).AddDate(0, 0, -1)
	shifts, err := sw.shifts.ListShifts(ctx, ShiftFilter{To: cutoff, Status: domain.StatusScheduled})
	if err != nil {
		return nil, fmt.Errorf("list scheduled shifts: %w", err)
	}
	return shifts, nil
}
