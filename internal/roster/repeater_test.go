package roster

import (
	"context"
	"testing"
	"time"

	"github.com/rosterpro-dev/rosterpro/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepeater(t *testing.T, store *fakeStore) *Repeater {
	t.Helper()
	rp := NewRepeater(store)
	// fixed clock: Sunday 2025-06-01
	rp.now = func() time.Time { return date(2025, time.June, 1) }
	return rp
}

func TestRepeatCyclesShortPatternAcrossLongerTarget(t *testing.T) {
	store := newFakeStore()
	// 2-day source pattern: day 0 A on PRIMARY, day 1 B on BACKUP
	store.addShift(date(2025, time.June, 2), 1, domain.RolePrimary, domain.StatusScheduled)
	store.addShift(date(2025, time.June, 3), 2, domain.RoleBackup, domain.StatusScheduled)
	rp := newTestRepeater(t, store)

	report, err := rp.Run(context.Background(), RepeatRequest{
		SourceStart: "2025-06-02",
		SourceEnd:   "2025-06-03",
		TargetStart: "2025-06-09",
		TargetEnd:   "2025-06-13",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, report.Attempted)
	assert.Equal(t, 5, report.Created)
	assert.Equal(t, 0, report.SkippedDuplicates)
	assert.Equal(t, map[int]int{0: 1, 1: 1}, report.PatternSummary)

	// A,B,A,B,A in role-respecting alternation
	expected := []struct {
		day        int
		assigneeID int64
		role       domain.ShiftRole
	}{
		{9, 1, domain.RolePrimary},
		{10, 2, domain.RoleBackup},
		{11, 1, domain.RolePrimary},
		{12, 2, domain.RoleBackup},
		{13, 1, domain.RolePrimary},
	}
	for _, want := range expected {
		shift, err := store.GetShiftByDateRole(context.Background(), date(2025, time.June, want.day), want.role)
		require.NoError(t, err, "day %d", want.day)
		assert.Equal(t, want.assigneeID, shift.AssigneeID, "day %d", want.day)
		assert.Equal(t, domain.StatusScheduled, shift.Status)
	}
}

func TestRepeatSkipsOccupiedSlotsRegardlessOfAssignee(t *testing.T) {
	store := newFakeStore()
	store.addShift(date(2025, time.June, 2), 1, domain.RolePrimary, domain.StatusScheduled)
	// same slot in the target range, held by a different assignee
	occupied := store.addShift(date(2025, time.June, 9), 7, domain.RolePrimary, domain.StatusScheduled)
	rp := newTestRepeater(t, store)

	report, err := rp.Run(context.Background(), RepeatRequest{
		SourceStart: "2025-06-02",
		SourceEnd:   "2025-06-03",
		TargetStart: "2025-06-09",
		TargetEnd:   "2025-06-10",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Attempted)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 1, report.SkippedDuplicates)

	// the repeater never reassigns an occupied slot
	shift, err := store.GetShiftByDateRole(context.Background(), date(2025, time.June, 9), domain.RolePrimary)
	require.NoError(t, err)
	assert.Equal(t, occupied.AssigneeID, shift.AssigneeID)
}

func TestRepeatRejectsInvertedRangesWithoutWrites(t *testing.T) {
	store := newFakeStore()
	store.addShift(date(2025, time.June, 12), 1, domain.RolePrimary, domain.StatusScheduled)
	rp := newTestRepeater(t, store)

	_, err := rp.Run(context.Background(), RepeatRequest{
		SourceStart: "2025-06-20",
		SourceEnd:   "2025-06-10",
		TargetStart: "2025-07-01",
		TargetEnd:   "2025-07-10",
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "sourceStart must be before sourceEnd")

	shifts, err := store.ListShifts(context.Background(), ShiftFilter{})
	require.NoError(t, err)
	assert.Len(t, shifts, 1)
}

func TestRepeatRejectsEmptySourceRange(t *testing.T) {
	store := newFakeStore()
	rp := newTestRepeater(t, store)

	_, err := rp.Run(context.Background(), RepeatRequest{
		SourceStart: "2025-06-02",
		SourceEnd:   "2025-06-03",
		TargetStart: "2025-06-09",
		TargetEnd:   "2025-06-10",
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "no shifts in source range")
}

func TestRepeatDerivesTargetEndFromDuration(t *testing.T) {
	cases := []struct {
		name     string
		duration int
		unit     string
		wantEnd  string
	}{
		{"days", 10, UnitDays, "2025-06-18"},
		{"weeks", 2, UnitWeeks, "2025-06-22"},
		{"months", 1, UnitMonths, "2025-07-08"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			store.addShift(date(2025, time.June, 2), 1, domain.RolePrimary, domain.StatusScheduled)
			store.addShift(date(2025, time.June, 3), 2, domain.RoleBackup, domain.StatusScheduled)
			rp := newTestRepeater(t, store)

			report, err := rp.Run(context.Background(), RepeatRequest{
				SourceStart: "2025-06-02",
				SourceEnd:   "2025-06-03",
				TargetStart: "2025-06-09",
				Duration:    tc.duration,
				Unit:        tc.unit,
			})
			require.NoError(t, err)
			assert.Equal(t, "2025-06-09", report.TargetStart)
			assert.Equal(t, tc.wantEnd, report.TargetEnd)
		})
	}
}

func TestRepeatAcceptsOneDayDerivedRange(t *testing.T) {
	store := newFakeStore()
	store.addShift(date(2025, time.June, 2), 1, domain.RolePrimary, domain.StatusScheduled)
	store.addShift(date(2025, time.June, 3), 2, domain.RoleBackup, domain.StatusScheduled)
	rp := newTestRepeater(t, store)

	// duration 1 day collapses the target range to a single date
	report, err := rp.Run(context.Background(), RepeatRequest{
		SourceStart: "2025-06-02",
		SourceEnd:   "2025-06-03",
		TargetStart: "2025-06-09",
		Duration:    1,
		Unit:        UnitDays,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Attempted)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, "2025-06-09", report.TargetStart)
	assert.Equal(t, "2025-06-09", report.TargetEnd)

	shift, err := store.GetShiftByDateRole(context.Background(), date(2025, time.June, 9), domain.RolePrimary)
	require.NoError(t, err)
	assert.Equal(t, int64(1), shift.AssigneeID)
}

func TestRepeatMonthArithmeticFollowsCalendar(t *testing.T) {
	store := newFakeStore()
	store.addShift(date(2025, time.January, 1), 1, domain.RolePrimary, domain.StatusScheduled)
	store.addShift(date(2025, time.January, 2), 2, domain.RoleBackup, domain.StatusScheduled)
	rp := newTestRepeater(t, store)
	rp.now = func() time.Time { return date(2025, time.January, 1) }

	// one calendar month from Jan 31 overflows into March before stepping back
	report, err := rp.Run(context.Background(), RepeatRequest{
		SourceStart: "2025-01-01",
		SourceEnd:   "2025-01-02",
		TargetStart: "2025-01-31",
		Duration:    1,
		Unit:        UnitMonths,
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-02", report.TargetEnd)
}

func TestRepeatRejectsBadDurationAndUnit(t *testing.T) {
	store := newFakeStore()
	rp := newTestRepeater(t, store)

	_, err := rp.Run(context.Background(), RepeatRequest{
		SourceStart: "2025-06-02",
		SourceEnd:   "2025-06-03",
		TargetStart: "2025-06-09",
		Duration:    0,
		Unit:        UnitDays,
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "duration must be a positive integer")

	_, err = rp.Run(context.Background(), RepeatRequest{
		SourceStart: "2025-06-02",
		SourceEnd:   "2025-06-03",
		TargetStart: "2025-06-09",
		Duration:    2,
		Unit:        "fortnights",
	})
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "unit must be one of")
}

func TestRepeatMarksElapsedTargetDatesCompleted(t *testing.T) {
	store := newFakeStore()
	store.addShift(date(2025, time.May, 5), 1, domain.RolePrimary, domain.StatusCompleted)
	rp := newTestRepeater(t, store)
	// clock sits inside the target range
	rp.now = func() time.Time { return date(2025, time.May, 13) }

	_, err := rp.Run(context.Background(), RepeatRequest{
		SourceStart: "2025-05-05",
		SourceEnd:   "2025-05-06",
		TargetStart: "2025-05-12",
		TargetEnd:   "2025-05-15",
	})
	require.NoError(t, err)

	past, err := store.GetShiftByDateRole(context.Background(), date(2025, time.May, 12), domain.RolePrimary)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, past.Status)

	future, err := store.GetShiftByDateRole(context.Background(), date(2025, time.May, 14), domain.RolePrimary)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, future.Status)
}
