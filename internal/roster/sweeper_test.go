package roster

import (
	"context"
	"testing"
	"time"

	"github.com/rosterpro-dev/rosterpro/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSweeper(t *testing.T, store *fakeStore) *Sweeper {
	t.Helper()
	sw := NewSweeper(store, store, store)
	// fixed clock: Monday 2025-06-16
	sw.now = func() time.Time { return date(2025, time.June, 16) }
	return sw
}

func TestSweepCompletesElapsedShifts(t *testing.T) {
	alice, bob := testUsers()
	store := newFakeStore(alice, bob)
	saturday := store.addShift(date(2025, time.June, 14), alice.ID, domain.RolePrimary, domain.StatusScheduled)
	wednesday := store.addShift(date(2025, time.June, 11), bob.ID, domain.RolePrimary, domain.StatusScheduled)
	today := store.addShift(date(2025, time.June, 16), bob.ID, domain.RoleBackup, domain.StatusScheduled)
	future := store.addShift(date(2025, time.June, 20), alice.ID, domain.RoleBackup, domain.StatusScheduled)
	alreadyDone := store.addShift(date(2025, time.June, 10), alice.ID, domain.RolePrimary, domain.StatusCompleted)
	sw := newTestSweeper(t, store)

	report, err := sw.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.UpdatedCount)
	assert.Equal(t, domain.StatusCompleted, store.shiftByID(saturday.ID).Status)
	assert.Equal(t, domain.StatusCompleted, store.shiftByID(wednesday.ID).Status)

	// shifts dated today or later stay scheduled until they elapse
	assert.Equal(t, domain.StatusScheduled, store.shiftByID(today.ID).Status)
	assert.Equal(t, domain.StatusScheduled, store.shiftByID(future.ID).Status)
	assert.Equal(t, domain.StatusCompleted, store.shiftByID(alreadyDone.ID).Status)

	// only the Saturday shift earns a comp-off
	require.Len(t, report.CompOffGrants, 1)
	assert.Equal(t, alice.ID, report.CompOffGrants[0].AssigneeID)
	assert.Equal(t, int32(1), report.CompOffGrants[0].NewBalance)
	assert.Equal(t, int32(1), alice.CompOffs)
	assert.Equal(t, int32(0), bob.CompOffs)

	require.Len(t, store.notifications, 1)
	assert.Equal(t, domain.NotificationCompOffGranted, store.notifications[0].Type)
	assert.Equal(t, alice.ID, store.notifications[0].UserID)
}

func TestSweepToleratesSingleShiftFailure(t *testing.T) {
	alice, bob := testUsers()
	store := newFakeStore(alice, bob)
	broken := store.addShift(date(2025, time.June, 12), alice.ID, domain.RolePrimary, domain.StatusScheduled)
	healthy := store.addShift(date(2025, time.June, 13), bob.ID, domain.RolePrimary, domain.StatusScheduled)
	store.failStatusUpdate[broken.ID] = true
	sw := newTestSweeper(t, store)

	report, err := sw.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.UpdatedCount)
	assert.Equal(t, domain.StatusScheduled, store.shiftByID(broken.ID).Status)
	assert.Equal(t, domain.StatusCompleted, store.shiftByID(healthy.ID).Status)
}

func TestSweepEligibleCountIsReadOnly(t *testing.T) {
	alice, bob := testUsers()
	store := newFakeStore(alice, bob)
	store.addShift(date(2025, time.June, 14), alice.ID, domain.RolePrimary, domain.StatusScheduled)
	store.addShift(date(2025, time.June, 11), bob.ID, domain.RolePrimary, domain.StatusScheduled)
	store.addShift(date(2025, time.June, 20), alice.ID, domain.RoleBackup, domain.StatusScheduled)
	sw := newTestSweeper(t, store)

	count, err := sw.EligibleCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// nothing was mutated
	shifts, err := store.ListShifts(context.Background(), ShiftFilter{Status: domain.StatusScheduled})
	require.NoError(t, err)
	assert.Len(t, shifts, 3)
	assert.Equal(t, 0, store.compOffUpdates)
	assert.Empty(t, store.notifications)
}
