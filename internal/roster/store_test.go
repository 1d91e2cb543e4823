package roster

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rosterpro-dev/rosterpro/backend/internal/domain"
)

// fakeStore is an in-memory ShiftStore, UserStore and Sink used to exercise
// the engine without a database.
type fakeStore struct {
	mu            sync.Mutex
	shifts        map[string]*domain.Shift // slot key -> shift
	users         []*domain.User
	notifications []*domain.Notification
	nextID        int64

	failStatusUpdate map[int64]bool
	compOffUpdates   int
}

func newFakeStore(users ...*domain.User) *fakeStore {
	return &fakeStore{
		shifts:           map[string]*domain.Shift{},
		users:            users,
		failStatusUpdate: map[int64]bool{},
	}
}

func (f *fakeStore) addShift(date time.Time, assigneeID int64, role domain.ShiftRole, status domain.ShiftStatus) *domain.Shift {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	shift := &domain.Shift{
		ID:         f.nextID,
		Date:       date,
		AssigneeID: assigneeID,
		Role:       role,
		Status:     status,
	}
	f.shifts[slotKey(date, role)] = shift
	return shift
}

func (f *fakeStore) shiftByID(id int64) *domain.Shift {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, shift := range f.shifts {
		if shift.ID == id {
			return shift
		}
	}
	return nil
}

func (f *fakeStore) ListShifts(_ context.Context, filter ShiftFilter) ([]*domain.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	shifts := []*domain.Shift{}
	for _, shift := range f.shifts {
		if !filter.From.IsZero() && shift.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && shift.Date.After(filter.To) {
			continue
		}
		if filter.Status != "" && shift.Status != filter.Status {
			continue
		}
		shifts = append(shifts, shift)
	}
	sort.Slice(shifts, func(i, j int) bool {
		if !shifts[i].Date.Equal(shifts[j].Date) {
			return shifts[i].Date.Before(shifts[j].Date)
		}
		return shifts[i].Role < shifts[j].Role
	})
	return shifts, nil
}

func (f *fakeStore) GetShiftByDateRole(_ context.Context, date time.Time, role domain.ShiftRole) (*domain.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	shift, ok := f.shifts[slotKey(date, role)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return shift, nil
}

func (f *fakeStore) CreateShift(_ context.Context, shift *domain.Shift) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := slotKey(shift.Date, shift.Role)
	if _, ok := f.shifts[key]; ok {
		return domain.ErrDuplicateShift
	}
	f.nextID++
	shift.ID = f.nextID
	f.shifts[key] = shift
	return nil
}

func (f *fakeStore) UpdateShiftAssignee(_ context.Context, id int64, assigneeID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, shift := range f.shifts {
		if shift.ID == id {
			shift.AssigneeID = assigneeID
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeStore) UpdateShiftStatus(_ context.Context, id int64, status domain.ShiftStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failStatusUpdate[id] {
		return fmt.Errorf("update refused for shift %d", id)
	}
	for _, shift := range f.shifts {
		if shift.ID == id {
			shift.Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeStore) GetAllUsers(_ context.Context) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.users, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStore) AddCompOffs(_ context.Context, userID int64, delta int32) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.ID == userID {
			user.CompOffs += delta
			f.compOffUpdates++
			return user.CompOffs, nil
		}
	}
	return 0, domain.ErrNotFound
}

func (f *fakeStore) Enqueue(_ context.Context, n *domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.notifications = append(f.notifications, n)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
