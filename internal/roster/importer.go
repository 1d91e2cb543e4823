package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rosterpro-dev/rosterpro/backend/internal/domain"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionSkipped = "skipped"
)

// ImportRecord is one row of an import batch. Date may arrive as a
// spreadsheet serial number or any string form accepted by Normalize.
// Empty usernames mean the slot is not assigned by this row.
type ImportRecord struct {
	Date    any    `json:"date"`
	Primary string `json:"primary"`
	Backup  string `json:"backup"`
}

type ImportResult struct {
	Date     string           `json:"date"`
	Role     domain.ShiftRole `json:"role"`
	Username string           `json:"username"`
	Action   string           `json:"action"`
}

type ImportError struct {
	Record  int    `json:"record"`
	Message string `json:"message"`
}

type ImportReport struct {
	Created int            `json:"created"`
	Updated int            `json:"updated"`
	Skipped int            `json:"skipped"`
	Results []ImportResult `json:"results"`
	Errors  []ImportError  `json:"errors"`
}

type Importer struct {
	shifts      ShiftStore
	users       UserStore
	sink        Sink
	concurrency int
	now         func() time.Time
}

func NewImporter(shifts ShiftStore, users UserStore, sink Sink, concurrency int) *Importer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Importer{
		shifts:      shifts,
		users:       users,
		sink:        sink,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Run processes an import batch. Records are handled concurrently and settle
// independently: a bad date or unknown username lands in the report's errors
// list without aborting sibling records. Only the initial user-directory read
// is fatal.
func (im *Importer) Run(ctx context.Context, records []ImportRecord) (*ImportReport, error) {
	users, err := im.users.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	byUsername := make(map[string]*domain.User, len(users))
	for _, user := range users {
		byUsername[user.Username] = user
	}

	report := &ImportReport{
		Results: []ImportResult{},
		Errors:  []ImportError{},
	}
	createdBy := map[int64]int{}
	today := Midnight(im.now())

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, im.concurrency)

	for i, record := range records {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, record ImportRecord) {
			defer wg.Done()
			defer func() { <-sem }()
			im.processRecord(ctx, i, record, byUsername, today, report, createdBy, &mu)
		}(i, record)
	}
	wg.Wait()

	// one aggregated notification per assignee instead of one per shift
	for assigneeID, count := range createdBy {
		im.sink.Enqueue(ctx, &domain.Notification{
			UserID:  assigneeID,
			Type:    domain.NotificationShiftAssigned,
			Title:   "New on-call shifts",
			Message: fmt.Sprintf("You have been assigned %d new on-call shift(s).", count),
		})
	}

	return report, nil
}

func (im *Importer) processRecord(ctx context.Context, idx int, record ImportRecord, byUsername map[string]*domain.User, today time.Time, report *ImportReport, createdBy map[int64]int, mu *sync.Mutex) {
	date, err := Normalize(record.Date)
	if err != nil {
		mu.Lock()
		report.Errors = append(report.Errors, ImportError{Record: idx, Message: fmt.Sprintf("date %v: %s", record.Date, err)})
		mu.Unlock()
		return
	}

	slots := []struct {
		role     domain.ShiftRole
		username string
	}{
		{domain.RolePrimary, record.Primary},
		{domain.RoleBackup, record.Backup},
	}

	for _, slot := range slots {
		if slot.username == "" {
			continue
		}

		user, ok := byUsername[slot.username]
		if !ok {
			mu.Lock()
			report.Errors = append(report.Errors, ImportError{Record: idx, Message: fmt.Sprintf("unknown username %q", slot.username)})
			mu.Unlock()
			continue
		}

		action, err := im.processSlot(ctx, date, slot.role, user, today)
		if err != nil {
			mu.Lock()
			report.Errors = append(report.Errors, ImportError{Record: idx, Message: fmt.Sprintf("%s %s: %s", Canonical(date), slot.role, err)})
			mu.Unlock()
			continue
		}

		if action != ActionSkipped && date.Before(today) && isWeekend(date) {
			// comp-off earned retroactively for weekend work already performed
			if _, err := im.users.AddCompOffs(ctx, user.ID, 1); err != nil {
				slog.Warn("failed to grant comp-off", "username", user.Username, "date", Canonical(date), "error", err)
			}
		}

		mu.Lock()
		switch action {
		case ActionCreated:
			report.Created++
			createdBy[user.ID]++
		case ActionUpdated:
			report.Updated++
		case ActionSkipped:
			report.Skipped++
		}
		report.Results = append(report.Results, ImportResult{
			Date:     Canonical(date),
			Role:     slot.role,
			Username: user.Username,
			Action:   action,
		})
		mu.Unlock()
	}
}

// processSlot re-checks the (date, role) slot against the store immediately
// before writing so concurrent imports converge on one shift per slot.
func (im *Importer) processSlot(ctx context.Context, date time.Time, role domain.ShiftRole, user *domain.User, today time.Time) (string, error) {
	existing, err := im.shifts.GetShiftByDateRole(ctx, date, role)
	switch {
	case err == nil:
		if existing.AssigneeID == user.ID {
			return ActionSkipped, nil
		}
		if err := im.shifts.UpdateShiftAssignee(ctx, existing.ID, user.ID); err != nil {
			return "", err
		}
		return ActionUpdated, nil

	case errors.Is(err, domain.ErrNotFound):
		status := domain.StatusScheduled
		if date.Before(today) {
			status = domain.StatusCompleted
		}
		shift := &domain.Shift{
			Date:       date,
			AssigneeID: user.ID,
			Role:       role,
			Status:     status,
		}
		if err := im.shifts.CreateShift(ctx, shift); err != nil {
			if errors.Is(err, domain.ErrDuplicateShift) {
				// lost the race to a concurrent import for the same slot
				return ActionSkipped, nil
			}
			return "", err
		}
		return ActionCreated, nil

	default:
		return "", err
	}
}
