package roster

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rosterpro-dev/rosterpro/backend/internal/domain"
)

const (
	UnitDays   = "days"
	UnitWeeks  = "weeks"
	UnitMonths = "months"
)

// RepeatRequest describes one repetition: the assignment pattern found in
// [SourceStart, SourceEnd] is replayed across the target range. The target
// end is either explicit or derived from Duration and Unit.
type RepeatRequest struct {
	SourceStart any    `json:"sourceStart"`
	SourceEnd   any    `json:"sourceEnd"`
	TargetStart any    `json:"targetStart"`
	TargetEnd   any    `json:"targetEnd"`
	Duration    int    `json:"duration"`
	Unit        string `json:"unit"`
}

type RepeatReport struct {
	Created           int         `json:"created"`
	SkippedDuplicates int         `json:"skippedDuplicates"`
	Attempted         int         `json:"attempted"`
	PatternSummary    map[int]int `json:"patternSummary"`
	TargetStart       string      `json:"targetStart"`
	TargetEnd         string      `json:"targetEnd"`
}

type Repeater struct {
	shifts ShiftStore
	now    func() time.Time
}

func NewRepeater(shifts ShiftStore) *Repeater {
	return &Repeater{
		shifts: shifts,
		now:    time.Now,
	}
}

type patternEntry struct {
	assigneeID int64
	role       domain.ShiftRole
}

// Run validates the ranges, derives the per-day-offset source pattern and
// replays it over the target range, cycling when the target is longer than
// the source. Occupied (date, role) slots are skipped, never reassigned.
func (rp *Repeater) Run(ctx context.Context, req RepeatRequest) (*RepeatReport, error) {
	sourceStart, err := Normalize(req.SourceStart)
	if err != nil {
		return nil, validationErrorf("sourceStart: %s", err)
	}
	sourceEnd, err := Normalize(req.SourceEnd)
	if err != nil {
		return nil, validationErrorf("sourceEnd: %s", err)
	}
	targetStart, err := Normalize(req.TargetStart)
	if err != nil {
		return nil, validationErrorf("targetStart: %s", err)
	}
	if !sourceStart.Before(sourceEnd) {
		return nil, validationErrorf("sourceStart must be before sourceEnd")
	}

	targetEnd, err := rp.resolveTargetEnd(req, targetStart)
	if err != nil {
		return nil, err
	}
	// strict ordering applies to explicit target ranges only; a derived end
	// is never before the start once the duration is known positive
	if req.TargetEnd != nil && !targetStart.Before(targetEnd) {
		return nil, validationErrorf("targetStart must be before targetEnd")
	}

	// derive the source pattern
	sourceShifts, err := rp.shifts.ListShifts(ctx, ShiftFilter{From: sourceStart, To: sourceEnd})
	if err != nil {
		return nil, fmt.Errorf("list source shifts: %w", err)
	}
	if len(sourceShifts) == 0 {
		return nil, validationErrorf("no shifts in source range %s to %s", Canonical(sourceStart), Canonical(sourceEnd))
	}

	pattern := map[int][]patternEntry{}
	for _, shift := range sourceShifts {
		offset := dayOffset(sourceStart, shift.Date)
		pattern[offset] = append(pattern[offset], patternEntry{assigneeID: shift.AssigneeID, role: shift.Role})
	}
	sourceDurationDays := dayOffset(sourceStart, sourceEnd) + 1

	// stage candidates across the target range, cycling the pattern
	today := Midnight(rp.now())
	var staged []*domain.Shift
	targetDayIndex := 0
	for d := targetStart; !d.After(targetEnd); d = d.AddDate(0, 0, 1) {
		for _, entry := range pattern[targetDayIndex%sourceDurationDays] {
			status := domain.StatusScheduled
			if d.Before(today) {
				status = domain.StatusCompleted
			}
			staged = append(staged, &domain.Shift{
				Date:       d,
				AssigneeID: entry.assigneeID,
				Role:       entry.role,
				Status:     status,
			})
		}
		targetDayIndex++
	}

	// occupied (date, role) slots count as duplicates regardless of assignee
	existing, err := rp.shifts.ListShifts(ctx, ShiftFilter{From: targetStart, To: targetEnd})
	if err != nil {
		return nil, fmt.Errorf("list target shifts: %w", err)
	}
	occupied := make(map[string]bool, len(existing))
	for _, shift := range existing {
		occupied[slotKey(shift.Date, shift.Role)] = true
	}

	report := &RepeatReport{
		Attempted:      len(staged),
		PatternSummary: map[int]int{},
		TargetStart:    Canonical(targetStart),
		TargetEnd:      Canonical(targetEnd),
	}
	for offset, entries := range pattern {
		report.PatternSummary[offset] = len(entries)
	}

	for _, shift := range staged {
		if occupied[slotKey(shift.Date, shift.Role)] {
			report.SkippedDuplicates++
			continue
		}
		if err := rp.shifts.CreateShift(ctx, shift); err != nil {
			// creation is not transactional across the batch
			slog.Error("failed to create repeated shift", "date", Canonical(shift.Date), "role", shift.Role, "error", err)
			continue
		}
		report.Created++
	}

	return report, nil
}

func (rp *Repeater) resolveTargetEnd(req RepeatRequest, targetStart time.Time) (time.Time, error) {
	if req.TargetEnd != nil {
		targetEnd, err := Normalize(req.TargetEnd)
		if err != nil {
			return time.Time{}, validationErrorf("targetEnd: %s", err)
		}
		return targetEnd, nil
	}

	if req.Duration <= 0 {
		return time.Time{}, validationErrorf("duration must be a positive integer when targetEnd is not given")
	}
	switch req.Unit {
	case UnitDays:
		return targetStart.AddDate(0, 0, req.Duration-1), nil
	case UnitWeeks:
		return targetStart.AddDate(0, 0, req.Duration*7-1), nil
	case UnitMonths:
		// calendar month arithmetic, then back one day for an inclusive range
		return targetStart.AddDate(0, req.Duration, 0).AddDate(0, 0, -1), nil
	default:
		return time.Time{}, validationErrorf("unit must be one of days, weeks, months")
	}
}

func dayOffset(start, d time.Time) int {
	return int(d.Sub(start) / (24 * time.Hour))
}

func slotKey(date time.Time, role domain.ShiftRole) string {
	return Canonical(date) + "|" + string(role)
}
