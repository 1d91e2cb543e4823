package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rosterpro-dev/rosterpro/backend/internal/domain"
	"github.com/rosterpro-dev/rosterpro/backend/internal/roster"
)

func (r *Repository) CreateShift(ctx context.Context, shift *domain.Shift) error {
	query := `
		INSERT INTO shifts (shift_date, assignee_id, role, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{shift.Date, shift.AssigneeID, shift.Role, shift.Status}
	dst := []any{&shift.ID, &shift.CreatedAt, &shift.UpdatedAt, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "shifts_shift_date_role_key" {
			return domain.ErrDuplicateShift
		}
		return err
	}

	return nil
}

func (r *Repository) GetShiftByID(ctx context.Context, id int64) (*domain.Shift, error) {
	query := `
		SELECT shift_date, assignee_id, role, status, created_at, updated_at, version
		FROM shifts WHERE id = $1
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	shift := &domain.Shift{
		ID: id,
	}

	dst := []any{&shift.Date, &shift.AssigneeID, &shift.Role, &shift.Status, &shift.CreatedAt, &shift.UpdatedAt, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return shift, nil
}

func (r *Repository) GetShiftByDateRole(ctx context.Context, date time.Time, role domain.ShiftRole) (*domain.Shift, error) {
	query := `
		SELECT id, assignee_id, status, created_at, updated_at, version
		FROM shifts WHERE shift_date = $1 AND role = $2
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	shift := &domain.Shift{
		Date: date,
		Role: role,
	}

	dst := []any{&shift.ID, &shift.AssigneeID, &shift.Status, &shift.CreatedAt, &shift.UpdatedAt, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, date, role).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return shift, nil
}

func (r *Repository) ListShifts(ctx context.Context, filter roster.ShiftFilter) ([]*domain.Shift, error) {
	query := `
		SELECT id, shift_date, assignee_id, role, status, created_at, updated_at, version
		FROM shifts
		WHERE 1 = 1
	`

	args := []any{}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND shift_date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND shift_date <= $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY shift_date, role"

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift := &domain.Shift{}
		dst := []any{&shift.ID, &shift.Date, &shift.AssigneeID, &shift.Role, &shift.Status, &shift.CreatedAt, &shift.UpdatedAt, &shift.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) UpdateShiftAssignee(ctx context.Context, id int64, assigneeID int64) error {
	query := `
		UPDATE shifts
		SET
			assignee_id = $1,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $2
		RETURNING version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var version int32
	if err := r.dbpool.QueryRowContext(ctx, query, assigneeID, id).Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	return nil
}

func (r *Repository) UpdateShiftStatus(ctx context.Context, id int64, status domain.ShiftStatus) error {
	query := `
		UPDATE shifts
		SET
			status = $1,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $2
		RETURNING version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var version int32
	if err := r.dbpool.QueryRowContext(ctx, query, status, id).Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	return nil
}
