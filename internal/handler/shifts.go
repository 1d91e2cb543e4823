package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rosterpro-dev/rosterpro/backend/internal/domain"
	"github.com/rosterpro-dev/rosterpro/backend/internal/events"
	"github.com/rosterpro-dev/rosterpro/backend/internal/roster"
)

// publishEvent pushes a change-feed event; failures are logged, never
// surfaced to the caller.
func (h *Handler) publishEvent(ctx context.Context, action events.Action, entity events.Entity, payload any) {
	if err := h.events.Publish(ctx, action, entity, payload); err != nil {
		slog.Warn("failed to publish change event", "action", action, "entity", entity, "error", err)
	}
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date       any                `json:"date" validate:"required"`
		AssigneeID int64              `json:"assigneeID" validate:"required"`
		Role       domain.ShiftRole   `json:"role" validate:"required,oneof=PRIMARY BACKUP"`
		Status     domain.ShiftStatus `json:"status" validate:"omitempty,oneof=SCHEDULED COMPLETED SWAPPED"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := roster.Normalize(req.Date)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	status := req.Status
	if status == "" {
		status = domain.StatusScheduled
	}

	shift := &domain.Shift{
		Date:       date,
		AssigneeID: req.AssigneeID,
		Role:       req.Role,
		Status:     status,
	}

	if err := h.repository.CreateShift(r.Context(), shift); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, domain.ErrDuplicateShift):
			h.errorResponse(w, r, "a shift already exists for this date and role")
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "shifts_assignee_id_fkey":
				h.errorResponse(w, r, "assignee does not exist")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.publishEvent(r.Context(), events.ActionCreated, events.EntityShift, shift)
	h.successResponse(w, r, "shift created", shift)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	h.successResponse(w, r, "shift retrieved", shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		AssigneeID *int64              `json:"assigneeID"`
		Status     *domain.ShiftStatus `json:"status" validate:"omitempty,oneof=SCHEDULED COMPLETED SWAPPED"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.AssigneeID != nil {
		if err := h.repository.UpdateShiftAssignee(r.Context(), shift.ID, *req.AssigneeID); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		shift.AssigneeID = *req.AssigneeID
	}
	if req.Status != nil {
		if err := h.repository.UpdateShiftStatus(r.Context(), shift.ID, *req.Status); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		shift.Status = *req.Status
	}

	h.publishEvent(r.Context(), events.ActionUpdated, events.EntityShift, shift)
	h.successResponse(w, r, "shift updated", shift)
}

func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	filter := roster.ShiftFilter{}

	if from := r.URL.Query().Get("from"); from != "" {
		date, err := roster.Normalize(from)
		if err != nil {
			h.errorResponse(w, r, "invalid from date")
			return
		}
		filter.From = date
	}
	if to := r.URL.Query().Get("to"); to != "" {
		date, err := roster.Normalize(to)
		if err != nil {
			h.errorResponse(w, r, "invalid to date")
			return
		}
		filter.To = date
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = domain.ShiftStatus(status)
	}

	shifts, err := h.repository.ListShifts(r.Context(), filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shifts retrieved", shifts)
}
