package handler

import (
	"errors"
	"net/http"

	"github.com/rosterpro-dev/rosterpro/backend/internal/events"
	"github.com/rosterpro-dev/rosterpro/backend/internal/roster"
)

func (h *Handler) ImportShifts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Records []roster.ImportRecord `json:"records" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	report, err := h.importer.Run(r.Context(), req.Records)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// clients refetch the affected range off the change feed
	h.publishEvent(r.Context(), events.ActionUpdated, events.EntityShift, report)
	h.successResponse(w, r, "import processed", report)
}

func (h *Handler) RepeatShifts(w http.ResponseWriter, r *http.Request) {
	var req roster.RepeatRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	report, err := h.repeater.Run(r.Context(), req)
	if err != nil {
		var validationErr *roster.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.errorResponse(w, r, validationErr.Message)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.publishEvent(r.Context(), events.ActionUpdated, events.EntityShift, report)
	h.successResponse(w, r, "pattern repeated", report)
}

func (h *Handler) SweepShifts(w http.ResponseWriter, r *http.Request) {
	report, err := h.sweeper.Run(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if report.UpdatedCount > 0 {
		h.publishEvent(r.Context(), events.ActionUpdated, events.EntityShift, report)
	}
	h.successResponse(w, r, "sweep completed", report)
}

func (h *Handler) SweepStatus(w http.ResponseWriter, r *http.Request) {
	count, err := h.sweeper.EligibleCount(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "sweep status retrieved", map[string]int{"eligible": count})
}
