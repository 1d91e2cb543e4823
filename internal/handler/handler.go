package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/rosterpro-dev/rosterpro/backend/internal/config"
	"github.com/rosterpro-dev/rosterpro/backend/internal/events"
	"github.com/rosterpro-dev/rosterpro/backend/internal/notify"
	"github.com/rosterpro-dev/rosterpro/backend/internal/repository"
	"github.com/rosterpro-dev/rosterpro/backend/internal/roster"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository *repository.Repository
	translator ut.Translator
	sink       *notify.Service
	events     *events.Publisher
	importer   *roster.Importer
	repeater   *roster.Repeater
	sweeper    *roster.Sweeper

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, sink *notify.Service, pub *events.Publisher) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		translator: trans,
		sink:       sink,
		events:     pub,
		importer:   roster.NewImporter(repo, repo, sink, cfg.Import.Concurrency),
		repeater:   roster.NewRepeater(repo),
		sweeper:    roster.NewSweeper(repo, repo, sink),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/shifts", func(r chi.Router) {
		r.Get("/", h.ListShifts)
		r.Post("/", h.CreateShift)
		r.Post("/import", h.ImportShifts)
		r.Post("/repeat", h.RepeatShifts)
		r.Route("/sweep", func(r chi.Router) {
			r.Post("/", h.SweepShifts)
			r.Get("/status", h.SweepStatus)
		})
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.shiftCtx)
			r.Get("/", h.GetShift)
			r.Patch("/", h.UpdateShift)
		})
	})

	h.Mux.Route("/users", func(r chi.Router) {
		r.Get("/", h.GetAllUserInfo)
		r.Get("/{id}/notifications", h.GetUserNotifications)
	})
}
