package catalog_api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/utils"
)

type Service interface {
	CreateTeam(ctx context.Context, req models.CreateTeamRequest) (*models.Team, error)
	GetTeams(ctx context.Context, publicKey string) ([]models.Team, error)
	CreateEvent(ctx context.Context, in models.EventInput) (*models.Event, error)
	ListEvents(ctx context.Context, teamID string) ([]models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	UpdateEvent(ctx context.Context, id string, in models.EventInput) (*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	Availability(ctx context.Context, id string) (*models.EventAvailability, error)
}

type Handler struct {
	CatalogService Service
	Logger         *logger.Logger
}

func NewHandler(catalogService Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{CatalogService: catalogService, Logger: log}
}

// Routes mounts the read endpoints. Writes are mounted separately so the
// caller can put them behind authentication.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/teams", h.GetTeams)
	r.Get("/events", h.ListEvents)
	r.Get("/events/{eventId}", h.GetEvent)
	r.Get("/events/{eventId}/availability", h.Availability)
}

func (h *Handler) WriteRoutes(r chi.Router) {
	r.Post("/teams", h.CreateTeam)
	r.Post("/events", h.CreateEvent)
	r.Put("/events/{eventId}", h.UpdateEvent)
	r.Delete("/events/{eventId}", h.DeleteEvent)
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTeamRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Invalid request body")
		return
	}

	team, err := h.CatalogService.CreateTeam(r.Context(), req)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to create team")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, team)
}

func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	publicKey := r.URL.Query().Get("publicKey")
	teams, err := h.CatalogService.GetTeams(r.Context(), publicKey)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to fetch teams")
		return
	}
	if publicKey != "" {
		utils.WriteJSON(w, http.StatusOK, teams[0])
		return
	}
	utils.WriteJSON(w, http.StatusOK, teams)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var in models.EventInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Invalid request body")
		return
	}

	event, err := h.CatalogService.CreateEvent(r.Context(), in)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to create event")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, event)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.CatalogService.ListEvents(r.Context(), r.URL.Query().Get("teamId"))
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to fetch events")
		return
	}
	utils.WriteJSON(w, http.StatusOK, events)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.CatalogService.GetEvent(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to fetch event")
		return
	}
	utils.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var in models.EventInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Invalid request body")
		return
	}

	event, err := h.CatalogService.UpdateEvent(r.Context(), chi.URLParam(r, "eventId"), in)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to update event")
		return
	}
	utils.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.CatalogService.DeleteEvent(r.Context(), chi.URLParam(r, "eventId")); err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to delete event")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	availability, err := h.CatalogService.Availability(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to fetch availability")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"event": availability})
}
