package resale_api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/utils"
)

type Service interface {
	CreateListing(ctx context.Context, req models.ResaleListingRequest) (*models.ResaleTicket, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.ResaleTicket, error)
	CancelListing(ctx context.Context, id string) error
}

type Handler struct {
	ResaleService Service
	Logger        *logger.Logger
}

func NewHandler(resaleService Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{ResaleService: resaleService, Logger: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/resale", h.CreateListing)
	r.Get("/resale", h.ListByEvent)
	r.Delete("/resale", h.CancelListing)
}

func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req models.ResaleListingRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Invalid request body")
		return
	}

	listing, err := h.ResaleService.CreateListing(r.Context(), req)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to create resale listing")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, listing)
}

func (h *Handler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	listings, err := h.ResaleService.ListByEvent(r.Context(), r.URL.Query().Get("eventId"))
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to fetch resale tickets")
		return
	}
	utils.WriteJSON(w, http.StatusOK, listings)
}

func (h *Handler) CancelListing(w http.ResponseWriter, r *http.Request) {
	if err := h.ResaleService.CancelListing(r.Context(), r.URL.Query().Get("id")); err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to cancel resale listing")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
