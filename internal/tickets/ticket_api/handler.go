package ticket_api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/utils"
)

type Service interface {
	CreateTicket(ctx context.Context, req models.CreateTicketRequest) (*models.Ticket, error)
	GetTicket(ctx context.Context, ticketID string) (*models.Ticket, error)
	ListTickets(ctx context.Context, ownerID, eventID string) ([]models.Ticket, error)
	TicketQR(ctx context.Context, ticketID string) ([]byte, error)
	VerifyCode(ctx context.Context, code string) (*models.TicketVerification, error)
}

type Handler struct {
	TicketService Service
	Logger        *logger.Logger
}

func NewHandler(ticketService Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{TicketService: ticketService, Logger: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/tickets", h.ListTickets)
	r.Get("/tickets/{ticketId}", h.GetTicket)
}

// WriteRoutes mounts minting, QR download and gate verification, which need a
// caller identity. A QR code is an admission credential.
func (h *Handler) WriteRoutes(r chi.Router) {
	r.Post("/tickets", h.CreateTicket)
	r.Get("/tickets/{ticketId}/qr", h.GetTicketQR)
	r.Post("/tickets/verify", h.VerifyTicket)
}

func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTicketRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Invalid request body")
		return
	}

	ticket, err := h.TicketService.CreateTicket(r.Context(), req)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to create ticket")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, ticket)
}

func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tickets, err := h.TicketService.ListTickets(r.Context(), q.Get("ownerId"), q.Get("eventId"))
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to fetch tickets")
		return
	}
	utils.WriteJSON(w, http.StatusOK, tickets)
}

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.TicketService.GetTicket(r.Context(), chi.URLParam(r, "ticketId"))
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to fetch ticket")
		return
	}
	utils.WriteJSON(w, http.StatusOK, ticket)
}

func (h *Handler) GetTicketQR(w http.ResponseWriter, r *http.Request) {
	img, err := h.TicketService.TicketQR(r.Context(), chi.URLParam(r, "ticketId"))
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (h *Handler) VerifyTicket(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Invalid request body")
		return
	}

	result, err := h.TicketService.VerifyCode(r.Context(), body.Code)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to verify ticket")
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
