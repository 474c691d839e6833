package order_api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/utils"
)

type Service interface {
	Checkout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResult, error)
	Purchase(ctx context.Context, req models.PurchaseRequest) (*models.PurchaseResult, error)
	GetOrder(ctx context.Context, id string) (*models.OrderWithTickets, error)
}

type Handler struct {
	OrderService Service
	Logger       *logger.Logger
}

func NewHandler(orderService Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{OrderService: orderService, Logger: log}
}

type CheckoutResponse struct {
	Success          bool     `json:"success"`
	OrderID          string   `json:"orderId"`
	Message          string   `json:"message"`
	Total            float64  `json:"total"`
	TicketsRequested int      `json:"ticketsRequested"`
	TicketsIssued    int      `json:"ticketsIssued"`
	TicketIDs        []string `json:"ticketIds"`
}

type PurchaseResponse struct {
	Success bool          `json:"success"`
	OrderID string        `json:"orderId"`
	Ticket  models.Ticket `json:"ticket"`
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/checkout", h.Checkout)
	r.Post("/purchase", h.Purchase)
	r.Get("/orders/{orderId}", h.GetOrder)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Invalid request body")
		return
	}
	h.Logger.Debug("API", fmt.Sprintf("Checkout: cartId=%s teamId=%s", req.CartID, req.TeamID))

	result, err := h.OrderService.Checkout(r.Context(), req)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to process checkout")
		return
	}

	ticketIDs := result.TicketIDs
	if ticketIDs == nil {
		ticketIDs = []string{}
	}
	utils.WriteJSON(w, http.StatusOK, CheckoutResponse{
		Success:          true,
		OrderID:          result.Order.ID,
		Message:          "Checkout completed successfully",
		Total:            result.Order.Total,
		TicketsRequested: result.Order.TicketsRequested,
		TicketsIssued:    result.Order.TicketsIssued,
		TicketIDs:        ticketIDs,
	})
}

func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req models.PurchaseRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Invalid request body")
		return
	}

	result, err := h.OrderService.Purchase(r.Context(), req)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to process purchase")
		return
	}

	utils.WriteJSON(w, http.StatusOK, PurchaseResponse{
		Success: true,
		OrderID: result.OrderID,
		Ticket:  result.Ticket,
	})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	result, err := h.OrderService.GetOrder(r.Context(), orderID)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to fetch order")
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
