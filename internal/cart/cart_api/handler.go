package cart_api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/utils"
)

type Service interface {
	GetCart(ctx context.Context, cartID string) (*models.Cart, error)
	CreateCart(ctx context.Context, req models.CreateCartRequest) (*models.Cart, error)
	UpdateCart(ctx context.Context, req models.UpdateCartRequest) (*models.Cart, error)
	DeleteCart(ctx context.Context, cartID string) error
}

type Handler struct {
	CartService Service
	Logger      *logger.Logger
}

func NewHandler(cartService Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{CartService: cartService, Logger: log}
}

type cartResponse struct {
	Cart *models.Cart `json:"cart"`
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/cart", h.GetCart)
	r.Post("/cart", h.CreateCart)
	r.Put("/cart", h.UpdateCart)
	r.Delete("/cart", h.DeleteCart)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.CartService.GetCart(r.Context(), r.URL.Query().Get("cartId"))
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to fetch cart")
		return
	}
	utils.WriteJSON(w, http.StatusOK, cartResponse{Cart: cart})
}

func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCartRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Invalid request body")
		return
	}

	cart, err := h.CartService.CreateCart(r.Context(), req)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to create cart")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, cartResponse{Cart: cart})
}

func (h *Handler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCartRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Invalid request body")
		return
	}

	cart, err := h.CartService.UpdateCart(r.Context(), req)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to update cart")
		return
	}
	utils.WriteJSON(w, http.StatusOK, cartResponse{Cart: cart})
}

func (h *Handler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	if err := h.CartService.DeleteCart(r.Context(), r.URL.Query().Get("cartId")); err != nil {
		utils.WriteError(w, h.Logger, "API", err, "Failed to delete cart")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
