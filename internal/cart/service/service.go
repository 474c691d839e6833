package cart

import (
	"context"
	"fmt"
	"time"

	"ms-storefront/internal/apperror"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/utils"
)

// CartDBLayer persists carts. Get returns nil, nil for an unknown cart and
// the boolean results report whether the cart existed.
type CartDBLayer interface {
	GetCart(ctx context.Context, cartID string) (*models.Cart, error)
	CreateCart(ctx context.Context, cart *models.Cart) error
	ReplaceItems(ctx context.Context, cartID string, items []models.CartItem) (bool, error)
	DeleteCart(ctx context.Context, cartID string) (bool, error)
}

type CartService struct {
	DB     CartDBLayer
	Logger *logger.Logger
}

func NewCartService(db CartDBLayer, log *logger.Logger) *CartService {
	if log == nil {
		log = logger.Nop()
	}
	return &CartService{DB: db, Logger: log}
}

func (s *CartService) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	if cartID == "" {
		return nil, apperror.InvalidArgument("Cart ID is required")
	}
	cart, err := s.DB.GetCart(ctx, cartID)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch cart", err)
	}
	if cart == nil {
		return nil, apperror.NotFound("Cart not found")
	}
	return cart, nil
}

func (s *CartService) CreateCart(ctx context.Context, req models.CreateCartRequest) (*models.Cart, error) {
	if req.TeamID == "" {
		return nil, apperror.InvalidArgument("Team ID is required")
	}

	cart := &models.Cart{
		ID:        utils.NewID(),
		TeamID:    req.TeamID,
		CreatedAt: time.Now().UTC(),
	}
	items, err := buildItems(cart.ID, req.Items)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	if err := s.DB.CreateCart(ctx, cart); err != nil {
		return nil, apperror.Internal("Failed to create cart", err)
	}
	s.Logger.Info("CART", fmt.Sprintf("Created cart %s for team %s with %d items", cart.ID, cart.TeamID, len(items)))
	return cart, nil
}

// UpdateCart replaces every item of the cart in one transaction.
func (s *CartService) UpdateCart(ctx context.Context, req models.UpdateCartRequest) (*models.Cart, error) {
	if req.CartID == "" {
		return nil, apperror.InvalidArgument("Cart ID is required")
	}
	items, err := buildItems(req.CartID, req.Items)
	if err != nil {
		return nil, err
	}

	found, err := s.DB.ReplaceItems(ctx, req.CartID, items)
	if err != nil {
		return nil, apperror.Internal("Failed to update cart", err)
	}
	if !found {
		return nil, apperror.NotFound("Cart not found")
	}
	return s.GetCart(ctx, req.CartID)
}

func (s *CartService) DeleteCart(ctx context.Context, cartID string) error {
	if cartID == "" {
		return apperror.InvalidArgument("Cart ID is required")
	}
	found, err := s.DB.DeleteCart(ctx, cartID)
	if err != nil {
		return apperror.Internal("Failed to delete cart", err)
	}
	if !found {
		return apperror.NotFound("Cart not found")
	}
	s.Logger.Info("CART", fmt.Sprintf("Deleted cart %s", cartID))
	return nil
}

func buildItems(cartID string, inputs []models.CartItemInput) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0, len(inputs))
	for i, in := range inputs {
		if in.EventID == "" || in.TicketTypeID == "" {
			return nil, apperror.InvalidArgument(fmt.Sprintf("Item %d: event ID and ticket type ID are required", i+1))
		}
		if in.Quantity < 1 {
			return nil, apperror.InvalidArgument(fmt.Sprintf("Item %d: quantity must be at least 1", i+1))
		}
		if in.Price < 0 || in.Fees < 0 {
			return nil, apperror.InvalidArgument(fmt.Sprintf("Item %d: price and fees must not be negative", i+1))
		}
		if in.IsResale && in.ResaleID == "" {
			return nil, apperror.InvalidArgument(fmt.Sprintf("Item %d: resale items need a resale ID", i+1))
		}

		seats := in.Seats
		if seats == nil {
			seats = []int{}
		}
		items = append(items, models.CartItem{
			ID:           utils.NewID(),
			CartID:       cartID,
			Position:     i,
			EventID:      in.EventID,
			TicketTypeID: in.TicketTypeID,
			Quantity:     in.Quantity,
			Price:        in.Price,
			Fees:         in.Fees,
			Section:      orDefault(in.Section),
			Row:          orDefault(in.Row),
			Seats:        seats,
			IsResale:     in.IsResale,
			ResaleID:     in.ResaleID,
		})
	}
	return items, nil
}

func orDefault(v string) string {
	if v == "" {
		return models.DefaultPlacement
	}
	return v
}
