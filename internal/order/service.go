package order

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ms-storefront/internal/apperror"
	"ms-storefront/internal/kafka"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/pricing"
	"ms-storefront/internal/utils"
)

var tracer = otel.Tracer("ms-storefront/internal/order")

// Store opens atomic units over the storefront tables and serves the
// read-only order lookups.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx TxStore) error) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetTicketsByOrder(ctx context.Context, orderID string) ([]models.Ticket, error)
}

// TxStore is the set of operations available inside one atomic unit.
// Lookups return nil, nil when the row does not exist.
type TxStore interface {
	GetCart(ctx context.Context, cartID string) (*models.Cart, error)
	DeleteCart(ctx context.Context, cartID string) (bool, error)
	GetResaleTicket(ctx context.Context, id string) (*models.ResaleTicket, error)
	// DeleteResaleTicket reports whether this call removed the listing.
	DeleteResaleTicket(ctx context.Context, id string) (bool, error)
	TransferTicket(ctx context.Context, ticketID, ownerID string, price float64, orderID string) (bool, error)
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	GetTicketType(ctx context.Context, id string) (*models.TicketType, error)
	// DecrementAvailable takes one unit of inventory. It reports false when
	// the type is absent or sold out.
	DecrementAvailable(ctx context.Context, ticketTypeID string) (bool, error)
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	CreateOrder(ctx context.Context, order *models.Order) error
}

// CartLocker serialises checkouts of the same cart across instances.
type CartLocker interface {
	LockCart(ctx context.Context, cartID, token string) (bool, error)
	UnlockCart(ctx context.Context, cartID, token string) error
}

type EventPublisher interface {
	PublishOrderCompleted(ctx context.Context, ev kafka.OrderCompletedEvent) error
	PublishTicketResold(ctx context.Context, ev kafka.TicketResoldEvent) error
}

type Options struct {
	// TotalFromIssued charges only for tickets actually issued.
	TotalFromIssued bool
}

type OrderService struct {
	Store   Store
	Lock    CartLocker
	Events  EventPublisher
	Logger  *logger.Logger
	Options Options
}

// NewOrderService wires the checkout service. lock and events may be nil.
func NewOrderService(store Store, lock CartLocker, events EventPublisher, log *logger.Logger, opts Options) *OrderService {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderService{Store: store, Lock: lock, Events: events, Logger: log, Options: opts}
}

// ---------------- CHECKOUT ----------------

// Checkout converts a cart into tickets and one completed order in a single
// transaction. Units that cannot be fulfilled are skipped; the result
// reports how many were requested and issued.
func (s *OrderService) Checkout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResult, error) {
	if req.CartID == "" {
		return nil, apperror.InvalidArgument("Cart ID is required")
	}
	if req.TeamID == "" {
		return nil, apperror.InvalidArgument("Team ID is required")
	}

	ctx, span := tracer.Start(ctx, "order.Checkout", trace.WithAttributes(
		attribute.String("cart.id", req.CartID),
		attribute.String("team.id", req.TeamID),
	))
	defer span.End()

	orderID := utils.GenerateOrderID()
	span.SetAttributes(attribute.String("order.id", orderID))

	release, err := s.lockCart(ctx, req.CartID, orderID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	defer release()

	var (
		result   models.CheckoutResult
		transfer []kafka.TicketResoldEvent
	)
	err = s.Store.RunInTx(ctx, func(ctx context.Context, tx TxStore) error {
		cart, err := tx.GetCart(ctx, req.CartID)
		if err != nil {
			return fmt.Errorf("load cart %s: %w", req.CartID, err)
		}
		// A cart is only visible to the team that owns it.
		if cart == nil || cart.TeamID != req.TeamID {
			return apperror.NotFound("Cart not found")
		}

		issued := make([]int, len(cart.Items))
		var ticketIDs []string
		requested := 0
		transfer = nil

		for idx, item := range cart.Items {
			requested += item.Quantity
			for i := 0; i < item.Quantity; i++ {
				var (
					ticketID string
					resold   *kafka.TicketResoldEvent
				)
				if item.IsResale && item.ResaleID != "" {
					ticketID, resold, err = s.issueResale(ctx, tx, item.ResaleID, req.TeamID, orderID)
				} else {
					ticketID, err = s.issuePrimary(ctx, tx, item, i, req.TeamID, orderID)
				}
				if err != nil {
					return err
				}
				if ticketID == "" {
					s.Logger.LogCheckout("SKIP", orderID, fmt.Sprintf("item %s unit %d could not be fulfilled", item.ID, i+1))
					continue
				}
				issued[idx]++
				ticketIDs = append(ticketIDs, ticketID)
				if resold != nil {
					transfer = append(transfer, *resold)
				}
			}
		}

		total := pricing.CartTotal(cart.Items)
		if s.Options.TotalFromIssued {
			total = pricing.IssuedTotal(cart.Items, issued)
		}

		order := &models.Order{
			ID:               orderID,
			TeamID:           req.TeamID,
			Total:            total,
			Status:           models.OrderStatusCompleted,
			TicketsRequested: requested,
			TicketsIssued:    len(ticketIDs),
			CreatedAt:        time.Now().UTC(),
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order %s: %w", orderID, err)
		}
		// A concurrent checkout of the same cart that committed first leaves
		// nothing to delete; this one must roll back.
		deleted, err := tx.DeleteCart(ctx, req.CartID)
		if err != nil {
			return fmt.Errorf("delete cart %s: %w", req.CartID, err)
		}
		if !deleted {
			return apperror.Conflict("Cart is already being checked out")
		}

		result = models.CheckoutResult{Order: *order, TicketIDs: ticketIDs}
		return nil
	})
	if err != nil {
		err = classify(err, "Failed to process checkout")
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("tickets.requested", result.Order.TicketsRequested),
		attribute.Int("tickets.issued", result.Order.TicketsIssued),
	)
	s.Logger.LogCheckout("COMMIT", orderID, fmt.Sprintf("%d of %d tickets issued, total %.2f",
		result.Order.TicketsIssued, result.Order.TicketsRequested, result.Order.Total))

	s.publishCheckout(ctx, result, transfer)
	return &result, nil
}

// issuePrimary takes one unit of inventory and mints a ticket for it. An
// empty id means the type is absent or sold out.
func (s *OrderService) issuePrimary(ctx context.Context, tx TxStore, item models.CartItem, unit int, ownerID, orderID string) (string, error) {
	ok, err := tx.DecrementAvailable(ctx, item.TicketTypeID)
	if err != nil {
		return "", fmt.Errorf("decrement ticket type %s: %w", item.TicketTypeID, err)
	}
	if !ok {
		return "", nil
	}

	ticket := &models.Ticket{
		ID:           utils.NewID(),
		EventID:      item.EventID,
		TicketTypeID: item.TicketTypeID,
		OwnerID:      ownerID,
		Section:      placement(item.Section),
		Row:          placement(item.Row),
		Seat:         seatAt(item.Seats, unit),
		Price:        item.Price,
		OrderID:      orderID,
		PurchaseDate: time.Now().UTC(),
	}
	if err := tx.CreateTicket(ctx, ticket); err != nil {
		return "", fmt.Errorf("create ticket: %w", err)
	}
	return ticket.ID, nil
}

// issueResale consumes a listing and moves its ticket to the buyer. An
// empty id means the listing no longer exists.
func (s *OrderService) issueResale(ctx context.Context, tx TxStore, resaleID, ownerID, orderID string) (string, *kafka.TicketResoldEvent, error) {
	listing, err := tx.GetResaleTicket(ctx, resaleID)
	if err != nil {
		return "", nil, fmt.Errorf("load resale ticket %s: %w", resaleID, err)
	}
	if listing == nil || listing.Ticket == nil || listing.Ticket.ID == "" {
		return "", nil, nil
	}

	ok, err := s.consumeListing(ctx, tx, listing, ownerID, orderID)
	if err != nil || !ok {
		return "", nil, err
	}

	return listing.TicketID, &kafka.TicketResoldEvent{
		TicketID:   listing.TicketID,
		ResaleID:   listing.ID,
		EventID:    listing.EventID,
		NewOwnerID: ownerID,
		Price:      listing.Price,
		OrderID:    orderID,
		ResoldAt:   time.Now().UTC(),
	}, nil
}

// consumeListing deletes the listing and transfers the ticket in place. It
// reports false when another buyer consumed the listing first.
func (s *OrderService) consumeListing(ctx context.Context, tx TxStore, listing *models.ResaleTicket, ownerID, orderID string) (bool, error) {
	deleted, err := tx.DeleteResaleTicket(ctx, listing.ID)
	if err != nil {
		return false, fmt.Errorf("delete resale ticket %s: %w", listing.ID, err)
	}
	if !deleted {
		return false, nil
	}

	moved, err := tx.TransferTicket(ctx, listing.TicketID, ownerID, listing.Price, orderID)
	if err != nil {
		return false, fmt.Errorf("transfer ticket %s: %w", listing.TicketID, err)
	}
	if !moved {
		return false, fmt.Errorf("transfer ticket %s: ticket vanished", listing.TicketID)
	}
	return true, nil
}

func (s *OrderService) lockCart(ctx context.Context, cartID, token string) (func(), error) {
	if s.Lock == nil {
		return func() {}, nil
	}

	ok, err := s.Lock.LockCart(ctx, cartID, token)
	if err != nil {
		return nil, apperror.Internal("Failed to process checkout", err)
	}
	if !ok {
		return nil, apperror.Conflict("Cart is already being checked out")
	}

	return func() {
		// The request context may be cancelled by now.
		if err := s.Lock.UnlockCart(context.Background(), cartID, token); err != nil {
			s.Logger.Warn("REDIS", fmt.Sprintf("Failed to release cart %s: %v", cartID, err))
		}
	}, nil
}

func (s *OrderService) publishCheckout(ctx context.Context, result models.CheckoutResult, resold []kafka.TicketResoldEvent) {
	if s.Events == nil {
		return
	}

	err := s.Events.PublishOrderCompleted(ctx, kafka.OrderCompletedEvent{
		OrderID:          result.Order.ID,
		TeamID:           result.Order.TeamID,
		Total:            result.Order.Total,
		TicketIDs:        result.TicketIDs,
		TicketsRequested: result.Order.TicketsRequested,
		TicketsIssued:    result.Order.TicketsIssued,
		CompletedAt:      result.Order.CreatedAt,
	})
	if err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Kafka publish error (order completed %s): %v", result.Order.ID, err))
	}
	for _, ev := range resold {
		s.publishResold(ctx, ev)
	}
}

func (s *OrderService) publishResold(ctx context.Context, ev kafka.TicketResoldEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishTicketResold(ctx, ev); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Kafka publish error (ticket resold %s): %v", ev.TicketID, err))
	}
}

// ---------------- PURCHASE ----------------

// Purchase issues exactly one ticket, either from a resale listing or from
// a ticket type's inventory.
func (s *OrderService) Purchase(ctx context.Context, req models.PurchaseRequest) (*models.PurchaseResult, error) {
	ctx, span := tracer.Start(ctx, "order.Purchase", trace.WithAttributes(
		attribute.Bool("purchase.resale", req.ResaleTicketID != ""),
	))
	defer span.End()

	var (
		result *models.PurchaseResult
		err    error
	)
	if req.ResaleTicketID != "" {
		result, err = s.purchaseResale(ctx, req)
	} else {
		result, err = s.purchasePrimary(ctx, req)
	}
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("order.id", result.OrderID), attribute.String("ticket.id", result.Ticket.ID))
	return result, nil
}

func (s *OrderService) purchaseResale(ctx context.Context, req models.PurchaseRequest) (*models.PurchaseResult, error) {
	if req.OwnerID == "" {
		return nil, apperror.InvalidArgument("Owner ID is required")
	}

	orderID := utils.GenerateOrderID()
	var (
		result models.PurchaseResult
		resold kafka.TicketResoldEvent
	)
	err := s.Store.RunInTx(ctx, func(ctx context.Context, tx TxStore) error {
		listing, err := tx.GetResaleTicket(ctx, req.ResaleTicketID)
		if err != nil {
			return fmt.Errorf("load resale ticket %s: %w", req.ResaleTicketID, err)
		}
		if listing == nil || listing.Ticket == nil || listing.Ticket.ID == "" {
			return apperror.NotFound("Resale ticket not found")
		}

		ok, err := s.consumeListing(ctx, tx, listing, req.OwnerID, orderID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NotFound("Resale ticket not found")
		}

		ticket, err := tx.GetTicket(ctx, listing.TicketID)
		if err != nil {
			return fmt.Errorf("reload ticket %s: %w", listing.TicketID, err)
		}
		if ticket == nil {
			return fmt.Errorf("reload ticket %s: not found", listing.TicketID)
		}

		result = models.PurchaseResult{OrderID: orderID, Ticket: *ticket}
		resold = kafka.TicketResoldEvent{
			TicketID:   listing.TicketID,
			ResaleID:   listing.ID,
			EventID:    listing.EventID,
			NewOwnerID: req.OwnerID,
			Price:      listing.Price,
			OrderID:    orderID,
			ResoldAt:   time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, "Failed to process purchase")
	}

	s.Logger.LogCheckout("RESALE", orderID, fmt.Sprintf("ticket %s transferred to %s", result.Ticket.ID, req.OwnerID))
	s.publishResold(ctx, resold)
	return &result, nil
}

func (s *OrderService) purchasePrimary(ctx context.Context, req models.PurchaseRequest) (*models.PurchaseResult, error) {
	if req.EventID == "" || req.TicketTypeID == "" || req.OwnerID == "" {
		return nil, apperror.InvalidArgument("Event ID, ticket type ID and owner ID are required")
	}

	orderID := utils.GenerateOrderID()
	var result models.PurchaseResult
	err := s.Store.RunInTx(ctx, func(ctx context.Context, tx TxStore) error {
		ticketType, err := tx.GetTicketType(ctx, req.TicketTypeID)
		if err != nil {
			return fmt.Errorf("load ticket type %s: %w", req.TicketTypeID, err)
		}
		if ticketType == nil {
			return apperror.NotFound("Ticket type not found")
		}
		if ticketType.EventID != req.EventID {
			return apperror.InvalidArgument("Ticket type does not belong to this event")
		}

		ok, err := tx.DecrementAvailable(ctx, ticketType.ID)
		if err != nil {
			return fmt.Errorf("decrement ticket type %s: %w", ticketType.ID, err)
		}
		if !ok {
			return apperror.Conflict("Tickets sold out")
		}

		ticket := models.Ticket{
			ID:           utils.NewID(),
			EventID:      req.EventID,
			TicketTypeID: ticketType.ID,
			OwnerID:      req.OwnerID,
			Section:      placement(req.Section),
			Row:          placement(req.Row),
			Seat:         seatAt(req.Seats, 0),
			Price:        ticketType.Price,
			OrderID:      orderID,
			PurchaseDate: time.Now().UTC(),
		}
		if err := tx.CreateTicket(ctx, &ticket); err != nil {
			return fmt.Errorf("create ticket: %w", err)
		}

		result = models.PurchaseResult{OrderID: orderID, Ticket: ticket}
		return nil
	})
	if err != nil {
		return nil, classify(err, "Failed to process purchase")
	}

	s.Logger.LogCheckout("PURCHASE", orderID, fmt.Sprintf("ticket %s issued to %s", result.Ticket.ID, req.OwnerID))
	return &result, nil
}

// ---------------- ORDERS ----------------

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.OrderWithTickets, error) {
	if id == "" {
		return nil, apperror.InvalidArgument("Order ID is required")
	}

	order, err := s.Store.GetOrder(ctx, id)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch order", err)
	}
	if order == nil {
		return nil, apperror.NotFound("Order not found")
	}

	tickets, err := s.Store.GetTicketsByOrder(ctx, id)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch order tickets", err)
	}
	return &models.OrderWithTickets{Order: *order, Tickets: tickets}, nil
}

// classify keeps classified errors and turns everything else into Internal.
func classify(err error, msg string) error {
	if apperror.KindOf(err) == apperror.KindInternal {
		return apperror.Internal(msg, err)
	}
	return err
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func placement(v string) string {
	if v == "" {
		return models.DefaultPlacement
	}
	return v
}

func seatAt(seats []int, i int) *int {
	if i < 0 || i >= len(seats) {
		return nil
	}
	seat := seats[i]
	return &seat
}
