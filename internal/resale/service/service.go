package resale

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-storefront/internal/apperror"
	"ms-storefront/internal/kafka"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/pricing"
	resaledb "ms-storefront/internal/resale/db"
	"ms-storefront/internal/utils"
)

type ResaleDBLayer interface {
	GetTicket(ctx context.Context, ticketID string) (*models.Ticket, error)
	CreateListing(ctx context.Context, listing *models.ResaleTicket) error
	ListByEvent(ctx context.Context, eventID string) ([]models.ResaleTicket, error)
	CancelListing(ctx context.Context, id string) (*models.ResaleTicket, error)
}

type EventPublisher interface {
	PublishResaleListed(ctx context.Context, ev kafka.ResaleListedEvent) error
	PublishResaleCancelled(ctx context.Context, ev kafka.ResaleCancelledEvent) error
}

type ResaleService struct {
	DB     ResaleDBLayer
	Events EventPublisher
	Logger *logger.Logger
}

func NewResaleService(db ResaleDBLayer, events EventPublisher, log *logger.Logger) *ResaleService {
	if log == nil {
		log = logger.Nop()
	}
	return &ResaleService{DB: db, Events: events, Logger: log}
}

// CreateListing offers a ticket for resale. Fees the seller does not supply
// are derived from the asking price.
func (s *ResaleService) CreateListing(ctx context.Context, req models.ResaleListingRequest) (*models.ResaleTicket, error) {
	if req.TicketID == "" {
		return nil, apperror.InvalidArgument("Ticket ID is required")
	}
	if req.Price <= 0 {
		return nil, apperror.InvalidArgument("Price must be greater than zero")
	}

	ticket, err := s.DB.GetTicket(ctx, req.TicketID)
	if err != nil {
		return nil, apperror.Internal("Failed to create resale listing", err)
	}
	if ticket == nil {
		return nil, apperror.NotFound("Ticket not found")
	}
	if ticket.IsListed {
		return nil, apperror.Conflict("Ticket is already listed for resale")
	}

	royaltyPct := valueOr(req.RoyaltyPercentage, pricing.DefaultRoyaltyPercentage)
	listing := &models.ResaleTicket{
		ID:                utils.NewID(),
		TicketID:          ticket.ID,
		EventID:           ticket.EventID,
		Price:             req.Price,
		OriginalPrice:     valueOr(req.OriginalPrice, ticket.Price),
		RoyaltyPercentage: royaltyPct,
		RoyaltyFee:        valueOr(req.RoyaltyFee, pricing.RoyaltyFee(req.Price, royaltyPct)),
		ServiceFee:        valueOr(req.ServiceFee, pricing.ServiceFee(req.Price)),
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.DB.CreateListing(ctx, listing); err != nil {
		if errors.Is(err, resaledb.ErrAlreadyListed) {
			return nil, apperror.Conflict("Ticket is already listed for resale")
		}
		return nil, apperror.Internal("Failed to create resale listing", err)
	}
	s.Logger.Info("RESALE", fmt.Sprintf("Listed ticket %s for %.2f", listing.TicketID, listing.Price))

	if s.Events != nil {
		if err := s.Events.PublishResaleListed(ctx, kafka.ResaleListedEvent{
			ResaleID: listing.ID,
			TicketID: listing.TicketID,
			EventID:  listing.EventID,
			Price:    listing.Price,
			ListedAt: listing.CreatedAt,
		}); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Kafka publish error (resale listed %s): %v", listing.ID, err))
		}
	}

	listing.Ticket = ticket
	listing.Ticket.IsListed = true
	return listing, nil
}

func (s *ResaleService) ListByEvent(ctx context.Context, eventID string) ([]models.ResaleTicket, error) {
	if eventID == "" {
		return nil, apperror.InvalidArgument("Event ID is required")
	}
	listings, err := s.DB.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch resale tickets", err)
	}
	return listings, nil
}

// CancelListing withdraws a listing and hands the ticket back to its owner
// unlisted.
func (s *ResaleService) CancelListing(ctx context.Context, id string) error {
	if id == "" {
		return apperror.InvalidArgument("Resale ID is required")
	}
	listing, err := s.DB.CancelListing(ctx, id)
	if err != nil {
		return apperror.Internal("Failed to cancel resale listing", err)
	}
	if listing == nil {
		return apperror.NotFound("Resale listing not found")
	}
	s.Logger.Info("RESALE", fmt.Sprintf("Cancelled listing %s for ticket %s", listing.ID, listing.TicketID))

	if s.Events != nil {
		if err := s.Events.PublishResaleCancelled(ctx, kafka.ResaleCancelledEvent{
			ResaleID:    listing.ID,
			TicketID:    listing.TicketID,
			EventID:     listing.EventID,
			CancelledAt: time.Now().UTC(),
		}); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Kafka publish error (resale cancelled %s): %v", listing.ID, err))
		}
	}
	return nil
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
