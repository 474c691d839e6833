package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-storefront/internal/apperror"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	qr "ms-storefront/internal/tickets/qr_generator"
	"ms-storefront/internal/utils"
)

type TicketDBLayer interface {
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	GetTicketByID(ctx context.Context, ticketID string) (*models.Ticket, error)
	GetTicketsByOwner(ctx context.Context, ownerID string) ([]models.Ticket, error)
	GetTicketsByEvent(ctx context.Context, eventID string) ([]models.Ticket, error)
}

type TicketService struct {
	DB          TicketDBLayer
	QRGenerator *qr.QRGenerator
	Logger      *logger.Logger
}

func NewTicketService(db TicketDBLayer, qrGen *qr.QRGenerator, log *logger.Logger) *TicketService {
	if log == nil {
		log = logger.Nop()
	}
	return &TicketService{DB: db, QRGenerator: qrGen, Logger: log}
}

// CreateTicket mints a ticket directly, outside any checkout.
func (s *TicketService) CreateTicket(ctx context.Context, req models.CreateTicketRequest) (*models.Ticket, error) {
	if req.EventID == "" || req.TicketTypeID == "" || req.OwnerID == "" ||
		req.Section == "" || req.Row == "" || req.Price == nil {
		return nil, apperror.InvalidArgument("Missing required fields")
	}
	if *req.Price < 0 {
		return nil, apperror.InvalidArgument("Price must not be negative")
	}

	ticket := &models.Ticket{
		ID:           utils.NewID(),
		EventID:      req.EventID,
		TicketTypeID: req.TicketTypeID,
		OwnerID:      req.OwnerID,
		Section:      req.Section,
		Row:          req.Row,
		Seat:         req.Seat,
		Price:        *req.Price,
		OrderID:      req.OrderID,
		PurchaseDate: time.Now().UTC(),
	}
	if ticket.OrderID == "" {
		ticket.OrderID = utils.GenerateOrderID()
	}

	if err := s.DB.CreateTicket(ctx, ticket); err != nil {
		return nil, apperror.Internal("Failed to create ticket", err)
	}
	s.Logger.Info("TICKET", fmt.Sprintf("Created ticket %s for %s", ticket.ID, ticket.OwnerID))
	return ticket, nil
}

func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*models.Ticket, error) {
	ticket, err := s.DB.GetTicketByID(ctx, ticketID)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch ticket", err)
	}
	if ticket == nil {
		return nil, apperror.NotFound("Ticket not found")
	}
	return ticket, nil
}

// ListTickets filters by owner when given, otherwise by event.
func (s *TicketService) ListTickets(ctx context.Context, ownerID, eventID string) ([]models.Ticket, error) {
	var (
		tickets []models.Ticket
		err     error
	)
	switch {
	case ownerID != "":
		tickets, err = s.DB.GetTicketsByOwner(ctx, ownerID)
	case eventID != "":
		tickets, err = s.DB.GetTicketsByEvent(ctx, eventID)
	default:
		return nil, apperror.InvalidArgument("Owner ID or event ID is required")
	}
	if err != nil {
		return nil, apperror.Internal("Failed to fetch tickets", err)
	}
	return tickets, nil
}

func (s *TicketService) claimFor(ctx context.Context, ticketID string) (models.TicketClaim, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return models.TicketClaim{}, err
	}
	return models.TicketClaim{
		TicketID: ticket.ID,
		EventID:  ticket.EventID,
		OwnerID:  ticket.OwnerID,
		IssuedAt: time.Now().UTC(),
	}, nil
}

// TicketCode returns the encrypted claim that the ticket's QR code carries.
func (s *TicketService) TicketCode(ctx context.Context, ticketID string) (string, error) {
	claim, err := s.claimFor(ctx, ticketID)
	if err != nil {
		return "", err
	}
	code, err := s.QRGenerator.EncryptClaim(claim)
	if err != nil {
		return "", apperror.Internal("Failed to generate ticket code", err)
	}
	return code, nil
}

// TicketQR renders the ticket's encrypted claim as a PNG.
func (s *TicketService) TicketQR(ctx context.Context, ticketID string) ([]byte, error) {
	claim, err := s.claimFor(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	img, err := s.QRGenerator.GenerateEncryptedQR(claim)
	if err != nil {
		return nil, apperror.Internal("Failed to generate QR code", err)
	}
	return img, nil
}

// VerifyCode decrypts a scanned code and checks it against the current
// holder of the ticket. A resold ticket invalidates codes issued to the
// previous owner.
func (s *TicketService) VerifyCode(ctx context.Context, code string) (*models.TicketVerification, error) {
	if code == "" {
		return nil, apperror.InvalidArgument("Code is required")
	}

	claim, err := s.QRGenerator.DecryptClaim(code)
	if err != nil {
		if errors.Is(err, qr.ErrInvalidCode) {
			return nil, apperror.InvalidArgument("Invalid ticket code")
		}
		return nil, apperror.Internal("Failed to verify ticket code", err)
	}

	ticket, err := s.GetTicket(ctx, claim.TicketID)
	if err != nil {
		return nil, err
	}

	result := &models.TicketVerification{Valid: true, Claim: *claim, Ticket: ticket}
	switch {
	case ticket.EventID != claim.EventID:
		result.Valid = false
		result.Reason = "Ticket belongs to a different event"
	case ticket.OwnerID != claim.OwnerID:
		result.Valid = false
		result.Reason = "Ticket has changed owner"
	}
	s.Logger.Info("TICKET", fmt.Sprintf("Verified ticket %s: valid=%t", ticket.ID, result.Valid))
	return result, nil
}
