// Package catalog manages the teams that run events and the events with
// their ticket types. Ticket type inventory is only ever decremented by the
// order service; the catalog creates it and reports on it.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ms-storefront/internal/apperror"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/pricing"
	"ms-storefront/internal/utils"
)

const (
	DefaultTicketLimit = 10
	DefaultCurrency    = "USD"
	defaultSection     = "GA"
)

// CatalogDBLayer persists teams and events. Lookups return nil, nil when the
// row is absent and the boolean results report whether it existed.
type CatalogDBLayer interface {
	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeamByPublicKey(ctx context.Context, publicKey string) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)

	CreateEvent(ctx context.Context, event *models.Event) error
	ListEvents(ctx context.Context, teamID string) ([]models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	UpdateEvent(ctx context.Context, event *models.Event, ticketTypes []models.TicketType) (bool, error)
	DeleteEvent(ctx context.Context, id string) (bool, error)
}

type CatalogService struct {
	DB     CatalogDBLayer
	Logger *logger.Logger
	Now    func() time.Time
}

func NewCatalogService(db CatalogDBLayer, log *logger.Logger) *CatalogService {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogService{DB: db, Logger: log, Now: time.Now}
}

// ---------------- TEAMS ----------------

func (s *CatalogService) CreateTeam(ctx context.Context, req models.CreateTeamRequest) (*models.Team, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.InvalidArgument("Team name is required")
	}

	if req.PublicKey != "" {
		existing, err := s.DB.GetTeamByPublicKey(ctx, req.PublicKey)
		if err != nil {
			return nil, apperror.Internal("Failed to create team", err)
		}
		if existing != nil {
			return nil, apperror.Conflict("Team with this public key already exists")
		}
	}

	team := &models.Team{
		ID:        utils.NewID(),
		Name:      name,
		PublicKey: req.PublicKey,
		CreatedAt: s.Now().UTC(),
	}
	if err := s.DB.CreateTeam(ctx, team); err != nil {
		return nil, apperror.Internal("Failed to create team", err)
	}
	s.Logger.Info("CATALOG", fmt.Sprintf("Created team %s (%s)", team.ID, team.Name))
	return team, nil
}

// GetTeams returns the team holding publicKey, or every team when the key
// is empty.
func (s *CatalogService) GetTeams(ctx context.Context, publicKey string) ([]models.Team, error) {
	if publicKey == "" {
		teams, err := s.DB.ListTeams(ctx)
		if err != nil {
			return nil, apperror.Internal("Failed to fetch teams", err)
		}
		return teams, nil
	}

	team, err := s.DB.GetTeamByPublicKey(ctx, publicKey)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch teams", err)
	}
	if team == nil {
		return nil, apperror.NotFound("Team not found")
	}
	return []models.Team{*team}, nil
}

// ---------------- EVENTS ----------------

// CreateEvent stores the event and its ticket types in one transaction. An
// event created without ticket types gets a single General Admission type.
func (s *CatalogService) CreateEvent(ctx context.Context, in models.EventInput) (*models.Event, error) {
	if in.Name == "" || in.Date == "" || in.Venue == "" || in.TeamID == "" {
		return nil, apperror.InvalidArgument("Missing required fields: name, date, venue, and teamId are required")
	}

	date, err := utils.ParseTime(in.Date)
	if err != nil {
		return nil, apperror.InvalidArgument("Invalid event date")
	}
	onsale := s.Now().UTC()
	if in.Onsale != "" {
		if onsale, err = utils.ParseTime(in.Onsale); err != nil {
			return nil, apperror.InvalidArgument("Invalid onsale date")
		}
	}
	offsale := date
	if in.Offsale != "" {
		if offsale, err = utils.ParseTime(in.Offsale); err != nil {
			return nil, apperror.InvalidArgument("Invalid offsale date")
		}
	}
	if offsale.Before(onsale) {
		return nil, apperror.InvalidArgument("Offsale must not be before onsale")
	}

	event := &models.Event{
		ID:                utils.NewID(),
		TeamID:            in.TeamID,
		Name:              in.Name,
		Venue:             in.Venue,
		Description:       in.Description,
		Image:             in.Image,
		Date:              date,
		Onsale:            onsale,
		Offsale:           offsale,
		TicketLimit:       DefaultTicketLimit,
		RoyaltyPercentage: pricing.DefaultRoyaltyPercentage,
		CreatedAt:         s.Now().UTC(),
	}
	if in.TicketLimit > 0 {
		event.TicketLimit = in.TicketLimit
	}
	if in.RoyaltyPercentage != nil {
		event.RoyaltyPercentage = *in.RoyaltyPercentage
	}
	if event.RoyaltyPercentage < 0 || event.RoyaltyPercentage > 100 {
		return nil, apperror.InvalidArgument("Royalty percentage must be between 0 and 100")
	}

	inputs := in.TicketTypes
	if len(inputs) == 0 {
		inputs = []models.TicketTypeInput{{Name: "General Admission", Price: 50, Fees: 10, Available: 100}}
	}
	if event.TicketTypes, err = buildTicketTypes(event.ID, inputs); err != nil {
		return nil, err
	}

	if err := s.DB.CreateEvent(ctx, event); err != nil {
		return nil, apperror.Internal("Failed to create event", err)
	}
	s.Logger.Info("CATALOG", fmt.Sprintf("Created event %s for team %s with %d ticket types", event.ID, event.TeamID, len(event.TicketTypes)))
	return event, nil
}

func (s *CatalogService) ListEvents(ctx context.Context, teamID string) ([]models.Event, error) {
	events, err := s.DB.ListEvents(ctx, teamID)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch events", err)
	}
	return events, nil
}

func (s *CatalogService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	if id == "" {
		return nil, apperror.InvalidArgument("Event ID is required")
	}
	event, err := s.DB.GetEvent(ctx, id)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch event", err)
	}
	if event == nil {
		return nil, apperror.NotFound("Event not found")
	}
	return event, nil
}

// UpdateEvent applies the non-empty fields of in. When in carries ticket
// types they replace the existing set.
func (s *CatalogService) UpdateEvent(ctx context.Context, id string, in models.EventInput) (*models.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		event.Name = in.Name
	}
	if in.Venue != "" {
		event.Venue = in.Venue
	}
	if in.Description != "" {
		event.Description = in.Description
	}
	if in.Image != "" {
		event.Image = in.Image
	}
	for _, f := range []struct {
		value string
		dst   *time.Time
		msg   string
	}{
		{in.Date, &event.Date, "Invalid event date"},
		{in.Onsale, &event.Onsale, "Invalid onsale date"},
		{in.Offsale, &event.Offsale, "Invalid offsale date"},
	} {
		if f.value == "" {
			continue
		}
		if *f.dst, err = utils.ParseTime(f.value); err != nil {
			return nil, apperror.InvalidArgument(f.msg)
		}
	}
	if event.Offsale.Before(event.Onsale) {
		return nil, apperror.InvalidArgument("Offsale must not be before onsale")
	}
	if in.TicketLimit > 0 {
		event.TicketLimit = in.TicketLimit
	}
	if in.RoyaltyPercentage != nil {
		if *in.RoyaltyPercentage < 0 || *in.RoyaltyPercentage > 100 {
			return nil, apperror.InvalidArgument("Royalty percentage must be between 0 and 100")
		}
		event.RoyaltyPercentage = *in.RoyaltyPercentage
	}

	var ticketTypes []models.TicketType
	if len(in.TicketTypes) > 0 {
		if ticketTypes, err = buildTicketTypes(event.ID, in.TicketTypes); err != nil {
			return nil, err
		}
	}

	found, err := s.DB.UpdateEvent(ctx, event, ticketTypes)
	if err != nil {
		return nil, apperror.Internal("Failed to update event", err)
	}
	if !found {
		return nil, apperror.NotFound("Event not found")
	}
	if ticketTypes != nil {
		event.TicketTypes = ticketTypes
	}
	s.Logger.Info("CATALOG", fmt.Sprintf("Updated event %s", event.ID))
	return event, nil
}

func (s *CatalogService) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return apperror.InvalidArgument("Event ID is required")
	}
	found, err := s.DB.DeleteEvent(ctx, id)
	if err != nil {
		return apperror.Internal("Failed to delete event", err)
	}
	if !found {
		return apperror.NotFound("Event not found")
	}
	s.Logger.Info("CATALOG", fmt.Sprintf("Deleted event %s", id))
	return nil
}

// Availability reports what each ticket type still has on sale. A buyer may
// pick between one unit and the lesser of the event limit and the remaining
// inventory.
func (s *CatalogService) Availability(ctx context.Context, id string) (*models.EventAvailability, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	out := &models.EventAvailability{
		EventID:          event.ID,
		EventTicketLimit: event.TicketLimit,
		Onsale:           event.Onsale,
		Offsale:          event.Offsale,
		EventDateTime:    event.Date,
		OnSaleNow:        !now.Before(event.Onsale) && now.Before(event.Offsale),
		Tickets:          make([]models.TicketOffer, 0, len(event.TicketTypes)),
	}
	for _, tt := range event.TicketTypes {
		out.Tickets = append(out.Tickets, models.TicketOffer{
			TicketTypeID:       tt.ID,
			Name:               tt.Name,
			Currency:           DefaultCurrency,
			FaceValue:          tt.Price,
			Fees:               tt.Fees,
			Available:          tt.Available,
			SellableQuantities: sellable(event.TicketLimit, tt.Available),
			Section:            defaultSection,
		})
	}
	return out, nil
}

func buildTicketTypes(eventID string, inputs []models.TicketTypeInput) ([]models.TicketType, error) {
	types := make([]models.TicketType, 0, len(inputs))
	for i, in := range inputs {
		if strings.TrimSpace(in.Name) == "" {
			return nil, apperror.InvalidArgument(fmt.Sprintf("ticketTypes[%d]: name is required", i))
		}
		if in.Price < 0 || in.Fees < 0 {
			return nil, apperror.InvalidArgument(fmt.Sprintf("ticketTypes[%d]: price and fees must not be negative", i))
		}
		if in.Available < 0 {
			return nil, apperror.InvalidArgument(fmt.Sprintf("ticketTypes[%d]: available must not be negative", i))
		}
		types = append(types, models.TicketType{
			ID:        utils.NewID(),
			EventID:   eventID,
			Name:      strings.TrimSpace(in.Name),
			Price:     in.Price,
			Fees:      in.Fees,
			Available: in.Available,
		})
	}
	return types, nil
}

func sellable(limit, available int) []int {
	n := limit
	if available < n {
		n = available
	}
	quantities := make([]int, 0, n)
	for q := 1; q <= n; q++ {
		quantities = append(quantities, q)
	}
	return quantities
}
