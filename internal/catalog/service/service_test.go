package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-storefront/internal/apperror"
	catalogdb "ms-storefront/internal/catalog/db"
	catalog "ms-storefront/internal/catalog/service"
	"ms-storefront/internal/database/dbtest"
	"ms-storefront/internal/models"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) *catalog.CatalogService {
	t.Helper()
	svc := catalog.NewCatalogService(catalogdb.New(dbtest.New(t)), nil)
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func TestCreateTeam(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, models.CreateTeamRequest{Name: "  Harbor Hawks ", PublicKey: "pk-1"})
	require.NoError(t, err)
	assert.Equal(t, "Harbor Hawks", team.Name)
	assert.NotEmpty(t, team.ID)

	_, err = svc.CreateTeam(ctx, models.CreateTeamRequest{Name: "Copycats", PublicKey: "pk-1"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = svc.CreateTeam(ctx, models.CreateTeamRequest{Name: " "})
	require.Error(t, err)
	assert.Equal(t, "Team name is required", err.Error())

	found, err := svc.GetTeams(ctx, "pk-1")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, team.ID, found[0].ID)

	_, err = svc.GetTeams(ctx, "pk-unknown")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.CreateTeam(ctx, models.CreateTeamRequest{Name: "No Key FC"})
	require.NoError(t, err)
	all, err := svc.GetTeams(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateEvent_Defaults(t *testing.T) {
	svc := newService(t)

	event, err := svc.CreateEvent(context.Background(), models.EventInput{
		TeamID: "team-1",
		Name:   "Season Opener",
		Venue:  "Pier Arena",
		Date:   "2025-07-01T19:30:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, catalog.DefaultTicketLimit, event.TicketLimit)
	assert.Equal(t, 5.0, event.RoyaltyPercentage)
	assert.Equal(t, fixedNow, event.Onsale)
	assert.Equal(t, event.Date, event.Offsale)
	require.Len(t, event.TicketTypes, 1)
	assert.Equal(t, "General Admission", event.TicketTypes[0].Name)
	assert.Equal(t, 50.0, event.TicketTypes[0].Price)
	assert.Equal(t, 10.0, event.TicketTypes[0].Fees)
	assert.Equal(t, 100, event.TicketTypes[0].Available)

	stored, err := svc.GetEvent(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, stored.TicketTypes, 1)
	assert.Equal(t, event.TicketTypes[0].ID, stored.TicketTypes[0].ID)
}

func TestCreateEvent_Validation(t *testing.T) {
	svc := newService(t)
	negative := -1.0

	tests := []struct {
		name string
		in   models.EventInput
		msg  string
	}{
		{"missing venue", models.EventInput{TeamID: "t", Name: "n", Date: "2025-07-01"},
			"Missing required fields: name, date, venue, and teamId are required"},
		{"bad date", models.EventInput{TeamID: "t", Name: "n", Venue: "v", Date: "soon"}, "Invalid event date"},
		{"offsale first", models.EventInput{TeamID: "t", Name: "n", Venue: "v", Date: "2025-07-01", Onsale: "2025-06-20", Offsale: "2025-06-10"},
			"Offsale must not be before onsale"},
		{"royalty", models.EventInput{TeamID: "t", Name: "n", Venue: "v", Date: "2025-07-01", RoyaltyPercentage: &negative},
			"Royalty percentage must be between 0 and 100"},
		{"ticket type name", models.EventInput{TeamID: "t", Name: "n", Venue: "v", Date: "2025-07-01",
			TicketTypes: []models.TicketTypeInput{{Price: 10}}}, "ticketTypes[0]: name is required"},
		{"negative inventory", models.EventInput{TeamID: "t", Name: "n", Venue: "v", Date: "2025-07-01",
			TicketTypes: []models.TicketTypeInput{{Name: "Floor", Available: -3}}}, "ticketTypes[0]: available must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateEvent(context.Background(), tt.in)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.KindInvalidArgument))
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestListEvents_ByTeamNewestFirst(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, e := range []struct{ team, name, date string }{
		{"team-a", "Early", "2025-07-01"},
		{"team-a", "Late", "2025-09-01"},
		{"team-b", "Other", "2025-08-01"},
	} {
		_, err := svc.CreateEvent(ctx, models.EventInput{TeamID: e.team, Name: e.name, Venue: "v", Date: e.date})
		require.NoError(t, err)
	}

	events, err := svc.ListEvents(ctx, "team-a")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Late", events[0].Name)
	assert.Equal(t, "Early", events[1].Name)
	assert.Len(t, events[0].TicketTypes, 1)

	all, err := svc.ListEvents(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateEvent(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, models.EventInput{TeamID: "t", Name: "Opener", Venue: "Pier", Date: "2025-07-01"})
	require.NoError(t, err)

	updated, err := svc.UpdateEvent(ctx, event.ID, models.EventInput{
		Venue:       "Dock Hall",
		TicketLimit: 4,
		TicketTypes: []models.TicketTypeInput{{Name: "Floor", Price: 80, Fees: 8, Available: 20}, {Name: "Balcony", Price: 40, Available: 50}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Opener", updated.Name)
	assert.Equal(t, "Dock Hall", updated.Venue)

	stored, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.TicketLimit)
	require.Len(t, stored.TicketTypes, 2)
	assert.Equal(t, "Balcony", stored.TicketTypes[0].Name)
	assert.Equal(t, "Floor", stored.TicketTypes[1].Name)

	_, err = svc.UpdateEvent(ctx, "missing", models.EventInput{Name: "x"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestDeleteEvent(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, models.EventInput{TeamID: "t", Name: "Opener", Venue: "Pier", Date: "2025-07-01"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEvent(ctx, event.ID))
	_, err = svc.GetEvent(ctx, event.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = svc.DeleteEvent(ctx, event.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestAvailability(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, models.EventInput{
		TeamID:      "t",
		Name:        "Opener",
		Venue:       "Pier",
		Date:        "2025-07-01",
		Onsale:      "2025-05-01",
		TicketLimit: 4,
		TicketTypes: []models.TicketTypeInput{
			{Name: "Balcony", Price: 40, Fees: 4, Available: 2},
			{Name: "Floor", Price: 80, Fees: 8, Available: 20},
			{Name: "Pit", Price: 120, Fees: 12, Available: 0},
		},
	})
	require.NoError(t, err)

	got, err := svc.Availability(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, got.OnSaleNow)
	assert.Equal(t, 4, got.EventTicketLimit)
	require.Len(t, got.Tickets, 3)

	assert.Equal(t, []int{1, 2}, got.Tickets[0].SellableQuantities)
	assert.Equal(t, []int{1, 2, 3, 4}, got.Tickets[1].SellableQuantities)
	assert.Empty(t, got.Tickets[2].SellableQuantities)
	assert.Equal(t, "USD", got.Tickets[1].Currency)
	assert.Equal(t, 80.0, got.Tickets[1].FaceValue)
	assert.Equal(t, "GA", got.Tickets[1].Section)

	svc.Now = func() time.Time { return time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC) }
	got, err = svc.Availability(ctx, event.ID)
	require.NoError(t, err)
	assert.False(t, got.OnSaleNow)
}
