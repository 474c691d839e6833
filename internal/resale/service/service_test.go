package resale_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"ms-storefront/internal/apperror"
	"ms-storefront/internal/database/dbtest"
	"ms-storefront/internal/kafka"
	"ms-storefront/internal/models"
	resaledb "ms-storefront/internal/resale/db"
	resale "ms-storefront/internal/resale/service"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishResaleListed(ctx context.Context, ev kafka.ResaleListedEvent) error {
	return m.Called(ev).Error(0)
}

func (m *MockEventPublisher) PublishResaleCancelled(ctx context.Context, ev kafka.ResaleCancelledEvent) error {
	return m.Called(ev).Error(0)
}

func seedTicket(t *testing.T, db *bun.DB, id string, price float64) {
	t.Helper()
	_, err := db.NewInsert().Model(&models.Ticket{
		ID: id, EventID: "event-1", TicketTypeID: "tt-1", OwnerID: "seller",
		Section: "GA", Row: "GA", Price: price, OrderID: "ORD-1", PurchaseDate: time.Now().UTC(),
	}).Exec(context.Background())
	require.NoError(t, err)
}

func loadTicket(t *testing.T, db *bun.DB, id string) models.Ticket {
	t.Helper()
	var tk models.Ticket
	require.NoError(t, db.NewSelect().Model(&tk).Where("id = ?", id).Scan(context.Background()))
	return tk
}

func f(v float64) *float64 { return &v }

func TestCreateListing_DefaultFees(t *testing.T) {
	db := dbtest.New(t)
	events := new(MockEventPublisher)
	events.On("PublishResaleListed", mock.MatchedBy(func(ev kafka.ResaleListedEvent) bool {
		return ev.TicketID == "ticket-1" && ev.Price == 120
	})).Return(nil)
	svc := resale.NewResaleService(resaledb.New(db), events, nil)
	seedTicket(t, db, "ticket-1", 100)

	listing, err := svc.CreateListing(context.Background(), models.ResaleListingRequest{TicketID: "ticket-1", Price: 120})
	require.NoError(t, err)

	assert.Equal(t, "event-1", listing.EventID)
	assert.Equal(t, 100.0, listing.OriginalPrice)
	assert.Equal(t, 5.0, listing.RoyaltyPercentage)
	assert.Equal(t, 6.0, listing.RoyaltyFee)
	assert.Equal(t, 12.0, listing.ServiceFee)
	assert.True(t, loadTicket(t, db, "ticket-1").IsListed)
	events.AssertExpectations(t)
}

func TestCreateListing_ExplicitFees(t *testing.T) {
	db := dbtest.New(t)
	svc := resale.NewResaleService(resaledb.New(db), nil, nil)
	seedTicket(t, db, "ticket-1", 100)

	listing, err := svc.CreateListing(context.Background(), models.ResaleListingRequest{
		TicketID: "ticket-1", Price: 80,
		OriginalPrice: f(90), RoyaltyPercentage: f(10), RoyaltyFee: f(1), ServiceFee: f(2),
	})
	require.NoError(t, err)
	assert.Equal(t, 90.0, listing.OriginalPrice)
	assert.Equal(t, 10.0, listing.RoyaltyPercentage)
	assert.Equal(t, 1.0, listing.RoyaltyFee)
	assert.Equal(t, 2.0, listing.ServiceFee)
}

func TestCreateListing_Errors(t *testing.T) {
	db := dbtest.New(t)
	svc := resale.NewResaleService(resaledb.New(db), nil, nil)
	seedTicket(t, db, "ticket-1", 100)
	ctx := context.Background()

	_, err := svc.CreateListing(ctx, models.ResaleListingRequest{Price: 10})
	assert.True(t, apperror.Is(err, apperror.KindInvalidArgument))

	_, err = svc.CreateListing(ctx, models.ResaleListingRequest{TicketID: "ticket-1"})
	assert.True(t, apperror.Is(err, apperror.KindInvalidArgument))

	_, err = svc.CreateListing(ctx, models.ResaleListingRequest{TicketID: "missing", Price: 10})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.CreateListing(ctx, models.ResaleListingRequest{TicketID: "ticket-1", Price: 10})
	require.NoError(t, err)
	_, err = svc.CreateListing(ctx, models.ResaleListingRequest{TicketID: "ticket-1", Price: 20})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, http.StatusConflict, apperror.HTTPStatus(err))
	assert.Equal(t, "Ticket is already listed for resale", apperror.PublicMessage(err, ""))
}

func TestCreateListing_LosesRaceWithConflict(t *testing.T) {
	db := dbtest.New(t)
	seedTicket(t, db, "ticket-1", 100)
	store := resaledb.New(db)

	// The seller's read saw an unlisted ticket; a concurrent listing wins
	// before the conditional flag update runs.
	require.NoError(t, store.CreateListing(context.Background(), &models.ResaleTicket{
		ID: "first", TicketID: "ticket-1", EventID: "event-1", Price: 10, CreatedAt: time.Now().UTC(),
	}))
	err := store.CreateListing(context.Background(), &models.ResaleTicket{
		ID: "second", TicketID: "ticket-1", EventID: "event-1", Price: 20, CreatedAt: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, resaledb.ErrAlreadyListed)

	n, err := db.NewSelect().Model((*models.ResaleTicket)(nil)).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestListByEventAndCancel(t *testing.T) {
	db := dbtest.New(t)
	events := new(MockEventPublisher)
	events.On("PublishResaleListed", mock.Anything).Return(nil)
	events.On("PublishResaleCancelled", mock.MatchedBy(func(ev kafka.ResaleCancelledEvent) bool {
		return ev.TicketID == "ticket-1"
	})).Return(nil)
	svc := resale.NewResaleService(resaledb.New(db), events, nil)
	seedTicket(t, db, "ticket-1", 100)
	seedTicket(t, db, "ticket-2", 100)
	ctx := context.Background()

	_, err := svc.ListByEvent(ctx, "")
	assert.True(t, apperror.Is(err, apperror.KindInvalidArgument))

	first, err := svc.CreateListing(ctx, models.ResaleListingRequest{TicketID: "ticket-1", Price: 110})
	require.NoError(t, err)
	_, err = svc.CreateListing(ctx, models.ResaleListingRequest{TicketID: "ticket-2", Price: 90})
	require.NoError(t, err)

	listings, err := svc.ListByEvent(ctx, "event-1")
	require.NoError(t, err)
	require.Len(t, listings, 2)
	require.NotNil(t, listings[0].Ticket)
	assert.Equal(t, "seller", listings[0].Ticket.OwnerID)

	none, err := svc.ListByEvent(ctx, "event-2")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, svc.CancelListing(ctx, first.ID))
	assert.False(t, loadTicket(t, db, "ticket-1").IsListed)

	err = svc.CancelListing(ctx, first.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	listings, err = svc.ListByEvent(ctx, "event-1")
	require.NoError(t, err)
	assert.Len(t, listings, 1)
	events.AssertExpectations(t)
}
