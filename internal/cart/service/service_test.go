package cart_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-storefront/internal/apperror"
	cartdb "ms-storefront/internal/cart/db"
	cart "ms-storefront/internal/cart/service"
	"ms-storefront/internal/database/dbtest"
	"ms-storefront/internal/models"
)

func newCartService(t *testing.T) *cart.CartService {
	t.Helper()
	return cart.NewCartService(cartdb.New(dbtest.New(t)), nil)
}

func item(ticketTypeID string, qty int) models.CartItemInput {
	return models.CartItemInput{EventID: "event-1", TicketTypeID: ticketTypeID, Quantity: qty, Price: 25, Fees: 2.5}
}

func TestCreateCart_AppliesDefaults(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	created, err := svc.CreateCart(ctx, models.CreateCartRequest{
		TeamID: "team-1",
		Items:  []models.CartItemInput{item("tt-1", 2), {EventID: "event-1", TicketTypeID: "tt-2", Quantity: 1, Section: "B", Row: "4", Seats: []int{9}}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := svc.GetCart(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)

	first := got.Items[0]
	assert.Equal(t, "tt-1", first.TicketTypeID)
	assert.Equal(t, "GA", first.Section)
	assert.Equal(t, "GA", first.Row)
	assert.Equal(t, []int{}, first.Seats)
	assert.Equal(t, 2, first.Quantity)

	second := got.Items[1]
	assert.Equal(t, "B", second.Section)
	assert.Equal(t, "4", second.Row)
	assert.Equal(t, []int{9}, second.Seats)
}

func TestCreateCart_Validation(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.CreateCartRequest
	}{
		{"missing team", models.CreateCartRequest{Items: []models.CartItemInput{item("tt-1", 1)}}},
		{"zero quantity", models.CreateCartRequest{TeamID: "team-1", Items: []models.CartItemInput{item("tt-1", 0)}}},
		{"missing ticket type", models.CreateCartRequest{TeamID: "team-1", Items: []models.CartItemInput{{EventID: "event-1", Quantity: 1}}}},
		{"resale without id", models.CreateCartRequest{TeamID: "team-1", Items: []models.CartItemInput{{EventID: "e", TicketTypeID: "t", Quantity: 1, IsResale: true}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCart(ctx, tt.req)
			assert.True(t, apperror.Is(err, apperror.KindInvalidArgument), "got %v", err)
		})
	}
}

func TestCreateCart_EmptyItems(t *testing.T) {
	svc := newCartService(t)

	created, err := svc.CreateCart(context.Background(), models.CreateCartRequest{TeamID: "team-1"})
	require.NoError(t, err)

	got, err := svc.GetCart(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestUpdateCart_ReplacesItems(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	created, err := svc.CreateCart(ctx, models.CreateCartRequest{TeamID: "team-1", Items: []models.CartItemInput{item("tt-1", 1), item("tt-2", 1)}})
	require.NoError(t, err)

	updated, err := svc.UpdateCart(ctx, models.UpdateCartRequest{CartID: created.ID, Items: []models.CartItemInput{item("tt-3", 4)}})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "tt-3", updated.Items[0].TicketTypeID)
	assert.Equal(t, 4, updated.Items[0].Quantity)

	_, err = svc.UpdateCart(ctx, models.UpdateCartRequest{CartID: "missing", Items: []models.CartItemInput{item("tt-3", 1)}})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestGetAndDeleteCart(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	_, err := svc.GetCart(ctx, "")
	assert.True(t, apperror.Is(err, apperror.KindInvalidArgument))
	_, err = svc.GetCart(ctx, "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	created, err := svc.CreateCart(ctx, models.CreateCartRequest{TeamID: "team-1", Items: []models.CartItemInput{item("tt-1", 1)}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCart(ctx, created.ID))
	_, err = svc.GetCart(ctx, created.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = svc.DeleteCart(ctx, created.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
