package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdb "ms-storefront/internal/catalog/db"
	catalog "ms-storefront/internal/catalog/service"
	"ms-storefront/internal/database/dbtest"
	"ms-storefront/internal/models"
)

func TestSeedThenReset(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	require.NoError(t, seed(ctx, catalog.NewCatalogService(catalogdb.New(db), nil)))

	events, err := db.NewSelect().Model((*models.Event)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, events)
	ticketTypes, err := db.NewSelect().Model((*models.TicketType)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, ticketTypes)

	require.NoError(t, resetSchema(ctx, db))

	for _, m := range []interface{}{(*models.Team)(nil), (*models.Event)(nil), (*models.TicketType)(nil), (*models.Cart)(nil)} {
		n, err := db.NewSelect().Model(m).Count(ctx)
		require.NoError(t, err, "%T table must exist after reset", m)
		assert.Zero(t, n)
	}
}
