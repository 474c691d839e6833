package database_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"ms-storefront/internal/config"
	"ms-storefront/internal/database"
	"ms-storefront/internal/database/migrations"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
)

// TestPostgresMigrations applies the embedded migrations to a real Postgres
// container and checks the conditional decrement against it.
func TestPostgresMigrations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Postgres integration test in short mode")
	}

	ctx := context.Background()
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "storefront",
				"POSTGRES_PASSWORD": "storefront",
				"POSTGRES_DB":       "storefront",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start Postgres container: %v", err)
	}
	defer pg.Terminate(ctx)

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := database.Open(ctx, config.DatabaseConfig{
		Driver:       "postgres",
		DSN:          fmt.Sprintf("postgres://storefront:storefront@%s:%s/storefront?sslmode=disable", host, port.Port()),
		MaxOpenConns: 5,
		MaxIdleConns: 5,
		MaxLifetime:  time.Minute,
		ConnectRetry: 5,
	}, logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	runner := migrations.NewRunner(db, migrations.MigrateOptions{AutoMigrate: true}, logger.Nop())
	require.NoError(t, runner.RunMigrations())
	defer runner.Close()

	version, dirty, err := runner.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	_, err = db.NewInsert().Model(&models.Team{ID: "team-1", Name: "Team"}).Exec(ctx)
	require.NoError(t, err)
	now := time.Now().UTC()
	_, err = db.NewInsert().Model(&models.Event{
		ID: "event-1", TeamID: "team-1", Name: "Show", Venue: "Hall",
		Date: now, Onsale: now, Offsale: now.Add(time.Hour), RoyaltyPercentage: 5,
	}).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&models.TicketType{
		ID: "tt-1", EventID: "event-1", Name: "GA", Price: 50, Fees: 5, Available: 1,
	}).Exec(ctx)
	require.NoError(t, err)

	for i, want := range []int64{1, 0} {
		res, err := db.NewUpdate().Model((*models.TicketType)(nil)).
			Set("available = available - 1").
			Where("id = ?", "tt-1").
			Where("available > 0").
			Exec(ctx)
		require.NoError(t, err)
		n, err := res.RowsAffected()
		require.NoError(t, err)
		assert.Equal(t, want, n, "decrement %d", i)
	}

	require.NoError(t, runner.MigrateDown())
}
