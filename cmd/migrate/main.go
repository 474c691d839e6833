package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/uptrace/bun"

	catalogdb "ms-storefront/internal/catalog/db"
	catalog "ms-storefront/internal/catalog/service"
	"ms-storefront/internal/config"
	"ms-storefront/internal/database"
	"ms-storefront/internal/database/migrations"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate up              # Apply pending migrations")
	fmt.Println("  migrate down            # Roll back every migration")
	fmt.Println("  migrate -to N goto      # Migrate up or down to version N")
	fmt.Println("  migrate version         # Show the applied version")
	fmt.Println("  migrate seed            # Insert a demo team, event and ticket types")
	fmt.Println("  migrate reset           # Drop and recreate every table (postgres or sqlite)")
}

func main() {
	to := flag.Uint("to", 0, "Target version for goto")
	dir := flag.String("dir", "", "Read migrations from this directory instead of the embedded set")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	lg, err := logger.NewLogger(logger.Options{Service: "migrate", MinLevel: logger.ParseLevel(cfg.Log.Level), Color: cfg.Log.Color})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	bunDB, err := database.Open(ctx, cfg.Database, lg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer bunDB.Close()

	migrationsDir := cfg.Database.MigrationsDir
	if *dir != "" {
		migrationsDir = *dir
	}
	command := flag.Arg(0)
	if command == "reset" && cfg.Database.Driver != "postgres" {
		if err := resetSchema(ctx, bunDB); err != nil {
			log.Fatalf("Failed to reset schema: %v", err)
		}
		fmt.Println("Schema reset.")
		return
	}
	if cfg.Database.Driver != "postgres" {
		log.Fatalf("migrate %s only supports DB_DRIVER=postgres, got %q", command, cfg.Database.Driver)
	}

	runner := migrations.NewRunner(bunDB, migrations.MigrateOptions{MigrationsDir: migrationsDir}, lg)

	switch command {
	case "up":
		if err := runner.RunMigrations(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		fmt.Println("All migrations completed successfully!")
	case "down":
		if err := runner.MigrateDown(); err != nil {
			log.Fatalf("Failed to roll back migrations: %v", err)
		}
		fmt.Println("All migrations rolled back.")
	case "goto":
		if err := runner.MigrateTo(*to); err != nil {
			log.Fatalf("Failed to migrate: %v", err)
		}
		fmt.Printf("Migrated to version %d\n", *to)
	case "version":
		version, dirty, err := runner.Version()
		if err != nil {
			log.Fatalf("Failed to read version: %v", err)
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
	case "seed":
		if err := runner.RunMigrations(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		if err := seed(ctx, catalog.NewCatalogService(catalogdb.New(bunDB), lg)); err != nil {
			log.Fatalf("Failed to seed: %v", err)
		}
		fmt.Println("✅ Done.")
	case "reset":
		if err := runner.MigrateDown(); err != nil {
			log.Fatalf("Failed to roll back migrations: %v", err)
		}
		if err := runner.RunMigrations(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		fmt.Println("Schema reset.")
	default:
		usage()
		os.Exit(1)
	}
}

// resetSchema rebuilds a SQLite database from the bun models, discarding
// every row.
func resetSchema(ctx context.Context, db bun.IDB) error {
	if err := database.DropSchema(ctx, db); err != nil {
		return err
	}
	return database.CreateSchema(ctx, db)
}

func seed(ctx context.Context, svc *catalog.CatalogService) error {
	team, err := svc.CreateTeam(ctx, models.CreateTeamRequest{Name: "Harbor Hawks"})
	if err != nil {
		return err
	}

	royalty := 7.5
	date := time.Now().AddDate(0, 1, 0).UTC()
	_, err = svc.CreateEvent(ctx, models.EventInput{
		TeamID:            team.ID,
		Name:              "Season Opener",
		Venue:             "Pier Arena",
		Description:       "Opening night of the season.",
		Date:              date.Format(time.RFC3339),
		TicketLimit:       8,
		RoyaltyPercentage: &royalty,
		TicketTypes: []models.TicketTypeInput{
			{Name: "Floor", Price: 85, Fees: 8.5, Available: 200},
			{Name: "Lower Bowl", Price: 55, Fees: 5.5, Available: 1200},
			{Name: "Upper Bowl", Price: 25, Fees: 2.5, Available: 2500},
		},
	})
	return err
}
