package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"ms-storefront/internal/models"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		(*models.Team)(nil),
		(*models.Event)(nil),
		(*models.TicketType)(nil),
		(*models.Order)(nil),
		(*models.Ticket)(nil),
		(*models.ResaleTicket)(nil),
		(*models.Cart)(nil),
		(*models.CartItem)(nil),
	}
}

// CreateSchema creates the tables straight from the bun models. Postgres
// deployments use the SQL migrations instead; this is for SQLite.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, m := range Models() {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", m, err)
		}
	}
	return nil
}

// DropSchema drops every table in reverse dependency order.
func DropSchema(ctx context.Context, db bun.IDB) error {
	all := Models()
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(all[i]).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("drop table for %T: %w", all[i], err)
		}
	}
	return nil
}
