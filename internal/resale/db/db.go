package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"ms-storefront/internal/models"
)

// ErrAlreadyListed is returned when the ticket already has a listing.
var ErrAlreadyListed = errors.New("ticket already listed")

type DB struct {
	Bun *bun.DB
}

func New(db *bun.DB) *DB {
	return &DB{Bun: db}
}

func (d *DB) GetTicket(ctx context.Context, ticketID string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("id = ?", ticketID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// CreateListing → flag the ticket as listed and insert the listing in one
// transaction. The flag flip is conditional so two sellers racing on the
// same ticket cannot both list it.
func (d *DB) CreateListing(ctx context.Context, listing *models.ResaleTicket) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Ticket)(nil)).
			Set("is_listed = ?", true).
			Where("id = ?", listing.TicketID).
			Where("is_listed = ?", false).
			Exec(ctx)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n != 1 {
			return ErrAlreadyListed
		}

		_, err = tx.NewInsert().Model(listing).Exec(ctx)
		return err
	})
}

// ListByEvent → every listing of an event with its ticket, oldest first
func (d *DB) ListByEvent(ctx context.Context, eventID string) ([]models.ResaleTicket, error) {
	listings := []models.ResaleTicket{}
	err := d.Bun.NewSelect().
		Model(&listings).
		Relation("Ticket").
		Where("?TableAlias.event_id = ?", eventID).
		OrderExpr("?TableAlias.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// CancelListing → delete the listing and clear the ticket's listed flag.
// Returns nil when no listing exists.
func (d *DB) CancelListing(ctx context.Context, id string) (*models.ResaleTicket, error) {
	var cancelled *models.ResaleTicket
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var listing models.ResaleTicket
		err := tx.NewSelect().
			Model(&listing).
			Where("id = ?", id).
			Limit(1).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		res, err := tx.NewDelete().
			Model((*models.ResaleTicket)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil || n != 1 {
			return err
		}

		if _, err := tx.NewUpdate().
			Model((*models.Ticket)(nil)).
			Set("is_listed = ?", false).
			Where("id = ?", listing.TicketID).
			Exec(ctx); err != nil {
			return err
		}
		cancelled = &listing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}
