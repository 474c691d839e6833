package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"ms-storefront/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func New(db *bun.DB) *DB {
	return &DB{Bun: db}
}

// GetCart → cart with items in insertion order, nil when absent
func (d *DB) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	var cart models.Cart
	err := d.Bun.NewSelect().
		Model(&cart).
		Relation("Items", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("position ASC")
		}).
		Where("?TableAlias.id = ?", cartID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// CreateCart → insert the cart and its items together
func (d *DB) CreateCart(ctx context.Context, cart *models.Cart) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(cart).Exec(ctx); err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&cart.Items).Exec(ctx)
		return err
	})
}

// ReplaceItems → swap every item of an existing cart
func (d *DB) ReplaceItems(ctx context.Context, cartID string, items []models.CartItem) (bool, error) {
	found := false
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Cart)(nil)).
			Where("id = ?", cartID).
			Exists(ctx)
		if err != nil || !exists {
			return err
		}
		found = true

		if _, err := tx.NewDelete().
			Model((*models.CartItem)(nil)).
			Where("cart_id = ?", cartID).
			Exec(ctx); err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		_, err = tx.NewInsert().Model(&items).Exec(ctx)
		return err
	})
	return found, err
}

// DeleteCart → remove items then the cart
func (d *DB) DeleteCart(ctx context.Context, cartID string) (bool, error) {
	found := false
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.CartItem)(nil)).
			Where("cart_id = ?", cartID).
			Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().
			Model((*models.Cart)(nil)).
			Where("id = ?", cartID).
			Exec(ctx)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		found = n > 0
		return nil
	})
	return found, err
}
