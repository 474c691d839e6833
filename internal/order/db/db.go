package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"ms-storefront/internal/models"
	"ms-storefront/internal/order"
)

type DB struct {
	Bun *bun.DB
}

func New(db *bun.DB) *DB {
	return &DB{Bun: db}
}

// RunInTx runs fn inside one database transaction. Any error from fn rolls
// every write back.
func (d *DB) RunInTx(ctx context.Context, fn func(ctx context.Context, tx order.TxStore) error) error {
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &txStore{db: tx})
	})
}

// ---------------- ORDERS ----------------

// GetOrder → fetch one order by its ID
func (d *DB) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := d.Bun.NewSelect().
		Model(&o).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetTicketsByOrder → fetch all tickets linked to an order
func (d *DB) GetTicketsByOrder(ctx context.Context, orderID string) ([]models.Ticket, error) {
	tickets := []models.Ticket{}
	err := d.Bun.NewSelect().
		Model(&tickets).
		Where("order_id = ?", orderID).
		Order("purchase_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// ---------------- TRANSACTION ----------------

type txStore struct {
	db bun.IDB
}

// GetCart → cart with its items in the order they were added
func (t *txStore) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	var cart models.Cart
	err := t.db.NewSelect().
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
	return &cart, nil
}

// DeleteCart → delete the cart items, then the cart; false when the cart
// row was already gone
func (t *txStore) DeleteCart(ctx context.Context, cartID string) (bool, error) {
	if _, err := t.db.NewDelete().
		Model((*models.CartItem)(nil)).
		Where("cart_id = ?", cartID).
		Exec(ctx); err != nil {
		return false, err
	}
	res, err := t.db.NewDelete().
		Model((*models.Cart)(nil)).
		Where("id = ?", cartID).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	return affectedOne(res)
}

// GetResaleTicket → listing joined with the ticket it offers
func (t *txStore) GetResaleTicket(ctx context.Context, id string) (*models.ResaleTicket, error) {
	var listing models.ResaleTicket
	err := t.db.NewSelect().
		Model(&listing).
		Relation("Ticket").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (t *txStore) DeleteResaleTicket(ctx context.Context, id string) (bool, error) {
	res, err := t.db.NewDelete().
		Model((*models.ResaleTicket)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	return affectedOne(res)
}

// TransferTicket → hand an existing ticket to a new owner, keeping its id
func (t *txStore) TransferTicket(ctx context.Context, ticketID, ownerID string, price float64, orderID string) (bool, error) {
	res, err := t.db.NewUpdate().
		Model((*models.Ticket)(nil)).
		Set("owner_id = ?", ownerID).
		Set("is_listed = ?", false).
		Set("is_resale = ?", true).
		Set("price = ?", price).
		Set("order_id = ?", orderID).
		Where("id = ?", ticketID).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	return affectedOne(res)
}

func (t *txStore) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := t.db.NewSelect().
		Model(&ticket).
		Where("id = ?", id).
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

func (t *txStore) GetTicketType(ctx context.Context, id string) (*models.TicketType, error) {
	var tt models.TicketType
	err := t.db.NewSelect().
		Model(&tt).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

// DecrementAvailable → one conditional update; the guard keeps available
// from going negative under concurrent buyers
func (t *txStore) DecrementAvailable(ctx context.Context, ticketTypeID string) (bool, error) {
	res, err := t.db.NewUpdate().
		Model((*models.TicketType)(nil)).
		Set("available = available - 1").
		Where("id = ?", ticketTypeID).
		Where("available > 0").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	return affectedOne(res)
}

func (t *txStore) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	_, err := t.db.NewInsert().Model(ticket).Exec(ctx)
	return err
}

func (t *txStore) CreateOrder(ctx context.Context, o *models.Order) error {
	_, err := t.db.NewInsert().Model(o).Exec(ctx)
	return err
}

func affectedOne(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
