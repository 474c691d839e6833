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

// ---------------- TEAMS ----------------

func (d *DB) CreateTeam(ctx context.Context, team *models.Team) error {
	_, err := d.Bun.NewInsert().Model(team).Exec(ctx)
	return err
}

// GetTeamByPublicKey → nil when no team carries the key
func (d *DB) GetTeamByPublicKey(ctx context.Context, publicKey string) (*models.Team, error) {
	var team models.Team
	err := d.Bun.NewSelect().
		Model(&team).
		Where("public_key = ?", publicKey).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (d *DB) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams := []models.Team{}
	err := d.Bun.NewSelect().
		Model(&teams).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// ---------------- EVENTS ----------------

// CreateEvent → insert the event and its ticket types together
func (d *DB) CreateEvent(ctx context.Context, event *models.Event) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(event).Exec(ctx); err != nil {
			return err
		}
		if len(event.TicketTypes) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&event.TicketTypes).Exec(ctx)
		return err
	})
}

// ListEvents → newest date first, optionally scoped to one team
func (d *DB) ListEvents(ctx context.Context, teamID string) ([]models.Event, error) {
	events := []models.Event{}
	q := d.Bun.NewSelect().
		Model(&events).
		Relation("TicketTypes", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("name ASC")
		}).
		OrderExpr("?TableAlias.date DESC")
	if teamID != "" {
		q = q.Where("?TableAlias.team_id = ?", teamID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent → event with team and ticket types, nil when absent
func (d *DB) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Relation("Team").
		Relation("TicketTypes", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("name ASC")
		}).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if event.TicketTypes == nil {
		event.TicketTypes = []models.TicketType{}
	}
	return &event, nil
}

// UpdateEvent → rewrite the event row; a non-nil ticketTypes replaces the
// whole set
func (d *DB) UpdateEvent(ctx context.Context, event *models.Event, ticketTypes []models.TicketType) (bool, error) {
	found := false
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(event).
			Column("name", "venue", "description", "image", "date", "onsale", "offsale", "ticket_limit", "royalty_percentage").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}
		if found, err = affectedOne(res); err != nil || !found {
			return err
		}
		if ticketTypes == nil {
			return nil
		}

		if _, err := tx.NewDelete().
			Model((*models.TicketType)(nil)).
			Where("event_id = ?", event.ID).
			Exec(ctx); err != nil {
			return err
		}
		if len(ticketTypes) == 0 {
			return nil
		}
		_, err = tx.NewInsert().Model(&ticketTypes).Exec(ctx)
		return err
	})
	return found, err
}

// DeleteEvent → remove ticket types then the event
func (d *DB) DeleteEvent(ctx context.Context, id string) (bool, error) {
	found := false
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.TicketType)(nil)).
			Where("event_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().
			Model((*models.Event)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		found, err = affectedOne(res)
		return err
	})
	return found, err
}

func affectedOne(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
