package models

import "github.com/uptrace/bun"

// TicketType is a priced category of tickets for an event. Available is the
// remaining inventory and must never drop below zero.
type TicketType struct {
	bun.BaseModel `bun:"table:ticket_types"`

	ID        string  `bun:"id,pk" json:"id"`
	EventID   string  `bun:"event_id,notnull" json:"eventId"`
	Name      string  `bun:"name,notnull" json:"name"`
	Price     float64 `bun:"price,notnull" json:"price"`
	Fees      float64 `bun:"fees,notnull" json:"fees"`
	Available int     `bun:"available,notnull" json:"available"`
}
