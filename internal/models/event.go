package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID                string    `bun:"id,pk" json:"id"`
	TeamID            string    `bun:"team_id,notnull" json:"teamId"`
	Name              string    `bun:"name,notnull" json:"name"`
	Venue             string    `bun:"venue,notnull" json:"venue"`
	Description       string    `bun:"description,nullzero" json:"description,omitempty"`
	Image             string    `bun:"image,nullzero" json:"image,omitempty"`
	Date              time.Time `bun:"date,notnull" json:"date"`
	Onsale            time.Time `bun:"onsale,notnull" json:"onsale"`
	Offsale           time.Time `bun:"offsale,notnull" json:"offsale"`
	TicketLimit       int       `bun:"ticket_limit,notnull" json:"ticketLimit"`
	RoyaltyPercentage float64   `bun:"royalty_percentage,notnull" json:"royaltyPercentage"`
	CreatedAt         time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`

	TicketTypes []TicketType `bun:"rel:has-many,join:id=event_id" json:"ticketTypes,omitempty"`
	Team        *Team        `bun:"rel:belongs-to,join:team_id=id" json:"team,omitempty"`
}

type TicketTypeInput struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Fees      float64 `json:"fees"`
	Available int     `json:"available"`
}

// EventInput is the body of event create and update calls. Dates accept
// RFC 3339 or a plain date; on update, empty fields keep their value.
type EventInput struct {
	TeamID            string            `json:"teamId"`
	Name              string            `json:"name"`
	Venue             string            `json:"venue"`
	Description       string            `json:"description"`
	Image             string            `json:"image"`
	Date              string            `json:"date"`
	Onsale            string            `json:"onsale"`
	Offsale           string            `json:"offsale"`
	TicketLimit       int               `json:"ticketLimit"`
	RoyaltyPercentage *float64          `json:"royaltyPercentage"`
	TicketTypes       []TicketTypeInput `json:"ticketTypes"`
}

type TicketOffer struct {
	TicketTypeID       string  `json:"ticketTypeId"`
	Name               string  `json:"name"`
	Currency           string  `json:"currency"`
	FaceValue          float64 `json:"faceValue"`
	Fees               float64 `json:"fees"`
	Available          int     `json:"available"`
	SellableQuantities []int   `json:"sellableQuantities"`
	Section            string  `json:"section"`
}

// EventAvailability is the buyer-facing view of what is still on sale.
type EventAvailability struct {
	EventID          string        `json:"eventId"`
	EventTicketLimit int           `json:"eventTicketLimit"`
	Onsale           time.Time     `json:"onsale"`
	Offsale          time.Time     `json:"offsale"`
	EventDateTime    time.Time     `json:"eventDateTime"`
	OnSaleNow        bool          `json:"onSaleNow"`
	Tickets          []TicketOffer `json:"tickets"`
}
