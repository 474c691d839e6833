package models

import (
	"time"

	"github.com/uptrace/bun"
)

const DefaultPlacement = "GA"

type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	ID           string    `bun:"id,pk" json:"id"`
	EventID      string    `bun:"event_id,notnull" json:"eventId"`
	TicketTypeID string    `bun:"ticket_type_id,notnull" json:"ticketTypeId"`
	OwnerID      string    `bun:"owner_id,notnull" json:"ownerId"`
	Section      string    `bun:"section,notnull" json:"section"`
	Row          string    `bun:"row,notnull" json:"row"`
	Seat         *int      `bun:"seat" json:"seat"`
	Price        float64   `bun:"price,notnull" json:"price"`
	IsResale     bool      `bun:"is_resale,notnull" json:"isResale"`
	IsListed     bool      `bun:"is_listed,notnull" json:"isListed"`
	OrderID      string    `bun:"order_id,notnull" json:"orderId"`
	PurchaseDate time.Time `bun:"purchase_date,notnull,default:current_timestamp" json:"purchaseDate"`
}

// TicketClaim is the payload sealed into a ticket's QR code.
type TicketClaim struct {
	TicketID string    `json:"ticketId"`
	EventID  string    `json:"eventId"`
	OwnerID  string    `json:"ownerId"`
	IssuedAt time.Time `json:"issuedAt"`
}

type CreateTicketRequest struct {
	EventID      string   `json:"eventId"`
	TicketTypeID string   `json:"ticketTypeId"`
	OwnerID      string   `json:"ownerId"`
	Section      string   `json:"section"`
	Row          string   `json:"row"`
	Seat         *int     `json:"seat"`
	Price        *float64 `json:"price"`
	OrderID      string   `json:"orderId"`
}

// TicketVerification is the outcome of checking a scanned ticket code.
type TicketVerification struct {
	Valid  bool        `json:"valid"`
	Reason string      `json:"reason,omitempty"`
	Claim  TicketClaim `json:"claim"`
	Ticket *Ticket     `json:"ticket,omitempty"`
}
