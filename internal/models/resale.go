package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ResaleTicket is a listing offering an issued ticket for sale by its holder.
// TicketID is unique: a ticket has at most one active listing.
type ResaleTicket struct {
	bun.BaseModel `bun:"table:resale_tickets"`

	ID                string    `bun:"id,pk" json:"id"`
	TicketID          string    `bun:"ticket_id,notnull,unique" json:"ticketId"`
	EventID           string    `bun:"event_id,notnull" json:"eventId"`
	Price             float64   `bun:"price,notnull" json:"price"`
	OriginalPrice     float64   `bun:"original_price,notnull" json:"originalPrice"`
	RoyaltyPercentage float64   `bun:"royalty_percentage,notnull" json:"royaltyPercentage"`
	RoyaltyFee        float64   `bun:"royalty_fee,notnull" json:"royaltyFee"`
	ServiceFee        float64   `bun:"service_fee,notnull" json:"serviceFee"`
	CreatedAt         time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`

	Ticket *Ticket `bun:"rel:belongs-to,join:ticket_id=id" json:"ticket,omitempty"`
}

type ResaleListingRequest struct {
	TicketID          string   `json:"ticketId"`
	Price             float64  `json:"price"`
	OriginalPrice     *float64 `json:"originalPrice,omitempty"`
	RoyaltyPercentage *float64 `json:"royaltyPercentage,omitempty"`
	RoyaltyFee        *float64 `json:"royaltyFee,omitempty"`
	ServiceFee        *float64 `json:"serviceFee,omitempty"`
}
