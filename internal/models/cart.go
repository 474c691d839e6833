package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Cart struct {
	bun.BaseModel `bun:"table:carts"`

	ID        string    `bun:"id,pk" json:"id"`
	TeamID    string    `bun:"team_id,notnull" json:"teamId"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`

	Items []CartItem `bun:"rel:has-many,join:id=cart_id" json:"items"`
}

type CartItem struct {
	bun.BaseModel `bun:"table:cart_items"`

	ID           string  `bun:"id,pk" json:"id"`
	CartID       string  `bun:"cart_id,notnull" json:"cartId"`
	Position     int     `bun:"position,notnull" json:"-"`
	EventID      string  `bun:"event_id,notnull" json:"eventId"`
	TicketTypeID string  `bun:"ticket_type_id,notnull" json:"ticketTypeId"`
	Quantity     int     `bun:"quantity,notnull" json:"quantity"`
	Price        float64 `bun:"price,notnull" json:"price"`
	Fees         float64 `bun:"fees,notnull" json:"fees"`
	Section      string  `bun:"section,notnull" json:"section"`
	Row          string  `bun:"row,notnull" json:"row"`
	Seats        []int   `bun:"seats" json:"seats"`
	IsResale     bool    `bun:"is_resale,notnull" json:"isResale"`
	ResaleID     string  `bun:"resale_id,nullzero" json:"resaleId,omitempty"`
}

// CartItemInput is the client shape of a cart line before it is persisted.
type CartItemInput struct {
	EventID      string  `json:"eventId"`
	TicketTypeID string  `json:"ticketTypeId"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	Fees         float64 `json:"fees"`
	Section      string  `json:"section"`
	Row          string  `json:"row"`
	Seats        []int   `json:"seats"`
	IsResale     bool    `json:"isResale"`
	ResaleID     string  `json:"resaleId"`
}

type CreateCartRequest struct {
	TeamID string          `json:"teamId"`
	Items  []CartItemInput `json:"items"`
}

type UpdateCartRequest struct {
	CartID string          `json:"cartId"`
	Items  []CartItemInput `json:"items"`
}
