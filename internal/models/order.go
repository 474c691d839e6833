package models

import (
	"time"

	"github.com/uptrace/bun"
)

const OrderStatusCompleted = "completed"

// Order is the immutable receipt written once per checkout.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID               string    `bun:"id,pk" json:"id"`
	TeamID           string    `bun:"team_id,notnull" json:"teamId"`
	Total            float64   `bun:"total,notnull" json:"total"`
	Status           string    `bun:"status,notnull" json:"status"`
	TicketsRequested int       `bun:"tickets_requested,notnull" json:"ticketsRequested"`
	TicketsIssued    int       `bun:"tickets_issued,notnull" json:"ticketsIssued"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

type CheckoutRequest struct {
	CartID string `json:"cartId"`
	TeamID string `json:"teamId"`
}

type CheckoutResult struct {
	Order     Order    `json:"order"`
	TicketIDs []string `json:"ticketIds"`
}

type PurchaseRequest struct {
	EventID        string `json:"eventId"`
	TicketTypeID   string `json:"ticketTypeId"`
	OwnerID        string `json:"ownerId"`
	Quantity       int    `json:"quantity"`
	Section        string `json:"section"`
	Row            string `json:"row"`
	Seats          []int  `json:"seats"`
	ResaleTicketID string `json:"resaleTicketId"`
}

type PurchaseResult struct {
	OrderID string `json:"orderId"`
	Ticket  Ticket `json:"ticket"`
}

type OrderWithTickets struct {
	Order   Order    `json:"order"`
	Tickets []Ticket `json:"tickets"`
}
