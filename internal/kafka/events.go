package kafka

import (
	"context"
	"time"

	"ms-storefront/internal/config"
)

type OrderCompletedEvent struct {
	OrderID          string    `json:"orderId"`
	TeamID           string    `json:"teamId"`
	Total            float64   `json:"total"`
	TicketIDs        []string  `json:"ticketIds"`
	TicketsRequested int       `json:"ticketsRequested"`
	TicketsIssued    int       `json:"ticketsIssued"`
	CompletedAt      time.Time `json:"completedAt"`
}

type TicketResoldEvent struct {
	TicketID   string    `json:"ticketId"`
	ResaleID   string    `json:"resaleId"`
	EventID    string    `json:"eventId"`
	NewOwnerID string    `json:"newOwnerId"`
	Price      float64   `json:"price"`
	OrderID    string    `json:"orderId"`
	ResoldAt   time.Time `json:"resoldAt"`
}

type ResaleListedEvent struct {
	ResaleID string    `json:"resaleId"`
	TicketID string    `json:"ticketId"`
	EventID  string    `json:"eventId"`
	Price    float64   `json:"price"`
	ListedAt time.Time `json:"listedAt"`
}

type ResaleCancelledEvent struct {
	ResaleID    string    `json:"resaleId"`
	TicketID    string    `json:"ticketId"`
	EventID     string    `json:"eventId"`
	CancelledAt time.Time `json:"cancelledAt"`
}

// Events routes each storefront event to its configured topic.
type Events struct {
	Producer *Producer
	Topics   config.TopicConfig
}

func NewEvents(producer *Producer, topics config.TopicConfig) *Events {
	return &Events{Producer: producer, Topics: topics}
}

func (e *Events) PublishOrderCompleted(ctx context.Context, ev OrderCompletedEvent) error {
	return e.Producer.Publish(ctx, e.Topics.OrderCompleted, ev.OrderID, ev)
}

func (e *Events) PublishTicketResold(ctx context.Context, ev TicketResoldEvent) error {
	return e.Producer.Publish(ctx, e.Topics.TicketResold, ev.TicketID, ev)
}

func (e *Events) PublishResaleListed(ctx context.Context, ev ResaleListedEvent) error {
	return e.Producer.Publish(ctx, e.Topics.ResaleListed, ev.TicketID, ev)
}

func (e *Events) PublishResaleCancelled(ctx context.Context, ev ResaleCancelledEvent) error {
	return e.Producer.Publish(ctx, e.Topics.ResaleCancelled, ev.TicketID, ev)
}
