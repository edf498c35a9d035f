// Package events publishes domain events to a message broker.
package events

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoutingPurchaseCompleted is published after a checkout commits.
const RoutingPurchaseCompleted = "purchase.completed"

// Publisher sends an event payload under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, data interface{}) error
	Close() error
}

// Message is the envelope written to the broker.
type Message struct {
	ID         string      `json:"id"`
	Pattern    string      `json:"pattern"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

func newMessage(routingKey string, data interface{}) Message {
	return Message{
		ID:         uuid.NewString(),
		Pattern:    routingKey,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// PurchaseCompleted describes a recorded purchase.
type PurchaseCompleted struct {
	PurchaseID  int64           `json:"purchaseId"`
	UserID      int64           `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Items       []PurchaseLine  `json:"items"`
}

type PurchaseLine struct {
	ProductID       int64           `json:"productId"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

// Noop drops events. It is used when no broker is configured.
type Noop struct {
	logger *log.Logger
}

func NewNoop(logger *log.Logger) *Noop {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Noop{logger: logger}
}

func (n *Noop) Publish(_ context.Context, routingKey string, _ interface{}) error {
	n.logger.Printf("events: broker disabled, dropped %s", routingKey)
	return nil
}

func (n *Noop) Close() error {
	return nil
}
