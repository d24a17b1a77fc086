package domain

import "context"

// OrderEventType задаёт тип события об изменении заказа.
type OrderEventType string

const (
	OrderEventCreated OrderEventType = "order.created"
	OrderEventUpdated OrderEventType = "order.updated"
)

// OrderEventPublisher публикует события об изменении заказов наружу.
type OrderEventPublisher interface {
	Publish(ctx context.Context, eventType OrderEventType, order Order) error
}

// NoopPublisher ничего не публикует; используется, когда брокер не настроен.
type NoopPublisher struct{}

// Publish всегда успешен.
func (NoopPublisher) Publish(context.Context, OrderEventType, Order) error { return nil }
