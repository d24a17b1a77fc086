package kafka

import (
	"time"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// TopicOrderEvents — топик по умолчанию для событий заказов.
const TopicOrderEvents = "orders.order.events"

// Kafka headers событий.
const (
	HeaderEventType = "x-event-type"
	HeaderSource    = "x-source"
)

// OrderEvent представляет событие заказа.
type OrderEvent struct {
	EventType  domain.OrderEventType `json:"event_type"`
	OrderID    string                `json:"order_id"`
	CustomerID string                `json:"customer_id"`
	Total      string                `json:"total"`
	ItemCount  int                   `json:"item_count"`
	Timestamp  time.Time             `json:"timestamp"`
}

// NewOrderEvent создаёт событие по текущему состоянию агрегата.
func NewOrderEvent(eventType domain.OrderEventType, order domain.Order) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Total:      order.Total().StringFixed(2),
		ItemCount:  len(order.Items),
		Timestamp:  time.Now().UTC(),
	}
}
