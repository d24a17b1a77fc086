package app

import (
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// newTestOrder создаёт тестовый заказ для использования в тестах.
func newTestOrder() domain.Order {
	return domain.NewOrder("test-order-1", "test-customer-1", domain.OrderItem{
		ID:        "item-1",
		Name:      "Test item",
		Price:     decimal.RequireFromString("10.00"),
		ProductID: "product-1",
		Quantity:  1,
	})
}
