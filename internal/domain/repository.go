package domain

import "context"

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ вместе с позициями.
	Create(ctx context.Context, order Order) error
	// Update перезаписывает заказ: позиции заменяются целиком, без diff.
	Update(ctx context.Context, order Order) error
	// Find возвращает заказ по идентификатору или ErrOrderNotFound.
	Find(ctx context.Context, id string) (Order, error)
	// FindAll возвращает все заказы в порядке, который отдаёт хранилище.
	FindAll(ctx context.Context) ([]Order, error)
}
