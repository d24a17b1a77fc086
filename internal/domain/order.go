package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// priceScale — число знаков после запятой у цены и суммы заказа.
const priceScale = 2

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	// ID уникален в пределах одного заказа.
	ID string
	// Name — название позиции на момент заказа.
	Name string
	// Price — цена за единицу товара.
	Price decimal.Decimal
	// ProductID ссылается на внешний каталог товаров.
	ProductID string
	// Quantity — количество единиц товара.
	Quantity int32
}

// Subtotal возвращает стоимость позиции: price * quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt32(i.Quantity))
}

// Order агрегирует заказ клиента и его позиции.
type Order struct {
	ID         string
	CustomerID string
	Items      []OrderItem
}

// NewOrder собирает агрегат заказа из готовых позиций.
func NewOrder(id, customerID string, items ...OrderItem) Order {
	return Order{
		ID:         id,
		CustomerID: customerID,
		Items:      items,
	}
}

// Total всегда вычисляется по позициям и нигде не хранится в памяти.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Clone возвращает копию заказа с независимым срезом позиций.
func (o Order) Clone() Order {
	clone := o
	if o.Items != nil {
		clone.Items = make([]OrderItem, len(o.Items))
		copy(clone.Items, o.Items)
	}
	return clone
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o Order) ValidateInvariants() []error {
	var errs []error

	if o.ID == "" {
		errs = append(errs, ErrOrderIDRequired)
	}
	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}

	seen := make(map[string]struct{}, len(o.Items))
	for idx, item := range o.Items {
		if item.ID == "" {
			errs = append(errs, fmt.Errorf("item[%d]: %w", idx, ErrItemIDRequired))
		} else if _, dup := seen[item.ID]; dup {
			errs = append(errs, fmt.Errorf("item[%d] %q: %w", idx, item.ID, ErrItemIDDuplicate))
		} else {
			seen[item.ID] = struct{}{}
		}
		if item.Quantity <= 0 {
			errs = append(errs, fmt.Errorf("item[%d]: %w", idx, ErrItemQtyInvalid))
		}
		if item.Price.IsNegative() {
			errs = append(errs, fmt.Errorf("item[%d]: %w", idx, ErrItemPriceInvalid))
		}
		if !item.Price.Equal(item.Price.Round(priceScale)) {
			errs = append(errs, fmt.Errorf("item[%d] price %s: %w", idx, item.Price, ErrItemPriceScale))
		}
	}

	return errs
}
