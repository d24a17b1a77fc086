package postgres

import (
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// orderRecord — строка таблицы orders.
type orderRecord struct {
	ID         string          `gorm:"column:id;primaryKey"`
	CustomerID string          `gorm:"column:customer_id;not null;index"`
	Total      decimal.Decimal `gorm:"column:total;type:numeric(14,2);not null"`

	Items []orderItemRecord `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

func (orderRecord) TableName() string { return "orders" }

// orderItemRecord — строка таблицы order_items. ID уникален в пределах заказа.
type orderItemRecord struct {
	OrderID   string          `gorm:"column:order_id;primaryKey"`
	ID        string          `gorm:"column:id;primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(14,2);not null"`
	ProductID string          `gorm:"column:product_id;not null;index"`
	Quantity  int32           `gorm:"column:quantity;not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// toOrderRecord переводит агрегат в строки; total кешируется как денормализованное поле.
func toOrderRecord(order domain.Order) orderRecord {
	items := make([]orderItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemRecord{
			OrderID:   order.ID,
			ID:        item.ID,
			Name:      item.Name,
			Price:     item.Price,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	return orderRecord{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		Total:      order.Total(),
		Items:      items,
	}
}

// toDomainOrder собирает свежий агрегат из строк. Сохранённый total не используется.
func toDomainOrder(record orderRecord) domain.Order {
	items := make([]domain.OrderItem, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, domain.OrderItem{
			ID:        item.ID,
			Name:      item.Name,
			Price:     item.Price,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	return domain.Order{
		ID:         record.ID,
		CustomerID: record.CustomerID,
		Items:      items,
	}
}
