package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

const (
	opTimeout     = 5 * time.Second
	itemBatchSize = 100
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository создаёт ORM-реализацию OrderRepository поверх Store.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return newOrderRepository(store.Gorm())
}

func newOrderRepository(db *gorm.DB) *orderRepository {
	return &orderRepository{db: db}
}

// Create вставляет строку заказа и строки позиций в одной транзакции.
func (r *orderRepository) Create(ctx context.Context, order domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	record := toOrderRecord(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Вложенная вставка gorm делает upsert позиций, поэтому вставляем их явно.
		if err := tx.Omit(clause.Associations).Create(&record).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %w", domain.ErrOrderAlreadyExists, err)
			}
			return fmt.Errorf("insert order: %w", err)
		}
		return insertItems(tx, record.Items)
	})
}

// Update заменяет заказ целиком: строка заказа, удаление старых позиций, вставка новых.
// Все три шага выполняются в одной транзакции и откатываются вместе.
func (r *orderRepository) Update(ctx context.Context, order domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	record := toOrderRecord(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&orderRecord{}).
			Where("id = ?", record.ID).
			Updates(map[string]interface{}{
				"customer_id": record.CustomerID,
				"total":       record.Total,
			})
		if res.Error != nil {
			return fmt.Errorf("update order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrOrderNotFound
		}

		if err := tx.Where("order_id = ?", record.ID).Delete(&orderItemRecord{}).Error; err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		return insertItems(tx, record.Items)
	})
}

// Find читает заказ с позициями. Любая ошибка чтения трактуется как отсутствие заказа,
// исходная причина сохраняется в цепочке.
func (r *orderRepository) Find(ctx context.Context, id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var record orderRecord
	err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByID).
		Where("id = ?", id).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("%w: %w", domain.ErrOrderNotFound, err)
	}

	return toDomainOrder(record), nil
}

// FindAll возвращает все заказы в порядке сканирования таблицы.
func (r *orderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var records []orderRecord
	if err := r.db.WithContext(ctx).Preload("Items", orderItemsByID).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(records))
	for _, record := range records {
		orders = append(orders, toDomainOrder(record))
	}
	return orders, nil
}

// orderItemsByID делает порядок позиций детерминированным: по ID позиции.
func orderItemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func insertItems(tx *gorm.DB, items []orderItemRecord) error {
	if len(items) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(&items, itemBatchSize).Error; err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
