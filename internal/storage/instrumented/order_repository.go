// Package instrumented оборачивает OrderRepository метриками Prometheus и логированием.
package instrumented

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/metrics"
)

const (
	opCreate  = "create"
	opUpdate  = "update"
	opFind    = "find"
	opFindAll = "find_all"
)

type orderRepository struct {
	next    domain.OrderRepository
	metrics *metrics.RepositoryMetrics
	logger  *log.Entry
}

// NewOrderRepository возвращает декоратор, не меняющий семантику next.
func NewOrderRepository(next domain.OrderRepository, m *metrics.RepositoryMetrics, logger *log.Entry) domain.OrderRepository {
	if m == nil {
		m = metrics.NewRepositoryMetrics()
	}
	if logger == nil {
		logger = log.WithField("component", "order-repository")
	}
	return &orderRepository{next: next, metrics: m, logger: logger}
}

func (r *orderRepository) Create(ctx context.Context, order domain.Order) error {
	start := time.Now()
	err := r.next.Create(ctx, order)
	r.observe(opCreate, order.ID, start, err)
	if err == nil {
		r.metrics.RecordItems(len(order.Items))
	}
	return err
}

func (r *orderRepository) Update(ctx context.Context, order domain.Order) error {
	start := time.Now()
	err := r.next.Update(ctx, order)
	r.observe(opUpdate, order.ID, start, err)
	if err == nil {
		r.metrics.RecordItems(len(order.Items))
	}
	return err
}

func (r *orderRepository) Find(ctx context.Context, id string) (domain.Order, error) {
	start := time.Now()
	order, err := r.next.Find(ctx, id)
	r.observe(opFind, id, start, err)
	return order, err
}

func (r *orderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	start := time.Now()
	orders, err := r.next.FindAll(ctx)
	r.observe(opFindAll, "", start, err)
	return orders, err
}

func (r *orderRepository) observe(operation, orderID string, start time.Time, err error) {
	elapsed := time.Since(start)

	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case domain.IsMissing(err):
		result = metrics.ResultNotFound
	default:
		result = metrics.ResultError
	}
	r.metrics.RecordOperation(operation, result, elapsed)

	if result == metrics.ResultError {
		r.logger.WithError(err).WithFields(log.Fields{
			"operation":  operation,
			"order_id":   orderID,
			"elapsed_ms": elapsed.Milliseconds(),
		}).Warn("order repository operation failed")
	}
}

var _ domain.OrderRepository = (*orderRepository)(nil)
