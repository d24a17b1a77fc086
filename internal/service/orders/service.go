// Package orders содержит прикладной слой над репозиторием заказов.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// ErrValidation — общий признак ошибок валидации входного заказа.
var ErrValidation = errors.New("invalid order")

// ValidationError собирает все нарушенные инварианты заказа.
type ValidationError struct {
	Errs []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error { return e.Errs }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Service оркестрирует запись заказов и публикацию событий о них.
type Service struct {
	repo      domain.OrderRepository
	publisher domain.OrderEventPublisher
	logger    *log.Entry
	newID     func() string
}

// NewService конструирует сервис; publisher может быть nil.
func NewService(repo domain.OrderRepository, publisher domain.OrderEventPublisher, logger *log.Entry) *Service {
	if publisher == nil {
		publisher = domain.NoopPublisher{}
	}
	if logger == nil {
		logger = log.WithField("component", "order-service")
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// CreateOrder присваивает недостающие идентификаторы, валидирует и сохраняет заказ.
func (s *Service) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	order = order.Clone()
	if order.ID == "" {
		order.ID = s.newID()
	}
	s.assignItemIDs(&order)

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, &ValidationError{Errs: errs}
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("create order %q: %w", order.ID, err)
	}

	s.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"items":       len(order.Items),
		"total":       order.Total().String(),
	}).Info("order created")
	s.publish(ctx, domain.OrderEventCreated, order)

	return order, nil
}

// UpdateOrder полностью заменяет сохранённый заказ переданным состоянием.
func (s *Service) UpdateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	order = order.Clone()
	s.assignItemIDs(&order)

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, &ValidationError{Errs: errs}
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("update order %q: %w", order.ID, err)
	}

	s.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"items":    len(order.Items),
		"total":    order.Total().String(),
	}).Info("order updated")
	s.publish(ctx, domain.OrderEventUpdated, order)

	return order, nil
}

// GetOrder возвращает заказ по идентификатору.
func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	if id == "" {
		return domain.Order{}, &ValidationError{Errs: []error{domain.ErrOrderIDRequired}}
	}
	order, err := s.repo.Find(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order %q: %w", id, err)
	}
	return order, nil
}

// ListOrders возвращает все заказы.
func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *Service) assignItemIDs(order *domain.Order) {
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = s.newID()
		}
	}
}

// publish не влияет на результат записи: заказ уже сохранён.
func (s *Service) publish(ctx context.Context, eventType domain.OrderEventType, order domain.Order) {
	if err := s.publisher.Publish(ctx, eventType, order); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   order.ID,
			"event_type": eventType,
		}).Warn("failed to publish order event")
	}
}
