package grpcsvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/service/orders"
	ordersv1 "github.com/vladislavdragonenkov/orders/proto/orders/v1"
)

// OrderUseCases — прикладные операции, которые транслирует gRPC-слой.
type OrderUseCases interface {
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	UpdateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

// OrderService реализует gRPC API поверх прикладного сервиса заказов.
type OrderService struct {
	ordersv1.UnimplementedOrderServiceServer

	orders OrderUseCases
	logger *log.Entry
}

// NewOrderService конструирует gRPC-адаптер.
func NewOrderService(orders OrderUseCases, logger *log.Entry) *OrderService {
	if logger == nil {
		logger = log.New().WithField("component", "grpc-order-service")
	}
	return &OrderService{orders: orders, logger: logger}
}

// CreateOrder создаёт заказ; пустые идентификаторы генерируются сервером.
func (s *OrderService) CreateOrder(ctx context.Context, req *ordersv1.CreateOrderRequest) (*ordersv1.CreateOrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	items, err := fromProtoItems(req.GetItems())
	if err != nil {
		return nil, err
	}

	order, err := s.orders.CreateOrder(ctx, domain.NewOrder(req.GetOrderId(), req.GetCustomerId(), items...))
	if err != nil {
		return nil, s.toStatus(err, "CreateOrder", req.GetOrderId())
	}

	return &ordersv1.CreateOrderResponse{Order: toProtoOrder(order)}, nil
}

// UpdateOrder полностью заменяет заказ.
func (s *OrderService) UpdateOrder(ctx context.Context, req *ordersv1.UpdateOrderRequest) (*ordersv1.UpdateOrderResponse, error) {
	if req == nil || req.GetOrderId() == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}

	items, err := fromProtoItems(req.GetItems())
	if err != nil {
		return nil, err
	}

	order, err := s.orders.UpdateOrder(ctx, domain.NewOrder(req.GetOrderId(), req.GetCustomerId(), items...))
	if err != nil {
		return nil, s.toStatus(err, "UpdateOrder", req.GetOrderId())
	}

	return &ordersv1.UpdateOrderResponse{Order: toProtoOrder(order)}, nil
}

// GetOrder возвращает заказ по идентификатору.
func (s *OrderService) GetOrder(ctx context.Context, req *ordersv1.GetOrderRequest) (*ordersv1.GetOrderResponse, error) {
	if req == nil || req.GetOrderId() == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}

	order, err := s.orders.GetOrder(ctx, req.GetOrderId())
	if err != nil {
		return nil, s.toStatus(err, "GetOrder", req.GetOrderId())
	}

	return &ordersv1.GetOrderResponse{Order: toProtoOrder(order)}, nil
}

// ListOrders возвращает все заказы.
func (s *OrderService) ListOrders(ctx context.Context, _ *ordersv1.ListOrdersRequest) (*ordersv1.ListOrdersResponse, error) {
	list, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, s.toStatus(err, "ListOrders", "")
	}

	result := make([]*ordersv1.Order, 0, len(list))
	for _, order := range list {
		result = append(result, toProtoOrder(order))
	}
	return &ordersv1.ListOrdersResponse{Orders: result}, nil
}

// toStatus переводит доменную ошибку в gRPC-статус.
// Внутренние причины клиенту не раскрываются.
func (s *OrderService) toStatus(err error, operation, orderID string) error {
	entry := s.logger.WithError(err).WithFields(log.Fields{
		"operation": operation,
		"order_id":  orderID,
	})

	switch {
	case errors.Is(err, orders.ErrValidation):
		var verr *orders.ValidationError
		if errors.As(err, &verr) {
			return status.Error(codes.InvalidArgument, verr.Error())
		}
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrOrderAlreadyExists):
		entry.Warn("order already exists")
		return status.Error(codes.AlreadyExists, domain.ErrOrderAlreadyExists.Error())
	// Сбой чтения репозиторий отдаёт как not found; отмену клиента всё же сообщаем как отмену.
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, domain.ErrOrderNotFound):
		entry.Debug("order not found")
		return status.Error(codes.NotFound, domain.ErrOrderNotFound.Error())
	default:
		entry.Error("order operation failed")
		return status.Errorf(codes.Internal, "%s failed", operation)
	}
}

func fromProtoItems(items []*ordersv1.OrderItem) ([]domain.OrderItem, error) {
	result := make([]domain.OrderItem, 0, len(items))
	for idx, item := range items {
		if item == nil {
			return nil, status.Errorf(codes.InvalidArgument, "items[%d] is nil", idx)
		}
		price, err := parsePrice(item.GetPrice())
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "items[%d].price: %v", idx, err)
		}
		result = append(result, domain.OrderItem{
			ID:        item.GetId(),
			Name:      item.GetName(),
			Price:     price,
			ProductID: item.GetProductId(),
			Quantity:  item.GetQuantity(),
		})
	}
	return result, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Decimal{}, errors.New("is required")
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid decimal %q", raw)
	}
	return price, nil
}

func toProtoOrder(order domain.Order) *ordersv1.Order {
	items := make([]*ordersv1.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, &ordersv1.OrderItem{
			Id:        item.ID,
			Name:      item.Name,
			Price:     item.Price.StringFixed(2),
			ProductId: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	return &ordersv1.Order{
		Id:         order.ID,
		CustomerId: order.CustomerID,
		Items:      items,
		Total:      order.Total().StringFixed(2),
	}
}
