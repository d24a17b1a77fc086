// Package ordersv1 описывает gRPC API сервиса заказов.
//
// Сообщения передаются в JSON через зарегистрированный кодек "json",
// поэтому это обычные Go-структуры с json-тегами.
package ordersv1

// OrderItem — позиция заказа. Цена передаётся десятичной строкой ("12.50").
type OrderItem struct {
	Id        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Price     string `json:"price,omitempty"`
	ProductId string `json:"product_id,omitempty"`
	Quantity  int32  `json:"quantity,omitempty"`
}

func (x *OrderItem) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *OrderItem) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

func (x *OrderItem) GetPrice() string {
	if x != nil {
		return x.Price
	}
	return ""
}

func (x *OrderItem) GetProductId() string {
	if x != nil {
		return x.ProductId
	}
	return ""
}

func (x *OrderItem) GetQuantity() int32 {
	if x != nil {
		return x.Quantity
	}
	return 0
}

// Order — заказ с вычисленной суммой.
type Order struct {
	Id         string       `json:"id,omitempty"`
	CustomerId string       `json:"customer_id,omitempty"`
	Items      []*OrderItem `json:"items,omitempty"`
	Total      string       `json:"total,omitempty"`
}

func (x *Order) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *Order) GetCustomerId() string {
	if x != nil {
		return x.CustomerId
	}
	return ""
}

func (x *Order) GetItems() []*OrderItem {
	if x != nil {
		return x.Items
	}
	return nil
}

func (x *Order) GetTotal() string {
	if x != nil {
		return x.Total
	}
	return ""
}

type CreateOrderRequest struct {
	// OrderId необязателен: сервер сгенерирует UUID.
	OrderId    string       `json:"order_id,omitempty"`
	CustomerId string       `json:"customer_id,omitempty"`
	Items      []*OrderItem `json:"items,omitempty"`
}

func (x *CreateOrderRequest) GetOrderId() string {
	if x != nil {
		return x.OrderId
	}
	return ""
}

func (x *CreateOrderRequest) GetCustomerId() string {
	if x != nil {
		return x.CustomerId
	}
	return ""
}

func (x *CreateOrderRequest) GetItems() []*OrderItem {
	if x != nil {
		return x.Items
	}
	return nil
}

type CreateOrderResponse struct {
	Order *Order `json:"order,omitempty"`
}

func (x *CreateOrderResponse) GetOrder() *Order {
	if x != nil {
		return x.Order
	}
	return nil
}

// UpdateOrderRequest полностью заменяет заказ: клиент и набор позиций.
type UpdateOrderRequest struct {
	OrderId    string       `json:"order_id,omitempty"`
	CustomerId string       `json:"customer_id,omitempty"`
	Items      []*OrderItem `json:"items,omitempty"`
}

func (x *UpdateOrderRequest) GetOrderId() string {
	if x != nil {
		return x.OrderId
	}
	return ""
}

func (x *UpdateOrderRequest) GetCustomerId() string {
	if x != nil {
		return x.CustomerId
	}
	return ""
}

func (x *UpdateOrderRequest) GetItems() []*OrderItem {
	if x != nil {
		return x.Items
	}
	return nil
}

type UpdateOrderResponse struct {
	Order *Order `json:"order,omitempty"`
}

func (x *UpdateOrderResponse) GetOrder() *Order {
	if x != nil {
		return x.Order
	}
	return nil
}

type GetOrderRequest struct {
	OrderId string `json:"order_id,omitempty"`
}

func (x *GetOrderRequest) GetOrderId() string {
	if x != nil {
		return x.OrderId
	}
	return ""
}

type GetOrderResponse struct {
	Order *Order `json:"order,omitempty"`
}

func (x *GetOrderResponse) GetOrder() *Order {
	if x != nil {
		return x.Order
	}
	return nil
}

type ListOrdersRequest struct{}

type ListOrdersResponse struct {
	Orders []*Order `json:"orders,omitempty"`
}

func (x *ListOrdersResponse) GetOrders() []*Order {
	if x != nil {
		return x.Orders
	}
	return nil
}
