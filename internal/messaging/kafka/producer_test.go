package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

func testOrder() domain.Order {
	return domain.NewOrder("test-order-123", "cust-1", domain.OrderItem{
		ID: "1", Name: "Product 1", Price: decimal.NewFromInt(10), ProductID: "p-1", Quantity: 2,
	})
}

func TestProducer_Publish(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := newProducer(mockProducer, "", log.WithField("component", "kafka-producer-test"))

	mockProducer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != TopicOrderEvents {
			t.Errorf("unexpected topic %s", msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "test-order-123" {
			t.Errorf("unexpected key %s", key)
		}
		value, _ := msg.Value.Encode()
		var event OrderEvent
		if err := json.Unmarshal(value, &event); err != nil {
			t.Errorf("unmarshal event: %v", err)
		}
		if event.EventType != domain.OrderEventCreated || event.Total != "20.00" || event.ItemCount != 1 {
			t.Errorf("unexpected event payload: %+v", event)
		}
		return nil
	})

	if err := producer.Publish(context.Background(), domain.OrderEventCreated, testOrder()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := producer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_Publish_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := newProducer(mockProducer, "custom.topic", log.WithField("component", "kafka-producer-test"))

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := producer.Publish(context.Background(), domain.OrderEventUpdated, testOrder())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_Publish_CanceledContext(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := newProducer(mockProducer, "", log.WithField("component", "kafka-producer-test"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := producer.Publish(ctx, domain.OrderEventCreated, testOrder()); err == nil {
		t.Fatal("expected context error")
	}
	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewOrderEvent(t *testing.T) {
	order := testOrder()

	event := NewOrderEvent(domain.OrderEventUpdated, order)

	if event.EventType != domain.OrderEventUpdated {
		t.Errorf("expected event type %s, got %s", domain.OrderEventUpdated, event.EventType)
	}
	if event.OrderID != order.ID {
		t.Errorf("expected order id %s, got %s", order.ID, event.OrderID)
	}
	if event.CustomerID != order.CustomerID {
		t.Errorf("expected customer id %s, got %s", order.CustomerID, event.CustomerID)
	}
	if event.Total != "20.00" {
		t.Errorf("expected total 20.00, got %s", event.Total)
	}
	if event.Timestamp.IsZero() || time.Since(event.Timestamp) > time.Second {
		t.Error("timestamp should be close to current time")
	}
}
