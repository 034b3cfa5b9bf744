package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventType represents the type of sale event.
type EventType string

const (
	EventTypeSaleRecorded      EventType = "sale.recorded"
	EventTypeSaleStatusChanged EventType = "sale.status_changed"
	EventTypeSaleCancelled     EventType = "sale.cancelled"
)

type ctxKey string

// RequestIDKey carries the request id into published events
const RequestIDKey ctxKey = "request_id"

// SaleEvent is the envelope written to the sales topic.
type SaleEvent struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	TenantID      string          `json:"tenant_id"`
	SaleID        string          `json:"sale_id"`
	InvoiceNo     string          `json:"invoice_no"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

// Publisher announces sale lifecycle changes to downstream consumers
// (loyalty, accounting, payroll).
type Publisher interface {
	PublishSaleRecorded(ctx context.Context, sale *entity.Sale) error
	PublishSaleStatusChanged(ctx context.Context, sale *entity.Sale, previous enum.SaleStatus) error
	PublishSaleCancelled(ctx context.Context, sale *entity.Sale, reason string) error
	Close() error
}

// KafkaConfig holds the writer settings
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaPublisher publishes sale events to Kafka.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

// NewKafkaPublisher creates a new Kafka-based event publisher.
func NewKafkaPublisher(cfg KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		topic:  cfg.Topic,
		logger: logger,
	}
}

// PublishSaleRecorded publishes a sale recorded event.
func (p *KafkaPublisher) PublishSaleRecorded(ctx context.Context, sale *entity.Sale) error {
	event, err := newEvent(ctx, EventTypeSaleRecorded, sale, sale)
	if err != nil {
		return err
	}
	return p.publish(ctx, event)
}

// PublishSaleStatusChanged publishes a sale status change event.
func (p *KafkaPublisher) PublishSaleStatusChanged(ctx context.Context, sale *entity.Sale, previous enum.SaleStatus) error {
	payload := struct {
		PreviousStatus enum.SaleStatus `json:"previous_status"`
		NewStatus      enum.SaleStatus `json:"new_status"`
	}{
		PreviousStatus: previous,
		NewStatus:      sale.Status,
	}

	event, err := newEvent(ctx, EventTypeSaleStatusChanged, sale, payload)
	if err != nil {
		return err
	}
	return p.publish(ctx, event)
}

// PublishSaleCancelled publishes a sale cancellation event.
func (p *KafkaPublisher) PublishSaleCancelled(ctx context.Context, sale *entity.Sale, reason string) error {
	payload := struct {
		Reason string `json:"reason"`
	}{
		Reason: reason,
	}

	event, err := newEvent(ctx, EventTypeSaleCancelled, sale, payload)
	if err != nil {
		return err
	}
	return p.publish(ctx, event)
}

func newEvent(ctx context.Context, eventType EventType, sale *entity.Sale, payload interface{}) (*SaleEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	event := &SaleEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		TenantID:  sale.TenantID.String(),
		SaleID:    sale.ID.String(),
		InvoiceNo: sale.InvoiceNo,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		event.CorrelationID = requestID
	}
	return event, nil
}

func (p *KafkaPublisher) publish(ctx context.Context, event *SaleEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// keyed by sale so every event of one sale lands on the same partition
	msg := kafka.Message{
		Key:   []byte(event.SaleID),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "tenant_id", Value: []byte(event.TenantID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish sale event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("sale_id", event.SaleID),
			zap.Error(err),
		)
		return err
	}

	p.logger.Debug("sale event published",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("topic", p.topic),
	)
	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishSaleRecorded(context.Context, *entity.Sale) error { return nil }

func (NoopPublisher) PublishSaleStatusChanged(context.Context, *entity.Sale, enum.SaleStatus) error {
	return nil
}

func (NoopPublisher) PublishSaleCancelled(context.Context, *entity.Sale, string) error { return nil }

func (NoopPublisher) Close() error { return nil }

// MockPublisher records events in memory for tests.
type MockPublisher struct {
	mu     sync.Mutex
	Events []*SaleEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Events: make([]*SaleEvent, 0)}
}

func (m *MockPublisher) record(eventType EventType, sale *entity.Sale) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, &SaleEvent{
		Type:      eventType,
		TenantID:  sale.TenantID.String(),
		SaleID:    sale.ID.String(),
		InvoiceNo: sale.InvoiceNo,
	})
}

func (m *MockPublisher) PublishSaleRecorded(_ context.Context, sale *entity.Sale) error {
	m.record(EventTypeSaleRecorded, sale)
	return nil
}

func (m *MockPublisher) PublishSaleStatusChanged(_ context.Context, sale *entity.Sale, _ enum.SaleStatus) error {
	m.record(EventTypeSaleStatusChanged, sale)
	return nil
}

func (m *MockPublisher) PublishSaleCancelled(_ context.Context, sale *entity.Sale, _ string) error {
	m.record(EventTypeSaleCancelled, sale)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

// Types returns the recorded event types in order
func (m *MockPublisher) Types() []EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EventType, len(m.Events))
	for i, e := range m.Events {
		out[i] = e.Type
	}
	return out
}
