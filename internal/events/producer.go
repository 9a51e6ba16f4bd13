package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	publishTimeout = 10 * time.Second
	// Events are written one at a time from the request path; flush without waiting
	// for a batch to fill.
	batchTimeout = 10 * time.Millisecond
)

type KafkaProducer struct {
	writer            *kafka.Writer
	brokers           []string
	orderTopic        string
	compensationTopic string
	logger            *zap.Logger
}

func NewKafkaProducer(brokers []string, orderTopic, compensationTopic string, logger *zap.Logger) (*KafkaProducer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: batchTimeout,
	}

	return &KafkaProducer{
		writer:            writer,
		brokers:           brokers,
		orderTopic:        orderTopic,
		compensationTopic: compensationTopic,
		logger:            logger,
	}, nil
}

func newMessage(topic, key string, event any) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	}, nil
}

func (p *KafkaProducer) publish(ctx context.Context, msg kafka.Message) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return p.writer.WriteMessages(ctx, msg)
}

// PublishOrderCreated keys the message by order id so one order's events stay ordered.
func (p *KafkaProducer) PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error {
	msg, err := newMessage(p.orderTopic, fmt.Sprintf("ORDER#%s", event.OrderID), event)
	if err != nil {
		return err
	}
	if err := p.publish(ctx, msg); err != nil {
		p.logger.Error("Failed to publish order event",
			zap.String("event_id", event.EventID),
			zap.String("order_id", event.OrderID),
			zap.Error(err))
		return err
	}

	p.logger.Info("Order event published",
		zap.String("event_id", event.EventID),
		zap.String("order_id", event.OrderID))
	return nil
}

func (p *KafkaProducer) PublishCompensation(ctx context.Context, event CompensationEvent) error {
	msg, err := newMessage(p.compensationTopic, event.EventID, event)
	if err != nil {
		return err
	}
	if err := p.publish(ctx, msg); err != nil {
		p.logger.Error("Failed to publish compensation event",
			zap.String("event_id", event.EventID),
			zap.String("checkout_id", event.CheckoutID),
			zap.Error(err))
		return err
	}

	p.logger.Info("Compensation event published",
		zap.String("event_id", event.EventID),
		zap.String("checkout_id", event.CheckoutID))
	return nil
}

// HealthCheck dials the first reachable broker.
func (p *KafkaProducer) HealthCheck(ctx context.Context) error {
	var lastErr error
	for _, broker := range p.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		return conn.Close()
	}
	return fmt.Errorf("no kafka broker reachable: %w", lastErr)
}

func (p *KafkaProducer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// NopPublisher drops events; used when KAFKA_BROKERS is empty.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(context.Context, OrderCreatedEvent) error { return nil }
func (NopPublisher) PublishCompensation(context.Context, CompensationEvent) error { return nil }
func (NopPublisher) HealthCheck(context.Context) error                            { return nil }
func (NopPublisher) Close() error                                                 { return nil }
