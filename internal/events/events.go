// Package events publishes committed transfers to Kafka for downstream
// consumers. Publishing happens after the storage transaction commits and is
// best effort: a failed publish never undoes a transfer.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// TransferCommitted is the message value written for every committed transfer.
type TransferCommitted struct {
	TransactionID            string    `json:"transactionID"`
	SourceAccountID          string    `json:"sourceAccountID"`
	SourceAccountNumber      string    `json:"sourceAccountNumber"`
	DestinationAccountID     string    `json:"destinationAccountID"`
	DestinationAccountNumber string    `json:"destinationAccountNumber"`
	Amount                   string    `json:"amount"`
	Description              string    `json:"description"`
	CreatedAt                time.Time `json:"createdAt"`
}

// DefaultPublishTimeout bounds one publish, retries included.
const DefaultPublishTimeout = 2 * time.Second

type Publisher interface {
	PublishTransfer(ctx context.Context, event TransferCommitted) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  3,
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: DefaultPublishTimeout,
		},
		timeout: DefaultPublishTimeout,
	}
}

// PublishTransfer keys the message by source account so every event touching
// one source lands on the same partition. Events carry CreatedAt; consumers
// that need commit order sort by it.
func (p *KafkaPublisher) PublishTransfer(ctx context.Context, event TransferCommitted) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: encode transfer %s: %w", event.TransactionID, err)
	}
	msg := kafka.Message{
		Key:   []byte(event.SourceAccountID),
		Value: value,
		Time:  event.CreatedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: publish transfer %s: %w", event.TransactionID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishTransfer(context.Context, TransferCommitted) error { return nil }

func (NopPublisher) Close() error { return nil }
