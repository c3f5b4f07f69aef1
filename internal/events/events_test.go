package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublishTransfer(t *testing.T) {
	writer := &recordingWriter{}
	publisher := &KafkaPublisher{writer: writer}
	createdAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	event := TransferCommitted{
		TransactionID:            "tx-1",
		SourceAccountID:          "source-1",
		SourceAccountNumber:      "1111111111",
		DestinationAccountID:     "dest-1",
		DestinationAccountNumber: "2222222222",
		Amount:                   "100",
		Description:              "rent",
		CreatedAt:                createdAt,
	}
	require.NoError(t, publisher.PublishTransfer(context.Background(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, []byte("source-1"), msg.Key)
	assert.Equal(t, createdAt, msg.Time)

	var decoded TransferCommitted
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	cause := errors.New("leader not available")
	publisher := &KafkaPublisher{writer: &recordingWriter{err: cause}}

	err := publisher.PublishTransfer(context.Background(), TransferCommitted{TransactionID: "tx-1"})
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "tx-1")
}

// stalledWriter never gets an ack and waits for the caller to give up.
type stalledWriter struct{}

func (stalledWriter) WriteMessages(ctx context.Context, _ ...kafka.Message) error {
	<-ctx.Done()
	return ctx.Err()
}

func (stalledWriter) Close() error { return nil }

func TestKafkaPublisher_StalledBrokerTimesOut(t *testing.T) {
	publisher := &KafkaPublisher{writer: stalledWriter{}, timeout: 20 * time.Millisecond}

	started := time.Now()
	err := publisher.PublishTransfer(context.Background(), TransferCommitted{TransactionID: "tx-1"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(started), time.Second)
}

func TestNewKafkaPublisher_ConfiguresWriter(t *testing.T) {
	publisher := NewKafkaPublisher([]string{"k1:9092", "k2:9092"}, "bank.transfers")

	writer, ok := publisher.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "bank.transfers", writer.Topic)
	assert.IsType(t, &kafka.Hash{}, writer.Balancer)
	assert.Equal(t, DefaultPublishTimeout, writer.WriteTimeout)
	assert.Equal(t, 3, writer.MaxAttempts)
	assert.Equal(t, DefaultPublishTimeout, publisher.timeout)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishTransfer(context.Background(), TransferCommitted{}))
	assert.NoError(t, p.Close())
}
