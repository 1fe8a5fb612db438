package publishers

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-currency-bot/internal/logger"
	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

//go:generate mockgen -source=kafka.go -destination=kafka_mock.go -package=publishers

// DefaultTopic receives conversion events unless configured otherwise.
const DefaultTopic = "conversions"

// KafkaWriter abstracts the Kafka writer.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// NewKafkaWriter creates a writer for the given brokers and topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 10 * time.Second,
	}
}

// ConversionPublisher publishes recorded conversions to Kafka, keyed by conversation.
type ConversionPublisher struct {
	writer KafkaWriter
}

// NewConversionPublisher creates a publisher over the writer.
func NewConversionPublisher(writer KafkaWriter) *ConversionPublisher {
	return &ConversionPublisher{writer: writer}
}

// Publish writes one event. Messages of one conversation share a key and so a partition.
func (p *ConversionPublisher) Publish(ctx context.Context, event models.ConversionEvent) error {
	msg, err := conversionMessage(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal conversion for Kafka", "conversation_id", event.ConversationID, "error", err)
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish conversion to Kafka", "conversation_id", event.ConversationID, "error", err)
		return err
	}

	logger.Log.Infow("Conversion published to Kafka", "conversation_id", event.ConversationID)
	return nil
}

// Close flushes and closes the writer.
func (p *ConversionPublisher) Close() error {
	return p.writer.Close()
}

func conversionMessage(event models.ConversionEvent) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ConversationID, 10)),
		Value: data,
		Time:  event.OccurredAt,
	}, nil
}

// NopPublisher drops events. It is used when no brokers are configured.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(_ context.Context, event models.ConversionEvent) error {
	logger.Log.Debugw("Kafka not configured, skipping publishing", "conversation_id", event.ConversationID)
	return nil
}

// Close does nothing.
func (NopPublisher) Close() error { return nil }
