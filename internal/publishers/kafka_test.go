package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

func sampleEvent() models.ConversionEvent {
	return models.ConversionEvent{
		ConversationID:  42,
		Provider:        "monobank",
		Amount:          100,
		FromCurrency:    "USD",
		ToCurrency:      "UAH",
		ConvertedAmount: 4000,
		OccurredAt:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestConversionMessage(t *testing.T) {
	msg, err := conversionMessage(sampleEvent())
	require.NoError(t, err)

	assert.Equal(t, []byte("42"), msg.Key)
	assert.Equal(t, sampleEvent().OccurredAt, msg.Time)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "monobank", got["provider"])
	assert.Equal(t, "USD", got["from_currency"])
	assert.Equal(t, 4000.0, got["converted_amount"])
}

func TestConversionPublisher_Publish(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	writer := NewMockKafkaWriter(ctrl)
	p := NewConversionPublisher(writer)

	want, err := conversionMessage(sampleEvent())
	require.NoError(t, err)

	writer.EXPECT().WriteMessages(ctx, want).Return(nil)
	assert.NoError(t, p.Publish(ctx, sampleEvent()))

	writer.EXPECT().WriteMessages(ctx, gomock.Any()).Return(errors.New("leader not available"))
	assert.Error(t, p.Publish(ctx, sampleEvent()))

	writer.EXPECT().Close().Return(nil)
	assert.NoError(t, p.Close())
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter([]string{"localhost:9092"}, "")
	assert.Equal(t, DefaultTopic, w.Topic)
	assert.IsType(t, &kafka.LeastBytes{}, w.Balancer)
}

func TestNopPublisher(t *testing.T) {
	var p NopPublisher
	assert.NoError(t, p.Publish(context.Background(), sampleEvent()))
	assert.NoError(t, p.Close())
}
