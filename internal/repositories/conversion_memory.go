package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

// ConversionMemoryRepository is an in-process conversion ledger, used when
// no database is configured.
type ConversionMemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records []models.ConversionRecord
	now     func() time.Time
}

func NewConversionMemoryRepository() *ConversionMemoryRepository {
	return &ConversionMemoryRepository{now: time.Now}
}

// Append records a completed conversion
func (r *ConversionMemoryRepository) Append(
	_ context.Context,
	conversationID int64,
	amount float64,
	fromCurrency, toCurrency string,
	convertedAmount float64,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.records = append(r.records, models.ConversionRecord{
		ID:              r.nextID,
		ConversationID:  conversationID,
		Amount:          amount,
		FromCurrency:    fromCurrency,
		ToCurrency:      toCurrency,
		ConvertedAmount: convertedAmount,
		CreatedAt:       r.now(),
	})
	return nil
}

// Recent returns up to limit conversions of a conversation, newest first
func (r *ConversionMemoryRepository) Recent(_ context.Context, conversationID int64, limit int) ([]models.ConversionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.ConversionRecord
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		if r.records[i].ConversationID == conversationID {
			out = append(out, r.records[i])
		}
	}
	return out, nil
}
