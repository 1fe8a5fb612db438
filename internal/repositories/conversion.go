package repositories

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-currency-bot/internal/logger"
	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

// ConversionRepository is the append-only conversion ledger in PostgreSQL
type ConversionRepository struct {
	db *sqlx.DB
}

func NewConversionRepository(db *sqlx.DB) *ConversionRepository {
	return &ConversionRepository{db: db}
}

// Append records a completed conversion
func (r *ConversionRepository) Append(
	ctx context.Context,
	conversationID int64,
	amount float64,
	fromCurrency, toCurrency string,
	convertedAmount float64,
) error {
	const query = `
		INSERT INTO conversions (chat_id, amount, from_currency, to_currency, converted_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	args := []any{conversationID, amount, fromCurrency, toCurrency, convertedAmount}

	res, err := r.db.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	// Log query, args, result, error
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// Recent returns up to limit conversions of a conversation, newest first
func (r *ConversionRepository) Recent(ctx context.Context, conversationID int64, limit int) ([]models.ConversionRecord, error) {
	const query = `
		SELECT id, chat_id, amount, from_currency, to_currency, converted_amount, created_at
		FROM conversions
		WHERE chat_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	var records []models.ConversionRecord
	err := r.db.SelectContext(ctx, &records, query, conversationID, limit)

	// Log query, args, result, error
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{conversationID, limit},
		"result", len(records),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return records, nil
}
