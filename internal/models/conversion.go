package models

import "time"

// ConversionRecord represents a completed conversion row in the database
type ConversionRecord struct {
	ID              int64     `json:"id" db:"id"`                             // Auto-incremented identifier
	ConversationID  int64     `json:"conversation_id" db:"chat_id"`           // Chat the conversion was made in
	Amount          float64   `json:"amount" db:"amount"`                     // Amount in the source currency
	FromCurrency    string    `json:"from_currency" db:"from_currency"`       // Source currency code
	ToCurrency      string    `json:"to_currency" db:"to_currency"`           // Target currency code
	ConvertedAmount float64   `json:"converted_amount" db:"converted_amount"` // Amount in the target currency
	CreatedAt       time.Time `json:"created_at" db:"created_at"`             // Time the conversion was recorded
}

// ConversionEvent is published after a conversion has been recorded.
type ConversionEvent struct {
	ConversationID  int64     `json:"conversation_id"`
	Provider        string    `json:"provider"`
	Amount          float64   `json:"amount"`
	FromCurrency    string    `json:"from_currency"`
	ToCurrency      string    `json:"to_currency"`
	ConvertedAmount float64   `json:"converted_amount"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Conversion is a priced but not yet recorded conversion.
type Conversion struct {
	Provider        Provider
	Amount          float64
	FromCurrency    string
	ToCurrency      string
	ConvertedAmount float64
	Quote           RateQuote // quote the amount was priced with
}
