package models

import "time"

// ErrorResponse is returned by the ops API on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status string `json:"status"`
}

// RatesResponse lists a provider's current rate table.
type RatesResponse struct {
	Source string    `json:"source"`
	Rates  RateTable `json:"rates"`
}

// HistoryResponse lists the newest conversions of a conversation.
type HistoryResponse struct {
	ConversationID int64              `json:"conversation_id"`
	Conversions    []ConversionRecord `json:"conversions"`
}

// ConvertRequest asks for a one-off conversion.
type ConvertRequest struct {
	Source string  `json:"source"` // Provider name, monobank when empty
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
	To     string  `json:"to"`
}

// ConvertResponse is the priced conversion.
type ConvertResponse struct {
	Source          string    `json:"source"`
	Amount          float64   `json:"amount"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	ConvertedAmount float64   `json:"converted_amount"`
	Rate            RateQuote `json:"rate"`
	PricedAt        time.Time `json:"priced_at"`
}
