package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sbilibin2017/gw-currency-bot/internal/logger"
	"github.com/sbilibin2017/gw-currency-bot/internal/models"
	"github.com/sbilibin2017/gw-currency-bot/internal/services"
)

//go:generate mockgen -source=convert.go -destination=convert_mock.go -package=handlers

// Quoter prices a conversion with a provider's current rates.
type Quoter interface {
	Quote(ctx context.Context, p models.Provider, from, to string, amount float64) (*models.Conversion, error)
}

// NewConvertHandler returns an HTTP handler pricing a one-off conversion.
// The conversion is not recorded in any conversation history.
// @Summary Convert an amount
// @Tags convert
// @Accept json
// @Produce json
// @Param request body models.ConvertRequest true "Conversion request"
// @Success 200 {object} models.ConvertResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "Rate not found"
// @Failure 503 {object} models.ErrorResponse "Failed to retrieve exchange rates"
// @Router /api/v1/convert [post]
func NewConvertHandler(svc Quoter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ConvertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		provider := models.DefaultProvider
		if req.Source != "" {
			p, ok := models.ParseProvider(req.Source)
			if !ok {
				writeError(w, http.StatusBadRequest, "Unknown provider")
				return
			}
			provider = p
		}

		if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 {
			writeError(w, http.StatusBadRequest, "Amount must be a positive number")
			return
		}

		from, to := strings.ToUpper(req.From), strings.ToUpper(req.To)
		if !models.IsConvertibleCurrency(from) || !models.IsConvertibleCurrency(to) {
			writeError(w, http.StatusBadRequest, "Unsupported currency")
			return
		}

		conv, err := svc.Quote(r.Context(), provider, from, to, req.Amount)
		switch {
		case errors.Is(err, services.ErrRateNotFound):
			writeError(w, http.StatusNotFound, "Rate not found for this currency pair")
			return
		case err != nil:
			logger.Log.Errorw("Conversion failed", "provider", provider.String(), "error", err)
			writeError(w, http.StatusServiceUnavailable, "Failed to retrieve exchange rates")
			return
		}

		writeJSON(w, http.StatusOK, models.ConvertResponse{
			Source:          provider.String(),
			Amount:          conv.Amount,
			From:            conv.FromCurrency,
			To:              conv.ToCurrency,
			ConvertedAmount: conv.ConvertedAmount,
			Rate:            conv.Quote,
			PricedAt:        time.Now().UTC(),
		})
	}
}
