package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sbilibin2017/gw-currency-bot/internal/logger"
	"github.com/sbilibin2017/gw-currency-bot/internal/models"
	"github.com/sbilibin2017/gw-currency-bot/internal/services"
)

//go:generate mockgen -source=rates.go -destination=rates_mock.go -package=handlers

// RatesReader returns a provider's rate table by provider name.
type RatesReader interface {
	FetchBySource(ctx context.Context, name string, useCache bool) (models.RateTable, error)
}

// NewGetRatesHandler returns an HTTP handler for a provider's current rates.
// Passing fresh=true bypasses the rate cache.
// @Summary Get exchange rates
// @Description Returns the rate table of the given provider
// @Tags rates
// @Produce json
// @Param source path string true "Provider name (monobank, privatbank)"
// @Param fresh query bool false "Bypass the cache"
// @Success 200 {object} models.RatesResponse
// @Failure 404 {object} models.ErrorResponse "Unknown provider"
// @Failure 503 {object} models.ErrorResponse "Failed to retrieve exchange rates"
// @Router /api/v1/rates/{source} [get]
func NewGetRatesHandler(svc RatesReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source := strings.ToLower(chi.URLParam(r, "source"))
		useCache := r.URL.Query().Get("fresh") != "true"

		table, err := svc.FetchBySource(r.Context(), source, useCache)
		switch {
		case errors.Is(err, services.ErrUnknownProvider):
			writeError(w, http.StatusNotFound, "Unknown provider")
			return
		case err != nil:
			logger.Log.Errorw("Failed to retrieve exchange rates", "source", source, "error", err)
			writeError(w, http.StatusServiceUnavailable, "Failed to retrieve exchange rates")
			return
		}

		writeJSON(w, http.StatusOK, models.RatesResponse{Source: source, Rates: table})
	}
}
