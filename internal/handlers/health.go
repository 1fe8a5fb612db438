package handlers

import (
	"net/http"

	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

// NewHealthHandler returns an HTTP handler reporting liveness.
// @Summary Health check
// @Tags ops
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
	}
}
