package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sbilibin2017/gw-currency-bot/internal/logger"
	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

//go:generate mockgen -source=history.go -destination=history_mock.go -package=handlers

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// HistoryReader returns the newest conversions of a conversation.
type HistoryReader interface {
	Recent(ctx context.Context, conversationID int64, limit int) ([]models.ConversionRecord, error)
}

// NewGetHistoryHandler returns an HTTP handler listing recorded conversions.
// @Summary Conversion history
// @Tags history
// @Produce json
// @Param conversationID path int true "Conversation (chat) id"
// @Param limit query int false "Maximum number of records, 10 by default"
// @Success 200 {object} models.HistoryResponse
// @Failure 400 {object} models.ErrorResponse "Invalid conversation id or limit"
// @Failure 500 {object} models.ErrorResponse "Failed to load history"
// @Router /api/v1/history/{conversationID} [get]
func NewGetHistoryHandler(svc HistoryReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID, err := strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid conversation id")
			return
		}

		limit := defaultHistoryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit <= 0 || limit > maxHistoryLimit {
				writeError(w, http.StatusBadRequest, "Invalid limit")
				return
			}
		}

		records, err := svc.Recent(r.Context(), conversationID, limit)
		if err != nil {
			logger.Log.Errorw("Failed to load history", "conversation_id", conversationID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to load history")
			return
		}
		if records == nil {
			records = []models.ConversionRecord{}
		}

		writeJSON(w, http.StatusOK, models.HistoryResponse{
			ConversationID: conversationID,
			Conversions:    records,
		})
	}
}
