package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-currency-bot/internal/logger"
	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

// InlineProvider answers inline queries.
const InlineProvider = models.ProviderMonobank

// ParseInlineQuery parses "<amount> <FROM> to <TO>". It requires exactly four
// tokens, a positive amount and two supported currencies.
func ParseInlineQuery(text string) (amount float64, from, to string, ok bool) {
	parts := strings.Fields(text)
	if len(parts) != 4 || !strings.EqualFold(parts[2], "to") {
		return 0, "", "", false
	}

	amount, err := parseAmount(parts[0])
	if err != nil {
		return 0, "", "", false
	}
	if from, err = parseCurrency(parts[1]); err != nil {
		return 0, "", "", false
	}
	if to, err = parseCurrency(parts[3]); err != nil {
		return 0, "", "", false
	}
	return amount, from, to, true
}

// AnswerInline converts an inline query with Monobank rates. Malformed
// queries and failed conversions produce no answer. Inline conversions are
// not recorded.
func (svc *ConversationService) AnswerInline(ctx context.Context, query string) ([]models.InlineResult, bool) {
	amount, from, to, ok := ParseInlineQuery(query)
	if !ok {
		logger.Log.Debugw("ignoring inline query", "query", query)
		return nil, false
	}

	conv, err := svc.quoter.Quote(ctx, InlineProvider, from, to, amount)
	if err != nil {
		logger.Log.Debugw("inline conversion failed", "query", query, "error", err)
		return nil, false
	}

	shown := strconv.FormatFloat(amount, 'f', -1, 64)
	text := fmt.Sprintf("%s %s = %.2f %s", shown, from, conv.ConvertedAmount, to)
	if rate := RateText(conv.Quote, from, to); rate != "" {
		text += "\n" + rate
	}

	return []models.InlineResult{{
		ID:    uuid.NewString(),
		Title: fmt.Sprintf("Convert %s %s to %s", shown, from, to),
		Text:  text,
	}}, true
}
