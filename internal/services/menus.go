package services

import (
	"fmt"
	"strings"

	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

// Menu labels
const (
	LabelConvert = "💱 Convert"
	LabelRates   = "📈 Rates"
	LabelHelp    = "ℹ️ Help"
	LabelHistory = "📜 History"
	LabelSource  = "🏦 Change bank"
	LabelBack    = "⬅️ Back"
	LabelManual  = "Enter manually"
	LabelSwap    = "🔄 Swap"
)

// presetPairs are offered at the start of a conversion.
var presetPairs = map[string][2]string{
	"USD/UAH": {models.USD, models.UAH},
	"EUR/UAH": {models.EUR, models.UAH},
}

func mainMenu() *models.Menu {
	return &models.Menu{Rows: [][]string{
		{LabelConvert, LabelRates},
		{LabelHistory, LabelSource},
		{LabelHelp},
	}}
}

func choiceMenu() *models.Menu {
	return &models.Menu{Rows: [][]string{
		{"USD/UAH", "EUR/UAH"},
		{LabelManual},
		{LabelBack},
	}}
}

func backMenu() *models.Menu {
	return &models.Menu{Rows: [][]string{{LabelBack}}}
}

func currencyMenu() *models.Menu {
	rows := [][]string{
		models.ConvertibleCurrencies[:3],
		models.ConvertibleCurrencies[3:],
		{LabelBack},
	}
	return &models.Menu{Rows: rows}
}

func sourceMenu() *models.Menu {
	row := make([]string, 0, len(models.Providers))
	for _, p := range models.Providers {
		row = append(row, p.Title())
	}
	return &models.Menu{Rows: [][]string{row, {LabelBack}}}
}

func mainMenuReply(text string) models.Reply {
	return models.Reply{Text: text, Menu: mainMenu()}
}

func welcomeText(userName string, p models.Provider) string {
	greeting := "Hello!"
	if userName != "" {
		greeting = fmt.Sprintf("Hello, %s!", userName)
	}
	return fmt.Sprintf(
		"%s 👋\nI convert currencies at %s rates. 🏦\n\nPick an action below or send /help.",
		greeting, p.Title(),
	)
}

const helpText = `Commands:
/convert - convert an amount between currencies
/rates - show the current exchange rates
/history - show your last conversions
/source - choose the bank rates are taken from (Monobank/PrivatBank)
/help - show this message

Inline mode: type @<bot> 100 USD to UAH in any chat.`

func formatRates(p models.Provider, table models.RateTable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s rates:*\n```\n", p.Title())
	for _, q := range table {
		if !q.HasTwoSided() {
			continue
		}
		fmt.Fprintf(&b, "%s/%s: buy %.4f, sell %.4f\n", q.CurrencyA, q.CurrencyB, *q.Buy, *q.Sell)
	}
	b.WriteString("```")
	return b.String()
}

func formatHistory(records []models.ConversionRecord) string {
	var b strings.Builder
	b.WriteString("*Conversion history:*\n```\n")
	b.WriteString("Amount   | From | To   |     Result | Time\n")
	b.WriteString("---------|------|------|------------|--------------------\n")
	for _, r := range records {
		fmt.Fprintf(&b, "%8.2f | %-4s | %-4s | %10.2f | %s\n",
			r.Amount, r.FromCurrency, r.ToCurrency, r.ConvertedAmount,
			r.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	}
	b.WriteString("```")
	return b.String()
}
