package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

// renderReply builds a message for the chat. Telegram allows a single reply
// markup per message, so inline actions win over a menu.
func renderReply(chatID int64, r models.Reply) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	if r.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}

	switch {
	case len(r.Actions) > 0:
		msg.ReplyMarkup = inlineKeyboard(r.Actions)
	case r.Menu != nil:
		msg.ReplyMarkup = replyKeyboard(r.Menu)
	case r.RemoveMenu:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}
	return msg
}

func replyKeyboard(m *models.Menu) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(m.Rows))
	for _, labels := range m.Rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(labels))
		for _, label := range labels {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(buttons...))
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}

func inlineKeyboard(actions []models.Action) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(actions))
	for _, a := range actions {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(a.Label, a.Data))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(buttons...))
}

func renderInline(queryID string, results []models.InlineResult) tgbotapi.InlineConfig {
	articles := make([]interface{}, 0, len(results))
	for _, r := range results {
		articles = append(articles, tgbotapi.NewInlineQueryResultArticle(r.ID, r.Title, r.Text))
	}
	return tgbotapi.InlineConfig{
		InlineQueryID: queryID,
		Results:       articles,
		IsPersonal:    true,
	}
}

// botCommands is the command list shown by Telegram clients.
func botCommands() tgbotapi.SetMyCommandsConfig {
	return tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Main menu"},
		tgbotapi.BotCommand{Command: "convert", Description: "Convert currencies"},
		tgbotapi.BotCommand{Command: "rates", Description: "Current exchange rates"},
		tgbotapi.BotCommand{Command: "history", Description: "Your last conversions"},
		tgbotapi.BotCommand{Command: "source", Description: "Choose the bank"},
		tgbotapi.BotCommand{Command: "help", Description: "Help"},
	)
}
