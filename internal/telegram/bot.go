package telegram

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sbilibin2017/gw-currency-bot/internal/logger"
	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

//go:generate mockgen -source=bot.go -destination=bot_mock.go -package=telegram

const (
	// DefaultWorkers is the number of update workers.
	DefaultWorkers = 4
	// DefaultPollTimeout is the long polling timeout in seconds.
	DefaultPollTimeout = 60

	queueSize = 64
)

// Message kinds reported to the recorder
const (
	KindMessage = "message"
	KindAction  = "action"
	KindInline  = "inline"
)

// BotAPI is the part of the Telegram client the bot uses.
type BotAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Conversation turns chat events into replies.
type Conversation interface {
	Handle(ctx context.Context, ev models.Event) ([]models.Reply, error)
	HandleAction(ctx context.Context, ev models.ActionEvent) (models.ActionAnswer, error)
	AnswerInline(ctx context.Context, query string) ([]models.InlineResult, bool)
}

// MessageRecorder observes handled updates.
type MessageRecorder interface {
	ObserveMessage(kind string, seconds float64)
}

// Bot receives updates by long polling and hands them to the conversation.
// Updates of one chat always go to the same worker and are handled in order.
type Bot struct {
	api         BotAPI
	conv        Conversation
	recorder    MessageRecorder
	workers     int
	pollTimeout int
	wg          sync.WaitGroup
}

// NewBot creates a bot. Non-positive workers or poll timeout fall back to defaults.
func NewBot(api BotAPI, conv Conversation, recorder MessageRecorder, workers, pollTimeout int) *Bot {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}
	return &Bot{
		api:         api,
		conv:        conv,
		recorder:    recorder,
		workers:     workers,
		pollTimeout: pollTimeout,
	}
}

// RegisterCommands publishes the command list to Telegram.
func (b *Bot) RegisterCommands() error {
	_, err := b.api.Request(botCommands())
	return err
}

// Run polls updates until ctx is cancelled, then waits for queued updates to finish.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(cfg)

	queues := make([]chan tgbotapi.Update, b.workers)
	for i := range queues {
		queues[i] = make(chan tgbotapi.Update, queueSize)
		b.wg.Add(1)
		go b.worker(ctx, i, queues[i])
	}
	defer func() {
		for _, q := range queues {
			close(q)
		}
		b.wg.Wait()
	}()

	logger.Log.Infow("Telegram bot started", "workers", b.workers)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			logger.Log.Info("Telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			key, ok := conversationKey(update)
			if !ok {
				continue
			}
			select {
			case queues[workerFor(key, b.workers)] <- update:
			case <-ctx.Done():
			}
		}
	}
}

func (b *Bot) worker(ctx context.Context, id int, queue <-chan tgbotapi.Update) {
	defer b.wg.Done()

	logger.Log.Debugw("Worker started", "worker_id", id)
	defer logger.Log.Debugw("Worker stopped", "worker_id", id)

	for update := range queue {
		b.handleUpdate(ctx, update)
	}
}

// conversationKey returns the id updates are ordered by.
func conversationKey(u tgbotapi.Update) (int64, bool) {
	switch {
	case u.Message != nil && u.Message.Chat != nil:
		return u.Message.Chat.ID, true
	case u.CallbackQuery != nil && u.CallbackQuery.Message != nil && u.CallbackQuery.Message.Chat != nil:
		return u.CallbackQuery.Message.Chat.ID, true
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil:
		return u.CallbackQuery.From.ID, true
	case u.InlineQuery != nil && u.InlineQuery.From != nil:
		return u.InlineQuery.From.ID, true
	default:
		return 0, false
	}
}

// workerFor maps a conversation to a worker. Group chat ids are negative.
func workerFor(key int64, workers int) int {
	return int(uint64(key) % uint64(workers))
}

func (b *Bot) handleUpdate(ctx context.Context, u tgbotapi.Update) {
	start := time.Now()
	switch {
	case u.Message != nil:
		b.handleMessage(ctx, u.Message)
		b.recorder.ObserveMessage(KindMessage, time.Since(start).Seconds())
	case u.CallbackQuery != nil:
		b.handleCallback(ctx, u.CallbackQuery)
		b.recorder.ObserveMessage(KindAction, time.Since(start).Seconds())
	case u.InlineQuery != nil:
		b.handleInline(ctx, u.InlineQuery)
		b.recorder.ObserveMessage(KindInline, time.Since(start).Seconds())
	}
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	ev := models.Event{ConversationID: chatID, Text: m.Text}
	if m.From != nil {
		ev.UserName = m.From.FirstName
	}

	replies, err := b.conv.Handle(ctx, ev)
	if err != nil {
		logger.Log.Errorw("Failed to handle message", "chat_id", chatID, "error", err)
		replies = []models.Reply{{Text: "Something went wrong. Please try again with /start."}}
	}
	b.send(chatID, replies)
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if q.Message == nil || q.Message.Chat == nil {
		b.answerCallback(q.ID, "This button is no longer available.")
		return
	}
	chatID := q.Message.Chat.ID

	answer, err := b.conv.HandleAction(ctx, models.ActionEvent{
		ConversationID: chatID,
		QueryID:        q.ID,
		Data:           q.Data,
	})
	if err != nil {
		logger.Log.Errorw("Failed to handle action", "chat_id", chatID, "error", err)
		b.answerCallback(q.ID, "Something went wrong. Please try again.")
		return
	}
	b.answerCallback(q.ID, answer.Text)
	b.send(chatID, answer.Replies)
}

func (b *Bot) handleInline(ctx context.Context, q *tgbotapi.InlineQuery) {
	results, ok := b.conv.AnswerInline(ctx, q.Query)
	if !ok {
		return
	}
	if _, err := b.api.Request(renderInline(q.ID, results)); err != nil {
		logger.Log.Errorw("Failed to answer inline query", "query_id", q.ID, "error", err)
	}
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		logger.Log.Errorw("Failed to answer callback", "callback_id", id, "error", err)
	}
}

func (b *Bot) send(chatID int64, replies []models.Reply) {
	for _, r := range replies {
		if _, err := b.api.Send(renderReply(chatID, r)); err != nil {
			logger.Log.Errorw("Failed to send reply", "chat_id", chatID, "error", err)
		}
	}
}
