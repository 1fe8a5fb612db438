package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sbilibin2017/gw-currency-bot/internal/logger"
	"github.com/sbilibin2017/gw-currency-bot/internal/metrics"
	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

//go:generate mockgen -source=conversation.go -destination=conversation_mock.go -package=services

var (
	ErrInvalidAmount   = errors.New("amount must be a positive number")
	ErrInvalidCurrency = errors.New("unsupported currency")
)

// HistoryLimit is the number of conversions shown by /history.
const HistoryLimit = 10

// SessionStore keeps one dialogue session per conversation.
// Get returns nil, nil when the conversation has no session.
type SessionStore interface {
	Get(ctx context.Context, conversationID int64) (*models.Session, error)
	Put(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, conversationID int64) error
}

// RateQuoter prices a conversion with a provider's current rates.
type RateQuoter interface {
	Quote(ctx context.Context, p models.Provider, from, to string, amount float64) (*models.Conversion, error)
}

// ConversionLedger records completed conversions.
type ConversionLedger interface {
	Append(ctx context.Context, conversationID int64, amount float64, from, to string, converted float64) error
	Recent(ctx context.Context, conversationID int64, limit int) ([]models.ConversionRecord, error)
}

// ConversionPublisher announces recorded conversions.
type ConversionPublisher interface {
	Publish(ctx context.Context, event models.ConversionEvent) error
}

// ConversionRecorder counts conversion outcomes.
type ConversionRecorder interface {
	ObserveConversion(provider, result string)
}

type command int

const (
	cmdStart command = iota + 1
	cmdHelp
	cmdConvert
	cmdRates
	cmdHistory
	cmdSource
)

var commands = map[string]command{
	"/start":     cmdStart,
	"/help":      cmdHelp,
	"/convert":   cmdConvert,
	"/rates":     cmdRates,
	"/history":   cmdHistory,
	"/source":    cmdSource,
	LabelConvert: cmdConvert,
	LabelRates:   cmdRates,
	LabelHelp:    cmdHelp,
	LabelHistory: cmdHistory,
	LabelSource:  cmdSource,
}

// parseCommand recognizes slash commands (with an optional @botname suffix
// and arguments) and main menu labels.
func parseCommand(text string) (command, bool) {
	if cmd, ok := commands[text]; ok {
		return cmd, true
	}
	if !strings.HasPrefix(text, "/") {
		return 0, false
	}
	name := strings.Fields(text)[0]
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	cmd, ok := commands[strings.ToLower(name)]
	return cmd, ok
}

// ConversationService drives the conversion dialogue, one Handle call per inbound message.
type ConversationService struct {
	sessions  SessionStore
	quoter    RateQuoter
	rates     RateTableReader
	ledger    ConversionLedger
	publisher ConversionPublisher
	recorder  ConversionRecorder
	now       func() time.Time
}

// NewConversationService creates a new service instance
func NewConversationService(
	sessions SessionStore,
	quoter RateQuoter,
	rates RateTableReader,
	ledger ConversionLedger,
	publisher ConversionPublisher,
	recorder ConversionRecorder,
) *ConversationService {
	return &ConversationService{
		sessions:  sessions,
		quoter:    quoter,
		rates:     rates,
		ledger:    ledger,
		publisher: publisher,
		recorder:  recorder,
		now:       time.Now,
	}
}

// Handle advances the conversation's dialogue by one message and returns the replies to send.
func (svc *ConversationService) Handle(ctx context.Context, ev models.Event) ([]models.Reply, error) {
	session, err := svc.sessions.Get(ctx, ev.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	exists := session != nil
	if !exists {
		session = models.NewSession(ev.ConversationID)
	}

	text := strings.TrimSpace(ev.Text)

	// A top-level command abandons whatever was being collected.
	if cmd, ok := parseCommand(text); ok {
		if exists && session.State != models.StateIdle {
			logger.Log.Debugw("dialogue abandoned",
				"conversation_id", ev.ConversationID,
				"state", session.State.String(),
			)
			session.ClearDialogue()
			if err := svc.sessions.Put(ctx, session); err != nil {
				return nil, fmt.Errorf("save session: %w", err)
			}
		}
		return svc.runCommand(ctx, cmd, session, ev)
	}

	switch session.State {
	case models.StateAwaitingChoice:
		return svc.handleChoice(ctx, session, text)
	case models.StateAwaitingAmount:
		return svc.handleAmount(ctx, session, text)
	case models.StateAwaitingFromCurrency:
		return svc.handleFromCurrency(ctx, session, text)
	case models.StateAwaitingToCurrency:
		return svc.handleToCurrency(ctx, session, text)
	case models.StateAwaitingSource:
		return svc.handleSource(ctx, session, text)
	default:
		// The bank preference outlives a stray message.
		if exists {
			session.ClearDialogue()
			if err := svc.sessions.Put(ctx, session); err != nil {
				return nil, fmt.Errorf("save session: %w", err)
			}
		}
		return []models.Reply{
			mainMenuReply("There is no conversion in progress. Please start again from the menu."),
		}, nil
	}
}

func (svc *ConversationService) runCommand(
	ctx context.Context,
	cmd command,
	session *models.Session,
	ev models.Event,
) ([]models.Reply, error) {
	switch cmd {
	case cmdStart:
		return []models.Reply{mainMenuReply(welcomeText(ev.UserName, session.Provider))}, nil
	case cmdHelp:
		return []models.Reply{mainMenuReply(helpText)}, nil
	case cmdConvert:
		return svc.startConversion(ctx, session)
	case cmdRates:
		return svc.showRates(ctx, session.Provider), nil
	case cmdHistory:
		return svc.showHistory(ctx, session.ConversationID), nil
	case cmdSource:
		session.State = models.StateAwaitingSource
		if err := svc.save(ctx, session); err != nil {
			return nil, err
		}
		return []models.Reply{{Text: "Choose the bank to take rates from:", Menu: sourceMenu()}}, nil
	default:
		return nil, fmt.Errorf("unhandled command %d", cmd)
	}
}

func (svc *ConversationService) startConversion(ctx context.Context, session *models.Session) ([]models.Reply, error) {
	session.ClearDialogue()
	session.State = models.StateAwaitingChoice
	if err := svc.save(ctx, session); err != nil {
		return nil, err
	}
	return []models.Reply{choicePrompt()}, nil
}

func choicePrompt() models.Reply {
	return models.Reply{Text: "Choose a quick conversion or enter the pair manually:", Menu: choiceMenu()}
}

func (svc *ConversationService) handleChoice(ctx context.Context, session *models.Session, text string) ([]models.Reply, error) {
	if text == LabelBack {
		return svc.backToMain(ctx, session)
	}

	if pair, ok := presetPairs[strings.ToUpper(text)]; ok {
		session.FromCurrency, session.ToCurrency = pair[0], pair[1]
		session.State = models.StateAwaitingAmount
		if err := svc.save(ctx, session); err != nil {
			return nil, err
		}
		return []models.Reply{{Text: fmt.Sprintf("Enter the amount in %s:", pair[0]), Menu: backMenu()}}, nil
	}

	if text == LabelManual {
		session.State = models.StateAwaitingAmount
		if err := svc.save(ctx, session); err != nil {
			return nil, err
		}
		return []models.Reply{{Text: "Enter the amount:", Menu: backMenu()}}, nil
	}

	return []models.Reply{{Text: "Invalid choice."}, choicePrompt()}, nil
}

func (svc *ConversationService) handleAmount(ctx context.Context, session *models.Session, text string) ([]models.Reply, error) {
	if text == LabelBack {
		return svc.startConversion(ctx, session)
	}

	amount, err := parseAmount(text)
	if err != nil {
		// No attempt limit: the user may keep retrying.
		return []models.Reply{{Text: "Please enter a positive number.", Menu: backMenu()}}, nil
	}
	session.Amount = &amount

	if session.HasPresetPair() {
		return svc.complete(ctx, session)
	}

	session.State = models.StateAwaitingFromCurrency
	if err := svc.save(ctx, session); err != nil {
		return nil, err
	}
	return []models.Reply{{Text: "Choose the source currency:", Menu: currencyMenu()}}, nil
}

func (svc *ConversationService) handleFromCurrency(ctx context.Context, session *models.Session, text string) ([]models.Reply, error) {
	if text == LabelBack {
		session.Amount = nil
		session.State = models.StateAwaitingAmount
		if err := svc.save(ctx, session); err != nil {
			return nil, err
		}
		return []models.Reply{{Text: "Enter the amount:", Menu: backMenu()}}, nil
	}

	code, err := parseCurrency(text)
	if err != nil {
		return []models.Reply{{Text: "Unknown currency. Choose the source currency:", Menu: currencyMenu()}}, nil
	}
	session.FromCurrency = code
	session.State = models.StateAwaitingToCurrency
	if err := svc.save(ctx, session); err != nil {
		return nil, err
	}
	return []models.Reply{{Text: "Choose the target currency:", Menu: currencyMenu()}}, nil
}

func (svc *ConversationService) handleToCurrency(ctx context.Context, session *models.Session, text string) ([]models.Reply, error) {
	if text == LabelBack {
		session.FromCurrency = ""
		session.State = models.StateAwaitingFromCurrency
		if err := svc.save(ctx, session); err != nil {
			return nil, err
		}
		return []models.Reply{{Text: "Choose the source currency:", Menu: currencyMenu()}}, nil
	}

	code, err := parseCurrency(text)
	if err != nil {
		return []models.Reply{{Text: "Unknown currency. Choose the target currency:", Menu: currencyMenu()}}, nil
	}
	session.ToCurrency = code
	session.State = models.StateIdle
	return svc.complete(ctx, session)
}

func (svc *ConversationService) handleSource(ctx context.Context, session *models.Session, text string) ([]models.Reply, error) {
	if text == LabelBack {
		session.ClearDialogue()
		if err := svc.save(ctx, session); err != nil {
			return nil, err
		}
		return []models.Reply{mainMenuReply("Choose an action:")}, nil
	}

	p, ok := models.ParseProvider(text)
	if !ok {
		return []models.Reply{{Text: "Please choose a bank from the list.", Menu: sourceMenu()}}, nil
	}
	session.Provider = p
	session.ClearDialogue()
	if err := svc.save(ctx, session); err != nil {
		return nil, err
	}
	return []models.Reply{
		{Text: fmt.Sprintf("Rates source: %s", p.Title()), RemoveMenu: true},
		mainMenuReply("Choose an action:"),
	}, nil
}

func (svc *ConversationService) backToMain(ctx context.Context, session *models.Session) ([]models.Reply, error) {
	if err := svc.sessions.Delete(ctx, session.ConversationID); err != nil {
		return nil, fmt.Errorf("delete session: %w", err)
	}
	return []models.Reply{mainMenuReply("Choose an action:")}, nil
}

// complete converts the collected input. The session ends whatever the outcome.
func (svc *ConversationService) complete(ctx context.Context, session *models.Session) ([]models.Reply, error) {
	if err := svc.sessions.Delete(ctx, session.ConversationID); err != nil {
		return nil, fmt.Errorf("delete session: %w", err)
	}

	result, notice := svc.convert(ctx, session.ConversationID, session.Provider,
		*session.Amount, session.FromCurrency, session.ToCurrency)
	if result == nil {
		return []models.Reply{{Text: notice, RemoveMenu: true}, mainMenuReply("Choose an action:")}, nil
	}
	return []models.Reply{*result, mainMenuReply("Choose an action:")}, nil
}

// convert prices and records one conversion. On failure it returns a nil
// reply and the notice to show instead.
func (svc *ConversationService) convert(
	ctx context.Context,
	conversationID int64,
	p models.Provider,
	amount float64,
	from, to string,
) (*models.Reply, string) {
	conv, err := svc.quoter.Quote(ctx, p, from, to, amount)
	if err != nil {
		logger.Log.Warnw("conversion failed",
			"conversation_id", conversationID,
			"provider", p.String(),
			"from", from,
			"to", to,
			"error", err,
		)
		if errors.Is(err, ErrRateNotFound) {
			svc.recorder.ObserveConversion(p.String(), metrics.ConversionRateNotFound)
			return nil, "Rate not found for this currency pair."
		}
		svc.recorder.ObserveConversion(p.String(), metrics.ConversionRatesUnavailable)
		return nil, "Could not retrieve exchange rates. Please try again later."
	}
	svc.recorder.ObserveConversion(p.String(), metrics.ConversionOK)

	svc.record(ctx, conversationID, conv)

	reply := &models.Reply{Text: fmt.Sprintf("Result: %.2f %s", conv.ConvertedAmount, conv.ToCurrency)}
	if data := EncodeSwap(p, amount, to, from); len(data) <= MaxActionData {
		reply.Actions = []models.Action{{Label: LabelSwap, Data: data}}
	} else {
		logger.Log.Warnw("swap action dropped", "conversation_id", conversationID, "data_len", len(data))
	}
	return reply, ""
}

func (svc *ConversationService) record(ctx context.Context, conversationID int64, conv *models.Conversion) {
	if err := svc.ledger.Append(ctx, conversationID, conv.Amount,
		conv.FromCurrency, conv.ToCurrency, conv.ConvertedAmount); err != nil {
		logger.Log.Errorw("failed to record conversion", "conversation_id", conversationID, "error", err)
		return
	}

	event := models.ConversionEvent{
		ConversationID:  conversationID,
		Provider:        conv.Provider.String(),
		Amount:          conv.Amount,
		FromCurrency:    conv.FromCurrency,
		ToCurrency:      conv.ToCurrency,
		ConvertedAmount: conv.ConvertedAmount,
		OccurredAt:      svc.now().UTC(),
	}
	if err := svc.publisher.Publish(ctx, event); err != nil {
		logger.Log.Errorw("failed to publish conversion", "conversation_id", conversationID, "error", err)
	}
}

// HandleAction handles a press of the swap button under a conversion result.
// The pair is carried in the button data, so the dialogue session is not touched.
func (svc *ConversationService) HandleAction(ctx context.Context, ev models.ActionEvent) (models.ActionAnswer, error) {
	swap, err := DecodeSwap(ev.Data)
	if err != nil {
		logger.Log.Debugw("stale action", "conversation_id", ev.ConversationID, "data", ev.Data, "error", err)
		return models.ActionAnswer{
			Text:    "This conversion is out of date. Please start again.",
			Replies: []models.Reply{mainMenuReply("Choose an action:")},
		}, nil
	}

	result, notice := svc.convert(ctx, ev.ConversationID, swap.Provider, swap.Amount, swap.From, swap.To)
	if result == nil {
		return models.ActionAnswer{
			Text:    notice,
			Replies: []models.Reply{mainMenuReply("Choose an action:")},
		}, nil
	}
	return models.ActionAnswer{Replies: []models.Reply{*result}}, nil
}

func (svc *ConversationService) showRates(ctx context.Context, p models.Provider) []models.Reply {
	table, err := svc.rates.Fetch(ctx, p, true)
	if err != nil {
		return []models.Reply{mainMenuReply(fmt.Sprintf("Could not retrieve rates from %s.", p.Title()))}
	}
	return []models.Reply{{Text: formatRates(p, table), Markdown: true, Menu: mainMenu()}}
}

func (svc *ConversationService) showHistory(ctx context.Context, conversationID int64) []models.Reply {
	records, err := svc.ledger.Recent(ctx, conversationID, HistoryLimit)
	if err != nil {
		logger.Log.Errorw("failed to load history", "conversation_id", conversationID, "error", err)
		return []models.Reply{mainMenuReply("Could not load the conversion history.")}
	}
	if len(records) == 0 {
		return []models.Reply{mainMenuReply("Conversion history is empty.")}
	}
	return []models.Reply{{Text: formatHistory(records), Markdown: true, Menu: mainMenu()}}
}

func (svc *ConversationService) save(ctx context.Context, session *models.Session) error {
	if err := svc.sessions.Put(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func parseAmount(text string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	if math.IsInf(amount, 0) || math.IsNaN(amount) || amount <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	return amount, nil
}

func parseCurrency(text string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(text))
	if !models.IsConvertibleCurrency(code) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, text)
	}
	return code, nil
}
