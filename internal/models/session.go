package models

// State is a step of the conversion dialogue.
type State int

const (
	StateIdle State = iota
	StateAwaitingChoice
	StateAwaitingAmount
	StateAwaitingFromCurrency
	StateAwaitingToCurrency
	StateAwaitingSource
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingChoice:
		return "awaiting_choice"
	case StateAwaitingAmount:
		return "awaiting_amount"
	case StateAwaitingFromCurrency:
		return "awaiting_from_currency"
	case StateAwaitingToCurrency:
		return "awaiting_to_currency"
	case StateAwaitingSource:
		return "awaiting_source"
	default:
		return "unknown"
	}
}

// Session is the per-conversation dialogue state.
type Session struct {
	ConversationID int64    `json:"conversation_id"`         // Chat the session belongs to
	Provider       Provider `json:"provider"`                // Selected rate source
	State          State    `json:"state"`                   // Current dialogue step
	Amount         *float64 `json:"amount,omitempty"`        // Amount entered so far
	FromCurrency   string   `json:"from_currency,omitempty"` // Source currency, empty until chosen
	ToCurrency     string   `json:"to_currency,omitempty"`   // Target currency, empty until chosen
}

// NewSession returns an idle session using the default provider.
func NewSession(conversationID int64) *Session {
	return &Session{
		ConversationID: conversationID,
		Provider:       DefaultProvider,
		State:          StateIdle,
	}
}

// ClearDialogue drops the collected amount and currencies and returns to idle.
// The provider preference is kept.
func (s *Session) ClearDialogue() {
	s.State = StateIdle
	s.Amount = nil
	s.FromCurrency = ""
	s.ToCurrency = ""
}

// HasPresetPair reports whether both currencies are already chosen.
func (s *Session) HasPresetPair() bool {
	return s.FromCurrency != "" && s.ToCurrency != ""
}
