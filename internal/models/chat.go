package models

// Event is an inbound chat message.
type Event struct {
	ConversationID int64
	UserName       string
	Text           string
}

// ActionEvent is a press of an inline button attached to an earlier reply.
type ActionEvent struct {
	ConversationID int64
	QueryID        string
	Data           string
}

// Menu is a reply keyboard, one slice of labels per row.
type Menu struct {
	Rows [][]string
}

// Action is an inline button; Data comes back in an ActionEvent.
type Action struct {
	Label string
	Data  string
}

// Reply is a transport-neutral outbound message.
type Reply struct {
	Text       string
	Markdown   bool
	Menu       *Menu
	RemoveMenu bool
	Actions    []Action
}

// ActionAnswer acknowledges an ActionEvent. Text, when set, is shown as a notice.
type ActionAnswer struct {
	Text    string
	Replies []Reply
}

// InlineResult is a single article offered in answer to an inline query.
type InlineResult struct {
	ID    string
	Title string
	Text  string
}
