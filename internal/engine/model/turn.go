package model

import (
	"github.com/cloudwego/eino/schema"
)

// TurnRequest carries everything the caller supplies for one conversational
// turn: prior messages, prior session state (nil for a fresh conversation),
// and the new user message.
type TurnRequest struct {
	ConversationID string
	UserMessage    string
	History        []*schema.Message
	Session        *SessionState
}

// TurnResult is returned after every completed turn. Messages is the updated
// history so the caller can persist and replay it; the engine itself stores
// nothing.
type TurnResult struct {
	FinalText        string
	Suggestions      []string
	Session          *SessionState
	CapabilitiesUsed []string
	Messages         []*schema.Message
}
