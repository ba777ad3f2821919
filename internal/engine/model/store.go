package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// SessionStore is the caller-side persistence collaborator. The engine only
// reads and returns plain records; where they live between turns is the
// caller's concern.
type SessionStore interface {
	// AppendMessages appends messages to the conversation history.
	AppendMessages(ctx context.Context, conversationID string, messages ...*schema.Message) error

	// LoadHistory retrieves the conversation history for a conversation.
	LoadHistory(ctx context.Context, conversationID string) (*ConversationHistory, error)

	// SaveSession stores the session snapshot for a conversation.
	SaveSession(ctx context.Context, conversationID string, state *SessionState) error

	// LoadSession retrieves the stored session snapshot, or nil when the
	// conversation is new.
	LoadSession(ctx context.Context, conversationID string) (*SessionState, error)

	// Clear removes history and session snapshot for a conversation.
	Clear(ctx context.Context, conversationID string) error
}

// ConversationHistory represents loaded conversation data with metadata.
type ConversationHistory struct {
	ConversationID string
	Messages       []*schema.Message
}
