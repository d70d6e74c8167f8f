package repository

import (
	"context"

	chat "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for the chat domain.
// Messages are append-only: nothing here updates or deletes a message, and
// conversations are never removed once created.
type ChatRepository interface {
	// EnsureConversation returns the conversation for the unordered pair
	// (a, b), creating it on first contact. Implementations must resolve a
	// concurrent create for the same pair to a single row.
	EnsureConversation(ctx context.Context, a, b int64) (chat.Conversation, error)

	// GetConversationByRoomKey looks up a conversation by its canonical key.
	// Returns chat.ErrConversationNotFound when no row exists.
	GetConversationByRoomKey(ctx context.Context, roomKey string) (chat.Conversation, error)

	// SaveMessage appends m and returns it with the database-assigned ID.
	SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error)

	// ListMessages returns messages ascending by (created_at, id).
	ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]chat.Message, error)

	// ListConversationsByUser returns every conversation userID takes part in.
	ListConversationsByUser(ctx context.Context, userID int64) ([]chat.Conversation, error)
}
