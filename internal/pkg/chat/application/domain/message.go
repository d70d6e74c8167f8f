package chat

import (
	"strings"
	"time"
)

// Message is an immutable log entry in a conversation. The ID is assigned by
// the database on insert and doubles as the tie-breaker when two messages
// share a timestamp.
type Message struct {
	ID             int64     `db:"id"`
	ConversationID string    `db:"conversation_id"`
	SenderID       int64     `db:"sender_id"`
	Content        string    `db:"content"`
	CreatedAt      time.Time `db:"created_at"`
}

// OutboundFrame is the socket event fanned out to every room member after a
// message is persisted. The timestamp is RFC 3339 / ISO-8601.
type OutboundFrame struct {
	Message   string `json:"message"`
	Sender    int64  `json:"sender"`
	Receiver  int64  `json:"receiver"`
	Timestamp string `json:"timestamp"`
}

// NewOutboundFrame shapes a persisted message for fan-out.
func NewOutboundFrame(m Message, receiver int64) OutboundFrame {
	return OutboundFrame{
		Message:   m.Content,
		Sender:    m.SenderID,
		Receiver:  receiver,
		Timestamp: m.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// NewMessage validates and shapes a message for persistence. Content is
// trimmed; an empty result is rejected. CreatedAt defaults to now.
func NewMessage(conversationID string, senderID int64, content string) (Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, ErrEmptyContent
	}
	return Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
