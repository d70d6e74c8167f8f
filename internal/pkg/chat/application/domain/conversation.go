package chat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Domain-level errors for chat behaviors
var (
	ErrBadRoomTarget        = errors.New("chat: room target must be two non-empty participant ids")
	ErrNotParticipant       = errors.New("chat: sender is not a participant in the conversation")
	ErrEmptyContent         = errors.New("chat: message content is empty")
	ErrConversationNotFound = errors.New("chat: conversation not found")
)

// Conversation is the single thread between an unordered pair of users.
// ParticipantA always holds the smaller id so RoomKey is canonical; at most
// one row exists per pair, enforced by a unique constraint on RoomKey.
// Conversations are created lazily on first contact and never deleted.
type Conversation struct {
	ID           string    `db:"id"`
	RoomKey      string    `db:"room_key"`
	ParticipantA int64     `db:"participant_a"`
	ParticipantB int64     `db:"participant_b"`
	CreatedAt    time.Time `db:"created_at"`
}

// HasParticipant tells whether userID is part of this conversation.
func (c Conversation) HasParticipant(userID int64) bool {
	return userID == c.ParticipantA || userID == c.ParticipantB
}

// CanonicalRoomKey derives the storage key for an unordered pair of
// participant ids: "{min}_{max}". Both orderings of the same pair map to the
// same key, which is what makes lookup-or-create idempotent.
func CanonicalRoomKey(a, b int64) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

// ParseRoomTarget splits a wire-visible room target like "7_3" into its two
// participant ids. Either ordering is accepted; normalization to the
// canonical form happens in CanonicalRoomKey. The ids must be two distinct
// positive integers.
func ParseRoomTarget(target string) (int64, int64, error) {
	parts := strings.Split(target, "_")
	if len(parts) != 2 {
		return 0, 0, ErrBadRoomTarget
	}
	a, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, ErrBadRoomTarget
	}
	b, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, ErrBadRoomTarget
	}
	if a <= 0 || b <= 0 || a == b {
		return 0, 0, ErrBadRoomTarget
	}
	return a, b, nil
}
