package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/domain"
)

// uniqueViolation is the Postgres error code raised when the room_key unique
// constraint rejects a second conversation for the same pair.
const uniqueViolation = "23505"

type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

// EnsureConversation looks up the conversation for the pair (a, b) and lazily
// creates it on first contact. Two connections racing on the same first
// contact both land on the single winning row: the loser's INSERT hits the
// unique constraint and is resolved by re-reading.
func (r *PgChatRepository) EnsureConversation(ctx context.Context, a, b int64) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errors.New("PgChatRepository: nil pool")
	}
	if b < a {
		a, b = b, a
	}
	key := chat.CanonicalRoomKey(a, b)

	conv, err := r.GetConversationByRoomKey(ctx, key)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, chat.ErrConversationNotFound) {
		return chat.Conversation{}, err
	}

	conv = chat.Conversation{
		RoomKey:      key,
		ParticipantA: a,
		ParticipantB: b,
		CreatedAt:    time.Now().UTC(),
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO conversations (room_key, participant_a, participant_b, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text
	`, conv.RoomKey, conv.ParticipantA, conv.ParticipantB, conv.CreatedAt).Scan(&conv.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// Lost the first-contact race; reuse the winner.
			return r.GetConversationByRoomKey(ctx, key)
		}
		return chat.Conversation{}, err
	}
	return conv, nil
}

func (r *PgChatRepository) GetConversationByRoomKey(ctx context.Context, roomKey string) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errors.New("PgChatRepository: nil pool")
	}
	var conv chat.Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, room_key, participant_a, participant_b, created_at
		FROM conversations
		WHERE room_key = $1
	`, roomKey).Scan(&conv.ID, &conv.RoomKey, &conv.ParticipantA, &conv.ParticipantB, &conv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.Conversation{}, chat.ErrConversationNotFound
	}
	if err != nil {
		return chat.Conversation{}, err
	}
	return conv, nil
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	if r == nil || r.pool == nil {
		return chat.Message{}, errors.New("PgChatRepository: nil pool")
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (conversation_id, sender_id, content, created_at)
		VALUES ($1::uuid, $2, $3, $4)
		RETURNING id
	`, m.ConversationID, m.SenderID, m.Content, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return chat.Message{}, err
	}
	return m, nil
}

func (r *PgChatRepository) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, conversation_id::text, sender_id, content, created_at
		FROM messages
		WHERE conversation_id = $1::uuid
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var msg chat.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}

func (r *PgChatRepository) ListConversationsByUser(ctx context.Context, userID int64) ([]chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, room_key, participant_a, participant_b, created_at
		FROM conversations
		WHERE participant_a = $1 OR participant_b = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []chat.Conversation
	for rows.Next() {
		var conv chat.Conversation
		if err := rows.Scan(&conv.ID, &conv.RoomKey, &conv.ParticipantA, &conv.ParticipantB, &conv.CreatedAt); err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return convs, nil
}
