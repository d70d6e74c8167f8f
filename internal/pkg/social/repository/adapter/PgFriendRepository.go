package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	social "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/social/domain"
)

const uniqueViolation = "23505"

type PgFriendRepository struct {
	pool *pgxpool.Pool
}

func NewPgFriendRepository(pool *pgxpool.Pool) *PgFriendRepository {
	return &PgFriendRepository{pool: pool}
}

func (r *PgFriendRepository) CreateRequest(ctx context.Context, senderID, receiverID int64) (social.FriendRequest, error) {
	if r == nil || r.pool == nil {
		return social.FriendRequest{}, errors.New("PgFriendRepository: nil pool")
	}
	req := social.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO friend_requests (sender_id, receiver_id, is_active, is_accepted, created_at)
		VALUES ($1, $2, TRUE, FALSE, $3)
		RETURNING id
	`, req.SenderID, req.ReceiverID, req.CreatedAt).Scan(&req.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return social.FriendRequest{}, social.ErrDuplicateRequest
		}
		return social.FriendRequest{}, err
	}
	return req, nil
}

func (r *PgFriendRepository) GetRequestByID(ctx context.Context, id int64) (social.FriendRequest, error) {
	if r == nil || r.pool == nil {
		return social.FriendRequest{}, errors.New("PgFriendRepository: nil pool")
	}
	var req social.FriendRequest
	err := r.pool.QueryRow(ctx, `
		SELECT id, sender_id, receiver_id, is_active, is_accepted, created_at
		FROM friend_requests
		WHERE id = $1
	`, id).Scan(&req.ID, &req.SenderID, &req.ReceiverID, &req.IsActive, &req.IsAccepted, &req.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return social.FriendRequest{}, social.ErrRequestNotFound
	}
	if err != nil {
		return social.FriendRequest{}, err
	}
	return req, nil
}

func (r *PgFriendRepository) MarkAccepted(ctx context.Context, id int64) error {
	if r == nil || r.pool == nil {
		return errors.New("PgFriendRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE friend_requests
		SET is_accepted = TRUE, is_active = FALSE
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return social.ErrRequestNotFound
	}
	return nil
}
