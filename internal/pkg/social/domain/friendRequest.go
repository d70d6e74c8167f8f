package social

import (
	"errors"
	"time"
)

var (
	ErrRequestNotFound    = errors.New("social: friend request not found")
	ErrRequestNotActive   = errors.New("social: friend request is no longer active")
	ErrNotRequestReceiver = errors.New("social: only the receiver can accept a friend request")
	ErrSelfRequest        = errors.New("social: cannot send a friend request to yourself")
	ErrDuplicateRequest   = errors.New("social: friend request already exists")
)

// FriendRequest tracks a pending/settled request between two users. One row
// per (sender, receiver) pair, enforced by a unique constraint.
type FriendRequest struct {
	ID         int64     `db:"id"`
	SenderID   int64     `db:"sender_id"`
	ReceiverID int64     `db:"receiver_id"`
	IsActive   bool      `db:"is_active"`
	IsAccepted bool      `db:"is_accepted"`
	CreatedAt  time.Time `db:"created_at"`
}
