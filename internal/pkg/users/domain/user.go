package users

import (
	"errors"
	"time"
)

// ErrUserNotFound signals that a participant id does not resolve to a user.
var ErrUserNotFound = errors.New("users: user not found")

// User is the participant record the chat core resolves senders and
// receivers against. Profile data lives elsewhere; the core only needs
// identity.
type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
}
