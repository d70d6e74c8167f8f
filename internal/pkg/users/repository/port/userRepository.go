package repository

import (
	"context"

	users "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/domain"
)

// UserRepository resolves participant identifiers. Returns
// users.ErrUserNotFound when the id is unknown.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (users.User, error)
}
