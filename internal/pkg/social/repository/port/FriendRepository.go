package repository

import (
	"context"

	social "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/social/domain"
)

// FriendRepository persists friend requests.
type FriendRepository interface {
	// CreateRequest inserts a new active request. Returns
	// social.ErrDuplicateRequest when one already exists for the pair.
	CreateRequest(ctx context.Context, senderID, receiverID int64) (social.FriendRequest, error)

	// GetRequestByID returns social.ErrRequestNotFound when absent.
	GetRequestByID(ctx context.Context, id int64) (social.FriendRequest, error)

	// MarkAccepted settles the request as accepted and inactive.
	MarkAccepted(ctx context.Context, id int64) error
}
