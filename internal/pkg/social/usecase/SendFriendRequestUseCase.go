package usecase

import (
	"context"
	"errors"
	"fmt"

	social "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/social/domain"
	repository "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/social/repository/port"
	users "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/domain"
	userport "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/repository/port"
)

// SendFriendRequestInput carries a new request from sender to receiver.
type SendFriendRequestInput struct {
	SenderID   int64
	ReceiverID int64
}

// SendFriendRequestUseCase creates a pending friend request after checking
// both users exist.
type SendFriendRequestUseCase struct {
	Repo  repository.FriendRepository
	Users userport.UserRepository
}

func NewSendFriendRequestUseCase(repo repository.FriendRepository, userRepo userport.UserRepository) *SendFriendRequestUseCase {
	return &SendFriendRequestUseCase{Repo: repo, Users: userRepo}
}

func (uc *SendFriendRequestUseCase) Execute(ctx context.Context, in SendFriendRequestInput) (social.FriendRequest, error) {
	if in.SenderID == in.ReceiverID {
		return social.FriendRequest{}, social.ErrSelfRequest
	}
	for _, id := range []int64{in.SenderID, in.ReceiverID} {
		if _, err := uc.Users.GetByID(ctx, id); err != nil {
			if errors.Is(err, users.ErrUserNotFound) {
				return social.FriendRequest{}, err
			}
			return social.FriendRequest{}, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	req, err := uc.Repo.CreateRequest(ctx, in.SenderID, in.ReceiverID)
	if err != nil {
		if errors.Is(err, social.ErrDuplicateRequest) {
			return social.FriendRequest{}, err
		}
		return social.FriendRequest{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return req, nil
}
