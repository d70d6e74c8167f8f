package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/domain"
	chatusecase "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/usecase"
	social "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/social/domain"
	repository "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/social/repository/port"
)

// AcceptFriendRequestInput identifies the request and the user accepting it.
type AcceptFriendRequestInput struct {
	RequestID int64
	UserID    int64
}

// AcceptFriendRequestUseCase settles a friend request and explicitly ensures
// the pair's conversation exists, so the two can chat right away. The
// conversation creation is a visible service-layer call here, not a side
// effect hidden behind the persistence layer.
type AcceptFriendRequestUseCase struct {
	Repo     repository.FriendRepository
	EnsureUC *chatusecase.EnsureConversationUseCase
}

func NewAcceptFriendRequestUseCase(repo repository.FriendRepository, ensureUC *chatusecase.EnsureConversationUseCase) *AcceptFriendRequestUseCase {
	return &AcceptFriendRequestUseCase{Repo: repo, EnsureUC: ensureUC}
}

func (uc *AcceptFriendRequestUseCase) Execute(ctx context.Context, in AcceptFriendRequestInput) (chat.Conversation, error) {
	req, err := uc.Repo.GetRequestByID(ctx, in.RequestID)
	if err != nil {
		if errors.Is(err, social.ErrRequestNotFound) {
			return chat.Conversation{}, err
		}
		return chat.Conversation{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if req.ReceiverID != in.UserID {
		return chat.Conversation{}, social.ErrNotRequestReceiver
	}
	if !req.IsActive {
		return chat.Conversation{}, social.ErrRequestNotActive
	}

	if err := uc.Repo.MarkAccepted(ctx, req.ID); err != nil {
		return chat.Conversation{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	conv, err := uc.EnsureUC.Execute(ctx, chatusecase.EnsureConversationInput{
		UserA: req.SenderID,
		UserB: req.ReceiverID,
	})
	if err != nil {
		return chat.Conversation{}, err
	}
	return conv, nil
}
