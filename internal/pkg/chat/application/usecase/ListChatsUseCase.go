package usecase

import (
	"context"
	"fmt"

	chat "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/domain"
	repository "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/persistence/repository/port"
)

// ListChatsInput wraps the user whose conversations are listed.
type ListChatsInput struct {
	UserID int64
}

// ListChatsUseCase returns every conversation the user takes part in.
type ListChatsUseCase struct {
	Repo repository.ChatRepository
}

func NewListChatsUseCase(repo repository.ChatRepository) *ListChatsUseCase {
	return &ListChatsUseCase{Repo: repo}
}

func (uc *ListChatsUseCase) Execute(ctx context.Context, in ListChatsInput) ([]chat.Conversation, error) {
	if in.UserID <= 0 {
		return nil, fmt.Errorf("user id is required")
	}
	convs, err := uc.Repo.ListConversationsByUser(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return convs, nil
}
