package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/domain"
	repository "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/persistence/repository/port"
)

// GetHistoryInput addresses a conversation by its wire-visible room target,
// participants in either order.
type GetHistoryInput struct {
	RoomTarget string
	Limit      int
	Offset     int
}

// GetHistoryUseCase returns a conversation's messages ascending by timestamp,
// ties broken by insertion order.
type GetHistoryUseCase struct {
	Repo repository.ChatRepository
}

func NewGetHistoryUseCase(repo repository.ChatRepository) *GetHistoryUseCase {
	return &GetHistoryUseCase{Repo: repo}
}

func (uc *GetHistoryUseCase) Execute(ctx context.Context, in GetHistoryInput) ([]chat.Message, error) {
	a, b, err := chat.ParseRoomTarget(in.RoomTarget)
	if err != nil {
		return nil, err
	}

	conv, err := uc.Repo.GetConversationByRoomKey(ctx, chat.CanonicalRoomKey(a, b))
	if err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msgs, err := uc.Repo.ListMessages(ctx, conv.ID, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
