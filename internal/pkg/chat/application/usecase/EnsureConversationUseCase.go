package usecase

import (
	"context"
	"fmt"

	chat "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/domain"
	repository "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/persistence/repository/port"
)

// EnsureConversationInput carries the unordered participant pair. Order does
// not matter; the repository stores a single canonical row per pair.
type EnsureConversationInput struct {
	UserA int64
	UserB int64
}

// EnsureConversationUseCase resolves the conversation for a pair of users,
// creating it lazily on first contact. Called from the socket connect path
// and explicitly from the friend-request accept handler.
type EnsureConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewEnsureConversationUseCase(repo repository.ChatRepository) *EnsureConversationUseCase {
	return &EnsureConversationUseCase{Repo: repo}
}

func (uc *EnsureConversationUseCase) Execute(ctx context.Context, in EnsureConversationInput) (chat.Conversation, error) {
	if in.UserA <= 0 || in.UserB <= 0 || in.UserA == in.UserB {
		return chat.Conversation{}, chat.ErrBadRoomTarget
	}
	conv, err := uc.Repo.EnsureConversation(ctx, in.UserA, in.UserB)
	if err != nil {
		return chat.Conversation{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return conv, nil
}
