package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/domain"
	repository "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/persistence/repository/port"
	users "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/domain"
	userport "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/repository/port"
)

// SendMessageInput carries one inbound frame resolved against an already
// loaded conversation.
type SendMessageInput struct {
	Conversation chat.Conversation
	SenderID     int64
	ReceiverID   int64
	Content      string
}

// SendMessageUseCase validates and appends one message. Both participant ids
// must resolve to real users and the sender must belong to the conversation;
// the message is immutable once stored.
type SendMessageUseCase struct {
	Repo  repository.ChatRepository
	Users userport.UserRepository
}

func NewSendMessageUseCase(repo repository.ChatRepository, userRepo userport.UserRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Users: userRepo}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (chat.Message, error) {
	if in.Conversation.ID == "" {
		return chat.Message{}, chat.ErrConversationNotFound
	}

	if _, err := uc.Users.GetByID(ctx, in.SenderID); err != nil {
		return chat.Message{}, userLookupError(err)
	}
	if _, err := uc.Users.GetByID(ctx, in.ReceiverID); err != nil {
		return chat.Message{}, userLookupError(err)
	}

	if !in.Conversation.HasParticipant(in.SenderID) {
		return chat.Message{}, chat.ErrNotParticipant
	}

	msg, err := chat.NewMessage(in.Conversation.ID, in.SenderID, in.Content)
	if err != nil {
		return chat.Message{}, err
	}

	saved, err := uc.Repo.SaveMessage(ctx, msg)
	if err != nil {
		return chat.Message{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return saved, nil
}

func userLookupError(err error) error {
	if errors.Is(err, users.ErrUserNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
