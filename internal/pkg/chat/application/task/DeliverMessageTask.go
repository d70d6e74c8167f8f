package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/KamcioRamcio/Ani-Tinder/internal/infrastructure/realtime"
	qport "github.com/KamcioRamcio/Ani-Tinder/internal/infrastructure/queue/port"
	chat "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/domain"
	"github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/usecase"
	repoAdapter "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/persistence/repository/adapter"
	userport "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/repository/port"
)

// DeliverMessageTaskType is the queue task name for the REST send path.
const DeliverMessageTaskType = "chat:deliver_message"

// DeliverMessageTaskPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid tight coupling with JSON tags.
type DeliverMessageTaskPayload struct {
	Sender   int64  `json:"sender"`
	Receiver int64  `json:"receiver"`
	Content  string `json:"content"`
}

// RegisterDeliverMessageTask binds the task handler to the provided server.
// The worker persists the message like the socket path does and fans it out
// to any members connected to this node, so REST-sent messages also reach
// live sockets.
func RegisterDeliverMessageTask(srv qport.Server, pool *pgxpool.Pool, userRepo userport.UserRepository, registry *realtime.Registry, log zerolog.Logger) {
	srv.Register(DeliverMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var p DeliverMessageTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}

		repo := repoAdapter.NewPgChatRepository(pool)
		ensureUC := usecase.NewEnsureConversationUseCase(repo)
		sendUC := usecase.NewSendMessageUseCase(repo, userRepo)

		// give DB a reasonable time budget per task execution
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		conv, err := ensureUC.Execute(ctx, usecase.EnsureConversationInput{UserA: p.Sender, UserB: p.Receiver})
		if err != nil {
			return err
		}

		msg, err := sendUC.Execute(ctx, usecase.SendMessageInput{
			Conversation: conv,
			SenderID:     p.Sender,
			ReceiverID:   p.Receiver,
			Content:      p.Content,
		})
		if err != nil {
			return err
		}

		payload, err := json.Marshal(chat.NewOutboundFrame(msg, p.Receiver))
		if err != nil {
			return err
		}
		delivered := registry.Broadcast(conv.RoomKey, payload)
		log.Debug().Str("room", conv.RoomKey).Int("delivered", delivered).Msg("queued message fanned out")
		return nil
	})
}
