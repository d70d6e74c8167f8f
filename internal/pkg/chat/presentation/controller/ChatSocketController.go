package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/KamcioRamcio/Ani-Tinder/internal/infrastructure/realtime"
	chat "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/domain"
	"github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/usecase"
	repoAdapter "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/persistence/repository/adapter"
	userport "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/repository/port"
)

// ChatSocketController handles the websocket endpoint for realtime chat.
// Lifecycle per socket: parse the room target from the path (either
// participant order), resolve the conversation, join its room under the
// canonical key, then relay frames until the peer disconnects. Any failure
// handling a single frame drops that frame only; the connection stays open.
type ChatSocketController struct {
	registry        *realtime.Registry
	ensureUC        *usecase.EnsureConversationUseCase
	sendMessageUC   *usecase.SendMessageUseCase
	inflightTimeout time.Duration
	log             zerolog.Logger
}

func NewChatSocketController(pool *pgxpool.Pool, userRepo userport.UserRepository, registry *realtime.Registry, log zerolog.Logger) *ChatSocketController {
	repo := repoAdapter.NewPgChatRepository(pool)
	return &ChatSocketController{
		registry:        registry,
		ensureUC:        usecase.NewEnsureConversationUseCase(repo),
		sendMessageUC:   usecase.NewSendMessageUseCase(repo, userRepo),
		inflightTimeout: 5 * time.Second,
		log:             log,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth is added.
		return true
	},
}

// inboundFrame is one client message: sender, receiver, text content.
type inboundFrame struct {
	Sender   int64  `json:"sender"`
	Receiver int64  `json:"receiver"`
	Content  string `json:"content"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and relays frames until the
// client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Guard: both participant ids must be present in the room target.
		// No frame is exchanged on failure.
		a, b, err := chat.ParseRoomTarget(c.Param("room"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "room target must be {participantA}_{participantB}"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just return.
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
		conv, err := ctl.ensureUC.Execute(ctx, usecase.EnsureConversationInput{UserA: a, UserB: b})
		cancel()
		if err != nil {
			ctl.log.Warn().Str("room", c.Param("room")).Err(err).Msg("conversation setup failed")
			_ = ws.Close()
			return
		}

		conn := realtime.NewConnection(a, ws)
		ctl.registry.Join(conv.RoomKey, conn)
		conn.Start()
		defer func() {
			// Deregister before this handler returns so later broadcasts
			// never reach a dead socket.
			ctl.registry.Leave(conv.RoomKey, conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			ctl.relayFrame(c.Request.Context(), conv, data)
		}
	}
}

// relayFrame handles one inbound frame: parse, persist, fan out. Chat
// delivery is best-effort per message; every failure here drops the frame
// and keeps the connection alive.
func (ctl *ChatSocketController) relayFrame(parent context.Context, conv chat.Conversation, data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		ctl.log.Debug().Str("room", conv.RoomKey).Err(err).Msg("dropped malformed frame")
		return
	}

	ctx, cancel := context.WithTimeout(parent, ctl.inflightTimeout)
	defer cancel()

	msg, err := ctl.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		Conversation: conv,
		SenderID:     frame.Sender,
		ReceiverID:   frame.Receiver,
		Content:      frame.Content,
	})
	if err != nil {
		ctl.log.Debug().Str("room", conv.RoomKey).Int64("sender", frame.Sender).Err(err).Msg("dropped frame")
		return
	}

	payload, err := json.Marshal(chat.NewOutboundFrame(msg, frame.Receiver))
	if err != nil {
		ctl.log.Error().Str("room", conv.RoomKey).Err(err).Msg("encode outbound frame")
		return
	}
	ctl.registry.Broadcast(conv.RoomKey, payload)
}
