package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	qport "github.com/KamcioRamcio/Ani-Tinder/internal/infrastructure/queue/port"
	"github.com/KamcioRamcio/Ani-Tinder/internal/infrastructure/realtime"
	"github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/presentation/controller"
	userport "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/repository/port"
)

// RegisterRoutes registers chat-related HTTP endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, client qport.Client, userRepo userport.UserRepository, registry *realtime.Registry, log zerolog.Logger) {
	listCtl := controller.NewListChatsController(pool)
	historyCtl := controller.NewGetHistoryController(pool)
	sendMsgCtl := controller.NewSendMessageController(client)
	socketCtl := controller.NewChatSocketController(pool, userRepo, registry, log)

	// GET /api/v1/chat?user_id=N -> conversations of the current user
	g.GET("/chat", listCtl.Handle())

	// GET /api/v1/chat/messages/:room -> history, room target in either order
	g.GET("/chat/messages/:room", historyCtl.Handle())

	// POST /api/v1/chat/:room/messages -> enqueue a message into a room
	g.POST("/chat/:room/messages", sendMsgCtl.Handle())

	// GET /api/v1/chat/ws/:room -> websocket endpoint for realtime chat
	g.GET("/chat/ws/:room", socketCtl.Handle())
}
