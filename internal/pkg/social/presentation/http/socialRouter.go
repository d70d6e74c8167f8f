package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KamcioRamcio/Ani-Tinder/internal/pkg/social/presentation/controller"
	userport "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/repository/port"
)

// RegisterRoutes registers friend-request endpoints under the given router group.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, userRepo userport.UserRepository) {
	sendCtl := controller.NewSendFriendRequestController(pool, userRepo)
	acceptCtl := controller.NewAcceptFriendRequestController(pool)

	// POST /api/v1/friends/requests -> create a friend request
	g.POST("/friends/requests", sendCtl.Handle())

	// POST /api/v1/friends/requests/:requestId/accept -> accept, ensuring the chat exists
	g.POST("/friends/requests/:requestId/accept", acceptCtl.Handle())
}
