package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	qport "github.com/KamcioRamcio/Ani-Tinder/internal/infrastructure/queue/port"
	"github.com/KamcioRamcio/Ani-Tinder/internal/infrastructure/realtime"
	chatHandler "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/presentation/http"
	socialHandler "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/social/presentation/http"
	userport "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/repository/port"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, client qport.Client, userRepo userport.UserRepository, registry *realtime.Registry, log zerolog.Logger) {
	v1 := r.Group("/api/v1")
	chatHandler.RegisterRoutes(v1, pool, client, userRepo, registry, log)
	socialHandler.RegisterRoutes(v1, pool, userRepo)
}
