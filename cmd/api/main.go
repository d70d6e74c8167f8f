package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	v1 "github.com/KamcioRamcio/Ani-Tinder/cmd/api/router/v1"
	cacheAdapter "github.com/KamcioRamcio/Ani-Tinder/internal/infrastructure/cache/adapter"
	"github.com/KamcioRamcio/Ani-Tinder/internal/infrastructure/database"
	queueAdapter "github.com/KamcioRamcio/Ani-Tinder/internal/infrastructure/queue/adapter"
	"github.com/KamcioRamcio/Ani-Tinder/internal/infrastructure/realtime"
	"github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/task"
	userAdapter "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/repository/adapter"
	userport "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/repository/port"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg(".env file not found or could not be loaded")
	}

	// Connect to the database on startup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	// Participant lookups go through Redis when available; the database is
	// the fallback either way.
	var userRepo userport.UserRepository = userAdapter.NewPgUserRepository(pool)
	cache, err := cacheAdapter.NewRedisAdapter()
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, participant lookups are uncached")
	} else {
		defer cache.Close()
		userRepo = userAdapter.NewCachedUserRepository(userRepo, cache)
	}

	// The registry is the process-wide room membership table. One instance,
	// torn down on shutdown.
	registry := realtime.NewRegistry(log)
	defer registry.Close()

	// Background worker for the REST send path.
	queueClient, err := queueAdapter.NewAsynqClientFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create queue client")
	}
	defer queueClient.Close()

	queueServer, err := queueAdapter.NewAsynqServer(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create queue server")
	}
	task.RegisterDeliverMessageTask(queueServer, pool, userRepo, registry, log)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go func() {
		if err := queueServer.Run(workerCtx); err != nil {
			log.Error().Err(err).Msg("queue server stopped")
		}
	}()

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1.RegisterRoutes(r, pool, queueClient, userRepo, registry, log)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, Handler: r}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	<-done
	log.Info().Msg("shutting down")

	stopWorker()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
