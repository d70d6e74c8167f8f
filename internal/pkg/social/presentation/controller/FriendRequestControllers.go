package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	chatusecase "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/usecase"
	chatadapter "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/persistence/repository/adapter"
	social "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/social/domain"
	"github.com/KamcioRamcio/Ani-Tinder/internal/pkg/social/repository/adapter"
	"github.com/KamcioRamcio/Ani-Tinder/internal/pkg/social/usecase"
	users "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/domain"
	userport "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/repository/port"
)

// SendFriendRequestController creates a pending friend request.
type SendFriendRequestController struct {
	UC *usecase.SendFriendRequestUseCase
}

func NewSendFriendRequestController(pool *pgxpool.Pool, userRepo userport.UserRepository) *SendFriendRequestController {
	repo := adapter.NewPgFriendRepository(pool)
	return &SendFriendRequestController{UC: usecase.NewSendFriendRequestUseCase(repo, userRepo)}
}

type sendFriendRequestBody struct {
	Sender   int64 `json:"sender" binding:"required"`
	Receiver int64 `json:"receiver" binding:"required"`
}

func (h *SendFriendRequestController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendFriendRequestBody
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		fr, err := h.UC.Execute(ctx, usecase.SendFriendRequestInput{SenderID: req.Sender, ReceiverID: req.Receiver})
		if err != nil {
			switch {
			case errors.Is(err, social.ErrSelfRequest), errors.Is(err, users.ErrUserNotFound):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, social.ErrDuplicateRequest):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":       fr.ID,
			"sender":   fr.SenderID,
			"receiver": fr.ReceiverID,
			"active":   fr.IsActive,
		})
	}
}

// AcceptFriendRequestController settles a request and reports the pair's
// conversation, created here explicitly if it did not exist yet.
type AcceptFriendRequestController struct {
	UC *usecase.AcceptFriendRequestUseCase
}

func NewAcceptFriendRequestController(pool *pgxpool.Pool) *AcceptFriendRequestController {
	repo := adapter.NewPgFriendRepository(pool)
	ensureUC := chatusecase.NewEnsureConversationUseCase(chatadapter.NewPgChatRepository(pool))
	return &AcceptFriendRequestController{UC: usecase.NewAcceptFriendRequestUseCase(repo, ensureUC)}
}

func (h *AcceptFriendRequestController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, err := strconv.ParseInt(c.Param("requestId"), 10, 64)
		if err != nil || requestID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "requestId is required"})
			return
		}
		userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
		if err != nil || userID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		conv, err := h.UC.Execute(ctx, usecase.AcceptFriendRequestInput{RequestID: requestID, UserID: userID})
		if err != nil {
			switch {
			case errors.Is(err, social.ErrRequestNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, social.ErrNotRequestReceiver):
				c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			case errors.Is(err, social.ErrRequestNotActive):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":       "accepted",
			"conversation": conv.ID,
			"room_key":     conv.RoomKey,
		})
	}
}
