package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/usecase"
	"github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/persistence/repository/adapter"
)

// ListChatsController lists the conversations of the current user. Identity
// arrives resolved upstream as the user_id query value.
type ListChatsController struct {
	UC *usecase.ListChatsUseCase
}

func NewListChatsController(pool *pgxpool.Pool) *ListChatsController {
	repo := adapter.NewPgChatRepository(pool)
	return &ListChatsController{UC: usecase.NewListChatsUseCase(repo)}
}

func (h *ListChatsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
		if err != nil || userID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		convs, err := h.UC.Execute(ctx, usecase.ListChatsInput{UserID: userID})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(convs))
		for _, conv := range convs {
			out = append(out, gin.H{
				"id":           conv.ID,
				"room_key":     conv.RoomKey,
				"participants": []int64{conv.ParticipantA, conv.ParticipantB},
				"created_at":   conv.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{"chats": out, "count": len(out)})
	}
}
