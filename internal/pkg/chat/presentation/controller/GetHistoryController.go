package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/domain"
	"github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/usecase"
	"github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/persistence/repository/adapter"
)

// GetHistoryController lists a conversation's messages by room target
// (one controller per endpoint). The target is accepted with participants in
// either order; a room that never exchanged a message reads as empty.
type GetHistoryController struct {
	UC *usecase.GetHistoryUseCase
}

func NewGetHistoryController(pool *pgxpool.Pool) *GetHistoryController {
	repo := adapter.NewPgChatRepository(pool)
	return &GetHistoryController{UC: usecase.NewGetHistoryUseCase(repo)}
}

func (h *GetHistoryController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Defaults
		limit := 50
		offset := 0

		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		if v := c.Query("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		in := usecase.GetHistoryInput{RoomTarget: c.Param("room"), Limit: limit, Offset: offset}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, in)
		if err != nil {
			switch {
			case errors.Is(err, chat.ErrBadRoomTarget):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, chat.ErrConversationNotFound):
				c.JSON(http.StatusOK, gin.H{"messages": []gin.H{}, "count": 0})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		out := make([]gin.H, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, gin.H{
				"id":        m.ID,
				"sender":    m.SenderID,
				"content":   m.Content,
				"timestamp": m.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"messages": out,
			"limit":    limit,
			"offset":   offset,
			"count":    len(out),
		})
	}
}
