package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	queueport "github.com/KamcioRamcio/Ani-Tinder/internal/infrastructure/queue/port"
	chat "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/domain"
	"github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/task"
)

// SendMessageController handles the REST send-message endpoint (one
// controller per endpoint). The message is enqueued for a background worker
// which persists it and fans it out to live sockets.
type SendMessageController struct {
	Q queueport.Client
}

func NewSendMessageController(client queueport.Client) *SendMessageController {
	return &SendMessageController{Q: client}
}

// sendMessageRequest is the DTO for the HTTP request body
type sendMessageRequest struct {
	Sender  int64  `json:"sender" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// Handle returns a gin handler that enqueues a background task to send a
// message into the room addressed by the path target.
func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		a, b, err := chat.ParseRoomTarget(c.Param("room"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "room target must be {participantA}_{participantB}"})
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// The receiver is the other half of the pair.
		var receiver int64
		switch req.Sender {
		case a:
			receiver = b
		case b:
			receiver = a
		default:
			c.JSON(http.StatusForbidden, gin.H{"error": "sender is not a participant in this room"})
			return
		}

		payload := task.DeliverMessageTaskPayload{
			Sender:   req.Sender,
			Receiver: receiver,
			Content:  req.Content,
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode task payload"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		// Enqueue task; best-effort options
		opts := queueport.EnqueueOption{Queue: "chat", MaxRetry: 20}
		id, err := h.Q.Enqueue(ctx, queueport.Task{Type: task.DeliverMessageTaskType, Payload: raw}, opts)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to enqueue message"})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"status":  "queued",
			"task_id": id,
			"room":    chat.CanonicalRoomKey(a, b),
			"sender":  req.Sender,
		})
	}
}
