package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"communishare-be/internal/models"
	"communishare-be/internal/services"
	"communishare-be/internal/store"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	store    store.Store
	messages *services.MessageService
}

func NewMessageHandler(st store.Store, messages *services.MessageService) *MessageHandler {
	return &MessageHandler{store: st, messages: messages}
}

// GetMessages returns the most recent messages in chronological order. The
// same access gate as group content applies.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	msgs, err := h.messages.List(c.Request.Context(), c.Param("id"), user, messageLimit(c))
	if !h.writeServiceError(c, err) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	var req models.MessageSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), c.Param("id"), user, req.Content)
	if !h.writeServiceError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// StreamMessages pushes message snapshots over server-sent events until the
// client disconnects.
func (h *MessageHandler) StreamMessages(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	updates := make(chan []models.ChatMessage, 1)
	cancel, err := h.messages.Subscribe(c.Request.Context(), c.Param("id"), user, messageLimit(c), func(msgs []models.ChatMessage) {
		// Drop the pending snapshot if the client is slow; only the latest
		// state matters.
		select {
		case updates <- msgs:
		default:
			select {
			case <-updates:
			default:
			}
			updates <- msgs
		}
	})
	if !h.writeServiceError(c, err) {
		return
	}
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msgs := <-updates:
			c.SSEvent("messages", msgs)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// writeServiceError maps message service errors to responses. It returns true
// when there was no error and the handler should continue.
func (h *MessageHandler) writeServiceError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, services.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
	case errors.Is(err, services.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Active subscription required"})
	case errors.Is(err, store.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat operation failed"})
	}
	return false
}

func messageLimit(c *gin.Context) int {
	limit := services.DefaultMessageLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	return limit
}
