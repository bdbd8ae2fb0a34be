package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/artvault/internal/service"
)

// ChatHandler handles art-master chat endpoints.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// ChatRequest is the JSON body of a chat turn.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

// Chat handles POST /api/v1/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "message is required"})
		return
	}

	reply, sessionID, err := h.chat.Chat(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		var invalid *service.InvalidPromptError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: invalid.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "chat backend unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"reply":      reply,
	})
}

// EndSession handles DELETE /api/v1/chat/:session_id.
func (h *ChatHandler) EndSession(c *gin.Context) {
	id := c.Param("session_id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "session_id is required"})
		return
	}
	h.chat.EndSession(id)
	c.JSON(http.StatusOK, gin.H{"ended": id})
}
