package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"redrose-ai/internal/app"
	"redrose-ai/internal/transport/http/response"
)

type ChatHandler struct {
	messageService *app.MessageService
}

type ChatRequest struct {
	Messages       []app.ChatMessage `json:"messages" binding:"required,min=1"`
	ConversationID flexID            `json:"conversationId"`
}

func NewChatHandler(messageService *app.MessageService) *ChatHandler {
	return &ChatHandler{messageService: messageService}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "messages are required")
		return
	}

	result, err := h.messageService.Chat(c.Request.Context(), app.ChatInput{
		UserID:         userID,
		ConversationID: uint(req.ConversationID),
		Messages:       req.Messages,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrMessageEmpty):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrConversationNotFound):
			response.Error(c, http.StatusNotFound, "Conversation not found")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "Failed to process chat request")
		}
		return
	}

	var conversationID any
	if req.ConversationID != 0 {
		conversationID = uint(req.ConversationID)
	}
	response.OK(c, gin.H{
		"message":        result.Message,
		"conversationId": conversationID,
	})
}
