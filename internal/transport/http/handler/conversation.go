package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"redrose-ai/internal/app"
	"redrose-ai/internal/transport/http/response"
)

type ConversationHandler struct {
	conversationService *app.ConversationService
	messageService      *app.MessageService
}

type CreateConversationRequest struct {
	Title string `json:"title" binding:"max=256"`
}

func NewConversationHandler(conversationService *app.ConversationService, messageService *app.MessageService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService, messageService: messageService}
}

func (h *ConversationHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateConversationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "invalid request payload")
			return
		}
	}

	conversation, err := h.conversationService.Create(c.Request.Context(), userID, req.Title)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Failed to create conversation")
		return
	}
	response.OK(c, gin.H{"conversation": conversation})
}

func (h *ConversationHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	conversations, err := h.conversationService.List(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Failed to get conversations")
		return
	}
	response.OK(c, gin.H{"conversations": conversations})
}

func (h *ConversationHandler) Messages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	conversationID, valid := parseID(c.Param("conversationId"))
	if !valid {
		response.Error(c, http.StatusBadRequest, "invalid conversation id")
		return
	}

	messages, err := h.messageService.List(c.Request.Context(), conversationID, userID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Failed to get messages")
		return
	}
	response.OK(c, gin.H{"messages": messages})
}
