package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"redrose-ai/internal/app"
	"redrose-ai/internal/transport/http/response"
)

type ContentHandler struct {
	contentService *app.ContentService
}

type GenerateTextRequest struct {
	Prompt string `json:"prompt"`
	Type   string `json:"type"`
}

type GenerateImageRequest struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style"`
}

type GenerateCodeRequest struct {
	Prompt    string `json:"prompt"`
	Language  string `json:"language"`
	Framework string `json:"framework"`
}

func NewContentHandler(contentService *app.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

func (h *ContentHandler) GenerateText(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req GenerateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.contentService.GenerateText(c.Request.Context(), userID, req.Prompt, req.Type)
	if err != nil {
		generationError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *ContentHandler) GenerateImage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.contentService.GenerateImage(c.Request.Context(), userID, req.Prompt, req.Style)
	if err != nil {
		generationError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *ContentHandler) GenerateCode(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req GenerateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.contentService.GenerateCode(c.Request.Context(), userID, req.Prompt, req.Language, req.Framework)
	if err != nil {
		generationError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *ContentHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	content, err := h.contentService.List(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Failed to get generated content")
		return
	}
	response.OK(c, gin.H{"content": content})
}

func generationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrPromptEmpty), errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Failed to generate content")
	}
}
