package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"redrose-ai/internal/app"
	"redrose-ai/internal/transport/http/response"
)

type DownloadHandler struct {
	exportService *app.ExportService
}

func NewDownloadHandler(exportService *app.ExportService) *DownloadHandler {
	return &DownloadHandler{exportService: exportService}
}

func (h *DownloadHandler) Chat(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	conversationID, valid := parseID(c.Query("id"))
	if !valid {
		response.Error(c, http.StatusBadRequest, "Conversation ID required")
		return
	}

	doc, err := h.exportService.ExportConversation(c.Request.Context(), userID, conversationID, c.Query("format"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrConversationNotFound):
			response.Error(c, http.StatusNotFound, "Conversation not found")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "Failed to export chat")
		}
		return
	}
	send(c, doc)
}

func (h *DownloadHandler) AllData(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	doc, err := h.exportService.ExportAllData(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Failed to export data")
		return
	}
	send(c, doc)
}

func (h *DownloadHandler) Content(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	contentID, valid := parseID(c.Query("id"))
	if !valid {
		response.Error(c, http.StatusBadRequest, "Content ID required")
		return
	}

	doc, err := h.exportService.ExportContent(c.Request.Context(), userID, contentID, c.Query("format"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrContentNotFound):
			response.Error(c, http.StatusNotFound, "Content not found")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "Failed to export content")
		}
		return
	}
	send(c, doc)
}

func send(c *gin.Context, doc *app.Document) {
	c.Header("X-Generated-By", app.GeneratedByHeader)
	response.Attachment(c, doc.Filename, doc.ContentType, doc.Body)
}
