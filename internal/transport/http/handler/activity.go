package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"redrose-ai/internal/app"
	"redrose-ai/internal/transport/http/response"
)

type ActivityHandler struct {
	activityService *app.ActivityService
}

func NewActivityHandler(activityService *app.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (h *ActivityHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	activities, err := h.activityService.ListRecent(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Failed to get activity")
		return
	}
	response.OK(c, gin.H{"activities": activities})
}
