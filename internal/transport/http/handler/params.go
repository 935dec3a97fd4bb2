package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"redrose-ai/internal/transport/http/middleware"
	"redrose-ai/internal/transport/http/response"
)

// flexID accepts a numeric id sent either as a JSON number or a string.
// null and "" decode to zero.
type flexID uint

func (f *flexID) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return err
	}
	*f = flexID(v)
	return nil
}

func parseID(raw string) (uint, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// currentUser writes a 401 when the request carries no authenticated user.
func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
	}
	return userID, ok
}
