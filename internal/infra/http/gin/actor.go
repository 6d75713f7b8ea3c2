package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
)

const userIDHeader = "X-User-ID"

// requireActor reads the acting user from the gateway-injected header.
// Authentication itself happens upstream; the engine only needs identity.
func requireActor(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.GetHeader(userIDHeader))
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + userIDHeader + " header"})
		return "", false
	}
	return id, true
}
