package handlers

import (
	"net/http"

	"invest_platform/internal/logger"
	"invest_platform/internal/service"
	"invest_platform/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// origin is enforced by the frontend deployment, the API itself
		// authenticates by token
		return true
	},
}

// WS upgrades the connection and streams ledger events to the user.
// Browsers cannot set headers on websocket dials, so the token rides in the
// query string.
func (h *Handler) WS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	userID, err := service.ParseJWT(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("ws upgrade failed", "error", err, "user_id", userID)
		return
	}

	ws.Serve(h.Hub, userID, conn)
}
