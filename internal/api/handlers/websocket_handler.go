package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/gocomet/carpool/internal/api/dto"
	apperrors "github.com/gocomet/carpool/pkg/errors"
	"github.com/gocomet/carpool/pkg/logger"
	"github.com/gocomet/carpool/pkg/websocket"
)

// HandleWebSocket handles GET /v1/ws. Users connect with ?user_id=<alias>;
// dashboards connect with ?user_type=dashboard and receive every event.
func (h *Handlers) HandleWebSocket(c *gin.Context) {
	if h.Hub == nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Code:        "UNAVAILABLE",
			Message:     "real-time updates are disabled",
			Description: "real-time updates are disabled",
		})
		return
	}

	userID := c.Query("user_id")
	userType := c.DefaultQuery("user_type", websocket.ClientUser)
	if userType != websocket.ClientUser && userType != websocket.ClientDashboard {
		h.respondError(c, apperrors.Validation("user_type must be user or dashboard", nil))
		return
	}
	if userType == websocket.ClientUser && userID == "" {
		h.respondError(c, apperrors.Validation("user_id is required", nil))
		return
	}

	upgrader := gorilla.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Error("Failed to upgrade to WebSocket", logger.Err(err))
		return
	}

	client := websocket.NewClient(h.Hub, conn, userID, userType, h.Logger)
	h.Hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// checkOrigin allows every origin unless a list is configured
func (h *Handlers) checkOrigin(r *http.Request) bool {
	if len(h.Origins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range h.Origins {
		if allowed == origin {
			return true
		}
	}
	return false
}
