package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gocomet/carpool/internal/api/dto"
	"github.com/gocomet/carpool/internal/domain/ride"
	"github.com/gocomet/carpool/internal/service/coordination"
	apperrors "github.com/gocomet/carpool/pkg/errors"
	"github.com/gocomet/carpool/pkg/logger"
	"github.com/gocomet/carpool/pkg/websocket"
)

// Handlers holds all handler dependencies
type Handlers struct {
	Service *coordination.Service
	Logger  *logger.Logger
	Hub     *websocket.Hub // nil when real-time updates are disabled
	Origins []string
}

// NewHandlers creates a new Handlers instance
func NewHandlers(service *coordination.Service, log *logger.Logger, hub *websocket.Hub) *Handlers {
	return &Handlers{
		Service: service,
		Logger:  log.Named("http"),
		Hub:     hub,
	}
}

// respondError writes err as an error body with the status its code maps to
func (h *Handlers) respondError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	if appErr.Status >= http.StatusInternalServerError {
		h.Logger.Error("Request failed",
			logger.String("path", c.FullPath()),
			logger.String("code", appErr.Code),
			logger.Err(err),
		)
	} else {
		h.Logger.Warn("Request rejected",
			logger.String("path", c.FullPath()),
			logger.String("code", appErr.Code),
			logger.String("reason", appErr.Message),
		)
	}

	c.JSON(appErr.Status, dto.ErrorResponse{
		Code:        appErr.Code,
		Message:     appErr.Message,
		Description: appErr.Error(),
	})
}

// bindJSON decodes the body into req, answering 422 on malformed input
func (h *Handlers) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.respondError(c, apperrors.Validation("invalid request payload", err))
		return false
	}
	return true
}

// rideID parses the :id segment. A value that is not an integer cannot name
// any ride, so it answers 404.
func (h *Handlers) rideID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.WithDetail(ride.ErrRideNotFound, err))
		return 0, false
	}
	return id, true
}

// Health handles GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
