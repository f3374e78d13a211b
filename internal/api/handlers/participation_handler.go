package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocomet/carpool/internal/api/dto"
	apperrors "github.com/gocomet/carpool/pkg/errors"
)

// RequestToJoin handles POST /usuarios/:alias/rides/:id/requestToJoin/:participant
func (h *Handlers) RequestToJoin(c *gin.Context) {
	id, ok := h.rideID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	driver := c.Param("alias")
	participant := c.Param("participant")

	var req dto.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Missing ride or participant, a started ride and a duplicate request
		// all win over a bad body.
		if checkErr := h.Service.CheckJoin(ctx, driver, id, participant); checkErr != nil {
			h.respondError(c, checkErr)
			return
		}
		// An empty body is a request with no seats; the service rejects it.
		if !errors.Is(err, io.EOF) {
			h.respondError(c, apperrors.Validation("invalid request payload", err))
			return
		}
	}

	_, err := h.Service.RequestToJoin(ctx, driver, id, participant, req.Destination, req.OccupiedSpaces)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: fmt.Sprintf("%s requested to join ride %d.", participant, id),
	})
}

// Accept handles POST /usuarios/:alias/rides/:id/accept/:participant
func (h *Handlers) Accept(c *gin.Context) {
	id, ok := h.rideID(c)
	if !ok {
		return
	}

	participant := c.Param("participant")
	if _, err := h.Service.Accept(c.Request.Context(), c.Param("alias"), id, participant); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: fmt.Sprintf("%s accepted.", participant),
	})
}

// Reject handles POST /usuarios/:alias/rides/:id/reject/:participant
func (h *Handlers) Reject(c *gin.Context) {
	id, ok := h.rideID(c)
	if !ok {
		return
	}

	participant := c.Param("participant")
	if _, err := h.Service.Reject(c.Request.Context(), c.Param("alias"), id, participant); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: fmt.Sprintf("%s rejected.", participant),
	})
}

// UnloadParticipant handles POST /usuarios/:alias/rides/:id/unloadParticipant.
// Here :alias is the participant getting off, not the driver.
func (h *Handlers) UnloadParticipant(c *gin.Context) {
	id, ok := h.rideID(c)
	if !ok {
		return
	}

	participant := c.Param("alias")
	if _, err := h.Service.UnloadParticipant(c.Request.Context(), participant, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: fmt.Sprintf("%s got off ride %d.", participant, id),
	})
}
