package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocomet/carpool/internal/api/dto"
	"github.com/gocomet/carpool/internal/domain/ride"
	apperrors "github.com/gocomet/carpool/pkg/errors"
	"github.com/gocomet/carpool/pkg/logger"
)

// CreateRide handles POST /usuarios/:alias/rides
func (h *Handlers) CreateRide(c *gin.Context) {
	ctx := c.Request.Context()
	driverAlias := c.Param("alias")

	var req dto.CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// An unknown driver wins over a bad body
		if _, lookupErr := h.Service.GetUser(ctx, driverAlias); lookupErr != nil {
			h.respondError(c, apperrors.WithDetail(ride.ErrDriverNotFound, lookupErr))
			return
		}
		h.respondError(c, apperrors.Validation("invalid request payload", err))
		return
	}

	id, err := h.Service.CreateRide(ctx, ride.CreateParams{
		DriverAlias:   driverAlias,
		DateTime:      req.RideDateAndTime,
		FinalAddress:  req.FinalAddress,
		AllowedSpaces: req.AllowedSpaces,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedRideResponse{
		ID:      id,
		Message: fmt.Sprintf("Ride created with id %d", id),
	})
}

// ListRides handles GET /usuarios/:alias/rides
func (h *Handlers) ListRides(c *gin.Context) {
	rides, err := h.Service.ListRides(c.Request.Context(), c.Param("alias"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRideSummaries(rides))
}

// GetRide handles GET /usuarios/:alias/rides/:id
func (h *Handlers) GetRide(c *gin.Context) {
	id, ok := h.rideID(c)
	if !ok {
		return
	}

	detail, err := h.Service.GetRide(c.Request.Context(), c.Param("alias"), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRideDetailResponse(detail))
}

// StartRide handles POST /usuarios/:alias/rides/:id/start
func (h *Handlers) StartRide(c *gin.Context) {
	id, ok := h.rideID(c)
	if !ok {
		return
	}

	if err := h.Service.StartRide(c.Request.Context(), c.Param("alias"), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: fmt.Sprintf("Ride %d started.", id),
	})
}

// EndRide handles POST /usuarios/:alias/rides/:id/end
func (h *Handlers) EndRide(c *gin.Context) {
	id, ok := h.rideID(c)
	if !ok {
		return
	}

	result, err := h.Service.EndRide(c.Request.Context(), c.Param("alias"), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Logger.Debug("Ride reconciled",
		logger.RideID(id),
		logger.Int("participations", len(result)),
	)
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: fmt.Sprintf("Ride %d ended.", id),
	})
}
