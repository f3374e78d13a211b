package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocomet/carpool/internal/api/dto"
)

// ListUsers handles GET /usuarios
func (h *Handlers) ListUsers(c *gin.Context) {
	users := h.Service.ListUsers(c.Request.Context())
	c.JSON(http.StatusOK, dto.NewUserSummaries(users))
}

// CreateUser handles POST /usuarios
func (h *Handlers) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	alias, err := h.Service.RegisterUser(c.Request.Context(), req.Alias, req.Name, req.CarPlate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: fmt.Sprintf("User %s created.", alias),
	})
}

// GetUser handles GET /usuarios/:alias
func (h *Handlers) GetUser(c *gin.Context) {
	u, err := h.Service.GetUser(c.Request.Context(), c.Param("alias"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserDetail(u))
}
