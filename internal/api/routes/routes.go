package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/gocomet/carpool/internal/api/handlers"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, nrApp *newrelic.Application) {
	// Add New Relic middleware if enabled
	if nrApp != nil {
		r.Use(nrgin.Middleware(nrApp))
	}

	// Health check
	r.GET("/health", h.Health)

	// Live updates
	r.GET("/v1/ws", h.HandleWebSocket)

	users := r.Group("/usuarios")
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.GET("/:alias", h.GetUser)

		rides := users.Group("/:alias/rides")
		{
			rides.POST("", h.CreateRide)
			rides.GET("", h.ListRides)
			rides.GET("/:id", h.GetRide)

			rides.POST("/:id/requestToJoin/:participant", h.RequestToJoin)
			rides.POST("/:id/accept/:participant", h.Accept)
			rides.POST("/:id/reject/:participant", h.Reject)
			rides.POST("/:id/start", h.StartRide)
			rides.POST("/:id/end", h.EndRide)

			// :alias is the participant here
			rides.POST("/:id/unloadParticipant", h.UnloadParticipant)
		}
	}
}
