package appointments

import (
	"carebook/internal/shared/config"
	"carebook/internal/shared/middleware"
	"carebook/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupAppointmentRoutes registers all appointment routes
func SetupAppointmentRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	appointments := rg.Group("/appointments")
	appointments.Use(middleware.JWTAuthWithConfig(cfg))
	{
		appointments.POST("", middleware.RequireRoles(string(users.RoleClient)), controller.Book)
		appointments.GET("", controller.List)
		appointments.GET("/:id", controller.Get)
		appointments.PATCH("/:id/status", middleware.RequireRoles(
			string(users.RoleClient), string(users.RoleNurse), string(users.RoleAdmin)), controller.UpdateStatus)
	}
}
