package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/skssmd/patient-project/internal/controllers"
)

func RegisterHealthRoutes(router *gin.Engine, healthController *controllers.HealthController) {
	router.GET("/", healthController.Home)
	router.GET("/health", healthController.Health)
	router.GET("/debug/stats", healthController.Stats)
}
