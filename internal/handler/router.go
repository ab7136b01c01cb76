package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/clinicbook/appointment-platform/internal/config"
)

// NewRouter собирает HTTP-роутер сервиса.
func NewRouter(cfg *config.Config, scheduleHandler *ScheduleHandler, bookingHandler *BookingHandler) *gin.Engine {
	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		scheduleHandler.RegisterRoutes(api)
		bookingHandler.RegisterRoutes(api)
	}

	return router
}
