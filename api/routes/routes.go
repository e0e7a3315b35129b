package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/feichai0017/text-extractor/api/handlers"
	"github.com/feichai0017/text-extractor/api/middleware"
)

// SetupRoutes configures all routes
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")

	extract := v1.Group("/extract")
	{
		extract.POST("", h.Extract.Submit)
		extract.POST("/batch", h.Extract.SubmitBatch)
		extract.GET("/status/:taskId", h.Extract.GetStatus)
		extract.GET("/result/:taskId", h.Extract.GetResult)
		extract.DELETE("/task/:taskId", h.Extract.CancelTask)
	}
}
