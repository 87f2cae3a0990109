package http

import (
	"github.com/amankumarsingh77/veda-gateway/internal/generation"
	"github.com/labstack/echo/v4"
)

func MapGenerationRoutes(apiGroup *echo.Group, h generation.Handler) {
	apiGroup.POST("/generate", h.Generate())
	apiGroup.GET("/status/:job_id", h.GetStatus())
	apiGroup.GET("/download/:job_id", h.Download())
	apiGroup.GET("/jobs", h.ListJobs())
}
