package http

import (
	"github.com/amankumarsingh77/veda-gateway/internal/remote"
	"github.com/labstack/echo/v4"
)

func MapRemoteRoutes(remoteGroup *echo.Group, h remote.Handler) {
	remoteGroup.GET("", h.GetState())
	remoteGroup.POST("/connect", h.Connect())
	remoteGroup.POST("/disconnect", h.Disconnect())
	remoteGroup.POST("/generate", h.Generate())
}
