package http

import (
	"github.com/amankumarsingh77/veda-gateway/internal/prompt"
	"github.com/labstack/echo/v4"
)

func MapPromptRoutes(apiGroup *echo.Group, h prompt.Handler) {
	apiGroup.GET("/styles", h.ListStyles())
	apiGroup.POST("/enhance", h.Enhance())
	apiGroup.GET("/ideas", h.SuggestIdeas())
	apiGroup.GET("/ideas/random", h.RandomIdea())
}
