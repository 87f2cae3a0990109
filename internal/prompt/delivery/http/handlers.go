package http

import (
	"net/http"

	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/amankumarsingh77/veda-gateway/internal/prompt"
	"github.com/amankumarsingh77/veda-gateway/pkg/httpErrors"
	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
	"github.com/labstack/echo/v4"
)

type promptHandler struct{}

func NewPromptHandler() prompt.Handler {
	return &promptHandler{}
}

func (h *promptHandler) ListStyles() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.StylesResponse{Styles: prompt.Styles()})
	}
}

func (h *promptHandler) Enhance() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.EnhanceInput{}
		if err := c.Bind(input); err != nil {
			return httpErrors.ErrorResponse(c, httpErrors.NewBadRequestError("Invalid request payload"))
		}
		if err := utils.ValidateStruct(c.Request().Context(), input); err != nil {
			return httpErrors.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, prompt.Enhance(input.Prompt, input.Style))
	}
}

func (h *promptHandler) RandomIdea() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.IdeaResponse{Idea: prompt.RandomIdea(c.QueryParam("category"))})
	}
}

func (h *promptHandler) SuggestIdeas() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string][]string{"ideas": prompt.SuggestIdeas(c.QueryParam("category"))})
	}
}
