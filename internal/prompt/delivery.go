package prompt

import "github.com/labstack/echo/v4"

type Handler interface {
	ListStyles() echo.HandlerFunc
	Enhance() echo.HandlerFunc
	RandomIdea() echo.HandlerFunc
	SuggestIdeas() echo.HandlerFunc
}
