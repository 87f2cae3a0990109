package generation

import "github.com/labstack/echo/v4"

type Handler interface {
	Generate() echo.HandlerFunc
	GetStatus() echo.HandlerFunc
	Download() echo.HandlerFunc
	ListJobs() echo.HandlerFunc
}
