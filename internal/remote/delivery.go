package remote

import "github.com/labstack/echo/v4"

type Handler interface {
	GetState() echo.HandlerFunc
	Connect() echo.HandlerFunc
	Disconnect() echo.HandlerFunc
	Generate() echo.HandlerFunc
}
