package middleware

import (
	"time"

	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
	"github.com/labstack/echo/v4"
)

func (mw *MiddlewareManager) RequestLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		err := next(ctx)

		req := ctx.Request()
		res := ctx.Response()
		s := time.Since(start).String()
		requestID := utils.GetRequestID(ctx)

		mw.logger.Infof("RequestID: %s, IP: %s, Method: %s, URI: %s, Status: %v, Size: %v, Time: %s",
			requestID, utils.GetIPAddress(ctx), req.Method, req.URL, res.Status, res.Size, s,
		)
		return err
	}
}
