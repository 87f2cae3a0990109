package middleware

import (
	"net/http"
	"strings"

	"github.com/amankumarsingh77/veda-gateway/pkg/httpErrors"
	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
	"github.com/labstack/echo/v4"
)

const claimsCtxKey = "claims"

// AuthJWTMiddleware requires a bearer token signed with the server secret.
// With no secret configured every request passes.
func (mw *MiddlewareManager) AuthJWTMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			secret := mw.cfg.Server.JwtSecretKey
			if secret == "" {
				return next(c)
			}

			bearerHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			headerParts := strings.Split(bearerHeader, " ")
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "Bearer") {
				mw.logger.Warnf("auth middleware RequestID: %s, missing bearer token", utils.GetRequestID(c))
				return c.JSON(http.StatusUnauthorized, httpErrors.NewUnauthorizedError(nil))
			}

			claims, err := utils.ValidateToken(headerParts[1], secret)
			if err != nil {
				mw.logger.Warnf("auth middleware RequestID: %s, ERROR: %v", utils.GetRequestID(c), err)
				return c.JSON(http.StatusUnauthorized, httpErrors.NewUnauthorizedError(nil))
			}
			c.Set(claimsCtxKey, claims)
			return next(c)
		}
	}
}
