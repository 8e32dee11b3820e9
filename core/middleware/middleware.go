package middleware

import (
	"pairtime-api/core/constants"
	"pairtime-api/core/controller"
	"pairtime-api/core/errors"
	"pairtime-api/core/logger"
	"pairtime-api/core/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Middleware struct {
	secret []byte
}

func NewMiddleware(jwtSecret string) *Middleware {
	return &Middleware{secret: []byte(jwtSecret)}
}

// AuthMiddleware verifies the bearer token and stores its claims under
// constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	base := controller.NewBaseController()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := utils.GetTokenFromHeader(c)
			if err != nil {
				return base.Unauthorized(errors.ErrMissingAuthorizationHeader, "Missing authorization header")
			}

			claims, err := utils.ValidateAndParseToken(token, m.secret)
			if err != nil {
				logger.Warn("Middleware:AuthMiddleware:InvalidToken", "error", err)
				return base.Unauthorized(errors.ErrInvalidTokenFormat, "Invalid token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// UserIDFromContext returns the authenticated caller set by AuthMiddleware.
func UserIDFromContext(c echo.Context) (uuid.UUID, error) {
	tokenData := c.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}
	return claims.UserID, nil
}
