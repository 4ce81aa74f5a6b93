package middleware

import (
	"context"
	"strings"

	"noteshare/cmd/internal/domain/entity"
	"noteshare/cmd/internal/utils"
	"noteshare/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type Authenticator interface {
	AuthenticateToken(ctx context.Context, raw string) (*entity.User, apierror.ErrorResponse)
	AuthenticateBasic(ctx context.Context, username, password string) (*entity.User, apierror.ErrorResponse)
}

type AuthMiddlewareConfig struct {
	Users Authenticator

	// Optional lets anonymous requests through. Credentials that are sent
	// must still be valid.
	Optional bool
}

// NewAuthMiddleware creates the handler with dependencies injected
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if header == "" {
				if cfg.Optional {
					return next(c)
				}
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="api"`)
				return c.JSON(apierror.UnauthorizedError.Code(), apierror.UnauthorizedError)
			}

			user, apierr := authenticate(c, cfg.Users, header)
			if apierr != nil {
				return c.JSON(apierr.Code(), apierr)
			}

			c.Set(utils.ContextUserKey, user)
			return next(c)
		}
	}
}

func authenticate(c echo.Context, users Authenticator, header string) (*entity.User, apierror.ErrorResponse) {
	ctx := c.Request().Context()
	scheme, credentials, _ := strings.Cut(header, " ")

	switch strings.ToLower(scheme) {
	case "bearer":
		return users.AuthenticateToken(ctx, strings.TrimSpace(credentials))
	case "basic":
		username, password, ok := c.Request().BasicAuth()
		if !ok {
			return nil, apierror.InvalidBasicAuthError
		}
		return users.AuthenticateBasic(ctx, username, password)
	default:
		return nil, apierror.InvalidAuthTokenError
	}
}
