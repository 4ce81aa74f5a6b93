package utils

import (
	"noteshare/cmd/internal/domain/entity"
	"noteshare/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// ContextUserKey is where the auth middleware stores the resolved *entity.User.
const ContextUserKey = "user"

func GetUserFromContext(c echo.Context) (*entity.User, apierror.ErrorResponse) {
	val := c.Get(ContextUserKey)
	if val == nil {
		return nil, apierror.UnauthorizedError
	}

	user, ok := val.(*entity.User)
	if !ok {
		log.Warnf("expected user type at '%s' context key, got %T", ContextUserKey, val)
		return nil, apierror.InternalServerError
	}
	return user, nil
}

// GetOptionalUser returns the authenticated user, or nil for anonymous requests.
func GetOptionalUser(c echo.Context) *entity.User {
	user, _ := c.Get(ContextUserKey).(*entity.User)
	return user
}

// ActorName is the identity the note policy works with.
func ActorName(user *entity.User) string {
	if user == nil {
		return ""
	}
	return user.Username
}
