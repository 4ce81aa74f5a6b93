package handler

import (
	"context"
	"net/http"

	"noteshare/cmd/internal/contract"
	"noteshare/cmd/internal/domain/entity"
	"noteshare/cmd/internal/utils"
	"noteshare/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(ctx context.Context, req *contract.CreateUserRequest) (*contract.TokenResponse, apierror.ErrorResponse)
	Login(ctx context.Context, req *contract.UserLoginRequest) (*contract.TokenResponse, apierror.ErrorResponse)
	Logout(ctx context.Context, actor *entity.User) apierror.ErrorResponse
	RegenerateToken(ctx context.Context, actor *entity.User) (*contract.TokenResponse, apierror.ErrorResponse)
	UpdateProfile(ctx context.Context, actor *entity.User, req *contract.UpdateProfileRequest) (*contract.UserResponse, apierror.ErrorResponse)
}

type ProfileService interface {
	Profile(ctx context.Context, actor *entity.User) (*contract.ProfileResponse, apierror.ErrorResponse)
}

type DefaultUserRoute struct {
	UserService    UserService
	ProfileService ProfileService
}

func NewUserDefault(userService UserService, profileService ProfileService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService, ProfileService: profileService}
}

func (u *DefaultUserRoute) CreateUser(c echo.Context) error {
	var req contract.CreateUserRequest
	if berr := bindBody(c, &req); berr != nil {
		return respondError(c, berr)
	}

	resp, apierr := u.UserService.Register(c.Request().Context(), &req)
	if apierr != nil {
		return respondError(c, apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (u *DefaultUserRoute) CreateLogin(c echo.Context) error {
	var req contract.UserLoginRequest
	if berr := bindBody(c, &req); berr != nil {
		return respondError(c, berr)
	}

	resp, apierr := u.UserService.Login(c.Request().Context(), &req)
	if apierr != nil {
		return respondError(c, apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (u *DefaultUserRoute) Logout(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return respondError(c, cerr)
	}

	if apierr := u.UserService.Logout(c.Request().Context(), user); apierr != nil {
		return respondError(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (u *DefaultUserRoute) GetProfile(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return respondError(c, cerr)
	}

	resp, apierr := u.ProfileService.Profile(c.Request().Context(), user)
	if apierr != nil {
		return respondError(c, apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (u *DefaultUserRoute) UpdateProfile(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return respondError(c, cerr)
	}

	var req contract.UpdateProfileRequest
	if berr := bindBody(c, &req); berr != nil {
		return respondError(c, berr)
	}

	resp, apierr := u.UserService.UpdateProfile(c.Request().Context(), user, &req)
	if apierr != nil {
		return respondError(c, apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (u *DefaultUserRoute) RegenerateToken(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return respondError(c, cerr)
	}

	resp, apierr := u.UserService.RegenerateToken(c.Request().Context(), user)
	if apierr != nil {
		return respondError(c, apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
