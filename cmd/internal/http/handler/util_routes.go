package handler

import (
	"context"
	"net/http"

	"noteshare/cmd/internal/contract"
	"noteshare/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type SiteStatsService interface {
	Site(ctx context.Context) (*contract.SiteStatsResponse, apierror.ErrorResponse)
}

type DefaultUtilRoute struct {
	StatsService SiteStatsService
}

func NewUtilRoute(statsService SiteStatsService) *DefaultUtilRoute {
	return &DefaultUtilRoute{StatsService: statsService}
}

func (u *DefaultUtilRoute) GetStats(c echo.Context) error {
	stats, apierr := u.StatsService.Site(c.Request().Context())
	if apierr != nil {
		return respondError(c, apierr)
	}
	return c.JSON(http.StatusOK, stats)
}

// HealthCheck backs the container healthcheck.
func (u *DefaultUtilRoute) HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
