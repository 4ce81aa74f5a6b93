package handler

import (
	"strconv"
	"strings"

	"noteshare/cmd/internal/contract"
	"noteshare/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

func parseID(c echo.Context) (int64, apierror.ErrorResponse) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apierror.NewInvalidParamTypeError("id", "int64")
	}
	return id, nil
}

// parsePage reads the optional "page" and "page_size" query parameters.
func parsePage(c echo.Context) (contract.PageRequest, apierror.ErrorResponse) {
	var req contract.PageRequest
	var err error

	if raw := strings.TrimSpace(c.QueryParam("page")); raw != "" {
		if req.Page, err = strconv.Atoi(raw); err != nil {
			return req, apierror.NewInvalidParamTypeError("page", "int")
		}
	}

	if raw := strings.TrimSpace(c.QueryParam("page_size")); raw != "" {
		if req.PageSize, err = strconv.Atoi(raw); err != nil {
			return req, apierror.NewInvalidParamTypeError("page_size", "int")
		}
	}
	return req, nil
}

func respondError(c echo.Context, apierr apierror.ErrorResponse) error {
	return c.JSON(apierr.Code(), apierr)
}

func bindBody(c echo.Context, req any) apierror.ErrorResponse {
	if err := c.Bind(req); err != nil {
		return apierror.MalformedBodyError
	}
	return nil
}

