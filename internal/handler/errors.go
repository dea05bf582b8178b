package handler

import (
	"github.com/labstack/echo/v4"

	apperrors "servicedirectory/internal/errors"
)

// errInvalidBody is returned when the request body cannot be decoded.
var errInvalidBody = apperrors.NewValidationError()

// toHTTPError converts a service error into the JSON error body.
func toHTTPError(err error) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
