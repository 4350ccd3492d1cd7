package handler

import (
	"errors"
	"net/http"

	"answer-hub/internal/domain"

	"github.com/labstack/echo/v4"
)

// mapDomainError converts a domain error into an appropriate echo.HTTPError.
// Provider error detail never leaks past this boundary.
func mapDomainError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, domain.ErrAuthFailed),
		errors.Is(err, domain.ErrSessionNotFound):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")

	case errors.Is(err, domain.ErrAccountExists),
		errors.Is(err, domain.ErrProfileExists):
		return echo.NewHTTPError(http.StatusConflict, "resource already exists")

	case errors.Is(err, domain.ErrProviderUnavailable),
		errors.Is(err, domain.ErrStoreUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, "upstream service unavailable")

	case errors.Is(err, domain.ErrTokenGeneration),
		errors.Is(err, domain.ErrCSRFSecretMissing):
		return echo.NewHTTPError(http.StatusInternalServerError, "token generation error")

	case errors.Is(err, domain.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
