package http

import (
	"errors"
	"net/http"
	"strings"

	"lending-backoffice/internal/adapter/middleware"
	"lending-backoffice/internal/domain/loan"
	"lending-backoffice/internal/domain/payment"
	"lending-backoffice/internal/engine"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

var errMissingTenant = errors.New("missing or invalid " + middleware.HeaderTenantID + " header")

// tenantID reads the caller's tenant; every loan route is tenant-scoped.
func tenantID(c echo.Context) (string, error) {
	id := strings.TrimSpace(c.Request().Header.Get(middleware.HeaderTenantID))
	if !middleware.ValidTenantID(id) {
		return "", errMissingTenant
	}
	return id, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, loan.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, loan.ErrInvalidTransition),
		errors.Is(err, loan.ErrPendingLoanExists),
		errors.Is(err, payment.ErrLoanNotActive):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidLoanTerms),
		errors.Is(err, engine.ErrInvalidFrequency),
		errors.Is(err, engine.ErrInvalidPercentage),
		errors.Is(err, engine.ErrInvalidAmount),
		errors.Is(err, payment.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, loan.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an ErrorResponse. Unmapped errors are logged and hidden
// behind a generic message.
func fail(c echo.Context, log zerolog.Logger, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("request failed")
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// bindAndValidate decodes the body into req and runs the validator.
// ok is false when a response has already been written.
func bindAndValidate(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, badRequest(c, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// dateParam parses an optional YYYY-MM-DD query value; empty means zero.
func dateParam(c echo.Context, name string) (engine.Date, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return engine.Date{}, nil
	}
	return engine.ParseDate(raw)
}
