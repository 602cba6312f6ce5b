package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// APIResponse is the envelope of every JSON answer. Status repeats the HTTP
// status code.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"OK"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError describes one rejected request parameter.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_LTE"`
	Field   string                 `json:"field,omitempty" example:"precision"`
	Message string                 `json:"message,omitempty" example:"precision must be less than or equal to 6"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// JSON writes data in the envelope with status.
func JSON(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, APIResponse{
		Status:  status,
		Message: http.StatusText(status),
		Data:    data,
	})
}

func OK(c echo.Context, data interface{}) error {
	return JSON(c, http.StatusOK, data)
}

// Invalid answers 400 with the rejected parameters.
func Invalid(c echo.Context, errs []ValidationError) error {
	return JSON(c, http.StatusBadRequest, errs)
}

// Fail answers with err. Errors that are not an *AppError become a generic 500.
func Fail(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Internal()
	}
	if appErr.RetryAfter > 0 {
		secs := int(math.Ceil(appErr.RetryAfter.Seconds()))
		c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
	}
	return JSON(c, appErr.Status, []*AppError{appErr})
}
