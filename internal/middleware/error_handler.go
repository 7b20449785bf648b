package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moeedrafique/cea/internal/services"
)

// CustomErrorHandler maps the service error taxonomy onto structured
// JSON failure payloads. Field-level validation failures carry a
// per-field error map; whole-operation failures carry a category and a
// message. Transaction aborts keep their diagnostic detail server-side.
func CustomErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		validation *services.ValidationError
		notFound   *services.ReferenceNotFoundError
		duplicate  *services.UniquenessViolationError
		aborted    *services.TransactionAbortedError
		httpErr    *echo.HTTPError
	)

	var writeErr error
	switch {
	case errors.As(err, &validation):
		writeErr = c.JSON(http.StatusBadRequest, echo.Map{
			"status":   "error",
			"category": "validation",
			"errors":   validation.Fields,
		})

	case errors.As(err, &notFound):
		writeErr = c.JSON(http.StatusNotFound, echo.Map{
			"status":   "error",
			"category": "reference_not_found",
			"message":  notFound.Error(),
		})

	case errors.As(err, &duplicate):
		writeErr = c.JSON(http.StatusConflict, echo.Map{
			"status":   "error",
			"category": "already_exists",
			"message":  duplicate.Error(),
		})

	case errors.As(err, &aborted):
		c.Logger().Error(aborted.Unwrap())
		writeErr = c.JSON(http.StatusInternalServerError, echo.Map{
			"status":   "error",
			"category": "transaction_aborted",
			"message":  "the operation failed and no changes were saved, please try again",
		})

	case errors.As(err, &httpErr):
		message, ok := httpErr.Message.(string)
		if !ok || message == "" {
			message = http.StatusText(httpErr.Code)
		}
		writeErr = c.JSON(httpErr.Code, echo.Map{
			"status":   "error",
			"category": "request",
			"message":  message,
		})

	default:
		c.Logger().Error(err)
		writeErr = c.JSON(http.StatusInternalServerError, echo.Map{
			"status":   "error",
			"category": "internal",
			"message":  "something went wrong, please try again later",
		})
	}

	if writeErr != nil {
		c.Logger().Error(writeErr)
	}
}
