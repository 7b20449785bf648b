package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// paramID parses a numeric path parameter
func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// success wraps a payload in the standard success envelope
func success(c echo.Context, payload echo.Map) error {
	body := echo.Map{"status": "success"}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(http.StatusOK, body)
}
