package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Page returns a handler serving a minimal page descriptor. The UI tree is
// rendered elsewhere; these routes exist so the edge gate has real paths to
// protect and redirect between.
func Page(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"page": name})
	}
}
