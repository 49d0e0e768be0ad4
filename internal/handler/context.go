package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"roomly/internal/model"
)

// CurrentUserKey is the echo context key under which the session
// middleware stores the authenticated user.
const CurrentUserKey = "currentUser"

// currentUser returns the authenticated user placed in the context by the
// session middleware.
func currentUser(c echo.Context) (*model.User, error) {
	user, ok := c.Get(CurrentUserKey).(*model.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return user, nil
}
