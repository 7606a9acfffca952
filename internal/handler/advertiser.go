package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/admobility/admobility/internal/repository"
	"github.com/admobility/admobility/internal/session"
)

// AdvertiserHandler serves advertiser company profiles.
type AdvertiserHandler struct {
	Advertisers repository.AdvertiserStore
	Sessions    session.Store
}

func NewAdvertiserHandler(advertisers repository.AdvertiserStore, sessions session.Store) *AdvertiserHandler {
	return &AdvertiserHandler{Advertisers: advertisers, Sessions: sessions}
}

// Get returns the company profile for a user id. Callers may only read
// their own profile.
func (h *AdvertiserHandler) Get(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User ID is required"})
	}
	sess, err := currentSession(c, h.Sessions)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
	}
	if sess.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	adv, err := h.Advertisers.GetByUserID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Advertiser profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch advertiser profile"})
	}
	return c.JSON(http.StatusOK, echo.Map{"advertiser": adv})
}
