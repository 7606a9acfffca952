package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/admobility/admobility/internal/config"
	"github.com/admobility/admobility/internal/metrics"
	"github.com/admobility/admobility/internal/middleware"
	"github.com/admobility/admobility/internal/model"
	"github.com/admobility/admobility/internal/repository"
	"github.com/admobility/admobility/internal/session"
)

// AuthHandler bundles dependencies for the auth endpoints: sign-in,
// sign-out, session resolution, registration and the caller's user row.
type AuthHandler struct {
	Cfg         config.Config
	Accounts    repository.AccountStore
	Users       repository.UserStore
	Advertisers repository.AdvertiserStore
	Sessions    session.Store
}

func NewAuthHandler(cfg config.Config, accounts repository.AccountStore, users repository.UserStore,
	advertisers repository.AdvertiserStore, sessions session.Store) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: accounts, Users: users, Advertisers: advertisers, Sessions: sessions}
}

// currentSession resolves the cookie claims against the session store. Every
// failure collapses into ErrNoSession so callers are treated as anonymous.
func currentSession(c echo.Context, store session.Store) (model.Session, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return model.Session{}, session.ErrNoSession
	}
	return store.Get(c.Request().Context(), claims.SID)
}

type signInReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session returns the caller's session and role, or nulls for anonymous
// callers. Resolution failures also answer with nulls: the client must fall
// back to a signed-out render rather than error out.
func (h *AuthHandler) Session(c echo.Context) error {
	noSession := echo.Map{"user": nil, "userRole": nil}

	sess, err := currentSession(c, h.Sessions)
	if err != nil {
		return c.JSON(http.StatusOK, noSession)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, sess.UserID)
	if err != nil {
		log.Printf("session: fetch user %s failed: %v", sess.UserID, err)
		return c.JSON(http.StatusOK, noSession)
	}

	var role interface{}
	if u.Role != "" {
		role = u.Role
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u, "userRole": role})
}

// SignIn verifies credentials, mints a session and sets the signed cookie.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acct, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			metrics.SignIns.WithLabelValues("failed").Inc()
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid login credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	if !h.Accounts.Verify(acct.PasswordHash, req.Password) {
		metrics.SignIns.WithLabelValues("failed").Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid login credentials"})
	}

	sess, err := h.Sessions.Create(ctx, acct.ID, acct.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create session"})
	}
	token, err := session.NewCookieToken(h.Cfg.SessionSecret, sess)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create session"})
	}
	c.SetCookie(session.NewCookie(token, sess.ExpiresAt))
	metrics.SignIns.WithLabelValues("ok").Inc()

	// The profile row is what the dashboard renders; fall back to the
	// account fields when the row is missing (e.g. an orphaned account).
	u, err := h.Users.GetByID(ctx, acct.ID)
	if err != nil {
		u = model.User{ID: acct.ID, FullName: acct.FullName, Email: acct.Email,
			PhoneNumber: acct.PhoneNumber, Role: acct.Role, CreatedAt: acct.CreatedAt}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": u})
}

// SignOut destroys the session record and clears the cookie.
func (h *AuthHandler) SignOut(c echo.Context) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Not signed in"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.Delete(ctx, claims.SID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to sign out"})
	}
	c.SetCookie(session.ClearCookie())
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// User returns the caller's own user row.
func (h *AuthHandler) User(c echo.Context) error {
	sess, err := currentSession(c, h.Sessions)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, sess.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch user data"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}
