package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admobility/admobility/internal/middleware"
	"github.com/admobility/admobility/internal/model"
	"github.com/admobility/admobility/internal/session"
)

func getAdvertiser(t *testing.T, h *AdvertiserHandler, id string, claims *session.TokenClaims) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/advertisers/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/advertisers/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	if claims != nil {
		c.Set(middleware.ClaimsKey, *claims)
	}
	require.NoError(t, h.Get(c))
	return rec
}

func TestGetAdvertiser(t *testing.T) {
	advertisers := newFakeAdvertisers()
	sessions := newFakeSessions()
	h := NewAdvertiserHandler(advertisers, sessions)

	_, err := advertisers.Create(context.Background(), model.Advertiser{UserID: "adv-1", CompanyName: "Brandco"})
	require.NoError(t, err)
	sess, err := sessions.Create(context.Background(), "adv-1", model.RoleAdvertiser)
	require.NoError(t, err)
	claims := &session.TokenClaims{SID: sess.ID, UserID: sess.UserID, Role: sess.Role}

	rec := getAdvertiser(t, h, "adv-1", claims)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Advertiser model.Advertiser `json:"advertiser"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Brandco", resp.Advertiser.CompanyName)

	// Anonymous.
	assert.Equal(t, http.StatusUnauthorized, getAdvertiser(t, h, "adv-1", nil).Code)

	// Someone else's profile.
	other, err := sessions.Create(context.Background(), "adv-2", model.RoleAdvertiser)
	require.NoError(t, err)
	otherClaims := &session.TokenClaims{SID: other.ID, UserID: other.UserID, Role: other.Role}
	assert.Equal(t, http.StatusForbidden, getAdvertiser(t, h, "adv-1", otherClaims).Code)

	// Missing profile row surfaces 404, not 500.
	assert.Equal(t, http.StatusNotFound, getAdvertiser(t, h, "adv-2", otherClaims).Code)
}
