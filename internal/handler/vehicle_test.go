package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admobility/admobility/internal/middleware"
	"github.com/admobility/admobility/internal/model"
	"github.com/admobility/admobility/internal/queue"
	"github.com/admobility/admobility/internal/session"
)

type vehicleFixture struct {
	h        *VehicleHandler
	users    *fakeUsers
	vehicles *fakeVehicles
	blobs    *fakeBlobs
	sessions *fakeSessions
	events   []string // owner ids of published events
}

func newVehicleFixture() *vehicleFixture {
	f := &vehicleFixture{
		users:    newFakeUsers(),
		vehicles: newFakeVehicles(),
		blobs:    &fakeBlobs{},
		sessions: newFakeSessions(),
	}
	f.h = NewVehicleHandler(f.users, f.vehicles, f.blobs, f.sessions, f.publish)
	return f
}

func (f *vehicleFixture) publish(_ context.Context, ev queue.VehicleRegisteredEvent) error {
	f.events = append(f.events, ev.OwnerID)
	return nil
}

// ownerSession seeds a user row and an active session for it.
func (f *vehicleFixture) ownerSession(t *testing.T, id, role string) *session.TokenClaims {
	t.Helper()
	_, err := f.users.Create(context.Background(), model.User{ID: id, FullName: "Owner " + id,
		Email: id + "@example.com", Role: role})
	require.NoError(t, err)
	sess, err := f.sessions.Create(context.Background(), id, role)
	require.NoError(t, err)
	return &session.TokenClaims{SID: sess.ID, UserID: sess.UserID, Role: sess.Role}
}

// vehicleForm builds the multipart body for a valid registration.
func vehicleForm(t *testing.T, ownerID string, withImage bool, omit ...string) (*bytes.Buffer, string) {
	t.Helper()
	skip := map[string]bool{}
	for _, k := range omit {
		skip[k] = true
	}
	fields := map[string]string{
		"owner_id": ownerID, "make": "Toyota", "model": "Corolla", "year": "2021",
		"color": "white", "plate_number": "34-AB-123", "vin": "JT2BF22K1W0123456",
		"mileage": "42000", "avg_daily_miles": "30", "vehicle_type": "sedan",
		"primary_location": "Istanbul", "description": "daily commuter",
	}
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		if skip[k] {
			continue
		}
		require.NoError(t, w.WriteField(k, v))
	}
	if withImage {
		fw, err := w.CreateFormFile("image", "car.jpg")
		require.NoError(t, err)
		_, err = io.WriteString(fw, "fake-jpeg-bytes")
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func doMultipart(t *testing.T, h echo.HandlerFunc, body *bytes.Buffer, contentType string, claims *session.TokenClaims) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/vehicles", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(middleware.ClaimsKey, *claims)
	}
	require.NoError(t, h(c))
	return rec
}

func TestRegisterVehicleSuccess(t *testing.T) {
	f := newVehicleFixture()
	claims := f.ownerSession(t, "owner-1", model.RoleVehicleOwner)
	body, ct := vehicleForm(t, "owner-1", true)

	rec := doMultipart(t, f.h.Register, body, ct, claims)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string        `json:"message"`
		Vehicle model.Vehicle `json:"vehicle"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Vehicle registered successfully", resp.Message)
	assert.Equal(t, model.StatusPendingApproval, resp.Vehicle.Status)
	assert.Equal(t, "owner-1", resp.Vehicle.OwnerID)
	assert.Equal(t, 2021, resp.Vehicle.Year)
	assert.Contains(t, resp.Vehicle.ImageURL, "owner-1_")
	assert.Len(t, f.blobs.saved, 1)
	assert.Equal(t, []string{"owner-1"}, f.events)
}

func TestRegisterVehicleAnonymous(t *testing.T) {
	f := newVehicleFixture()
	body, ct := vehicleForm(t, "owner-1", false)
	rec := doMultipart(t, f.h.Register, body, ct, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, f.vehicles.total())
}

func TestRegisterVehicleForbiddenForOtherOwner(t *testing.T) {
	f := newVehicleFixture()
	claims := f.ownerSession(t, "owner-1", model.RoleVehicleOwner)
	body, ct := vehicleForm(t, "owner-2", false)
	rec := doMultipart(t, f.h.Register, body, ct, claims)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, f.vehicles.total())
}

func TestRegisterVehicleAdminMayActForOwner(t *testing.T) {
	f := newVehicleFixture()
	claims := f.ownerSession(t, "admin-1", model.RoleAdmin)
	_, err := f.users.Create(context.Background(), model.User{ID: "owner-2", Email: "o2@example.com"})
	require.NoError(t, err)
	body, ct := vehicleForm(t, "owner-2", false)
	rec := doMultipart(t, f.h.Register, body, ct, claims)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.vehicles.total())
}

func TestRegisterVehicleMissingFields(t *testing.T) {
	f := newVehicleFixture()
	claims := f.ownerSession(t, "owner-1", model.RoleVehicleOwner)
	body, ct := vehicleForm(t, "owner-1", false, "plate_number")
	rec := doMultipart(t, f.h.Register, body, ct, claims)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing required fields")
}

// A failed image upload aborts the whole operation: no vehicle row, no
// event.
func TestRegisterVehicleUploadFailureLeavesNoRow(t *testing.T) {
	f := newVehicleFixture()
	f.blobs.failSave = true
	claims := f.ownerSession(t, "owner-1", model.RoleVehicleOwner)
	body, ct := vehicleForm(t, "owner-1", true)

	rec := doMultipart(t, f.h.Register, body, ct, claims)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to upload image")
	assert.Zero(t, f.vehicles.total(), "no orphan vehicle row may exist")
	assert.Empty(t, f.events)
}

// Without an image the row is still inserted, with an empty image URL.
func TestRegisterVehicleWithoutImage(t *testing.T) {
	f := newVehicleFixture()
	claims := f.ownerSession(t, "owner-1", model.RoleVehicleOwner)
	body, ct := vehicleForm(t, "owner-1", false)

	rec := doMultipart(t, f.h.Register, body, ct, claims)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.blobs.saved)
	assert.Equal(t, 1, f.vehicles.total())
}

// Role backfill fires only when the role column is unset.
func TestRegisterVehicleRoleBackfill(t *testing.T) {
	f := newVehicleFixture()

	// Account with no role yet.
	_, err := f.users.Create(context.Background(), model.User{ID: "owner-null", Email: "n@example.com"})
	require.NoError(t, err)
	sess, err := f.sessions.Create(context.Background(), "owner-null", "")
	require.NoError(t, err)
	claims := &session.TokenClaims{SID: sess.ID, UserID: sess.UserID}

	body, ct := vehicleForm(t, "owner-null", false)
	rec := doMultipart(t, f.h.Register, body, ct, claims)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.RoleVehicleOwner, f.users.byID["owner-null"].Role)

	// Advertiser keeps their role after the same operation.
	advClaims := f.ownerSession(t, "adv-1", model.RoleAdvertiser)
	body, ct = vehicleForm(t, "adv-1", false)
	rec = doMultipart(t, f.h.Register, body, ct, advClaims)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.RoleAdvertiser, f.users.byID["adv-1"].Role)
}

func TestListVehicles(t *testing.T) {
	f := newVehicleFixture()
	claims := f.ownerSession(t, "owner-1", model.RoleVehicleOwner)
	body, ct := vehicleForm(t, "owner-1", false)
	require.Equal(t, http.StatusOK, doMultipart(t, f.h.Register, body, ct, claims).Code)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/vehicles?ownerId=owner-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ClaimsKey, *claims)
	require.NoError(t, f.h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Vehicles []model.Vehicle `json:"vehicles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Vehicles, 1)
}

func TestListVehiclesValidation(t *testing.T) {
	f := newVehicleFixture()
	claims := f.ownerSession(t, "owner-1", model.RoleVehicleOwner)

	e := echo.New()

	// Missing ownerId.
	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ClaimsKey, *claims)
	require.NoError(t, f.h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Anonymous.
	req = httptest.NewRequest(http.MethodGet, "/api/vehicles?ownerId=owner-1", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, f.h.List(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Someone else's vehicles.
	req = httptest.NewRequest(http.MethodGet, "/api/vehicles?ownerId=owner-2", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set(middleware.ClaimsKey, *claims)
	require.NoError(t, f.h.List(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
