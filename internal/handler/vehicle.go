package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/admobility/admobility/internal/model"
	"github.com/admobility/admobility/internal/queue"
	"github.com/admobility/admobility/internal/repository"
	"github.com/admobility/admobility/internal/session"
	"github.com/admobility/admobility/internal/storage"
)

// Publisher emits a registration event. Publishing is best-effort: errors
// are logged by the caller and never surfaced to the HTTP client.
type Publisher func(ctx context.Context, ev queue.VehicleRegisteredEvent) error

// VehicleHandler bundles dependencies for the vehicle endpoints.
type VehicleHandler struct {
	Users    repository.UserStore
	Vehicles repository.VehicleStore
	Blobs    storage.BlobStore
	Sessions session.Store
	Publish  Publisher // nil disables event publishing
}

func NewVehicleHandler(users repository.UserStore, vehicles repository.VehicleStore,
	blobs storage.BlobStore, sessions session.Store, publish Publisher) *VehicleHandler {
	return &VehicleHandler{Users: users, Vehicles: vehicles, Blobs: blobs, Sessions: sessions, Publish: publish}
}

// canActFor reports whether the session may act on the given owner's data:
// the owner themselves, or an admin.
func canActFor(sess model.Session, ownerID string) bool {
	return sess.UserID == ownerID || sess.Role == model.RoleAdmin
}

// List returns the vehicles registered by one owner.
func (h *VehicleHandler) List(c echo.Context) error {
	ownerID := c.QueryParam("ownerId")
	if ownerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Owner ID is required"})
	}
	sess, err := currentSession(c, h.Sessions)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}
	if !canActFor(sess, ownerID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	vehicles, err := h.Vehicles.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch vehicles"})
	}
	return c.JSON(http.StatusOK, echo.Map{"vehicles": vehicles})
}

// Register accepts the multipart vehicle form, stores the image first and
// inserts the row only after the image is safely persisted, so a failed
// upload can never leave an orphan vehicle row.
func (h *VehicleHandler) Register(c echo.Context) error {
	sess, err := currentSession(c, h.Sessions)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}

	ownerID := c.FormValue("owner_id")
	v := model.Vehicle{
		OwnerID:         ownerID,
		Make:            strings.TrimSpace(c.FormValue("make")),
		Model:           strings.TrimSpace(c.FormValue("model")),
		Color:           strings.TrimSpace(c.FormValue("color")),
		PlateNumber:     strings.TrimSpace(c.FormValue("plate_number")),
		VIN:             strings.TrimSpace(c.FormValue("vin")),
		VehicleType:     strings.TrimSpace(c.FormValue("vehicle_type")),
		PrimaryLocation: strings.TrimSpace(c.FormValue("primary_location")),
		Description:     strings.TrimSpace(c.FormValue("description")),
		Status:          model.StatusPendingApproval,
	}
	yearStr := c.FormValue("year")
	if ownerID == "" || v.Make == "" || v.Model == "" || yearStr == "" || v.Color == "" ||
		v.PlateNumber == "" || v.VIN == "" || v.VehicleType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields"})
	}
	if !canActFor(sess, ownerID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Forbidden"})
	}

	v.Year, err = strconv.Atoi(yearStr)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid year"})
	}
	if s := c.FormValue("mileage"); s != "" {
		if v.Mileage, err = strconv.Atoi(s); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid mileage"})
		}
	}
	if s := c.FormValue("avg_daily_miles"); s != "" {
		if v.AvgDailyMiles, err = strconv.Atoi(s); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid avg_daily_miles"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	// Image first; the row insert only happens once the blob is durable.
	if file, ferr := c.FormFile("image"); ferr == nil && file != nil {
		src, oerr := file.Open()
		if oerr != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to upload image"})
		}
		url, serr := h.Blobs.Save(ctx, storage.ImageKey(ownerID, file.Filename), src)
		src.Close()
		if serr != nil {
			log.Printf("vehicle: image upload failed for owner %s: %v", ownerID, serr)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to upload image"})
		}
		v.ImageURL = url
	}

	v, err = h.Vehicles.Insert(ctx, v)
	if err != nil {
		log.Printf("vehicle: insert failed for owner %s: %v", ownerID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to register vehicle"})
	}

	// Best-effort role backfill: only fires when the role column is still
	// NULL. Failure is logged, never surfaced.
	if err := h.Users.BackfillVehicleOwnerRole(ctx, ownerID); err != nil {
		log.Printf("vehicle: role backfill failed for owner %s: %v", ownerID, err)
	}

	// Best-effort event for the review pipeline.
	if h.Publish != nil {
		ev := queue.VehicleRegisteredEvent{
			VehicleID:    v.ID,
			OwnerID:      v.OwnerID,
			Make:         v.Make,
			Model:        v.Model,
			Year:         v.Year,
			PlateNumber:  v.PlateNumber,
			Status:       v.Status,
			RegisteredAt: v.CreatedAt.Format(time.RFC3339),
		}
		if err := h.Publish(ctx, ev); err != nil {
			log.Printf("vehicle: publish registered event failed: %v", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Vehicle registered successfully", "vehicle": v})
}
