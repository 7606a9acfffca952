package model

import "time"

// StatusPendingApproval is stamped on every newly registered vehicle until
// an operator reviews it.
const StatusPendingApproval = "pending_approval"

// Vehicle mirrors the 'vehicles' table. A vehicle belongs to exactly one
// user; the existence of at least one row per owner is the signal that the
// owner finished onboarding.
type Vehicle struct {
	ID              uint64    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Make            string    `json:"make"`
	Model           string    `json:"model"`
	Year            int       `json:"year"`
	Color           string    `json:"color"`
	PlateNumber     string    `json:"plate_number"`
	VIN             string    `json:"vin"`
	Mileage         int       `json:"mileage"`
	AvgDailyMiles   int       `json:"avg_daily_miles"`
	VehicleType     string    `json:"vehicle_type"`
	PrimaryLocation string    `json:"primary_location"`
	Description     string    `json:"description,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
