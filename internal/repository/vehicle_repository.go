package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/admobility/admobility/internal/model"
)

// VehicleRepo owns the 'vehicles' table.
type VehicleRepo struct{ DB *sql.DB }

func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{DB: db} }

// Insert writes a vehicle row and returns it with its generated id.
func (r *VehicleRepo) Insert(ctx context.Context, v model.Vehicle) (model.Vehicle, error) {
	v.CreatedAt = time.Now().UTC()
	desc := sql.NullString{String: v.Description, Valid: v.Description != ""}
	img := sql.NullString{String: v.ImageURL, Valid: v.ImageURL != ""}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO vehicles
		 (owner_id, make, model, year, color, plate_number, vin, mileage,
		  avg_daily_miles, vehicle_type, primary_location, description, image_url, status, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		v.OwnerID, v.Make, v.Model, v.Year, v.Color, v.PlateNumber, v.VIN, v.Mileage,
		v.AvgDailyMiles, v.VehicleType, v.PrimaryLocation, desc, img, v.Status, v.CreatedAt)
	if err != nil {
		return model.Vehicle{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Vehicle{}, err
	}
	v.ID = uint64(id)
	return v, nil
}

// ListByOwner returns all vehicles registered by one owner.
func (r *VehicleRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Vehicle, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, owner_id, make, model, year, color, plate_number, vin, mileage,
		        avg_daily_miles, vehicle_type, primary_location, description, image_url, status, created_at
		 FROM vehicles WHERE owner_id=? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Vehicle, 0)
	for rows.Next() {
		var v model.Vehicle
		var desc, img sql.NullString
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Make, &v.Model, &v.Year, &v.Color,
			&v.PlateNumber, &v.VIN, &v.Mileage, &v.AvgDailyMiles, &v.VehicleType,
			&v.PrimaryLocation, &desc, &img, &v.Status, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.Description = desc.String
		v.ImageURL = img.String
		out = append(out, v)
	}
	return out, rows.Err()
}

// CountByOwner returns how many vehicles an owner has registered. A count of
// zero marks the owner as onboarding-incomplete.
func (r *VehicleRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM vehicles WHERE owner_id=?", ownerID).Scan(&n)
	return n, err
}
