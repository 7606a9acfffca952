package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/admobility/admobility/internal/model"
)

// UserRepo owns the 'users' profile table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a profile row keyed by the auth account id.
func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = time.Now().UTC()
	role := sql.NullString{String: u.Role, Valid: u.Role != ""}
	phone := sql.NullString{String: u.PhoneNumber, Valid: u.PhoneNumber != ""}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, full_name, email, phone_number, role, created_at) VALUES (?,?,?,?,?,?)",
		u.ID, u.FullName, u.Email, phone, role, u.CreatedAt)
	return u, err
}

// GetByID fetches a profile row. A NULL role scans as the empty string.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	var phone, role sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,full_name,email,phone_number,role,created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.FullName, &u.Email, &phone, &role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	u.PhoneNumber = phone.String
	u.Role = role.String
	return u, err
}

// Delete removes a profile row. Used as a compensating action when the
// advertiser-profile step of registration fails.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	return err
}

// BackfillVehicleOwnerRole promotes a user to vehicle_owner only when the
// role column is still NULL. Rows with an assigned role are left untouched.
func (r *UserRepo) BackfillVehicleOwnerRole(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=? WHERE id=? AND role IS NULL",
		model.RoleVehicleOwner, id)
	return err
}
