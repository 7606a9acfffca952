package model

import "time"

// Roles a user profile can carry. Role is immutable after assignment except
// for one backfill case: a NULL role becomes RoleVehicleOwner as a side
// effect of registering a vehicle.
const (
	RoleVehicleOwner = "vehicle_owner"
	RoleAdvertiser   = "advertiser"
	RoleAdmin        = "admin"
)

// User mirrors the 'users' profile table. IDs are the UUIDs of the matching
// auth account, which is the wire contract between the gate, the resolver
// and the row store. An empty Role means the column is NULL.
type User struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// Account mirrors the 'auth_accounts' table: the identity-store half of a
// user, holding credentials and the role metadata stamped at sign-up.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	PhoneNumber  string
	Role         string
	CreatedAt    time.Time
}
