package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/admobility/admobility/internal/model"
)

// AccountRepo owns the 'auth_accounts' table: the credential half of a user.
// Profile rows in 'users' reference an account by its UUID.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// Create inserts an account with a bcrypt-hashed password and the role
// metadata stamped at sign-up, returning the new account id.
func (r *AccountRepo) Create(ctx context.Context, email, password, fullName, phone, role string, cost int) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO auth_accounts (id, email, password_hash, full_name, phone_number, role) VALUES (?,?,?,?,?,?)",
		id, email, hash, fullName, phone, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return "", ErrEmailExists
		}
		return "", err
	}
	return id, nil
}

// GetByEmail fetches an account by normalized email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var a model.Account
	var phone, role sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,full_name,phone_number,role,created_at FROM auth_accounts WHERE email=? LIMIT 1",
		email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &phone, &role, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	a.PhoneNumber = phone.String
	a.Role = role.String
	return a, err
}

// Delete removes an account row. Used as the compensating action when a
// later registration step fails.
func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM auth_accounts WHERE id=?", id)
	return err
}

// Verify compares a candidate password against the stored bcrypt hash.
func (r *AccountRepo) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
