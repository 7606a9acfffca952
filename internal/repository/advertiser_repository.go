package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/admobility/admobility/internal/model"
)

// AdvertiserRepo owns the 'advertisers' company-profile table.
type AdvertiserRepo struct{ DB *sql.DB }

func NewAdvertiserRepo(db *sql.DB) *AdvertiserRepo { return &AdvertiserRepo{DB: db} }

// Create inserts a company profile referencing a user id.
func (r *AdvertiserRepo) Create(ctx context.Context, a model.Advertiser) (model.Advertiser, error) {
	a.CreatedAt = time.Now().UTC()
	site := sql.NullString{String: a.Website, Valid: a.Website != ""}
	ind := sql.NullString{String: a.Industry, Valid: a.Industry != ""}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO advertisers (user_id, company_name, website, industry, created_at) VALUES (?,?,?,?,?)",
		a.UserID, a.CompanyName, site, ind, a.CreatedAt)
	if err != nil {
		return model.Advertiser{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Advertiser{}, err
	}
	a.ID = uint64(id)
	return a, nil
}

// GetByUserID fetches the company profile owned by a user.
func (r *AdvertiserRepo) GetByUserID(ctx context.Context, userID string) (model.Advertiser, error) {
	var a model.Advertiser
	var site, ind sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,company_name,website,industry,created_at FROM advertisers WHERE user_id=? LIMIT 1",
		userID).Scan(&a.ID, &a.UserID, &a.CompanyName, &site, &ind, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	a.Website = site.String
	a.Industry = ind.String
	return a, err
}

// DeleteByUserID removes a user's company profile.
func (r *AdvertiserRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM advertisers WHERE user_id=?", userID)
	return err
}
