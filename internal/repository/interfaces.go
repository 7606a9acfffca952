package repository

import (
	"context"

	"github.com/admobility/admobility/internal/model"
)

// AccountStore defines the identity-store operations on auth accounts.
type AccountStore interface {
	Create(ctx context.Context, email, password, fullName, phone, role string, cost int) (string, error)
	GetByEmail(ctx context.Context, email string) (model.Account, error)
	Delete(ctx context.Context, id string) error
	Verify(hash, password string) bool
}

// UserStore defines operations on user profile rows.
type UserStore interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	Delete(ctx context.Context, id string) error
	BackfillVehicleOwnerRole(ctx context.Context, id string) error
}

// VehicleStore defines operations on vehicle rows.
type VehicleStore interface {
	Insert(ctx context.Context, v model.Vehicle) (model.Vehicle, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Vehicle, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

// AdvertiserStore defines operations on advertiser company profiles.
type AdvertiserStore interface {
	Create(ctx context.Context, a model.Advertiser) (model.Advertiser, error)
	GetByUserID(ctx context.Context, userID string) (model.Advertiser, error)
	DeleteByUserID(ctx context.Context, userID string) error
}
