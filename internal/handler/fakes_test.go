package handler

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/admobility/admobility/internal/model"
	"github.com/admobility/admobility/internal/repository"
	"github.com/admobility/admobility/internal/session"
)

// In-memory store fakes with error injection and call recording, so the
// compensation chains and best-effort steps can be asserted precisely.

var errBoom = errors.New("boom")

type fakeAccounts struct {
	byEmail    map[string]model.Account
	failCreate bool
	failDelete bool
	created    []string // account ids in creation order
	deleted    []string // account ids in deletion order
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byEmail: map[string]model.Account{}}
}

func (f *fakeAccounts) Create(_ context.Context, email, password, fullName, phone, role string, _ int) (string, error) {
	if f.failCreate {
		return "", errBoom
	}
	id := "acct-" + email
	f.byEmail[email] = model.Account{ID: id, Email: email, PasswordHash: "hash:" + password,
		FullName: fullName, PhoneNumber: phone, Role: role, CreatedAt: time.Now().UTC()}
	f.created = append(f.created, id)
	return id, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (model.Account, error) {
	a, ok := f.byEmail[email]
	if !ok {
		return model.Account{}, errNotFound()
	}
	return a, nil
}

func (f *fakeAccounts) Delete(_ context.Context, id string) error {
	if f.failDelete {
		return errBoom
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAccounts) Verify(hash, password string) bool {
	return hash == "hash:"+password
}

type fakeUsers struct {
	byID       map[string]model.User
	failCreate bool
	failGet    bool
	backfills  []string
	deleted    []string
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[string]model.User{}} }

func (f *fakeUsers) Create(_ context.Context, u model.User) (model.User, error) {
	if f.failCreate {
		return model.User{}, errBoom
	}
	u.CreatedAt = time.Now().UTC()
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (model.User, error) {
	if f.failGet {
		return model.User{}, errBoom
	}
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, errNotFound()
	}
	return u, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUsers) BackfillVehicleOwnerRole(_ context.Context, id string) error {
	f.backfills = append(f.backfills, id)
	if u, ok := f.byID[id]; ok && u.Role == "" {
		u.Role = model.RoleVehicleOwner
		f.byID[id] = u
	}
	return nil
}

type fakeVehicles struct {
	byOwner    map[string][]model.Vehicle
	failInsert bool
	failList   bool
	nextID     uint64
}

func newFakeVehicles() *fakeVehicles { return &fakeVehicles{byOwner: map[string][]model.Vehicle{}} }

func (f *fakeVehicles) Insert(_ context.Context, v model.Vehicle) (model.Vehicle, error) {
	if f.failInsert {
		return model.Vehicle{}, errBoom
	}
	f.nextID++
	v.ID = f.nextID
	v.CreatedAt = time.Now().UTC()
	f.byOwner[v.OwnerID] = append(f.byOwner[v.OwnerID], v)
	return v, nil
}

func (f *fakeVehicles) ListByOwner(_ context.Context, ownerID string) ([]model.Vehicle, error) {
	if f.failList {
		return nil, errBoom
	}
	return append([]model.Vehicle(nil), f.byOwner[ownerID]...), nil
}

func (f *fakeVehicles) CountByOwner(_ context.Context, ownerID string) (int, error) {
	return len(f.byOwner[ownerID]), nil
}

func (f *fakeVehicles) total() int {
	n := 0
	for _, vs := range f.byOwner {
		n += len(vs)
	}
	return n
}

type fakeAdvertisers struct {
	byUser     map[string]model.Advertiser
	failCreate bool
	created    []string
	deleted    []string
	nextID     uint64
}

func newFakeAdvertisers() *fakeAdvertisers {
	return &fakeAdvertisers{byUser: map[string]model.Advertiser{}}
}

func (f *fakeAdvertisers) Create(_ context.Context, a model.Advertiser) (model.Advertiser, error) {
	if f.failCreate {
		return model.Advertiser{}, errBoom
	}
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now().UTC()
	f.byUser[a.UserID] = a
	f.created = append(f.created, a.UserID)
	return a, nil
}

func (f *fakeAdvertisers) GetByUserID(_ context.Context, userID string) (model.Advertiser, error) {
	a, ok := f.byUser[userID]
	if !ok {
		return model.Advertiser{}, errNotFound()
	}
	return a, nil
}

func (f *fakeAdvertisers) DeleteByUserID(_ context.Context, userID string) error {
	delete(f.byUser, userID)
	f.deleted = append(f.deleted, userID)
	return nil
}

type fakeSessions struct {
	byID       map[string]model.Session
	failCreate bool
	nextID     int
}

func newFakeSessions() *fakeSessions { return &fakeSessions{byID: map[string]model.Session{}} }

func (f *fakeSessions) Create(_ context.Context, userID, role string) (model.Session, error) {
	if f.failCreate {
		return model.Session{}, errBoom
	}
	f.nextID++
	s := model.Session{ID: "sid-" + userID, UserID: userID, Role: role,
		ExpiresAt: time.Now().UTC().Add(time.Hour)}
	f.byID[s.ID] = s
	return s, nil
}

func (f *fakeSessions) Get(_ context.Context, sid string) (model.Session, error) {
	s, ok := f.byID[sid]
	if !ok {
		return model.Session{}, session.ErrNoSession
	}
	return s, nil
}

func (f *fakeSessions) Delete(_ context.Context, sid string) error {
	delete(f.byID, sid)
	return nil
}

type fakeBlobs struct {
	failSave bool
	saved    []string
}

func (f *fakeBlobs) Save(_ context.Context, key string, r io.Reader) (string, error) {
	if f.failSave {
		return "", errBoom
	}
	_, _ = io.Copy(io.Discard, r)
	f.saved = append(f.saved, key)
	return "https://cdn.example.com/uploads/" + key, nil
}

func errNotFound() error { return repository.ErrNotFound }
