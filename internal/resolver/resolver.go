// Package resolver implements the client-side session controller: it keeps
// the signed-in user, role and vehicle state fresh against the HTTP API,
// re-applies the access policy for client-side navigation, and exposes the
// imperative sign-in/sign-out operations the UI binds to.
package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/admobility/admobility/internal/model"
	"github.com/admobility/admobility/internal/policy"
)

// Notifier surfaces transient success/error notices to the user. Kind is
// "success" or "error".
type Notifier func(kind, message string)

// Navigator performs a client-side navigation to a path.
type Navigator func(path string)

// State is the resolved session snapshot the UI tree renders from.
type State struct {
	User       *model.User
	Role       string
	HasVehicle bool
	IsLoading  bool
}

// Controller polls the session endpoint, derives the access state and
// re-applies the policy on navigation. One controller belongs to one
// client; its lifetime is bound to the context passed to Start.
type Controller struct {
	base     string
	client   *http.Client
	notify   Notifier
	navigate Navigator
	interval time.Duration

	mu    sync.Mutex
	state State
}

// New builds a controller against the API at baseURL. The HTTP client
// carries a cookie jar so the session cookie set by sign-in sticks.
func New(baseURL string, notify Notifier, navigate Navigator) (*Controller, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if notify == nil {
		notify = func(string, string) {}
	}
	if navigate == nil {
		navigate = func(string) {}
	}
	return &Controller{
		base:     baseURL,
		client:   &http.Client{Jar: jar, Timeout: 10 * time.Second},
		notify:   notify,
		navigate: navigate,
		interval: 5 * time.Minute,
		state:    State{IsLoading: true},
	}, nil
}

// SetPollInterval overrides the 5-minute refresh cadence. Mostly for tests.
func (r *Controller) SetPollInterval(d time.Duration) { r.interval = d }

// State returns the current snapshot.
func (r *Controller) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start refreshes once immediately and then every poll interval until ctx is
// cancelled. The ticker is stopped on teardown so no timer leaks.
func (r *Controller) Start(ctx context.Context) {
	r.Refresh(ctx)
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Refresh(ctx)
			}
		}
	}()
}

type sessionResp struct {
	User     *model.User `json:"user"`
	UserRole *string     `json:"userRole"`
}

type vehiclesResp struct {
	Vehicles []model.Vehicle `json:"vehicles"`
}

// Refresh fetches session and user data, and for vehicle owners the vehicle
// list. Any fetch error resets the state to signed-out (fail-closed).
func (r *Controller) Refresh(ctx context.Context) {
	r.setLoading(true)
	defer r.setLoading(false)

	var sr sessionResp
	if err := r.getJSON(ctx, "/api/auth/session", &sr); err != nil || sr.User == nil {
		r.reset()
		return
	}
	role := ""
	if sr.UserRole != nil {
		role = *sr.UserRole
	}
	hasVehicle := false
	if role == model.RoleVehicleOwner {
		var vr vehiclesResp
		if err := r.getJSON(ctx, "/api/vehicles?ownerId="+url.QueryEscape(sr.User.ID), &vr); err != nil {
			r.reset()
			return
		}
		hasVehicle = len(vr.Vehicles) > 0
	}

	r.mu.Lock()
	r.state.User = sr.User
	r.state.Role = role
	r.state.HasVehicle = hasVehicle
	r.mu.Unlock()
}

// SignIn posts credentials and, on success, refreshes the local state before
// navigating so the next page's render observes the signed-in state without
// waiting for the next poll tick.
func (r *Controller) SignIn(ctx context.Context, email, password string) error {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := r.postJSON(ctx, "/api/auth/signin", body)
	if err != nil {
		r.notify("error", "Failed to sign in")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := errorMessage(resp, "Failed to sign in")
		r.notify("error", msg)
		return fmt.Errorf("signin: %s", msg)
	}

	r.Refresh(ctx) // state first, navigation second
	r.notify("success", "Signed in successfully!")
	r.navigate("/dashboard")
	return nil
}

// SignOut destroys the session and resets the local state before navigating
// home.
func (r *Controller) SignOut(ctx context.Context) error {
	resp, err := r.postJSON(ctx, "/api/auth/signout", nil)
	if err != nil {
		r.notify("error", "Failed to sign out")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := errorMessage(resp, "Failed to sign out")
		r.notify("error", msg)
		return fmt.Errorf("signout: %s", msg)
	}

	r.reset() // state first, navigation second
	r.notify("success", "Signed out successfully!")
	r.navigate("/")
	return nil
}

// Guard applies the full access policy to a client-side navigation. When
// the decision is a redirect it surfaces the one-shot notice (if any) and
// performs the navigation, returning the decision either way.
func (r *Controller) Guard(path string) policy.Decision {
	s := r.State()
	st := policy.StateFor(s.User != nil, s.Role, s.HasVehicle)
	d := policy.Evaluate(st, path)
	if !d.Allow {
		if d.Notice != "" {
			r.notify("error", d.Notice)
		}
		r.navigate(d.Location)
	}
	return d
}

func (r *Controller) reset() {
	r.mu.Lock()
	r.state.User = nil
	r.state.Role = ""
	r.state.HasVehicle = false
	r.mu.Unlock()
}

func (r *Controller) setLoading(v bool) {
	r.mu.Lock()
	r.state.IsLoading = v
	r.mu.Unlock()
}

func (r *Controller) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (r *Controller) postJSON(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.base+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return r.client.Do(req)
}

func errorMessage(resp *http.Response, fallback string) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error != "" {
		return e.Error
	}
	return fallback
}
