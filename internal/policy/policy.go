// Package policy implements the access decision table shared by the edge
// gate and the client session resolver. Keeping the table in one pure
// function is what prevents the two enforcement points from drifting apart.
package policy

import (
	"strings"

	"github.com/admobility/admobility/internal/model"
)

// State is the caller's derived authorization state. It is computed per
// request from session presence, role and vehicle count; it is never
// persisted.
type State int

const (
	// Anonymous: no valid session.
	Anonymous State = iota
	// AuthenticatedIncomplete: a vehicle_owner session with zero vehicles.
	AuthenticatedIncomplete
	// AuthenticatedComplete: an advertiser, an admin, or a vehicle_owner
	// with at least one registered vehicle.
	AuthenticatedComplete
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case AuthenticatedIncomplete:
		return "authenticated_incomplete"
	case AuthenticatedComplete:
		return "authenticated_complete"
	}
	return "unknown"
}

// NoticeVehicleRequired is the one-shot message shown alongside the
// onboarding redirect for owners without a vehicle.
const NoticeVehicleRequired = "Please register your vehicle to continue"

// Decision is the outcome of evaluating a state against a path: either the
// request proceeds, or the caller is redirected with an optional one-shot
// notice.
type Decision struct {
	Allow    bool
	Location string // redirect target when Allow is false
	Notice   string // one-shot user-visible message, set only with Location
}

var allow = Decision{Allow: true}

func redirect(loc string) Decision { return Decision{Location: loc} }

// publicRoutes never require a session.
var publicRoutes = []string{"/", "/login", "/register", "/terms", "/privacy"}

// matches reports whether path equals route or sits beneath it. For the "/"
// route only the exact match fires, since no path starts with "//".
func matches(path, route string) bool {
	return path == route || strings.HasPrefix(path, route+"/")
}

func isPublic(path string) bool {
	for _, r := range publicRoutes {
		if matches(path, r) {
			return true
		}
	}
	return false
}

func isOnboarding(path string) bool { return matches(path, "/onboarding") }

func isAPI(path string) bool { return strings.HasPrefix(path, "/api/") }

// incompleteAllowed lists the paths an owner without a vehicle may still
// reach: the vehicle registration form, onboarding, API calls and logout.
// The onboarding redirect target is in this set, so re-entrant evaluation
// cannot loop.
func incompleteAllowed(path string) bool {
	return path == "/dashboard/vehicle/new" ||
		isOnboarding(path) ||
		isAPI(path) ||
		path == "/logout"
}

// StateFor derives the caller's state from the resolved session data.
func StateFor(authenticated bool, role string, hasVehicle bool) State {
	if !authenticated {
		return Anonymous
	}
	if role == model.RoleVehicleOwner && !hasVehicle {
		return AuthenticatedIncomplete
	}
	return AuthenticatedComplete
}

// Evaluate applies the full decision table. It is the single source of truth
// for both enforcement points; EvaluateEdge is its presence-only projection.
func Evaluate(s State, path string) Decision {
	if s == Anonymous {
		if isPublic(path) || isOnboarding(path) {
			return allow
		}
		return redirect("/login")
	}

	// Authenticated callers have no business on the auth pages.
	if path == "/" || path == "/login" || path == "/register" {
		return redirect("/dashboard")
	}
	if s == AuthenticatedComplete {
		return allow
	}
	if incompleteAllowed(path) {
		return allow
	}
	return Decision{Location: "/dashboard/vehicle/new", Notice: NoticeVehicleRequired}
}

// EvaluateEdge applies the part of the table the edge layer can decide from
// session presence alone. The vehicle-count rule is deliberately left to the
// client evaluator: the edge has no per-request query budget for it, so it
// under-enforces and the richer check runs after the client's data fetch.
// API paths are passed through untouched; their handlers answer with proper
// status codes instead of a 302.
func EvaluateEdge(hasSession bool, path string) Decision {
	if isAPI(path) {
		return allow
	}
	if hasSession {
		if path == "/" || path == "/login" || path == "/register" {
			return redirect("/dashboard")
		}
		return allow
	}
	if isPublic(path) || isOnboarding(path) {
		return allow
	}
	return redirect("/login")
}
