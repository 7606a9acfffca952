// Package repository defines error types that are reused across multiple
// repositories. These sentinel values let handlers distinguish failure
// scenarios without inspecting driver-specific errors.
package repository

import "errors"

// ErrEmailExists is returned when an account insert collides with an
// existing email. Handlers translate this into an HTTP 400.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a requested row does not exist. Handlers
// translate this into an HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into an HTTP 403.
var ErrForbidden = errors.New("forbidden")
