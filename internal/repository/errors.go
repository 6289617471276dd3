// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between failure scenarios without
// inspecting SQL errors. The existence check always runs before the
// ownership check, so a caller probing someone else's resource gets
// ErrForbidden only when the resource actually exists.
package repository

import "errors"

// ErrNotFound is returned when a looked-up resource does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on
// a resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when creating or updating an account
// would violate the unique constraint on the normalized email.
var ErrEmailExists = errors.New("email already exists")

// ErrSessionNotFound is returned when no session row matches the
// presented token, including after a revoke.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionExpired is returned when the session row exists but its
// expiry has passed. The row is eligible for lazy cleanup; callers
// must treat the token as invalid either way.
var ErrSessionExpired = errors.New("session expired")
