// Package repository contains data access logic separated from HTTP handlers.
// This file defines sentinel error values reused across the stores so that
// handlers can map failures to the HTTP taxonomy without inspecting raw
// storage errors.
package repository

import "errors"

// ErrNotFound is returned when an entity does not exist or is not reachable
// through the caller's ownership chain.  The two cases are indistinguishable
// on purpose: a 404 must not reveal whether another user's resource exists.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a registration or email update collides
// with another non-deleted account.
var ErrEmailExists = errors.New("email already exists")

// ErrPasswordResetRequired is returned when a local login hits an account
// that was created through a third-party provider and therefore has no
// usable password.  Handlers translate this into the 300 "needs secondary
// step" response.
var ErrPasswordResetRequired = errors.New("password reset required")
