// Package repository defines error types that are reused across the user
// and file repositories of both backends.  These sentinel values allow the
// service layer to distinguish absence from malformed references and from
// infrastructure failures.
package repository

import "errors"

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrFileNotFound is returned when no file node matches the lookup,
// including lookups filtered by an owner that does not own the node.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidID is returned when an identifier cannot be parsed by the
// backend (non-numeric for MySQL, non-ObjectID for MongoDB).  It is kept
// distinct from the not-found errors so callers can report it separately.
var ErrInvalidID = errors.New("invalid id")

// ErrEmailExists is returned when signing up with an email already in use.
var ErrEmailExists = errors.New("email already exists")
