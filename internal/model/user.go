package model

import "time"

// User represents an account.  Users are created once through signup and
// never modified afterwards.
//
// Fields:
//
//	ID           – opaque identifier (MySQL id in decimal or Mongo ObjectID hex).
//	Email        – unique, lower-cased email address.
//	PasswordHash – bcrypt hash; the plain password is never stored.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
