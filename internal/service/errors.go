package service

import "errors"

// Validation and reference errors.  Their text is returned to API clients
// verbatim.
var (
	ErrMissingEmail    = errors.New("Missing email")
	ErrMissingPassword = errors.New("Missing password")
	ErrAlreadyExist    = errors.New("Already exist")
	ErrUnauthorized    = errors.New("Unauthorized")

	ErrMissingName     = errors.New("Missing name")
	ErrMissingType     = errors.New("Missing type")
	ErrMissingData     = errors.New("Missing data")
	ErrParentNotFound  = errors.New("Parent not found")
	ErrParentNotFolder = errors.New("Parent is not a folder")

	ErrNotFound      = errors.New("Not found")
	ErrFolderContent = errors.New("A folder doesn't have content")
	ErrInvalidSize   = errors.New("Invalid size")
)
