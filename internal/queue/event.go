// Package queue defines the background job payloads exchanged over RabbitMQ
// and the consumers that process them.
package queue

import "errors"

// Queue names.  Both are declared durable by producers and consumers.
const (
	ThumbnailQueue = "fileQueue"
	WelcomeQueue   = "userQueue"
)

// ThumbnailJob asks the worker to build derivatives for an uploaded image.
type ThumbnailJob struct {
	FileID string `json:"fileId"`
	UserID string `json:"userId"`
}

// WelcomeJob is published after a successful signup.
type WelcomeJob struct {
	UserID string `json:"userId"`
}

// Job validation and lookup failures.  Their text is what ends up in the
// failure log, so it mirrors the messages API clients already know.
var (
	ErrMissingFileID = errors.New("Missing fileId")
	ErrMissingUserID = errors.New("Missing userId")
	ErrFileNotFound  = errors.New("File not found")
	ErrUserNotFound  = errors.New("User not found")
	ErrNotImage      = errors.New("File is not an image")
)
