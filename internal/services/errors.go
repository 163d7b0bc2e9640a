package services

import "errors"

// Expected, recoverable conditions surfaced to the web layer for user-facing
// messaging. Storage and filesystem I/O failures are returned as-is and
// treated as fatal to the request.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrPostNotFound       = errors.New("post not found")
	ErrDuplicatePost      = errors.New("duplicate post")
	ErrFollowNotFound     = errors.New("follow relationship not found")
)
