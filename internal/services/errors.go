package services

import "errors"

// Sentinel errors shared across services. Handlers branch on these with
// errors.Is to pick the HTTP status; anything else is treated as internal and
// never leaks store diagnostics to the client.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrStudyNotFound      = errors.New("study not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrGrantNotFound      = errors.New("note permission not found")

	ErrForbidden = errors.New("permission denied")

	ErrUsernameTaken  = errors.New("username already in use")
	ErrEmailTaken     = errors.New("email already in use")
	ErrAlreadyGrantee = errors.New("user is already a contributor")
	ErrSelfFollow     = errors.New("can't follow yourself")
	ErrTagNameTaken   = errors.New("tag name already in use")
	ErrStudyNameTaken = errors.New("study name already in use")

	ErrInvalidCredentials = errors.New("invalid username/email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrOauthNoPassword    = errors.New("oauth accounts have no password")
)
