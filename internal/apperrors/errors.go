package apperrors

import "errors"

// Stable error kinds surfaced by the service layer. Handlers map these to
// HTTP status codes with errors.Is, so wrapping with fmt.Errorf("...: %w")
// keeps the kind intact.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("not authorized for this resource")

	ErrValidation = errors.New("validation failed")

	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")

	ErrAlreadyLiked   = errors.New("post already liked")
	ErrDuplicateReply = errors.New("already replied to this comment")

	ErrAlreadyRegistered  = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInactiveUser       = errors.New("user account is inactive")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")
)
