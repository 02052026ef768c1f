package services

import "errors"

// Sentinel errors shared by all services. Callers classify failures with
// errors.Is and map them onto HTTP status codes.
var (
	// ErrNotFound marks a referenced entity (user, position, post, comment)
	// that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden marks an actor that is not the owner of the resource it
	// tries to mutate.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation marks malformed or missing input fields.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks uniqueness violations such as duplicate emails.
	ErrConflict = errors.New("conflict")
)
