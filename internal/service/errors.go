package service

import "errors"

// Failure kinds surfaced by the services. Causes are wrapped with %w so that
// logs keep the precise reason while callers match on the kind.
var (
	// ErrAuthenticationMissing indicates that no credential accompanied the request.
	ErrAuthenticationMissing = errors.New("authentication missing")
	// ErrAuthenticationInvalid covers bad credentials and unusable tokens alike.
	ErrAuthenticationInvalid = errors.New("authentication invalid")
	// ErrAuthorizationDenied indicates a valid identity lacking the required role.
	ErrAuthorizationDenied = errors.New("authorization denied")
	// ErrNotFound indicates an absent record, or one the caller does not own.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a missing or malformed input field.
	ErrValidation = errors.New("validation failed")
	// ErrUnknownSubject indicates a well-formed token whose user no longer exists.
	ErrUnknownSubject = errors.New("token subject does not resolve to a user")
)
