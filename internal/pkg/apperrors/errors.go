package apperrors

import "errors"

// Application errors - used across all layers. The HTTP error handler
// middleware maps these to status codes and a uniform JSON envelope.
var (
	// ErrAuthenticationRequired indicates no authenticated identity was present
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrNotAuthorizedOrNotFound indicates the target is absent OR the caller
	// does not own it. The two cases are deliberately conflated so a caller
	// cannot probe for the existence of other users' sessions.
	ErrNotAuthorizedOrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a duplicate creation attempt (e.g. a second
	// note for a session through the non-upsert path)
	ErrAlreadyExists = errors.New("already exists")

	// ErrSessionEnded indicates a write was attempted against a read-only session
	ErrSessionEnded = errors.New("session already ended")

	// ErrGenerationFailed indicates the AI backend reported an error during
	// note generation. Surfaced to the user, never auto-retried.
	ErrGenerationFailed = errors.New("note generation failed")

	// ErrGenerationInProgress indicates a generation is already running for the session
	ErrGenerationInProgress = errors.New("generation already in progress")

	// ErrConfirmationRequired indicates regeneration was requested over existing
	// content without the explicit confirmation step
	ErrConfirmationRequired = errors.New("regeneration requires confirmation")

	// ErrExportUnavailable indicates the primary export format could not be
	// produced; callers should offer the fallback format
	ErrExportUnavailable = errors.New("export format unavailable")

	// ErrColdStartInProgress indicates the AI backend is still warming up.
	// Transient waiting state, not a terminal failure.
	ErrColdStartInProgress = errors.New("backend cold start in progress")

	// ErrInvalidCredentials indicates wrong email/password combination
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenInvalid indicates an auth token is malformed, expired or revoked
	ErrTokenInvalid = errors.New("token invalid")
)
