package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the user lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrInsufficientSources indicates a compile was requested with fewer than two source notes
	ErrInsufficientSources = errors.New("at least 2 source notes required")

	// ErrGenerationFailed indicates the text-generation call errored or timed out
	ErrGenerationFailed = errors.New("text generation failed")

	// ErrMalformedGeneration indicates the generator returned text that does not
	// parse into the expected shape
	ErrMalformedGeneration = errors.New("malformed generation response")

	// ErrSessionBusy indicates a live note session already has a consolidation in flight
	ErrSessionBusy = errors.New("live session busy")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrServiceUnavailable indicates the AI service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)
