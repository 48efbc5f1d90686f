package types

import "errors"

var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists")
	ErrBadRequest      = errors.New("invalid request")
	ErrUnauthenticated = errors.New("authentication failed")

	// ErrPersonalityNotSet is returned when matchmaking is attempted for a
	// traveler who has not completed the personality survey.
	ErrPersonalityNotSet = errors.New("personality not set, survey required")

	// ErrClassificationFailed wraps failures of the personality model call.
	ErrClassificationFailed = errors.New("personality classification failed")

	// ErrProjectionFailed wraps failures of the embedding projection call.
	ErrProjectionFailed = errors.New("embedding projection failed")
)
