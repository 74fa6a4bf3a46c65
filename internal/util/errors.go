package util

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailRegistered = errors.New("email already registered")

	// ErrDhatuDataUnavailable is the one fatal feature class: grammar
	// production checks cannot run without the root table, so callers
	// surface this as an unavailable feature rather than a learner
	// failure.
	ErrDhatuDataUnavailable = errors.New("dhātu reference data not loaded")

	ErrSessionSpecNotFound = errors.New("no session spec for zone/level")
	ErrChallengeNotFound   = errors.New("challenge not found or expired")
	ErrNoDhatuForChallenge = errors.New("no root available for challenge")
)
