package model

import (
	"errors"
)

// Sentinel errors for the dashboard's user-visible failure modes.
// Handlers translate them to HTTP statuses with errors.Is; services wrap
// underlying causes with %w so logs can still unwrap them.
var (
	// ErrDataUnavailable covers every provider failure: network errors,
	// bad payloads, unknown symbols, empty histories. Callers treat them
	// all as "no data for this ticker right now".
	ErrDataUnavailable = errors.New("market data unavailable")

	ErrInvalidPeriod = errors.New("invalid period")

	ErrInvalidEmail      = errors.New("invalid email address")
	ErrWeakPassword      = errors.New("password must be at least 8 characters with one uppercase letter, one lowercase letter, and one digit")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email address already registered")

	// ErrAuthenticationFailed deliberately carries no detail about which
	// credential was wrong.
	ErrAuthenticationFailed = errors.New("invalid username or password")

	ErrAlreadyFavorited = errors.New("stock is already in favorites")
	ErrNotFavorited     = errors.New("stock is not in favorites")

	// ErrPersistenceFailure marks a store transaction that was rolled
	// back. The wrapped cause stays out of client responses.
	ErrPersistenceFailure = errors.New("storage operation failed")
)
