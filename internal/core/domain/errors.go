package domain

import "errors"

// Common domain errors
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("resource not found")
	ErrValidation       = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Review workflow errors
var (
	ErrAlreadyClaimed     = errors.New("application already claimed by another reviewer")
	ErrNotClaimedByCaller = errors.New("application claim held by another reviewer")
	ErrTerminal           = errors.New("application is in a terminal state")
	ErrInvalidDecision    = errors.New("invalid decision value")
)

// Identity errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("record already exists")
	ErrAccountInactive    = errors.New("account is inactive")
)
