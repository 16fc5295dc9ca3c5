package service

import "errors"

// ErrInvalidInput is returned when a request fails validation before any
// write happens.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound is returned when a requested entity does not exist. Storage
// lookups map their own not-found sentinel into this one at the service
// boundary.
var ErrNotFound = errors.New("not found")

// ErrNotRegistered is returned when a user without a completed profile
// attempts a ledger operation.
var ErrNotRegistered = errors.New("user is not registered")
