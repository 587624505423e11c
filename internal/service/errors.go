package service

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrPoolNotFound        = errors.New("pool not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrDrawNotFound        = errors.New("draw not found")

	// ErrDrawUnavailable means the draw could not be retrieved at all. It is
	// never reported as a result with zero hits.
	ErrDrawUnavailable = errors.New("draw source unavailable")
)
