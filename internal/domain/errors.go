package domain

import "errors"

var (
	// ErrMalformedCandidate signals a candidate-pool entry missing its document number or name.
	ErrMalformedCandidate = errors.New("malformed candidate")
	// ErrColumnNotFound signals that a required column could not be located in an input file.
	ErrColumnNotFound = errors.New("column not found")
	// ErrEmptyPool signals that the candidate pool contained no usable records.
	ErrEmptyPool = errors.New("empty candidate pool")
	// ErrUnknownScorer signals a scorer name with no registered implementation.
	ErrUnknownScorer = errors.New("unknown scorer")
)
