package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Custom errors
var (
	ErrNotFound               = errors.New("record not found")
	ErrDuplicateKey           = errors.New("duplicate key violation")
	ErrInvalidID              = errors.New("invalid ID format")
	ErrProfileNotFound        = errors.New("weighting profile not found")
	ErrInsufficientConfidence = errors.New("insufficient confidence")
	ErrAlreadySettled         = errors.New("bet already settled")
	ErrMalformedInput         = errors.New("malformed input")
)

// AlreadySettledError is returned when settling a bet that is no longer pending
type AlreadySettledError struct {
	BetID uuid.UUID
}

func (e *AlreadySettledError) Error() string {
	return fmt.Sprintf("bet %s already settled", e.BetID)
}

func (e *AlreadySettledError) Unwrap() error {
	return ErrAlreadySettled
}

// MalformedInputError describes a field the engine cannot score
type MalformedInputError struct {
	RaceID uuid.UUID
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.RaceID == uuid.Nil {
		return fmt.Sprintf("malformed input: %s", e.Reason)
	}
	return fmt.Sprintf("malformed input for race %s: %s", e.RaceID, e.Reason)
}

func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}
