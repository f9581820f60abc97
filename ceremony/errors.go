package ceremony

import (
	"errors"
	"fmt"
)

var (
	// ErrZeroSecret is returned when contributing with a zero secret, which
	// would leave the powers unchanged.
	ErrZeroSecret = errors.New("secret is zero")
	// ErrPairingMismatch means a pairing equality does not hold, so the new
	// powers are not a consistent update of the old ones.
	ErrPairingMismatch = errors.New("pairing check failed")
	// ErrInvalidSignature is returned for a bad BLS identity signature.
	ErrInvalidSignature = errors.New("invalid identity signature")
	// ErrInvalidIdentity is returned for malformed identity strings.
	ErrInvalidIdentity = errors.New("invalid identity")
	// ErrLengthMismatch is returned when two accumulators (or a batch and
	// its contribution) do not have the same shape.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrChainMismatch is returned when a contribution does not build on the
	// current state, or when a transcript witness disagrees with its
	// contributions.
	ErrChainMismatch = errors.New("contribution does not extend the current state")
	// ErrGeneratorMismatch is returned when the first power is not the
	// group generator.
	ErrGeneratorMismatch = errors.New("first power is not the generator")
	// ErrInvalidSize is returned for unsupported ceremony sizes.
	ErrInvalidSize = errors.New("invalid ceremony size")
)

// PointError reports a point that failed validation.
type PointError struct {
	Group string // "g1", "g2", "proof.g1" or "proof.g2"
	Index int
	Err   error
}

func (e *PointError) Error() string {
	return fmt.Sprintf("%s[%d]: %v", e.Group, e.Index, e.Err)
}

func (e *PointError) Unwrap() error { return e.Err }

// PairingError reports the first pairing check that failed. Index is the
// power the check refers to, or zero for the proof and update checks.
type PairingError struct {
	Check string // "proof", "update", "g1" or "g2"
	Index int
}

func (e *PairingError) Error() string {
	return fmt.Sprintf("%s check %d: %v", e.Check, e.Index, ErrPairingMismatch)
}

func (e *PairingError) Unwrap() error { return ErrPairingMismatch }

// SubCeremonyError wraps the error of one sub-ceremony of a batch.
type SubCeremonyError struct {
	Index int
	Err   error
}

func (e *SubCeremonyError) Error() string {
	return fmt.Sprintf("sub-ceremony %d: %v", e.Index, e.Err)
}

func (e *SubCeremonyError) Unwrap() error { return e.Err }
