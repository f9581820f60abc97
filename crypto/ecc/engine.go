package ecc

import "fmt"

// Engine is the contract a pairing library must implement to back the
// ceremony. It is used as a type parameter constraint, never as a runtime
// value, so a binary is built against exactly one engine and verification
// can not switch backend between calls. Implementations are stateless.
type Engine interface {
	// Type returns the engine name.
	Type() string

	// ValidateG1 checks that p is the canonical encoding of a point of the
	// prime order subgroup of G1. The identity is accepted.
	ValidateG1(p G1) error

	// ValidateG2 checks that p is the canonical encoding of a point of the
	// prime order subgroup of G2. The identity is accepted.
	ValidateG2(p G2) error

	// MulG1 returns s·p. p must have been validated.
	MulG1(p G1, s *Scalar) (G1, error)

	// MulG2 returns s·p. p must have been validated.
	MulG2(p G2, s *Scalar) (G2, error)

	// Pair evaluates the pairing e(p, q). The result is only comparable with
	// values returned by the same engine.
	Pair(p G1, q G2) (GT, error)

	// HashToG1 hashes msg into G1 following the hash_to_curve standard
	// with the given domain separation tag.
	HashToG1(msg, dst []byte) (G1, error)
}

// PairingsEqual reports whether e(a1, b1) == e(a2, b2).
func PairingsEqual[E Engine](a1 G1, b1 G2, a2 G1, b2 G2) (bool, error) {
	var e E
	l, err := e.Pair(a1, b1)
	if err != nil {
		return false, err
	}
	r, err := e.Pair(a2, b2)
	if err != nil {
		return false, err
	}
	return l == r, nil
}

// DecodeG1 turns b into a validated G1 point. The identity is rejected with
// ErrIdentity unless allowIdentity is set.
func DecodeG1[E Engine](b []byte, allowIdentity bool) (G1, error) {
	p, err := G1FromBytes(b)
	if err != nil {
		return G1{}, err
	}
	if err := CheckG1[E](p, allowIdentity); err != nil {
		return G1{}, err
	}
	return p, nil
}

// DecodeG2 turns b into a validated G2 point. The identity is rejected with
// ErrIdentity unless allowIdentity is set.
func DecodeG2[E Engine](b []byte, allowIdentity bool) (G2, error) {
	p, err := G2FromBytes(b)
	if err != nil {
		return G2{}, err
	}
	if err := CheckG2[E](p, allowIdentity); err != nil {
		return G2{}, err
	}
	return p, nil
}

// CheckG1 runs the engine validation on p and the identity check.
func CheckG1[E Engine](p G1, allowIdentity bool) error {
	var e E
	if err := e.ValidateG1(p); err != nil {
		return err
	}
	if !allowIdentity && p.IsZero() {
		return fmt.Errorf("g1: %w", ErrIdentity)
	}
	return nil
}

// CheckG2 runs the engine validation on p and the identity check.
func CheckG2[E Engine](p G2, allowIdentity bool) error {
	var e E
	if err := e.ValidateG2(p); err != nil {
		return err
	}
	if !allowIdentity && p.IsZero() {
		return fmt.Errorf("g2: %w", ErrIdentity)
	}
	return nil
}
