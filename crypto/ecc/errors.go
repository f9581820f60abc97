package ecc

import "errors"

var (
	// ErrInvalidEncoding is returned when the bytes do not encode a curve
	// point (bad length, bad flags or x not on the curve).
	ErrInvalidEncoding = errors.New("invalid point encoding")
	// ErrNonCanonical is returned when a point decodes but its encoding is
	// not the canonical one.
	ErrNonCanonical = errors.New("non canonical point encoding")
	// ErrNotInSubgroup is returned for curve points outside the prime order
	// subgroup.
	ErrNotInSubgroup = errors.New("point not in subgroup")
	// ErrIdentity is returned when the point at infinity is not allowed.
	ErrIdentity = errors.New("point is the identity")
)
