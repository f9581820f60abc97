package ecc

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/vocdoni/kzg-ceremony/util"
	"github.com/zeebo/blake3"
)

// wideScalarSize is the number of random bytes reduced into a scalar, twice
// the field size so the modular bias is negligible.
const wideScalarSize = 2 * fr.Bytes

const seededReaderContext = "kzg-ceremony 2024 seeded reader v1"

// ErrScalarNotSerializable is returned by Scalar.MarshalText.
var ErrScalarNotSerializable = errors.New("secret scalars cannot be serialized")

// Scalar is a secret element of the BLS12-381 scalar field. It must be wiped
// with Zeroize as soon as the public values derived from it are computed, and
// it never shows up in logs or encodings.
type Scalar struct {
	e fr.Element
}

// ScalarFromUint64 returns the scalar v. Meant for tests and fixtures.
func ScalarFromUint64(v uint64) *Scalar {
	s := new(Scalar)
	s.e.SetUint64(v)
	return s
}

// ScalarFromBytes interprets b as a big endian integer and reduces it modulo
// the group order.
func ScalarFromBytes(b []byte) *Scalar {
	s := new(Scalar)
	s.e.SetBytes(b)
	return s
}

// RandomScalar draws a scalar from r, or from crypto/rand if r is nil.
func RandomScalar(r io.Reader) (*Scalar, error) {
	if r == nil {
		r = rand.Reader
	}
	var buf [wideScalarSize]byte
	defer util.Wipe(buf[:])
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("could not read randomness: %w", err)
	}
	return ScalarFromBytes(buf[:]), nil
}

// DeriveScalar derives a scalar from the entropy using blake3 in key
// derivation mode. Different contexts give independent scalars for the same
// entropy.
func DeriveScalar(entropy []byte, context string) *Scalar {
	var buf [wideScalarSize]byte
	defer util.Wipe(buf[:])
	blake3.DeriveKey(context, entropy, buf[:])
	return ScalarFromBytes(buf[:])
}

// NewSeededReader returns a deterministic stream of bytes expanded from seed.
// It makes secrets reproducible in tests and must not be used otherwise.
func NewSeededReader(seed []byte) io.Reader {
	h := blake3.NewDeriveKey(seededReaderContext)
	_, _ = h.Write(seed)
	return h.Digest()
}

// Zeroize wipes the scalar.
func (s *Scalar) Zeroize() {
	s.e.SetZero()
}

// IsZero returns true if the scalar is zero.
func (s *Scalar) IsZero() bool {
	return s.e.IsZero()
}

// Equal reports whether both scalars hold the same value.
func (s *Scalar) Equal(o *Scalar) bool {
	return s.e.Equal(&o.e)
}

// Powers returns [1, s, s^2, ..., s^(n-1)]. The caller owns the result and
// must zeroize it with ZeroizeAll.
func (s *Scalar) Powers(n int) []Scalar {
	if n <= 0 {
		return nil
	}
	p := make([]Scalar, n)
	p[0].e.SetOne()
	for i := 1; i < n; i++ {
		p[i].e.Mul(&p[i-1].e, &s.e)
	}
	return p
}

// BigInt writes the scalar into res and returns it. Wipe res with WipeBigInt
// once done.
func (s *Scalar) BigInt(res *big.Int) *big.Int {
	return s.e.BigInt(res)
}

// Bytes returns the 32 byte big endian encoding of the scalar.
func (s *Scalar) Bytes() [fr.Bytes]byte {
	return s.e.Bytes()
}

func (Scalar) String() string { return "Scalar(redacted)" }

func (Scalar) GoString() string { return "Scalar(redacted)" }

// MarshalText always fails so a secret can not end up in an encoding by
// mistake.
func (Scalar) MarshalText() ([]byte, error) {
	return nil, ErrScalarNotSerializable
}

// ZeroizeAll wipes every scalar of the slice.
func ZeroizeAll(ss []Scalar) {
	for i := range ss {
		ss[i].Zeroize()
	}
}

// WipeBigInt overwrites the words backing b and sets it to zero.
func WipeBigInt(b *big.Int) {
	words := b.Bits()
	for i := range words {
		words[i] = 0
	}
	b.SetInt64(0)
}
