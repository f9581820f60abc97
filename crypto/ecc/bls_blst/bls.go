//go:build blst

// Package bls implements the ecc.Engine contract with the supranational blst
// library. It needs cgo and is only built with the blst tag.
package bls

import (
	"fmt"

	blst "github.com/supranational/blst/bindings/go"
	"github.com/vocdoni/kzg-ceremony/crypto/ecc"
)

const EngineType = "bls_blst"

// Engine is the blst backend. It holds no state.
type Engine struct{}

var _ ecc.Engine = Engine{}

func (Engine) Type() string {
	return EngineType
}

func (Engine) ValidateG1(p ecc.G1) error {
	if p.IsZero() {
		return nil
	}
	a, err := decodeG1(p)
	if err != nil {
		return err
	}
	if !a.InG1() {
		return fmt.Errorf("g1: %w", ecc.ErrNotInSubgroup)
	}
	return nil
}

func (Engine) ValidateG2(p ecc.G2) error {
	if p.IsZero() {
		return nil
	}
	a, err := decodeG2(p)
	if err != nil {
		return err
	}
	if !a.InG2() {
		return fmt.Errorf("g2: %w", ecc.ErrNotInSubgroup)
	}
	return nil
}

func (Engine) MulG1(p ecc.G1, s *ecc.Scalar) (ecc.G1, error) {
	a, err := decodeG1(p)
	if err != nil {
		return ecc.G1{}, err
	}
	k, err := toBlstScalar(s)
	if err != nil {
		return ecc.G1{}, err
	}
	defer wipeScalar(k)
	var j blst.P1
	j.FromAffine(a)
	r := j.Mult(k).ToAffine()
	if r == nil {
		return ecc.G1{}, fmt.Errorf("g1 scalar multiplication failed")
	}
	return ecc.G1FromBytes(r.Compress())
}

func (Engine) MulG2(p ecc.G2, s *ecc.Scalar) (ecc.G2, error) {
	a, err := decodeG2(p)
	if err != nil {
		return ecc.G2{}, err
	}
	k, err := toBlstScalar(s)
	if err != nil {
		return ecc.G2{}, err
	}
	defer wipeScalar(k)
	var j blst.P2
	j.FromAffine(a)
	r := j.Mult(k).ToAffine()
	if r == nil {
		return ecc.G2{}, fmt.Errorf("g2 scalar multiplication failed")
	}
	return ecc.G2FromBytes(r.Compress())
}

func (Engine) Pair(p ecc.G1, q ecc.G2) (ecc.GT, error) {
	a, err := decodeG1(p)
	if err != nil {
		return ecc.GT{}, err
	}
	b, err := decodeG2(q)
	if err != nil {
		return ecc.GT{}, err
	}
	gt := blst.Fp12MillerLoop(b, a)
	gt.FinalExp()
	var out ecc.GT
	if n := copy(out[:], gt.ToBendian()); n != ecc.GTSize {
		return ecc.GT{}, fmt.Errorf("unexpected pairing output size %d", n)
	}
	return out, nil
}

func (Engine) HashToG1(msg, dst []byte) (ecc.G1, error) {
	h := blst.HashToG1(msg, dst)
	if h == nil {
		return ecc.G1{}, fmt.Errorf("hash to g1 failed")
	}
	return ecc.G1FromBytes(h.ToAffine().Compress())
}

func decodeG1(p ecc.G1) (*blst.P1Affine, error) {
	a := new(blst.P1Affine).Uncompress(p[:])
	if a == nil {
		return nil, fmt.Errorf("g1: %w", ecc.ErrInvalidEncoding)
	}
	if ecc.G1(a.Compress()) != p {
		return nil, fmt.Errorf("g1: %w", ecc.ErrNonCanonical)
	}
	return a, nil
}

func decodeG2(p ecc.G2) (*blst.P2Affine, error) {
	a := new(blst.P2Affine).Uncompress(p[:])
	if a == nil {
		return nil, fmt.Errorf("g2: %w", ecc.ErrInvalidEncoding)
	}
	if ecc.G2(a.Compress()) != p {
		return nil, fmt.Errorf("g2: %w", ecc.ErrNonCanonical)
	}
	return a, nil
}

func toBlstScalar(s *ecc.Scalar) (*blst.Scalar, error) {
	b := s.Bytes()
	defer func() { b = [32]byte{} }()
	k := new(blst.Scalar).FromBEndian(b[:])
	if k == nil {
		return nil, fmt.Errorf("invalid scalar")
	}
	return k, nil
}

func wipeScalar(k *blst.Scalar) {
	*k = blst.Scalar{}
}
