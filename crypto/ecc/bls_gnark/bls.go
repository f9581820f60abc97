// Package bls implements the ecc.Engine contract on top of the pure Go
// BLS12-381 implementation of gnark-crypto.
package bls

import (
	"bytes"
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/vocdoni/kzg-ceremony/crypto/ecc"
)

const EngineType = "bls_gnark"

// Engine is the gnark-crypto backend. It holds no state.
type Engine struct{}

var _ ecc.Engine = Engine{}

func (Engine) Type() string {
	return EngineType
}

// ValidateG1 decodes p without the library subgroup check, so the failure
// reason can be told apart, and then checks canonicity and subgroup
// membership.
func (Engine) ValidateG1(p ecc.G1) error {
	if p.IsZero() {
		return nil
	}
	a, err := decodeG1(p)
	if err != nil {
		return err
	}
	if !a.IsInSubGroup() {
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
	if !a.IsInSubGroup() {
		return fmt.Errorf("g2: %w", ecc.ErrNotInSubgroup)
	}
	return nil
}

func (Engine) MulG1(p ecc.G1, s *ecc.Scalar) (ecc.G1, error) {
	a, err := decodeG1(p)
	if err != nil {
		return ecc.G1{}, err
	}
	k := s.BigInt(new(big.Int))
	defer ecc.WipeBigInt(k)
	var r bls12381.G1Affine
	r.ScalarMultiplication(a, k)
	return ecc.G1(r.Bytes()), nil
}

func (Engine) MulG2(p ecc.G2, s *ecc.Scalar) (ecc.G2, error) {
	a, err := decodeG2(p)
	if err != nil {
		return ecc.G2{}, err
	}
	k := s.BigInt(new(big.Int))
	defer ecc.WipeBigInt(k)
	var r bls12381.G2Affine
	r.ScalarMultiplication(a, k)
	return ecc.G2(r.Bytes()), nil
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
	gt, err := bls12381.Pair([]bls12381.G1Affine{*a}, []bls12381.G2Affine{*b})
	if err != nil {
		return ecc.GT{}, fmt.Errorf("pairing failed: %w", err)
	}
	return ecc.GT(gt.Bytes()), nil
}

func (Engine) HashToG1(msg, dst []byte) (ecc.G1, error) {
	h, err := bls12381.HashToG1(msg, dst)
	if err != nil {
		return ecc.G1{}, fmt.Errorf("hash to g1: %w", err)
	}
	return ecc.G1(h.Bytes()), nil
}

func decodeG1(p ecc.G1) (*bls12381.G1Affine, error) {
	a := new(bls12381.G1Affine)
	dec := bls12381.NewDecoder(bytes.NewReader(p[:]), bls12381.NoSubgroupChecks())
	if err := dec.Decode(a); err != nil {
		return nil, fmt.Errorf("g1: %w: %v", ecc.ErrInvalidEncoding, err)
	}
	if ecc.G1(a.Bytes()) != p {
		return nil, fmt.Errorf("g1: %w", ecc.ErrNonCanonical)
	}
	return a, nil
}

func decodeG2(p ecc.G2) (*bls12381.G2Affine, error) {
	a := new(bls12381.G2Affine)
	dec := bls12381.NewDecoder(bytes.NewReader(p[:]), bls12381.NoSubgroupChecks())
	if err := dec.Decode(a); err != nil {
		return nil, fmt.Errorf("g2: %w: %v", ecc.ErrInvalidEncoding, err)
	}
	if ecc.G2(a.Bytes()) != p {
		return nil, fmt.Errorf("g2: %w", ecc.ErrNonCanonical)
	}
	return a, nil
}
