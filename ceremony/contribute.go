package ceremony

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/kzg-ceremony/config"
	"github.com/vocdoni/kzg-ceremony/crypto/ecc"
	"github.com/vocdoni/kzg-ceremony/log"
	"github.com/vocdoni/kzg-ceremony/types"
)

// Proof is the proof of knowledge of a contribution: the secret applied to
// both generators. G2 is also known as the pot pubkey.
type Proof struct {
	G1 ecc.G1 `json:"g1" cbor:"g1"`
	G2 ecc.G2 `json:"g2" cbor:"g2"`
}

// Contribution is one update step of a sub-ceremony. It is never mutated
// once created.
type Contribution struct {
	// Prior is the hash of the powers this contribution builds on.
	Prior  common.Hash `json:"prior" cbor:"prior"`
	Powers *Powers     `json:"powers" cbor:"powers"`
	Proof  Proof       `json:"proof" cbor:"proof"`
	// Identity and Signature are optional. When set, Signature is the BLS
	// signature of Identity with the contribution secret.
	Identity  string         `json:"identity,omitempty" cbor:"identity,omitempty"`
	Signature types.HexBytes `json:"blsSignature,omitempty" cbor:"sig,omitempty"`
}

// Contribute applies secret to prev and returns the new powers along with
// the proof. The secret is zeroized before returning, on every path. prev is
// expected to be a verified accumulator.
func Contribute[E ecc.Engine](prev *Powers, secret *ecc.Scalar) (*Powers, *Proof, error) {
	defer secret.Zeroize()
	if secret.IsZero() {
		return nil, nil, ErrZeroSecret
	}
	if err := checkSize(len(prev.G1), len(prev.G2)); err != nil {
		return nil, nil, err
	}
	start := time.Now()
	var e E

	powers := secret.Powers(len(prev.G1))
	defer ecc.ZeroizeAll(powers)

	next := &Powers{
		G1: make([]ecc.G1, len(prev.G1)),
		G2: make([]ecc.G2, len(prev.G2)),
	}
	var err error
	for i := range prev.G1 {
		if next.G1[i], err = e.MulG1(prev.G1[i], &powers[i]); err != nil {
			return nil, nil, &PointError{Group: "g1", Index: i, Err: err}
		}
	}
	for i := range prev.G2 {
		if next.G2[i], err = e.MulG2(prev.G2[i], &powers[i]); err != nil {
			return nil, nil, &PointError{Group: "g2", Index: i, Err: err}
		}
	}

	proof := &Proof{}
	if proof.G1, err = e.MulG1(ecc.G1Generator, secret); err != nil {
		return nil, nil, &PointError{Group: "proof.g1", Err: err}
	}
	if proof.G2, err = e.MulG2(ecc.G2Generator, secret); err != nil {
		return nil, nil, &PointError{Group: "proof.g2", Err: err}
	}
	log.Debugw("contribution computed",
		"engine", e.Type(),
		"g1", len(next.G1),
		"g2", len(next.G2),
		"took", time.Since(start).String())
	return next, proof, nil
}

// NewContribution builds a full contribution on top of prev. If identity is
// not empty it is signed with the secret. The secret is zeroized before
// returning.
func NewContribution[E ecc.Engine](prev *Powers, secret *ecc.Scalar, identity string) (*Contribution, error) {
	defer secret.Zeroize()
	if secret.IsZero() {
		return nil, ErrZeroSecret
	}
	c := &Contribution{Prior: prev.Hash(), Identity: identity}
	if identity != "" {
		sig, err := signIdentity[E](identity, secret)
		if err != nil {
			return nil, err
		}
		c.Signature = sig[:]
	}
	var err error
	var proof *Proof
	if c.Powers, proof, err = Contribute[E](prev, secret); err != nil {
		return nil, err
	}
	c.Proof = *proof
	return c, nil
}

// signIdentity returns secret·H(identity), a BLS signature with the
// contribution secret as private key and proof.G2 as public key.
func signIdentity[E ecc.Engine](identity string, secret *ecc.Scalar) (ecc.G1, error) {
	if _, err := ParseIdentity(identity); err != nil {
		return ecc.G1{}, err
	}
	var e E
	h, err := e.HashToG1([]byte(identity), []byte(config.BLSSignatureDST))
	if err != nil {
		return ecc.G1{}, fmt.Errorf("could not hash identity: %w", err)
	}
	sig, err := e.MulG1(h, secret)
	if err != nil {
		return ecc.G1{}, fmt.Errorf("could not sign identity: %w", err)
	}
	return sig, nil
}
