// Package srs exports the powers of a finished ceremony as a gnark-crypto
// KZG structured reference string, ready to commit to polynomials.
package srs

import (
	"errors"
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
	"github.com/vocdoni/kzg-ceremony/ceremony"
	"github.com/vocdoni/kzg-ceremony/crypto/ecc"
	"github.com/vocdoni/kzg-ceremony/log"
)

// ErrNoEntropy is returned when exporting powers nobody contributed to.
var ErrNoEntropy = errors.New("powers have no contributions")

// Export builds the SRS supporting polynomials of up to size coefficients
// from p. A zero size uses every G1 power. The verifying key is made of
// the G1 generator, the G2 generator and τ·G2.
func Export(p *ceremony.Powers, size int) (*kzg.SRS, error) {
	if size == 0 {
		size = len(p.G1)
	}
	if size < 2 || size > len(p.G1) || len(p.G2) < 2 {
		return nil, fmt.Errorf("%w: %d of %d g1 powers", ceremony.ErrInvalidSize, size, len(p.G1))
	}
	if p.G1[1] == ecc.G1Generator {
		return nil, ErrNoEntropy
	}

	srs := &kzg.SRS{}
	srs.Pk.G1 = make([]bls12381.G1Affine, size)
	for i := range srs.Pk.G1 {
		if _, err := srs.Pk.G1[i].SetBytes(p.G1[i][:]); err != nil {
			return nil, &ceremony.PointError{Group: "g1", Index: i, Err: err}
		}
	}
	srs.Vk.G1 = srs.Pk.G1[0]
	for i := range srs.Vk.G2 {
		if _, err := srs.Vk.G2[i].SetBytes(p.G2[i][:]); err != nil {
			return nil, &ceremony.PointError{Group: "g2", Index: i, Err: err}
		}
	}
	srs.Vk.Lines[0] = bls12381.PrecomputeLines(srs.Vk.G2[0])
	srs.Vk.Lines[1] = bls12381.PrecomputeLines(srs.Vk.G2[1])
	log.Debugw("srs exported", "size", size)
	return srs, nil
}
