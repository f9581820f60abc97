// Package ecctest builds malformed BLS12-381 points for engine tests. The
// points are computed with gnark-crypto so every engine is checked against
// the same inputs.
package ecctest

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
	"github.com/vocdoni/kzg-ceremony/crypto/ecc"
)

// searchLimit bounds the x coordinates tried. A valid candidate shows up
// within the first few values.
const searchLimit = 1000

// OffSubgroupG1 returns a point on the G1 curve outside the prime order
// subgroup. The cofactor is large, so almost any curve point qualifies.
func OffSubgroupG1() ecc.G1 {
	var p bls12381.G1Affine
	var rhs, four fp.Element
	four.SetUint64(4)
	for i := uint64(1); i < searchLimit; i++ {
		p.X.SetUint64(i)
		// y² = x³ + 4
		rhs.Square(&p.X).Mul(&rhs, &p.X).Add(&rhs, &four)
		if rhs.Legendre() != 1 {
			continue
		}
		p.Y.Sqrt(&rhs)
		if p.IsOnCurve() && !p.IsInSubGroup() {
			return ecc.G1(p.Bytes())
		}
	}
	panic("no off subgroup g1 point found")
}

// OffSubgroupG2 returns a point on the G2 twist outside the prime order
// subgroup, with x = (i, 0).
func OffSubgroupG2() ecc.G2 {
	var p bls12381.G2Affine
	b := p.X
	b.A0.SetUint64(4)
	b.A1.SetUint64(4)
	for i := uint64(1); i < searchLimit; i++ {
		p.X.A0.SetUint64(i)
		p.X.A1.SetZero()
		// y² = x³ + 4(1+u)
		rhs := p.X
		rhs.Square(&p.X).Mul(&rhs, &p.X).Add(&rhs, &b)
		if rhs.Legendre() != 1 {
			continue
		}
		p.Y.Sqrt(&rhs)
		if p.IsOnCurve() && !p.IsInSubGroup() {
			return ecc.G2(p.Bytes())
		}
	}
	panic("no off subgroup g2 point found")
}

// NotOnCurveG1 returns a well formed compressed encoding whose x has no
// matching y on the curve.
func NotOnCurveG1() ecc.G1 {
	var x, rhs, four fp.Element
	four.SetUint64(4)
	for i := uint64(1); i < searchLimit; i++ {
		x.SetUint64(i)
		rhs.Square(&x).Mul(&rhs, &x).Add(&rhs, &four)
		if rhs.Legendre() == -1 {
			p := ecc.G1(x.Bytes())
			p[0] |= 0x80
			return p
		}
	}
	panic("no off curve x found")
}
