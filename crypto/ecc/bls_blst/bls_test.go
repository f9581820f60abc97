//go:build blst

package bls

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/kzg-ceremony/crypto/ecc"
	gnark "github.com/vocdoni/kzg-ceremony/crypto/ecc/bls_gnark"
	"github.com/vocdoni/kzg-ceremony/crypto/ecc/ecctest"
)

var (
	engine    Engine
	reference gnark.Engine
)

// TestAgreesWithGnark checks that both engines produce byte identical
// points, so transcripts can be verified with either of them.
func TestAgreesWithGnark(t *testing.T) {
	c := qt.New(t)
	for _, v := range []uint64{1, 2, 5, 1 << 40} {
		s := ecc.ScalarFromUint64(v)
		a, err := engine.MulG1(ecc.G1Generator, s)
		c.Assert(err, qt.IsNil)
		b, err := reference.MulG1(ecc.G1Generator, s)
		c.Assert(err, qt.IsNil)
		c.Assert(a, qt.Equals, b, qt.Commentf("g1 scalar %d", v))

		a2, err := engine.MulG2(ecc.G2Generator, s)
		c.Assert(err, qt.IsNil)
		b2, err := reference.MulG2(ecc.G2Generator, s)
		c.Assert(err, qt.IsNil)
		c.Assert(a2, qt.Equals, b2, qt.Commentf("g2 scalar %d", v))
	}

	dst := []byte("BLS_SIG_BLS12381G1_XMD:SHA-256_SSWU_RO_POP_")
	h1, err := engine.HashToG1([]byte("git|1|alice"), dst)
	c.Assert(err, qt.IsNil)
	h2, err := reference.HashToG1([]byte("git|1|alice"), dst)
	c.Assert(err, qt.IsNil)
	c.Assert(h1, qt.Equals, h2)
}

func TestPairing(t *testing.T) {
	c := qt.New(t)
	s, err := ecc.RandomScalar(ecc.NewSeededReader([]byte("blst pairing")))
	c.Assert(err, qt.IsNil)
	sG1, err := engine.MulG1(ecc.G1Generator, s)
	c.Assert(err, qt.IsNil)
	sG2, err := engine.MulG2(ecc.G2Generator, s)
	c.Assert(err, qt.IsNil)

	ok, err := ecc.PairingsEqual[Engine](sG1, ecc.G2Generator, ecc.G1Generator, sG2)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	ok, err = ecc.PairingsEqual[Engine](sG1, sG2, ecc.G1Generator, ecc.G2Generator)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)
}

func TestValidate(t *testing.T) {
	c := qt.New(t)
	c.Assert(engine.ValidateG1(ecc.G1Generator), qt.IsNil)
	c.Assert(engine.ValidateG2(ecc.G2Generator), qt.IsNil)
	c.Assert(engine.ValidateG1(ecc.G1Zero), qt.IsNil)

	bad := ecc.G1Generator
	bad[0] &^= 0x80
	c.Assert(engine.ValidateG1(bad), qt.ErrorIs, ecc.ErrInvalidEncoding)

	_, err := ecc.DecodeG2[Engine](ecc.G2Zero[:], false)
	c.Assert(err, qt.ErrorIs, ecc.ErrIdentity)
}

// Uncompress only checks the curve equation, the subgroup check must be
// done by the engine.
func TestOffSubgroupRejected(t *testing.T) {
	c := qt.New(t)

	p := ecctest.OffSubgroupG1()
	c.Assert(engine.ValidateG1(p), qt.ErrorIs, ecc.ErrNotInSubgroup)
	_, err := ecc.DecodeG1[Engine](p[:], true)
	c.Assert(err, qt.ErrorIs, ecc.ErrNotInSubgroup)

	q := ecctest.OffSubgroupG2()
	c.Assert(engine.ValidateG2(q), qt.ErrorIs, ecc.ErrNotInSubgroup)
	_, err = ecc.DecodeG2[Engine](q[:], true)
	c.Assert(err, qt.ErrorIs, ecc.ErrNotInSubgroup)

	// both engines reach the same verdict
	c.Assert(reference.ValidateG2(q), qt.ErrorIs, ecc.ErrNotInSubgroup)

	c.Assert(engine.ValidateG1(ecctest.NotOnCurveG1()), qt.ErrorIs, ecc.ErrInvalidEncoding)
}
