package ceremony

import (
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/kzg-ceremony/crypto/ecc"
	"github.com/vocdoni/kzg-ceremony/crypto/ecc/backend"
)

// testEngine follows the build tags, so -tags blst runs the suite on blst.
type testEngine = backend.Default

func g1Mul(c *qt.C, k uint64) ecc.G1 {
	var e testEngine
	p, err := e.MulG1(ecc.G1Generator, ecc.ScalarFromUint64(k))
	c.Assert(err, qt.IsNil)
	return p
}

func g2Mul(c *qt.C, k uint64) ecc.G2 {
	var e testEngine
	p, err := e.MulG2(ecc.G2Generator, ecc.ScalarFromUint64(k))
	c.Assert(err, qt.IsNil)
	return p
}

func seededScalar(c *qt.C, seed string) *ecc.Scalar {
	s, err := ecc.RandomScalar(ecc.NewSeededReader([]byte(seed)))
	c.Assert(err, qt.IsNil)
	return s
}
