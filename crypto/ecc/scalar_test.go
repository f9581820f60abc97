package ecc

import (
	"encoding/json"
	"fmt"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestScalarPowers(t *testing.T) {
	c := qt.New(t)
	s := ScalarFromUint64(5)
	powers := s.Powers(4)
	defer ZeroizeAll(powers)
	c.Assert(powers, qt.HasLen, 4)
	for i, want := range []uint64{1, 5, 25, 125} {
		c.Assert(powers[i].Equal(ScalarFromUint64(want)), qt.IsTrue, qt.Commentf("power %d", i))
	}
	c.Assert(s.Powers(0), qt.IsNil)
}

func TestScalarZeroize(t *testing.T) {
	c := qt.New(t)
	s, err := RandomScalar(nil)
	c.Assert(err, qt.IsNil)
	c.Assert(s.IsZero(), qt.IsFalse)
	s.Zeroize()
	c.Assert(s.IsZero(), qt.IsTrue)

	powers := ScalarFromUint64(3).Powers(3)
	ZeroizeAll(powers)
	for i := range powers {
		c.Assert(powers[i].IsZero(), qt.IsTrue)
	}

	b := ScalarFromUint64(1 << 62).BigInt(new(big.Int))
	b.Mul(b, b)
	words := b.Bits()
	WipeBigInt(b)
	c.Assert(b.Sign(), qt.Equals, 0)
	for _, w := range words {
		c.Assert(w, qt.Equals, big.Word(0))
	}
}

func TestScalarRedacted(t *testing.T) {
	c := qt.New(t)
	s := ScalarFromUint64(123456789)
	c.Assert(fmt.Sprintf("%v %s %#v", s, s, *s), qt.Not(qt.Contains), "123456789")
	_, err := json.Marshal(s)
	c.Assert(err, qt.ErrorIs, ErrScalarNotSerializable)
	_, err = json.Marshal(struct{ S Scalar }{*s})
	c.Assert(err, qt.ErrorIs, ErrScalarNotSerializable)
}

func TestSeededReader(t *testing.T) {
	c := qt.New(t)
	a, err := RandomScalar(NewSeededReader([]byte("seed")))
	c.Assert(err, qt.IsNil)
	b, err := RandomScalar(NewSeededReader([]byte("seed")))
	c.Assert(err, qt.IsNil)
	c.Assert(a.Equal(b), qt.IsTrue)

	d, err := RandomScalar(NewSeededReader([]byte("other seed")))
	c.Assert(err, qt.IsNil)
	c.Assert(a.Equal(d), qt.IsFalse)
}

func TestDeriveScalar(t *testing.T) {
	c := qt.New(t)
	entropy := []byte("contributor entropy")
	a := DeriveScalar(entropy, "ctx 0")
	c.Assert(a.IsZero(), qt.IsFalse)
	c.Assert(DeriveScalar(entropy, "ctx 0").Equal(a), qt.IsTrue)
	c.Assert(DeriveScalar(entropy, "ctx 1").Equal(a), qt.IsFalse)
}

func TestScalarFromBytesReduces(t *testing.T) {
	c := qt.New(t)
	// the group order reduces to zero
	r, ok := new(big.Int).SetString("52435875175126190479447740508185965837690552500527637822603658699938581184513", 10)
	c.Assert(ok, qt.IsTrue)
	c.Assert(ScalarFromBytes(r.Bytes()).IsZero(), qt.IsTrue)
	r.Add(r, big.NewInt(7))
	c.Assert(ScalarFromBytes(r.Bytes()).Equal(ScalarFromUint64(7)), qt.IsTrue)
}
