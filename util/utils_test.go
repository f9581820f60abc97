package util

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestTrimHex(t *testing.T) {
	c := qt.New(t)
	c.Assert(TrimHex("0xabcd"), qt.Equals, "abcd")
	c.Assert(TrimHex("0Xabcd"), qt.Equals, "abcd")
	c.Assert(TrimHex("abcd"), qt.Equals, "abcd")
	c.Assert(TrimHex("0"), qt.Equals, "0")
}

func TestWipe(t *testing.T) {
	c := qt.New(t)
	b := RandomBytes(32)
	Wipe(b)
	c.Assert(b, qt.DeepEquals, make([]byte, 32))
}

func TestParallelForRunsAll(t *testing.T) {
	c := qt.New(t)
	const n = 1000
	var hits [n]atomic.Int32
	err := ParallelFor(n, func(i int) error {
		hits[i].Add(1)
		return nil
	})
	c.Assert(err, qt.IsNil)
	for i := range hits {
		c.Assert(hits[i].Load(), qt.Equals, int32(1), qt.Commentf("index %d", i))
	}
	c.Assert(ParallelFor(0, func(int) error { return errors.New("never") }), qt.IsNil)
}

func TestParallelForLowestError(t *testing.T) {
	c := qt.New(t)
	failing := map[int]bool{17: true, 250: true, 999: true}
	for run := 0; run < 20; run++ {
		err := ParallelFor(1000, func(i int) error {
			if failing[i] {
				return fmt.Errorf("index %d", i)
			}
			return nil
		})
		c.Assert(err, qt.ErrorMatches, "index 17")
	}
}
