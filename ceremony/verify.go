package ceremony

import (
	"fmt"
	"time"

	"github.com/vocdoni/kzg-ceremony/config"
	"github.com/vocdoni/kzg-ceremony/crypto/ecc"
	"github.com/vocdoni/kzg-ceremony/log"
	"github.com/vocdoni/kzg-ceremony/util"
)

// pairingCheck is the equality e(a1, b1) == e(a2, b2).
type pairingCheck struct {
	name  string
	index int
	a1    ecc.G1
	b1    ecc.G2
	a2    ecc.G1
	b2    ecc.G2
}

// Verify checks that next was obtained from prev by applying the secret
// committed in proof, using public data only. It returns nil if every check
// holds, otherwise the error of the first failing check, in this order:
// shapes, point validity, generators, pairings. Point and pairing checks
// run in parallel but the reported failure is deterministic.
func Verify[E ecc.Engine](prev, next *Powers, proof *Proof) error {
	start := time.Now()
	if prev == nil || next == nil || proof == nil {
		return fmt.Errorf("%w: missing powers or proof", ErrLengthMismatch)
	}
	if len(prev.G1) != len(next.G1) || len(prev.G2) != len(next.G2) {
		return fmt.Errorf("%w: expected %d/%d powers, got %d/%d", ErrLengthMismatch,
			len(prev.G1), len(prev.G2), len(next.G1), len(next.G2))
	}
	if err := checkSize(len(next.G1), len(next.G2)); err != nil {
		return err
	}
	if err := validatePoints[E](next, proof); err != nil {
		return err
	}
	if next.G1[0] != ecc.G1Generator {
		return fmt.Errorf("g1: %w", ErrGeneratorMismatch)
	}
	if next.G2[0] != ecc.G2Generator {
		return fmt.Errorf("g2: %w", ErrGeneratorMismatch)
	}
	if err := verifyPairings[E](updateChecks(prev, next, proof)); err != nil {
		return err
	}
	log.Debugw("powers verified",
		"g1", len(next.G1),
		"g2", len(next.G2),
		"took", time.Since(start).String())
	return nil
}

// validatePoints runs the subgroup and identity checks on the proof and on
// every point of p. The proof comes first so a bad proof fails fast.
func validatePoints[E ecc.Engine](p *Powers, proof *Proof) error {
	n1, n2 := len(p.G1), len(p.G2)
	return util.ParallelFor(2+n1+n2, func(i int) error {
		switch {
		case i == 0:
			if err := ecc.CheckG1[E](proof.G1, false); err != nil {
				return &PointError{Group: "proof.g1", Err: err}
			}
		case i == 1:
			if err := ecc.CheckG2[E](proof.G2, false); err != nil {
				return &PointError{Group: "proof.g2", Err: err}
			}
		case i < 2+n1:
			if err := ecc.CheckG1[E](p.G1[i-2], false); err != nil {
				return &PointError{Group: "g1", Index: i - 2, Err: err}
			}
		default:
			if err := ecc.CheckG2[E](p.G2[i-2-n1], false); err != nil {
				return &PointError{Group: "g2", Index: i - 2 - n1, Err: err}
			}
		}
		return nil
	})
}

// updateChecks lists the pairing equalities binding next to prev:
//
//	proof:  e(proof.G1, G2) == e(G1, proof.G2)
//	update: e(next.G1[1], prev.G2[0]) == e(prev.G1[1], proof.G2)
//	g1 i:   e(next.G1[i], G2) == e(next.G1[i-1], next.G2[1])
//	g2 i:   e(next.G1[i], G2) == e(G1, next.G2[i])
func updateChecks(prev, next *Powers, proof *Proof) []pairingCheck {
	checks := make([]pairingCheck, 0, 2+len(next.G1)-1+len(next.G2)-1)
	checks = append(checks,
		pairingCheck{name: "proof", a1: proof.G1, b1: ecc.G2Generator, a2: ecc.G1Generator, b2: proof.G2},
		pairingCheck{name: "update", a1: next.G1[1], b1: prev.G2[0], a2: prev.G1[1], b2: proof.G2},
	)
	for i := 1; i < len(next.G1); i++ {
		checks = append(checks, pairingCheck{
			name: "g1", index: i,
			a1: next.G1[i], b1: ecc.G2Generator,
			a2: next.G1[i-1], b2: next.G2[1],
		})
	}
	for i := 1; i < len(next.G2); i++ {
		checks = append(checks, pairingCheck{
			name: "g2", index: i,
			a1: next.G1[i], b1: ecc.G2Generator,
			a2: ecc.G1Generator, b2: next.G2[i],
		})
	}
	return checks
}

// verifyPairings evaluates the checks on the worker pool and returns the
// lowest indexed failure.
func verifyPairings[E ecc.Engine](checks []pairingCheck) error {
	return util.ParallelFor(len(checks), func(i int) error {
		ch := &checks[i]
		ok, err := ecc.PairingsEqual[E](ch.a1, ch.b1, ch.a2, ch.b2)
		if err != nil {
			return fmt.Errorf("%s check %d: %w", ch.name, ch.index, err)
		}
		if !ok {
			return &PairingError{Check: ch.name, Index: ch.index}
		}
		return nil
	})
}

// VerifyContribution checks that c builds on prior and that its powers and
// identity signature are valid.
func VerifyContribution[E ecc.Engine](prior *Powers, c *Contribution) error {
	if c == nil || c.Powers == nil {
		return fmt.Errorf("%w: contribution has no powers", ErrLengthMismatch)
	}
	if c.Prior != prior.Hash() {
		return fmt.Errorf("%w: prior %s", ErrChainMismatch, c.Prior)
	}
	if err := Verify[E](prior, c.Powers, &c.Proof); err != nil {
		return err
	}
	return verifySignature[E](c)
}

// verifySignature checks e(sig, G2) == e(H(identity), proof.G2). A
// contribution without signature is accepted.
func verifySignature[E ecc.Engine](c *Contribution) error {
	if len(c.Signature) == 0 {
		return nil
	}
	if _, err := ParseIdentity(c.Identity); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	sig, err := ecc.DecodeG1[E](c.Signature, false)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	var e E
	h, err := e.HashToG1([]byte(c.Identity), []byte(config.BLSSignatureDST))
	if err != nil {
		return fmt.Errorf("could not hash identity: %w", err)
	}
	ok, err := ecc.PairingsEqual[E](sig, ecc.G2Generator, h, c.Proof.G2)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, c.Identity)
	}
	return nil
}
