package ceremony

import (
	"encoding/json"
	"fmt"

	"github.com/vocdoni/kzg-ceremony/crypto/ecc"
	"github.com/vocdoni/kzg-ceremony/log"
	"github.com/vocdoni/kzg-ceremony/types"
)

// Witness records the public values of every step of a transcript. Each
// list starts with the entry of the untouched accumulator: the generators
// and an empty signature.
type Witness struct {
	// Products holds G1[1] after every step, the running product of the
	// secrets applied to the G1 generator.
	Products []ecc.G1 `json:"runningProducts" cbor:"products"`
	// Pubkeys holds the proof.G2 of every step.
	Pubkeys []ecc.G2 `json:"potPubkeys" cbor:"pubkeys"`
	// Signatures holds the BLS identity signature of every step, empty when
	// the contributor did not sign.
	Signatures []types.HexBytes `json:"blsSignatures" cbor:"signatures"`
}

// Transcript is the auditable history of one sub-ceremony. Append returns a
// new snapshot, so a Transcript value is never modified once built.
type Transcript struct {
	NumG1         int             `json:"numG1Powers" cbor:"numG1"`
	NumG2         int             `json:"numG2Powers" cbor:"numG2"`
	Contributions []*Contribution `json:"contributions" cbor:"contributions"`
	Witness       Witness         `json:"witness" cbor:"witness"`
}

// transcriptJSON is the file layout of a transcript. Next to the history it
// carries the current accumulator under powersOfTau, as transcript files of
// the Ethereum KZG ceremony do.
type transcriptJSON struct {
	NumG1         int             `json:"numG1Powers"`
	NumG2         int             `json:"numG2Powers"`
	PowersOfTau   *powersOfTau    `json:"powersOfTau,omitempty"`
	Contributions []*Contribution `json:"contributions"`
	Witness       Witness         `json:"witness"`
}

func (t Transcript) MarshalJSON() ([]byte, error) {
	out := transcriptJSON{
		NumG1:         t.NumG1,
		NumG2:         t.NumG2,
		Contributions: t.Contributions,
		Witness:       t.Witness,
	}
	// an inconsistent transcript is still encoded, without the accumulator
	if cur, err := t.Current(); err == nil {
		out.PowersOfTau = &powersOfTau{G1Powers: cur.G1, G2Powers: cur.G2}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a transcript. If powersOfTau is present it must
// match the accumulator of the last contribution. Points are not validated
// here, IsValid does it.
func (t *Transcript) UnmarshalJSON(data []byte) error {
	var in transcriptJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	out := Transcript{
		NumG1:         in.NumG1,
		NumG2:         in.NumG2,
		Contributions: in.Contributions,
		Witness:       in.Witness,
	}
	if in.PowersOfTau != nil {
		cur, err := out.Current()
		if err != nil {
			return err
		}
		if !cur.Equal(&Powers{G1: in.PowersOfTau.G1Powers, G2: in.PowersOfTau.G2Powers}) {
			return fmt.Errorf("%w: powersOfTau differs from the last contribution", ErrChainMismatch)
		}
	}
	*t = out
	return nil
}

// NewTranscript returns an empty transcript for the given sizes.
func NewTranscript(numG1, numG2 int) (*Transcript, error) {
	if err := checkSize(numG1, numG2); err != nil {
		return nil, err
	}
	return &Transcript{
		NumG1: numG1,
		NumG2: numG2,
		Witness: Witness{
			Products:   []ecc.G1{ecc.G1Generator},
			Pubkeys:    []ecc.G2{ecc.G2Generator},
			Signatures: []types.HexBytes{{}},
		},
	}, nil
}

// Initial returns the untouched accumulator of the transcript.
func (t *Transcript) Initial() (*Powers, error) {
	return NewPowers(t.NumG1, t.NumG2)
}

// Current returns the latest accumulator. Callers must not modify it.
func (t *Transcript) Current() (*Powers, error) {
	if n := len(t.Contributions); n > 0 {
		if last := t.Contributions[n-1]; last != nil && last.Powers != nil {
			return last.Powers, nil
		}
		return nil, fmt.Errorf("%w: last contribution has no powers", ErrLengthMismatch)
	}
	return t.Initial()
}

// NumParticipants returns the number of contributions applied.
func (t *Transcript) NumParticipants() int {
	return len(t.Contributions)
}

// HasEntropy returns true if at least one contribution was applied.
func (t *Transcript) HasEntropy() bool {
	return t.NumParticipants() > 0
}

// Append verifies c against the current state of t and returns a new
// transcript including it. On error t is left as it was.
func Append[E ecc.Engine](t *Transcript, c *Contribution) (*Transcript, error) {
	cur, err := t.Current()
	if err != nil {
		return nil, err
	}
	if err := VerifyContribution[E](cur, c); err != nil {
		log.Warnw("contribution rejected",
			"participants", t.NumParticipants(),
			"g1", t.NumG1,
			"error", err.Error())
		return nil, err
	}
	next := t.with(c)
	log.Debugw("contribution appended",
		"participants", next.NumParticipants(),
		"g1", t.NumG1,
		"identity", c.Identity)
	return next, nil
}

// with returns a copy of t extended with the already verified c. The slices
// are copied so no snapshot shares a backing array with another.
func (t *Transcript) with(c *Contribution) *Transcript {
	next := &Transcript{
		NumG1:         t.NumG1,
		NumG2:         t.NumG2,
		Contributions: make([]*Contribution, len(t.Contributions), len(t.Contributions)+1),
		Witness: Witness{
			Products:   make([]ecc.G1, len(t.Witness.Products), len(t.Witness.Products)+1),
			Pubkeys:    make([]ecc.G2, len(t.Witness.Pubkeys), len(t.Witness.Pubkeys)+1),
			Signatures: make([]types.HexBytes, len(t.Witness.Signatures), len(t.Witness.Signatures)+1),
		},
	}
	copy(next.Contributions, t.Contributions)
	copy(next.Witness.Products, t.Witness.Products)
	copy(next.Witness.Pubkeys, t.Witness.Pubkeys)
	copy(next.Witness.Signatures, t.Witness.Signatures)

	next.Contributions = append(next.Contributions, c)
	next.Witness.Products = append(next.Witness.Products, c.Powers.G1[1])
	next.Witness.Pubkeys = append(next.Witness.Pubkeys, c.Proof.G2)
	next.Witness.Signatures = append(next.Witness.Signatures, append(types.HexBytes{}, c.Signature...))
	return next
}

// IsValid audits the whole transcript: every contribution is verified again
// starting from the untouched accumulator, the witness must match the
// contributions and the running products must chain through the pubkeys.
// It reaches the same verdict as appending every contribution in order.
func IsValid[E ecc.Engine](t *Transcript) error {
	prev, err := t.Initial()
	if err != nil {
		return err
	}
	w := &t.Witness
	n := len(t.Contributions)
	if len(w.Products) != n+1 || len(w.Pubkeys) != n+1 || len(w.Signatures) != n+1 {
		return fmt.Errorf("%w: witness has %d/%d/%d entries for %d contributions", ErrChainMismatch,
			len(w.Products), len(w.Pubkeys), len(w.Signatures), n)
	}
	if w.Products[0] != ecc.G1Generator || w.Pubkeys[0] != ecc.G2Generator || len(w.Signatures[0]) != 0 {
		return fmt.Errorf("witness: %w", ErrGeneratorMismatch)
	}
	for i, c := range t.Contributions {
		if err := VerifyContribution[E](prev, c); err != nil {
			return fmt.Errorf("contribution %d: %w", i, err)
		}
		if w.Products[i+1] != c.Powers.G1[1] || w.Pubkeys[i+1] != c.Proof.G2 ||
			string(w.Signatures[i+1]) != string(c.Signature) {
			return fmt.Errorf("witness entry %d: %w", i+1, ErrChainMismatch)
		}
		prev = c.Powers
	}
	return verifyPairings[E](productChecks(w))
}

// productChecks lists e(products[i], G2) == e(products[i-1], pubkeys[i]).
func productChecks(w *Witness) []pairingCheck {
	checks := make([]pairingCheck, 0, len(w.Products))
	for i := 1; i < len(w.Products); i++ {
		checks = append(checks, pairingCheck{
			name: "product", index: i,
			a1: w.Products[i], b1: ecc.G2Generator,
			a2: w.Products[i-1], b2: w.Pubkeys[i],
		})
	}
	return checks
}
