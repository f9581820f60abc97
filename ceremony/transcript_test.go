package ceremony

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/kzg-ceremony/crypto/ecc"
)

// buildTranscript appends one signed contribution per seed.
func buildTranscript(c *qt.C, seeds ...string) *Transcript {
	t, err := NewTranscript(8, 3)
	c.Assert(err, qt.IsNil)
	for i, seed := range seeds {
		cur, err := t.Current()
		c.Assert(err, qt.IsNil)
		contrib, err := NewContribution[testEngine](cur, seededScalar(c, seed), GitIdentity(uint64(i+1), seed))
		c.Assert(err, qt.IsNil)
		t, err = Append[testEngine](t, contrib)
		c.Assert(err, qt.IsNil)
	}
	return t
}

func TestTranscriptAppend(t *testing.T) {
	c := qt.New(t)
	empty, err := NewTranscript(8, 3)
	c.Assert(err, qt.IsNil)
	c.Assert(empty.HasEntropy(), qt.IsFalse)
	c.Assert(IsValid[testEngine](empty), qt.IsNil)

	cur, err := empty.Current()
	c.Assert(err, qt.IsNil)
	first, err := NewContribution[testEngine](cur, seededScalar(c, "alice"), "")
	c.Assert(err, qt.IsNil)
	t1, err := Append[testEngine](empty, first)
	c.Assert(err, qt.IsNil)
	c.Assert(t1.NumParticipants(), qt.Equals, 1)
	c.Assert(t1.HasEntropy(), qt.IsTrue)
	c.Assert(t1.Witness.Products[1], qt.Equals, first.Powers.G1[1])
	c.Assert(t1.Witness.Pubkeys[1], qt.Equals, first.Proof.G2)
	c.Assert(t1.Witness.Signatures[1], qt.HasLen, 0)

	// the previous snapshot does not change
	c.Assert(empty.NumParticipants(), qt.Equals, 0)
	c.Assert(empty.Witness.Products, qt.HasLen, 1)

	// a contribution built on a stale state is rejected
	stale, err := NewContribution[testEngine](cur, seededScalar(c, "bob"), "")
	c.Assert(err, qt.IsNil)
	t2, err := Append[testEngine](t1, stale)
	c.Assert(err, qt.ErrorIs, ErrChainMismatch)
	c.Assert(t2, qt.IsNil)
	c.Assert(t1.NumParticipants(), qt.Equals, 1)

	cur, err = t1.Current()
	c.Assert(err, qt.IsNil)
	identity := EthIdentity(common.HexToAddress("0x00000000000000000000000000000000000000aa"))
	second, err := NewContribution[testEngine](cur, seededScalar(c, "bob"), identity)
	c.Assert(err, qt.IsNil)
	t2, err = Append[testEngine](t1, second)
	c.Assert(err, qt.IsNil)
	c.Assert(t2.NumParticipants(), qt.Equals, 2)
	c.Assert([]byte(t2.Witness.Signatures[2]), qt.DeepEquals, []byte(second.Signature))
	c.Assert(IsValid[testEngine](t2), qt.IsNil)

	// an invalid contribution leaves the transcript as it was
	cur, err = t2.Current()
	c.Assert(err, qt.IsNil)
	bad, err := NewContribution[testEngine](cur, seededScalar(c, "carol"), "")
	c.Assert(err, qt.IsNil)
	bad.Powers.G1[5] = g1Mul(c, 5)
	_, err = Append[testEngine](t2, bad)
	c.Assert(err, qt.ErrorIs, ErrPairingMismatch)
	c.Assert(t2.NumParticipants(), qt.Equals, 2)
	c.Assert(IsValid[testEngine](t2), qt.IsNil)
}

func TestTranscriptReorder(t *testing.T) {
	c := qt.New(t)
	tr := buildTranscript(c, "alice", "bob", "carol")
	c.Assert(IsValid[testEngine](tr), qt.IsNil)

	swapped := *tr
	swapped.Contributions = append([]*Contribution(nil), tr.Contributions...)
	swapped.Contributions[0], swapped.Contributions[1] = swapped.Contributions[1], swapped.Contributions[0]
	c.Assert(IsValid[testEngine](&swapped), qt.ErrorIs, ErrChainMismatch)
}

func TestTranscriptTruncate(t *testing.T) {
	c := qt.New(t)
	tr := buildTranscript(c, "alice", "bob", "carol")

	truncated := *tr
	truncated.Contributions = tr.Contributions[:2]
	c.Assert(IsValid[testEngine](&truncated), qt.ErrorIs, ErrChainMismatch)

	dropped := *tr
	dropped.Contributions = []*Contribution{tr.Contributions[0], tr.Contributions[2]}
	dropped.Witness.Products = append(append([]ecc.G1(nil), tr.Witness.Products[:2]...), tr.Witness.Products[3])
	dropped.Witness.Pubkeys = append(append([]ecc.G2(nil), tr.Witness.Pubkeys[:2]...), tr.Witness.Pubkeys[3])
	dropped.Witness.Signatures = append(tr.Witness.Signatures[:2:2], tr.Witness.Signatures[3])
	c.Assert(IsValid[testEngine](&dropped), qt.ErrorIs, ErrChainMismatch)
}

func TestTranscriptWitnessTampering(t *testing.T) {
	c := qt.New(t)
	tr := buildTranscript(c, "alice", "bob")

	tampered := *tr
	tampered.Witness.Products = append([]ecc.G1(nil), tr.Witness.Products...)
	tampered.Witness.Products[2] = g1Mul(c, 7)
	c.Assert(IsValid[testEngine](&tampered), qt.ErrorIs, ErrChainMismatch)

	tampered = *tr
	tampered.Witness.Pubkeys = append([]ecc.G2(nil), tr.Witness.Pubkeys...)
	tampered.Witness.Pubkeys[0] = g2Mul(c, 7)
	c.Assert(IsValid[testEngine](&tampered), qt.ErrorIs, ErrGeneratorMismatch)
}

func TestTranscriptJSON(t *testing.T) {
	c := qt.New(t)
	empty, err := NewTranscript(4, 2)
	c.Assert(err, qt.IsNil)
	data, err := json.Marshal(empty)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Contains, `"runningProducts":["`+ecc.G1Generator.String()+`"]`)
	c.Assert(string(data), qt.Contains, `"potPubkeys":["`+ecc.G2Generator.String()+`"]`)
	c.Assert(string(data), qt.Contains, `"blsSignatures":[""]`)
	c.Assert(string(data), qt.Contains, `"powersOfTau":{"G1Powers":["`+ecc.G1Generator.String())
	var decoded Transcript
	c.Assert(json.Unmarshal(data, &decoded), qt.IsNil)
	c.Assert(decoded.Witness.Signatures, qt.HasLen, 1)
	c.Assert(decoded.Witness.Signatures[0], qt.HasLen, 0)
	c.Assert(IsValid[testEngine](&decoded), qt.IsNil)

	tr := buildTranscript(c, "alice", "bob")
	data, err = json.Marshal(tr)
	c.Assert(err, qt.IsNil)
	var back Transcript
	c.Assert(json.Unmarshal(data, &back), qt.IsNil)
	c.Assert(back.NumParticipants(), qt.Equals, 2)
	c.Assert(IsValid[testEngine](&back), qt.IsNil)
	cur, err := back.Current()
	c.Assert(err, qt.IsNil)
	want, err := tr.Current()
	c.Assert(err, qt.IsNil)
	c.Assert(cur.Equal(want), qt.IsTrue)

	// the embedded accumulator must be the one of the last contribution
	var raw map[string]json.RawMessage
	c.Assert(json.Unmarshal(data, &raw), qt.IsNil)
	c.Assert(string(raw["powersOfTau"]), qt.Contains, want.G1[1].String())
	first, err := json.Marshal(powersOfTau{G1Powers: tr.Contributions[0].Powers.G1, G2Powers: tr.Contributions[0].Powers.G2})
	c.Assert(err, qt.IsNil)
	raw["powersOfTau"] = first
	stale, err := json.Marshal(raw)
	c.Assert(err, qt.IsNil)
	c.Assert(json.Unmarshal(stale, &back), qt.ErrorIs, ErrChainMismatch)
}
