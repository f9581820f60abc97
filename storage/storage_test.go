package storage

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/kzg-ceremony/attestation"
	"github.com/vocdoni/kzg-ceremony/ceremony"
	"github.com/vocdoni/kzg-ceremony/config"
	"github.com/vocdoni/kzg-ceremony/crypto/ecc/backend"
	"github.com/vocdoni/kzg-ceremony/crypto/ethereum"
	"go.vocdoni.io/dvote/db/metadb"
)

func contributeBatch(c *qt.C, b *ceremony.Batch, who string) *ceremony.Batch {
	bc, err := ceremony.ContributeBatch[backend.Default](b, []byte(who+" entropy"), ceremony.GitIdentity(1, who))
	c.Assert(err, qt.IsNil)
	next, err := ceremony.AppendBatch[backend.Default](b, bc)
	c.Assert(err, qt.IsNil)
	return next
}

func TestBatchSnapshots(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	_, _, err := stg.Head()
	c.Assert(err, qt.ErrorIs, ErrNotFound)

	sizes, err := ceremony.ParseSizes("4,2:8,3")
	c.Assert(err, qt.IsNil)
	b0, err := ceremony.NewBatch(sizes)
	c.Assert(err, qt.IsNil)
	seq, err := stg.SaveBatch(b0)
	c.Assert(err, qt.IsNil)
	c.Assert(seq, qt.Equals, uint64(0))

	b1 := contributeBatch(c, b0, "alice")
	b2 := contributeBatch(c, b1, "bob")
	_, err = stg.SaveBatch(b1)
	c.Assert(err, qt.IsNil)
	seq, err = stg.SaveBatch(b2)
	c.Assert(err, qt.IsNil)
	c.Assert(seq, qt.Equals, uint64(2))

	head, seq, err := stg.Head()
	c.Assert(err, qt.IsNil)
	c.Assert(seq, qt.Equals, uint64(2))
	c.Assert(head.ParticipantIDs, qt.DeepEquals, b2.ParticipantIDs)
	c.Assert(head.IsValid(), qt.IsNil)
	for i := range head.Transcripts {
		got, err := head.Transcripts[i].Current()
		c.Assert(err, qt.IsNil)
		want, err := b2.Transcripts[i].Current()
		c.Assert(err, qt.IsNil)
		c.Assert(got.Equal(want), qt.IsTrue)
	}

	loaded, err := stg.Batch(1)
	c.Assert(err, qt.IsNil)
	c.Assert(loaded.NumParticipants(), qt.Equals, 1)
	c.Assert(loaded.IsValid(), qt.IsNil)

	_, err = stg.Batch(7)
	c.Assert(err, qt.ErrorIs, ErrNotFound)

	c.Assert(stg.Rollback(1), qt.IsNil)
	_, seq, err = stg.Head()
	c.Assert(err, qt.IsNil)
	c.Assert(seq, qt.Equals, uint64(1))
	_, err = stg.Batch(2)
	c.Assert(err, qt.ErrorIs, ErrNotFound)
	c.Assert(stg.Rollback(5), qt.ErrorIs, ErrNotFound)
}

func TestAttestations(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	keys := ethereum.NewSignKeys()
	c.Assert(keys.Generate(), qt.IsNil)
	p, err := ceremony.NewPowers(4, 2)
	c.Assert(err, qt.IsNil)

	for seq := uint64(1); seq <= 3; seq++ {
		a, err := attestation.New(keys, p, config.DefaultCeremonyID, seq)
		c.Assert(err, qt.IsNil)
		c.Assert(stg.SetAttestation(a), qt.IsNil)
	}
	other, err := attestation.New(keys, p, "other-ceremony", 1)
	c.Assert(err, qt.IsNil)
	c.Assert(stg.SetAttestation(other), qt.IsNil)

	a, err := stg.Attestation(config.DefaultCeremonyID, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(a.Sequence, qt.Equals, uint64(2))
	c.Assert(a.Signer, qt.Equals, keys.Address())
	c.Assert(a.Verify(p), qt.IsTrue)

	_, err = stg.Attestation(config.DefaultCeremonyID, 9)
	c.Assert(err, qt.ErrorIs, ErrNotFound)

	list, err := stg.Attestations(config.DefaultCeremonyID)
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.HasLen, 3)
	for i, a := range list {
		c.Assert(a.Sequence, qt.Equals, uint64(i+1))
	}
}
