package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/vocdoni/kzg-ceremony/ceremony"
	"github.com/vocdoni/kzg-ceremony/log"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// SaveBatch stores the snapshot b under its number of participants and
// moves the head to it, in a single transaction. The snapshot is stored
// verbatim, it must have been verified by the caller.
func (s *Storage) SaveBatch(b *ceremony.Batch) (uint64, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	seq := uint64(b.NumParticipants())
	data, err := encodeArtifact(b)
	if err != nil {
		return 0, fmt.Errorf("encode batch: %w", err)
	}
	wTx := s.db.WriteTx()
	defer wTx.Discard()
	if err := prefixeddb.NewPrefixedWriteTx(wTx, batchPrefix).Set(seqKey(seq), data); err != nil {
		return 0, fmt.Errorf("set batch %d: %w", seq, err)
	}
	if err := prefixeddb.NewPrefixedWriteTx(wTx, headPrefix).Set(headKey, seqKey(seq)); err != nil {
		return 0, fmt.Errorf("set head: %w", err)
	}
	if err := wTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch %d: %w", seq, err)
	}
	log.Debugw("batch snapshot stored", "seq", seq, "size", len(data))
	return seq, nil
}

// Batch loads the snapshot taken after seq participants. Returns ErrNotFound
// if it does not exist.
func (s *Storage) Batch(seq uint64) (*ceremony.Batch, error) {
	b := &ceremony.Batch{}
	if err := s.getArtifact(batchPrefix, seqKey(seq), b); err != nil {
		return nil, fmt.Errorf("could not read batch %d: %w", seq, err)
	}
	return b, nil
}

// Head returns the latest stored snapshot and its number. Returns
// ErrNotFound if nothing was stored yet.
func (s *Storage) Head() (*ceremony.Batch, uint64, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, headPrefix)
	v, err := rd.Get(headKey)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("get head: %w", err)
	}
	if len(v) != 8 {
		return nil, 0, fmt.Errorf("corrupted head pointer of %d bytes", len(v))
	}
	seq := binary.BigEndian.Uint64(v)
	b, err := s.Batch(seq)
	if err != nil {
		return nil, 0, err
	}
	return b, seq, nil
}

// Rollback moves the head back to the snapshot seq and removes every later
// one. This is the administrative rollback, the ceremony itself never drops
// contributions.
func (s *Storage) Rollback(seq uint64) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	if _, err := s.Batch(seq); err != nil {
		return err
	}
	var later [][]byte
	rd := prefixeddb.NewPrefixedReader(s.db, batchPrefix)
	if err := rd.Iterate(nil, func(k, _ []byte) bool {
		if len(k) == 8 && binary.BigEndian.Uint64(k) > seq {
			later = append(later, append([]byte(nil), k...))
		}
		return true
	}); err != nil {
		return fmt.Errorf("iterate batches: %w", err)
	}

	wTx := s.db.WriteTx()
	defer wTx.Discard()
	bTx := prefixeddb.NewPrefixedWriteTx(wTx, batchPrefix)
	for _, k := range later {
		if err := bTx.Delete(k); err != nil {
			return fmt.Errorf("delete batch: %w", err)
		}
	}
	if err := prefixeddb.NewPrefixedWriteTx(wTx, headPrefix).Set(headKey, seqKey(seq)); err != nil {
		return fmt.Errorf("set head: %w", err)
	}
	if err := wTx.Commit(); err != nil {
		return err
	}
	log.Warnw("ceremony rolled back", "seq", seq, "removed", len(later))
	return nil
}
