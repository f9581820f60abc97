// storage package keeps the ceremony snapshots and the attestations in a
// key-value database. The core never does any I/O, callers store each
// accepted batch here. The following prefixes are used:
//   - 'b/' for batch snapshots, keyed by the number of participants
//   - 'h/' for the head pointer (the latest snapshot number)
//   - 'a/' for attestations, keyed by ceremony and sequence number
package storage

import (
	"errors"
	"fmt"
	"sync"

	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

var (
	// Prefixes for the keys in the database.
	batchPrefix       = []byte("b/")
	headPrefix        = []byte("h/")
	attestationPrefix = []byte("a/")

	headKey = []byte("head")

	// ErrNotFound is returned when the requested artifact is not stored.
	ErrNotFound = errors.New("not found")
)

// maxKeySize is the size of the hashed part of the keys.
const maxKeySize = 12

// Storage wraps the database. It is safe for concurrent use.
type Storage struct {
	db         db.Database
	globalLock sync.Mutex
}

// New creates a new Storage instance.
func New(db db.Database) *Storage {
	return &Storage{db: db}
}

// Close closes the storage.
func (s *Storage) Close() error {
	return s.db.Close()
}

// getArtifact decodes the value stored under prefix/key into out. It
// returns ErrNotFound if there is no such key.
func (s *Storage) getArtifact(prefix, key []byte, out any) error {
	rd := prefixeddb.NewPrefixedReader(s.db, prefix)
	data, err := rd.Get(key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get artifact: %w", err)
	}
	if err := decodeArtifact(data, out); err != nil {
		return fmt.Errorf("decode artifact: %w", err)
	}
	return nil
}

// setArtifact encodes and stores the artifact under prefix/key.
func (s *Storage) setArtifact(prefix, key []byte, artifact any) error {
	data, err := encodeArtifact(artifact)
	if err != nil {
		return err
	}
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Set(key, data); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}
