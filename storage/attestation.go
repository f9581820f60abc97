package storage

import (
	"fmt"

	"github.com/vocdoni/kzg-ceremony/attestation"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

func attestationKey(ceremonyID string, seq uint64) []byte {
	return append(hashKey([]byte(ceremonyID)), seqKey(seq)...)
}

// SetAttestation stores a, replacing any attestation with the same ceremony
// and sequence number.
func (s *Storage) SetAttestation(a *attestation.Attestation) error {
	return s.setArtifact(attestationPrefix, attestationKey(a.CeremonyID, a.Sequence), a)
}

// Attestation returns the attestation of the seq-th contribution of the
// ceremony. Returns ErrNotFound if there is none.
func (s *Storage) Attestation(ceremonyID string, seq uint64) (*attestation.Attestation, error) {
	a := &attestation.Attestation{}
	if err := s.getArtifact(attestationPrefix, attestationKey(ceremonyID, seq), a); err != nil {
		return nil, fmt.Errorf("could not read attestation %d: %w", seq, err)
	}
	return a, nil
}

// Attestations returns every attestation of the ceremony, ordered by
// sequence number.
func (s *Storage) Attestations(ceremonyID string) ([]*attestation.Attestation, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, attestationPrefix)
	var list []*attestation.Attestation
	var decodeErr error
	if err := rd.Iterate(hashKey([]byte(ceremonyID)), func(_, v []byte) bool {
		a := &attestation.Attestation{}
		if err := decodeArtifact(v, a); err != nil {
			decodeErr = fmt.Errorf("decode attestation: %w", err)
			return false
		}
		list = append(list, a)
		return true
	}); err != nil {
		return nil, fmt.Errorf("iterate attestations: %w", err)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return list, nil
}
