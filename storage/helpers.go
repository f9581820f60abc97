package storage

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Snapshots are stored with the deterministic core encoding so equal batches
// always produce equal bytes.
var (
	artifactEncMode cbor.EncMode
	artifactDecMode cbor.DecMode
)

func init() {
	var err error
	if artifactEncMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(fmt.Sprintf("cbor enc mode: %v", err))
	}
	if artifactDecMode, err = (cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements: 1 << 20,
	}).DecMode(); err != nil {
		panic(fmt.Sprintf("cbor dec mode: %v", err))
	}
}

func encodeArtifact(a any) ([]byte, error) {
	return artifactEncMode.Marshal(a)
}

func decodeArtifact(data []byte, out any) error {
	return artifactDecMode.Unmarshal(data, out)
}

// hashKey shortens an arbitrary identifier to a fixed size key prefix.
func hashKey(data []byte) []byte {
	hash := sha256.Sum256(data)
	return hash[:maxKeySize]
}

// seqKey encodes a sequence number so keys sort in numeric order.
func seqKey(seq uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, seq)
}
