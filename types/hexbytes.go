package types

import (
	"encoding/hex"
	"fmt"

	"github.com/vocdoni/kzg-ceremony/util"
)

// HexBytes is a []byte which encodes as hexadecimal in json, as opposed to
// the base64 default. The encoding carries the 0x prefix unless empty;
// decoding accepts it with or without.
type HexBytes []byte

func (b HexBytes) String() string {
	return "0x" + hex.EncodeToString(b)
}

// MarshalJSON encodes an empty value as "", the form used for missing
// signatures in transcript files.
func (b HexBytes) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return []byte(`""`), nil
	}
	enc := make([]byte, hex.EncodedLen(len(b))+4)
	enc[0] = '"'
	enc[1] = '0'
	enc[2] = 'x'
	hex.Encode(enc[3:], b)
	enc[len(enc)-1] = '"'
	return enc, nil
}

func (b *HexBytes) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid JSON string: %q", data)
	}
	data = []byte(util.TrimHex(string(data[1 : len(data)-1])))
	decLen := hex.DecodedLen(len(data))
	if cap(*b) < decLen {
		*b = make([]byte, decLen)
	}
	*b = (*b)[:decLen]
	if _, err := hex.Decode(*b, data); err != nil {
		return err
	}
	return nil
}
