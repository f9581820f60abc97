package ecc

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// G1Size is the length of a compressed G1 point.
	G1Size = 48
	// G2Size is the length of a compressed G2 point.
	G2Size = 96
	// GTSize is the length of a serialized pairing target element.
	GTSize = 576
)

// compression flags of the ZCash encoding, stored in the three most
// significant bits of the first byte.
const (
	flagCompressed = 0x80
	flagInfinity   = 0x40
)

// G1 is a BLS12-381 G1 point in canonical compressed form. Being an array it
// is a plain value: copies are independent and points compare with ==.
type G1 [G1Size]byte

// G2 is a BLS12-381 G2 point in canonical compressed form.
type G2 [G2Size]byte

// GT is an element of the pairing target group as serialized by the engine
// that produced it. Values from different engines must not be compared.
type GT [GTSize]byte

var (
	// G1Generator is the standard generator of G1.
	G1Generator = G1(mustHex(G1Size, "97f1d3a73197d7942695638c4fa9ac0fc3688c4f9774b905a14e3a3f171bac586c55e83ff97a1aeffb3af00adb22c6bb"))
	// G2Generator is the standard generator of G2.
	G2Generator = G2(mustHex(G2Size, "93e02b6052719f607dacd3a088274f65596bd0d09920b61ab5da61bbdc7f5049334cf11213945d57e5ac7d055d042b7e024aa2b2f08f0a91260805272dc51051c6e47ad4fa403b02b4510b647ae3d1770bac0326a805bbefd48056c8c121bdb8"))

	// G1Zero and G2Zero are the encodings of the point at infinity.
	G1Zero = G1{flagCompressed | flagInfinity}
	G2Zero = G2{flagCompressed | flagInfinity}
)

func mustHex(size int, s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != size {
		panic(fmt.Sprintf("invalid point constant %q", s))
	}
	return b
}

// IsZero returns true if p encodes the point at infinity.
func (p G1) IsZero() bool { return p == G1Zero }

// IsZero returns true if p encodes the point at infinity.
func (p G2) IsZero() bool { return p == G2Zero }

// String returns the 0x prefixed hex encoding of the point.
func (p G1) String() string { return hexutil.Encode(p[:]) }

func (p G2) String() string { return hexutil.Encode(p[:]) }

// MarshalText implements encoding.TextMarshaler, so points are encoded as
// 0x prefixed hex strings in JSON.
func (p G1) MarshalText() ([]byte, error) {
	return hexutil.Bytes(p[:]).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler. Only the length is
// checked here, curve and subgroup membership are checked by the engine.
func (p *G1) UnmarshalText(text []byte) error {
	return unmarshalPointText(text, p[:])
}

func (p G2) MarshalText() ([]byte, error) {
	return hexutil.Bytes(p[:]).MarshalText()
}

func (p *G2) UnmarshalText(text []byte) error {
	return unmarshalPointText(text, p[:])
}

func unmarshalPointText(text, dst []byte) error {
	var b hexutil.Bytes
	if err := b.UnmarshalText(text); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	if len(b) != len(dst) {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidEncoding, len(dst), len(b))
	}
	copy(dst, b)
	return nil
}

// G1FromBytes copies b into a G1 value, checking only its length.
func G1FromBytes(b []byte) (G1, error) {
	var p G1
	if len(b) != G1Size {
		return p, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidEncoding, G1Size, len(b))
	}
	copy(p[:], b)
	return p, nil
}

// G2FromBytes copies b into a G2 value, checking only its length.
func G2FromBytes(b []byte) (G2, error) {
	var p G2
	if len(b) != G2Size {
		return p, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidEncoding, G2Size, len(b))
	}
	copy(p[:], b)
	return p, nil
}
