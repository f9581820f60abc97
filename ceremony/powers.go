package ceremony

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/fxamacker/cbor/v2"
	"github.com/vocdoni/kzg-ceremony/crypto/ecc"
)

// Powers is the accumulator of one sub-ceremony: G1[i] = τ^i·G1 and
// G2[i] = τ^i·G2 for the product τ of every secret contributed so far.
// Values are treated as immutable snapshots, contributions return new ones.
type Powers struct {
	G1 []ecc.G1
	G2 []ecc.G2
}

// NewPowers returns the untouched accumulator, with every power set to the
// generator. There must be at least two powers in each group and no more G2
// than G1 powers.
func NewPowers(numG1, numG2 int) (*Powers, error) {
	if err := checkSize(numG1, numG2); err != nil {
		return nil, err
	}
	p := &Powers{
		G1: make([]ecc.G1, numG1),
		G2: make([]ecc.G2, numG2),
	}
	for i := range p.G1 {
		p.G1[i] = ecc.G1Generator
	}
	for i := range p.G2 {
		p.G2[i] = ecc.G2Generator
	}
	return p, nil
}

func checkSize(numG1, numG2 int) error {
	if numG1 < 2 || numG2 < 2 || numG1 < numG2 {
		return fmt.Errorf("%w: %d g1 and %d g2 powers", ErrInvalidSize, numG1, numG2)
	}
	return nil
}

// NumG1 returns the number of G1 powers.
func (p *Powers) NumG1() int { return len(p.G1) }

// NumG2 returns the number of G2 powers.
func (p *Powers) NumG2() int { return len(p.G2) }

// Clone returns a deep copy of the powers.
func (p *Powers) Clone() *Powers {
	return &Powers{
		G1: append([]ecc.G1(nil), p.G1...),
		G2: append([]ecc.G2(nil), p.G2...),
	}
}

// Equal reports whether both accumulators hold the same points.
func (p *Powers) Equal(o *Powers) bool {
	if p == nil || o == nil {
		return p == o
	}
	if len(p.G1) != len(o.G1) || len(p.G2) != len(o.G2) {
		return false
	}
	for i := range p.G1 {
		if p.G1[i] != o.G1[i] {
			return false
		}
	}
	for i := range p.G2 {
		if p.G2[i] != o.G2[i] {
			return false
		}
	}
	return true
}

// Hash returns the public summary of the powers: the keccak256 of both
// lengths as big endian uint32 followed by every G1 and G2 point.
func (p *Powers) Hash() common.Hash {
	h := ethcrypto.NewKeccakState()
	var sizes [8]byte
	binary.BigEndian.PutUint32(sizes[:4], uint32(len(p.G1)))
	binary.BigEndian.PutUint32(sizes[4:], uint32(len(p.G2)))
	h.Write(sizes[:])
	for i := range p.G1 {
		h.Write(p.G1[i][:])
	}
	for i := range p.G2 {
		h.Write(p.G2[i][:])
	}
	var out common.Hash
	_, _ = h.Read(out[:])
	return out
}

type powersOfTau struct {
	G1Powers []ecc.G1 `json:"G1Powers"`
	G2Powers []ecc.G2 `json:"G2Powers"`
}

// powersJSON is the layout used by the Ethereum KZG ceremony.
type powersJSON struct {
	NumG1Powers int         `json:"numG1Powers"`
	NumG2Powers int         `json:"numG2Powers"`
	PowersOfTau powersOfTau `json:"powersOfTau"`
}

func (p Powers) MarshalJSON() ([]byte, error) {
	var out powersJSON
	out.NumG1Powers = len(p.G1)
	out.NumG2Powers = len(p.G2)
	out.PowersOfTau.G1Powers = p.G1
	out.PowersOfTau.G2Powers = p.G2
	return json.Marshal(out)
}

// UnmarshalJSON decodes the powers, failing if the declared sizes do not
// match the point arrays. Points are not validated here.
func (p *Powers) UnmarshalJSON(data []byte) error {
	var in powersJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.NumG1Powers != len(in.PowersOfTau.G1Powers) || in.NumG2Powers != len(in.PowersOfTau.G2Powers) {
		return fmt.Errorf("%w: declared %d/%d powers, got %d/%d", ErrLengthMismatch,
			in.NumG1Powers, in.NumG2Powers, len(in.PowersOfTau.G1Powers), len(in.PowersOfTau.G2Powers))
	}
	if err := checkSize(in.NumG1Powers, in.NumG2Powers); err != nil {
		return err
	}
	p.G1 = in.PowersOfTau.G1Powers
	p.G2 = in.PowersOfTau.G2Powers
	return nil
}

type powersCBOR struct {
	NumG1 int      `cbor:"numG1"`
	NumG2 int      `cbor:"numG2"`
	G1    [][]byte `cbor:"g1"`
	G2    [][]byte `cbor:"g2"`
}

var cborEncMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

func (p Powers) MarshalCBOR() ([]byte, error) {
	out := powersCBOR{
		NumG1: len(p.G1),
		NumG2: len(p.G2),
		G1:    make([][]byte, len(p.G1)),
		G2:    make([][]byte, len(p.G2)),
	}
	for i := range p.G1 {
		out.G1[i] = p.G1[i][:]
	}
	for i := range p.G2 {
		out.G2[i] = p.G2[i][:]
	}
	return cborEncMode.Marshal(out)
}

func (p *Powers) UnmarshalCBOR(data []byte) error {
	var in powersCBOR
	if err := cbor.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.NumG1 != len(in.G1) || in.NumG2 != len(in.G2) {
		return fmt.Errorf("%w: declared %d/%d powers, got %d/%d", ErrLengthMismatch,
			in.NumG1, in.NumG2, len(in.G1), len(in.G2))
	}
	if err := checkSize(in.NumG1, in.NumG2); err != nil {
		return err
	}
	g1 := make([]ecc.G1, len(in.G1))
	for i, b := range in.G1 {
		pt, err := ecc.G1FromBytes(b)
		if err != nil {
			return &PointError{Group: "g1", Index: i, Err: err}
		}
		g1[i] = pt
	}
	g2 := make([]ecc.G2, len(in.G2))
	for i, b := range in.G2 {
		pt, err := ecc.G2FromBytes(b)
		if err != nil {
			return &PointError{Group: "g2", Index: i, Err: err}
		}
		g2[i] = pt
	}
	p.G1, p.G2 = g1, g2
	return nil
}
