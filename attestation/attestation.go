// Package attestation binds a contribution to an Ethereum account. The
// contributor signs an EIP-712 digest of the new powers, the ceremony id and
// the sequence number, so a signature can not be replayed on another
// ceremony or position. Verification only reports whether the signature
// matches, accepting or rejecting unattested contributions is up to the
// caller.
package attestation

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/vocdoni/kzg-ceremony/ceremony"
	"github.com/vocdoni/kzg-ceremony/config"
	"github.com/vocdoni/kzg-ceremony/crypto/ethereum"
	"github.com/vocdoni/kzg-ceremony/log"
	"github.com/vocdoni/kzg-ceremony/types"
)

const primaryType = "Contribution"

var (
	// ErrInvalidSequence is returned for a zero sequence number, the first
	// contribution has number 1.
	ErrInvalidSequence = errors.New("sequence numbers start at 1")
	// ErrNoPowers is returned when there is nothing to attest.
	ErrNoPowers = errors.New("no powers to attest")
)

// schema is the typed data layout. Changing it requires bumping
// config.AttestationDomainVersion.
var schema = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
	},
	primaryType: {
		{Name: "ceremonyId", Type: "string"},
		{Name: "sequenceNumber", Type: "uint256"},
		{Name: "powersG1", Type: "bytes[]"},
		{Name: "powersG2", Type: "bytes[]"},
	},
}

// TypedData returns the EIP-712 typed data of a contribution, as shown to
// wallets.
func TypedData(p *ceremony.Powers, ceremonyID string, seq uint64) (*apitypes.TypedData, error) {
	if seq == 0 {
		return nil, ErrInvalidSequence
	}
	if p == nil || len(p.G1) == 0 {
		return nil, ErrNoPowers
	}
	g1 := make([]any, len(p.G1))
	for i := range p.G1 {
		g1[i] = p.G1[i].String()
	}
	g2 := make([]any, len(p.G2))
	for i := range p.G2 {
		g2[i] = p.G2[i].String()
	}
	return &apitypes.TypedData{
		Types:       schema,
		PrimaryType: primaryType,
		Domain: apitypes.TypedDataDomain{
			Name:    config.AttestationDomainName,
			Version: config.AttestationDomainVersion,
		},
		Message: apitypes.TypedDataMessage{
			"ceremonyId":     ceremonyID,
			"sequenceNumber": new(big.Int).SetUint64(seq),
			"powersG1":       g1,
			"powersG2":       g2,
		},
	}, nil
}

// Digest returns the EIP-712 hash of a contribution.
func Digest(p *ceremony.Powers, ceremonyID string, seq uint64) (common.Hash, error) {
	td, err := TypedData(p, ceremonyID, seq)
	if err != nil {
		return common.Hash{}, err
	}
	hash, _, err := apitypes.TypedDataAndHash(*td)
	if err != nil {
		return common.Hash{}, fmt.Errorf("could not hash typed data: %w", err)
	}
	return common.BytesToHash(hash), nil
}

// Sign signs the digest with keys.
func Sign(keys *ethereum.SignKeys, digest common.Hash) ([]byte, error) {
	return keys.SignDigest(digest[:])
}

// Recover returns the address that produced sig over digest.
func Recover(digest common.Hash, sig []byte) (common.Address, error) {
	return ethereum.AddrFromSignedDigest(digest[:], sig)
}

// Verify reports whether sig over digest was produced by claimed. It never
// fails hard: malformed signatures simply do not verify.
func Verify(digest common.Hash, sig []byte, claimed common.Address) bool {
	addr, err := Recover(digest, sig)
	if err != nil {
		log.Debugw("attestation signature not recoverable", "error", err.Error())
		return false
	}
	return addr == claimed
}

// Attestation is a signed statement of a contributor about a contribution.
type Attestation struct {
	CeremonyID string         `json:"ceremonyId" cbor:"ceremonyId"`
	Sequence   uint64         `json:"sequenceNumber" cbor:"seq"`
	Digest     common.Hash    `json:"digest" cbor:"digest"`
	Signature  types.HexBytes `json:"signature" cbor:"signature"`
	Signer     common.Address `json:"signer" cbor:"signer"`
}

// New attests the powers produced by the seq-th contribution.
func New(keys *ethereum.SignKeys, p *ceremony.Powers, ceremonyID string, seq uint64) (*Attestation, error) {
	digest, err := Digest(p, ceremonyID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := Sign(keys, digest)
	if err != nil {
		return nil, fmt.Errorf("could not sign attestation: %w", err)
	}
	return &Attestation{
		CeremonyID: ceremonyID,
		Sequence:   seq,
		Digest:     digest,
		Signature:  sig,
		Signer:     keys.Address(),
	}, nil
}

// Verify reports whether the attestation is a valid signature of Signer
// over the powers p.
func (a *Attestation) Verify(p *ceremony.Powers) bool {
	digest, err := Digest(p, a.CeremonyID, a.Sequence)
	if err != nil || digest != a.Digest {
		return false
	}
	return Verify(digest, a.Signature, a.Signer)
}
