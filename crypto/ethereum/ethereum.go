// Package ethereum wraps the go-ethereum secp256k1 helpers used to sign and
// recover contribution attestations.
package ethereum

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/vocdoni/kzg-ceremony/util"
)

const (
	// SignatureLength is the size of a signature: r, s and the recovery id.
	SignatureLength = ethcrypto.SignatureLength
	// DigestLength is the length of a hash that can be signed.
	DigestLength = ethcrypto.DigestLength
)

var (
	ErrNoPrivateKey      = errors.New("no private key available")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrInvalidDigestSize = errors.New("invalid digest size")
)

// SignKeys represents an ECDSA pair of keys for signing.
type SignKeys struct {
	Public  ecdsa.PublicKey
	Private ecdsa.PrivateKey
}

// NewSignKeys returns an empty key pair, to be filled with Generate or
// AddHexKey.
func NewSignKeys() *SignKeys {
	return &SignKeys{}
}

// Generate generates new keys.
func (k *SignKeys) Generate() error {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return err
	}
	k.Private = *key
	k.Public = key.PublicKey
	return nil
}

// AddHexKey imports a private hex key.
func (k *SignKeys) AddHexKey(privHex string) error {
	key, err := ethcrypto.HexToECDSA(util.TrimHex(privHex))
	if err != nil {
		return err
	}
	k.Private = *key
	k.Public = key.PublicKey
	return nil
}

// Address returns the Ethereum address of the key pair.
func (k *SignKeys) Address() common.Address {
	return ethcrypto.PubkeyToAddress(k.Public)
}

// SignDigest signs an already computed 32 byte digest, such as an EIP-712
// typed data hash.
func (k *SignKeys) SignDigest(digest []byte) ([]byte, error) {
	if k.Private.D == nil {
		return nil, ErrNoPrivateKey
	}
	if len(digest) != DigestLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDigestSize, len(digest))
	}
	return ethcrypto.Sign(digest, &k.Private)
}

// AddrFromSignedDigest recovers the address that signed digest. Both the raw
// recovery id (0, 1) and the Ethereum one (27, 28) are accepted.
func AddrFromSignedDigest(digest, signature []byte) (common.Address, error) {
	if len(signature) != SignatureLength {
		return common.Address{}, fmt.Errorf("%w: length %d", ErrInvalidSignature, len(signature))
	}
	if len(digest) != DigestLength {
		return common.Address{}, fmt.Errorf("%w: %d", ErrInvalidDigestSize, len(digest))
	}
	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	switch sig[64] {
	case 0, 1:
	case 27, 28:
		sig[64] -= 27
	default:
		return common.Address{}, fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, sig[64])
	}
	pub, err := ethcrypto.SigToPub(digest, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}
