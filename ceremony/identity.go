package ceremony

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const (
	IdentityEthereum = "eth"
	IdentityGitHub   = "git"
)

// Identity is a contributor identity, signed with the contribution secret so
// the transcript shows who produced each step. The canonical forms are
// "eth|0x<lowercase address>" and "git|<numeric id>|<user>".
type Identity struct {
	Kind    string
	Address common.Address
	ID      uint64
	User    string
}

// EthIdentity returns the canonical identity string of an Ethereum address.
func EthIdentity(addr common.Address) string {
	return IdentityEthereum + "|" + strings.ToLower(addr.Hex())
}

// GitIdentity returns the canonical identity string of a GitHub account.
func GitIdentity(id uint64, user string) string {
	return fmt.Sprintf("%s|%d|%s", IdentityGitHub, id, user)
}

// ParseIdentity parses and checks an identity string.
func ParseIdentity(s string) (*Identity, error) {
	parts := strings.Split(s, "|")
	switch parts[0] {
	case IdentityEthereum:
		if len(parts) != 2 || !common.IsHexAddress(parts[1]) || !strings.HasPrefix(parts[1], "0x") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
		}
		if parts[1] != strings.ToLower(parts[1]) {
			return nil, fmt.Errorf("%w: address must be lowercase: %q", ErrInvalidIdentity, s)
		}
		return &Identity{Kind: IdentityEthereum, Address: common.HexToAddress(parts[1])}, nil
	case IdentityGitHub:
		if len(parts) != 3 || parts[2] == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
		}
		id, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad id in %q", ErrInvalidIdentity, s)
		}
		return &Identity{Kind: IdentityGitHub, ID: id, User: parts[2]}, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind in %q", ErrInvalidIdentity, s)
	}
}

// String returns the canonical form of the identity.
func (id *Identity) String() string {
	if id.Kind == IdentityGitHub {
		return GitIdentity(id.ID, id.User)
	}
	return EthIdentity(id.Address)
}
