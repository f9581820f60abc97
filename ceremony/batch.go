package ceremony

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/vocdoni/kzg-ceremony/config"
	"github.com/vocdoni/kzg-ceremony/crypto/ecc"
	"github.com/vocdoni/kzg-ceremony/crypto/ecc/backend"
	"github.com/vocdoni/kzg-ceremony/log"
	"github.com/vocdoni/kzg-ceremony/util"
)

// Size is the shape of one sub-ceremony.
type Size struct {
	NumG1 int `json:"numG1Powers"`
	NumG2 int `json:"numG2Powers"`
}

// ParseSizes parses a list of sizes written as "g1,g2:g1,g2:...", such as
// config.DefaultCeremonySizes.
func ParseSizes(s string) ([]Size, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty size list", ErrInvalidSize)
	}
	var sizes []Size
	for _, part := range strings.Split(s, ":") {
		nums := strings.Split(strings.TrimSpace(part), ",")
		if len(nums) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSize, part)
		}
		g1, err := strconv.Atoi(nums[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSize, part, err)
		}
		g2, err := strconv.Atoi(nums[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSize, part, err)
		}
		if err := checkSize(g1, g2); err != nil {
			return nil, err
		}
		sizes = append(sizes, Size{NumG1: g1, NumG2: g2})
	}
	return sizes, nil
}

// Batch runs several sub-ceremonies in parallel. Every participant
// contributes to all of them at once.
type Batch struct {
	Transcripts    []*Transcript `json:"transcripts" cbor:"transcripts"`
	ParticipantIDs []string      `json:"participantIds" cbor:"participants"`
}

// BatchContribution holds one contribution per sub-ceremony, in the order of
// the batch transcripts.
type BatchContribution struct {
	Contributions []*Contribution `json:"contributions" cbor:"contributions"`
}

// NewBatch returns an empty batch with one transcript per size.
func NewBatch(sizes []Size) (*Batch, error) {
	if len(sizes) == 0 {
		return nil, fmt.Errorf("%w: no sub-ceremonies", ErrInvalidSize)
	}
	b := &Batch{Transcripts: make([]*Transcript, len(sizes))}
	for i, s := range sizes {
		t, err := NewTranscript(s.NumG1, s.NumG2)
		if err != nil {
			return nil, &SubCeremonyError{Index: i, Err: err}
		}
		b.Transcripts[i] = t
	}
	return b, nil
}

// Sizes returns the shape of every sub-ceremony.
func (b *Batch) Sizes() []Size {
	sizes := make([]Size, len(b.Transcripts))
	for i, t := range b.Transcripts {
		sizes[i] = Size{NumG1: t.NumG1, NumG2: t.NumG2}
	}
	return sizes
}

// NumParticipants returns the number of accepted batch contributions.
func (b *Batch) NumParticipants() int {
	return len(b.ParticipantIDs)
}

// ContributeBatch contributes to every sub-ceremony of b. One secret per
// sub-ceremony is derived from entropy with blake3, so no secret is reused
// across sub-ceremonies. Each secret is zeroized once used; wiping entropy
// is up to the caller.
func ContributeBatch[E ecc.Engine](b *Batch, entropy []byte, identity string) (*BatchContribution, error) {
	if len(entropy) == 0 {
		return nil, fmt.Errorf("%w: no entropy", ErrZeroSecret)
	}
	bc := &BatchContribution{Contributions: make([]*Contribution, len(b.Transcripts))}
	for i, t := range b.Transcripts {
		cur, err := t.Current()
		if err != nil {
			return nil, &SubCeremonyError{Index: i, Err: err}
		}
		tau := ecc.DeriveScalar(entropy, fmt.Sprintf("%s %d", config.TauDerivationContext, i))
		c, err := NewContribution[E](cur, tau, identity)
		if err != nil {
			return nil, &SubCeremonyError{Index: i, Err: err}
		}
		bc.Contributions[i] = c
	}
	return bc, nil
}

// identity returns the identity shared by every contribution of bc.
func (bc *BatchContribution) identity() (string, error) {
	if len(bc.Contributions) == 0 || bc.Contributions[0] == nil {
		return "", fmt.Errorf("%w: empty batch contribution", ErrLengthMismatch)
	}
	id := bc.Contributions[0].Identity
	for i, c := range bc.Contributions {
		if c == nil {
			return "", &SubCeremonyError{Index: i, Err: fmt.Errorf("%w: missing contribution", ErrLengthMismatch)}
		}
		if c.Identity != id {
			return "", &SubCeremonyError{Index: i, Err: fmt.Errorf("%w: %q differs from %q", ErrInvalidIdentity, c.Identity, id)}
		}
	}
	return id, nil
}

// AppendBatch verifies every contribution of bc against its sub-ceremony and
// returns the extended batch. Either every sub-ceremony accepts or b is left
// as it was.
func AppendBatch[E ecc.Engine](b *Batch, bc *BatchContribution) (*Batch, error) {
	if len(bc.Contributions) != len(b.Transcripts) {
		return nil, fmt.Errorf("%w: %d contributions for %d sub-ceremonies", ErrLengthMismatch,
			len(bc.Contributions), len(b.Transcripts))
	}
	id, err := bc.identity()
	if err != nil {
		return nil, err
	}
	next := &Batch{
		Transcripts:    make([]*Transcript, len(b.Transcripts)),
		ParticipantIDs: append(append(make([]string, 0, len(b.ParticipantIDs)+1), b.ParticipantIDs...), id),
	}
	err = util.ParallelFor(len(b.Transcripts), func(i int) error {
		t, err := Append[E](b.Transcripts[i], bc.Contributions[i])
		if err != nil {
			return &SubCeremonyError{Index: i, Err: err}
		}
		next.Transcripts[i] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Infow("batch contribution accepted",
		"participants", next.NumParticipants(),
		"identity", id)
	return next, nil
}

// IsValidBatch audits every sub-ceremony of b and checks they all record
// the same participants.
func IsValidBatch[E ecc.Engine](b *Batch) error {
	if len(b.Transcripts) == 0 {
		return fmt.Errorf("%w: no sub-ceremonies", ErrInvalidSize)
	}
	for i, t := range b.Transcripts {
		if t == nil {
			return &SubCeremonyError{Index: i, Err: fmt.Errorf("%w: missing transcript", ErrLengthMismatch)}
		}
		if t.NumParticipants() != len(b.ParticipantIDs) {
			return &SubCeremonyError{Index: i, Err: fmt.Errorf("%w: %d contributions for %d participants",
				ErrChainMismatch, t.NumParticipants(), len(b.ParticipantIDs))}
		}
		for j, c := range t.Contributions {
			if c != nil && c.Identity != b.ParticipantIDs[j] {
				return &SubCeremonyError{Index: i, Err: fmt.Errorf("%w: contribution %d signed by %q, expected %q",
					ErrChainMismatch, j, c.Identity, b.ParticipantIDs[j])}
			}
		}
	}
	return util.ParallelFor(len(b.Transcripts), func(i int) error {
		if err := IsValid[E](b.Transcripts[i]); err != nil {
			return &SubCeremonyError{Index: i, Err: err}
		}
		return nil
	})
}

// IsValid audits the batch with the engine the binary was built with.
func (b *Batch) IsValid() error {
	return IsValidBatch[backend.Default](b)
}

// DecodeBatchContribution parses a JSON batch contribution, refusing inputs
// larger than config.MaxContributionSize. Points are only checked for
// length; they are validated when the contribution is appended.
func DecodeBatchContribution(data []byte) (*BatchContribution, error) {
	if len(data) > config.MaxContributionSize {
		return nil, fmt.Errorf("%w: contribution is %d bytes, limit is %d", ErrInvalidSize,
			len(data), config.MaxContributionSize)
	}
	bc := &BatchContribution{}
	if err := json.Unmarshal(data, bc); err != nil {
		return nil, fmt.Errorf("could not decode batch contribution: %w", err)
	}
	return bc, nil
}
