// Package config holds the default parameters of the ceremony.
package config

const (
	// DefaultCeremonySizes are the sub-ceremonies run in parallel, as
	// G1_POINTS,G2_POINTS pairs separated by colons.
	DefaultCeremonySizes = "4096,65:8192,65:16384,65:32768,65"
	// MaxContributionSize is the largest serialized batch contribution
	// accepted by the decoders (10 MiB).
	MaxContributionSize = 10 << 20
	// DefaultCeremonyID identifies the ceremony in attestation digests.
	DefaultCeremonyID = "kzg-ceremony"

	// AttestationDomainName and AttestationDomainVersion form the EIP-712
	// domain of contribution attestations. Bump the version whenever the
	// typed data schema changes.
	AttestationDomainName    = "KZG Ceremony"
	AttestationDomainVersion = "1"

	// BLSSignatureDST is the hash-to-curve domain separation tag of the BLS
	// signature binding a contribution to the contributor identity.
	BLSSignatureDST = "BLS_SIG_BLS12381G1_XMD:SHA-256_SSWU_RO_POP_"
	// TauDerivationContext is the blake3 key derivation context used to
	// turn contributor entropy into one secret per sub-ceremony.
	TauDerivationContext = "kzg-ceremony 2024 tau derivation v1"
)
