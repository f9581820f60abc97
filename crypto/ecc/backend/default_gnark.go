//go:build !blst

// Package backend selects the pairing engine at build time. The gnark-crypto
// engine is the default; building with -tags blst switches every caller to
// the blst engine.
package backend

import bls "github.com/vocdoni/kzg-ceremony/crypto/ecc/bls_gnark"

// Default is the engine this binary was built with.
type Default = bls.Engine
