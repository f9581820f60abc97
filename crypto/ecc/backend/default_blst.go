//go:build blst

package backend

import bls "github.com/vocdoni/kzg-ceremony/crypto/ecc/bls_blst"

// Default is the engine this binary was built with.
type Default = bls.Engine
