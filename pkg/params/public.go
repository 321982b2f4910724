// Copyright 2025 Certen Protocol
//
// Package params holds the process-wide cryptographic configuration
// (PublicParams) and the per-owner key bundle (LocalParams), both
// reachable through a scoped default the rest of the core consults
// without needing the caller to thread a context value through every
// function. A sync.Mutex-guarded stack stands in for a dynamically
// scoped variable: activation is not meant to be shared across
// goroutines, only nested within one call stack.
package params

import "sync"

// PublicParams is the fixed cryptographic configuration shared by every
// owner and reader in a deployment. There is one process-wide value:
// Public() returns it, and only SetPublic replaces it.
type PublicParams struct {
	// HashSize is the digest width (bytes) of the hash function H used
	// throughout the codec (clm_lookup, clm_enc, cap_lookup, cap_enc).
	HashSize int
	// EncKeySize is the AES-128-GCM key size in bytes.
	EncKeySize int
	// LookupKeySize is the width (bytes) of tree lookup keys.
	LookupKeySize int
	// NonceSize is the width (bytes) of the per-commit nonce.
	NonceSize int
}

// DefaultPublicParams is the fixed protocol configuration: AES-128-GCM
// with 16-byte keys, 8-byte lookup keys, 16-byte commit nonces, and a
// 256-bit hash function.
func DefaultPublicParams() PublicParams {
	return PublicParams{
		HashSize:      32,
		EncKeySize:    16,
		LookupKeySize: 8,
		NonceSize:     16,
	}
}

var (
	publicMu      sync.Mutex
	publicDefault = DefaultPublicParams()
)

// Public returns the active process-wide PublicParams.
func Public() PublicParams {
	publicMu.Lock()
	defer publicMu.Unlock()
	return publicDefault
}

// SetPublic replaces the process-wide default. Tests that need
// non-standard sizes call this instead of threading params explicitly;
// production code should never need to.
func SetPublic(p PublicParams) {
	publicMu.Lock()
	defer publicMu.Unlock()
	publicDefault = p
}
