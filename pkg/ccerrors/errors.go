// Copyright 2025 Certen Protocol
//
// Package ccerrors holds the sentinel errors shared across the claimchain
// core. Package-local failures (malformed proof encodings, empty trees,
// and the like) stay defined next to the code that raises them; this
// package is only for the cross-cutting kinds a caller needs to branch
// on regardless of which component raised them.
package ccerrors

import "errors"

// Sentinel errors for claimchain core operations.
var (
	// ErrInvalidArgument flags an unrecognized mode or malformed input.
	ErrInvalidArgument = errors.New("claimchain: invalid argument")

	// ErrNotFoundOrUnauthorized is returned when a label lookup misses:
	// either the capability entry is absent, or the reader was never
	// granted access. The two are indistinguishable on-chain by design.
	ErrNotFoundOrUnauthorized = errors.New("claimchain: not found or unauthorized")

	// ErrClaimMissing is returned when a capability resolves but the
	// claim entry it points to is absent from the tree.
	ErrClaimMissing = errors.New("claimchain: claim missing but authorized")

	// ErrWrongVrfValue is returned when a decoded VRF proof fails to
	// verify against the claim label and owner VRF public key.
	ErrWrongVrfValue = errors.New("claimchain: wrong vrf value")

	// ErrInvalidSignature is returned when a block signature does not
	// verify against the owner's signing public key.
	ErrInvalidSignature = errors.New("claimchain: invalid signature")

	// ErrNoClaimMap is returned when a View has no tree because the
	// latest payload's mtr_hash was null (its commit carried no entries).
	ErrNoClaimMap = errors.New("claimchain: no claim map")

	// ErrCryptoFailure covers AEAD tag mismatches, point decoding
	// failures, and scalars out of range.
	ErrCryptoFailure = errors.New("claimchain: crypto failure")
)
