// Copyright 2025 Certen Protocol

package tree

import "errors"

// Sentinel errors for the verifiable map.
var (
	ErrEmptyTree     = errors.New("tree: empty tree has no root")
	ErrKeyNotFound   = errors.New("tree: key not found")
	ErrInvalidProof  = errors.New("tree: invalid proof")
	errMalformedNode = errors.New("tree: malformed node encoding")
)
