// Copyright 2025 Certen Protocol
//
// Package tree implements the verifiable map backing each commit: a
// content-addressed, key-value Merkle trie supporting insertion,
// lookup, and inclusion/non-inclusion proofs. It is a binary radix
// trie over the key's bits (MSB first): branch nodes record where two
// keys first diverge, not a fixed bit depth, so a handful of 8-byte
// lookup keys produce a handful of nodes, not 64 levels.
//
// Every node (branch or leaf) is content-addressed in a
// pkg/objectstore.Store, which is what lets a View reconstruct the
// trie from nothing but a root hash and the chain's backing store.
package tree

import (
	"bytes"
	"crypto/sha256"

	"github.com/claimchain/claimchain-core/pkg/encoding"
)

type nodeKind byte

const (
	kindLeaf   nodeKind = 1
	kindBranch nodeKind = 2
)

// entry is a single (key, valueHash) pair to be inserted.
type entry struct {
	key       []byte
	valueHash []byte
}

// node is either a leaf (a concrete key/valueHash pair) or a branch
// (the point where the keys below it first disagree).
type node struct {
	kind nodeKind

	// leaf
	key       []byte
	valueHash []byte

	// branch
	prefixLen int    // bit length of the shared prefix, counted from bit 0
	repKey    []byte // any key below this branch; used to test a query key against the shared prefix
	leftHash  []byte // nil if absent
	rightHash []byte // nil if absent
}

func encodeNode(n node) []byte {
	switch n.kind {
	case kindLeaf:
		return encoding.EncodeTuple(
			encoding.UintField(uint64(kindLeaf)),
			encoding.BytesField(n.key),
			encoding.BytesField(n.valueHash),
		)
	case kindBranch:
		return encoding.EncodeTuple(
			encoding.UintField(uint64(kindBranch)),
			encoding.UintField(uint64(n.prefixLen)),
			encoding.BytesField(n.repKey),
			encoding.BytesField(childBytes(n.leftHash)),
			encoding.BytesField(childBytes(n.rightHash)),
		)
	default:
		panic("tree: unknown node kind")
	}
}

// childBytes encodes an optional child hash: empty slice means absent,
// a 32-byte slice means present. Hashes are never empty, so this is
// unambiguous.
func childBytes(h []byte) []byte {
	if h == nil {
		return nil
	}
	return h
}

func decodeNode(data []byte) (node, error) {
	fields, err := encoding.DecodeTuple(data)
	if err != nil {
		return node{}, err
	}
	if len(fields) == 0 || !fields[0].IsUint() {
		return node{}, errMalformedNode
	}
	switch nodeKind(fields[0].AsUint()) {
	case kindLeaf:
		if len(fields) != 3 || fields[1].IsUint() || fields[2].IsUint() {
			return node{}, errMalformedNode
		}
		return node{kind: kindLeaf, key: fields[1].AsBytes(), valueHash: fields[2].AsBytes()}, nil
	case kindBranch:
		if len(fields) != 5 || !fields[1].IsUint() || fields[2].IsUint() || fields[3].IsUint() || fields[4].IsUint() {
			return node{}, errMalformedNode
		}
		n := node{
			kind:      kindBranch,
			prefixLen: int(fields[1].AsUint()),
			repKey:    fields[2].AsBytes(),
		}
		if left := fields[3].AsBytes(); len(left) > 0 {
			n.leftHash = left
		}
		if right := fields[4].AsBytes(); len(right) > 0 {
			n.rightHash = right
		}
		return n, nil
	default:
		return node{}, errMalformedNode
	}
}

func hashNode(n node) []byte {
	h := sha256.Sum256(encodeNode(n))
	return h[:]
}

// bitAt returns the bit at absolute bit index i of key (MSB first: bit
// 0 is the top bit of byte 0), or 0 if i is past the end of key; keys
// in one trie all share the same length in every call site of this
// package (fixed-width lookup keys), so this only matters for
// defensive decoding of adversarial input.
func bitAt(key []byte, i int) int {
	byteIdx := i / 8
	if byteIdx >= len(key) {
		return 0
	}
	bitIdx := 7 - (i % 8)
	return int((key[byteIdx] >> uint(bitIdx)) & 1)
}

// commonPrefixBits returns the number of leading bits a and b agree on.
func commonPrefixBits(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	count := 0
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			count += 8
			continue
		}
		x := a[i] ^ b[i]
		for bit := 7; bit >= 0; bit-- {
			if (x>>uint(bit))&1 == 0 {
				count++
			} else {
				return count
			}
		}
	}
	return count
}

func bytesEqual(a, b []byte) bool {
	return bytes.Equal(a, b)
}
