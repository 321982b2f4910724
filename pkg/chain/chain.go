// Copyright 2025 Certen Protocol
//
// Package chain implements the append-only, per-owner hash chain: a
// sequence of blocks, each content-addressed by a deterministic
// fingerprint over its own fields, stored in the same
// pkg/objectstore.Store the verifiable map uses for its nodes.
package chain

import (
	"crypto/sha256"

	"github.com/claimchain/claimchain-core/pkg/encoding"
	"github.com/claimchain/claimchain-core/pkg/objectstore"
)

// Block is one link in an owner's chain. Fingers carries back-pointers
// to earlier block fingerprints; a View only ever reads the latest
// block, so a single back-pointer to the previous fingerprint is
// enough to keep the chain traversable and is all MultiAdd writes.
// Aux carries
// the block's signature once Commit's pre-commit hook sets it; the
// signed digest is HashWithClearedAux, which leaves Aux out.
type Block struct {
	Items   [][]byte
	Index   uint64
	Fingers []string
	Aux     []byte
}

// Hash computes Block's deterministic fingerprint over Items, Index,
// Fingers, and Aux. Callers that need the
// signing/verification digest must clear Aux first; Hash itself takes
// the block exactly as given.
func (b *Block) Hash() []byte {
	fields := make([]encoding.Field, 0, len(b.Items)+len(b.Fingers)+2)
	for _, item := range b.Items {
		fields = append(fields, encoding.BytesField(item))
	}
	fields = append(fields, encoding.UintField(b.Index))
	for _, f := range b.Fingers {
		fields = append(fields, encoding.BytesField([]byte(f)))
	}
	fields = append(fields, encoding.BytesField(b.Aux))
	h := sha256.Sum256(encoding.EncodeTuple(fields...))
	return h[:]
}

// HashWithClearedAux returns Hash() as computed over a copy of b with
// Aux set to nil, the digest block signatures cover.
func (b *Block) HashWithClearedAux() []byte {
	clone := *b
	clone.Aux = nil
	return clone.Hash()
}

func encodeBlock(b *Block) []byte {
	fields := make([]encoding.Field, 0, len(b.Items)+len(b.Fingers)+3)
	fields = append(fields, encoding.UintField(uint64(len(b.Items))))
	for _, item := range b.Items {
		fields = append(fields, encoding.BytesField(item))
	}
	fields = append(fields, encoding.UintField(b.Index))
	fields = append(fields, encoding.UintField(uint64(len(b.Fingers))))
	for _, f := range b.Fingers {
		fields = append(fields, encoding.BytesField([]byte(f)))
	}
	fields = append(fields, encoding.BytesField(b.Aux))
	return encoding.EncodeTuple(fields...)
}

func decodeBlock(data []byte) (*Block, error) {
	fields, err := encoding.DecodeTuple(data)
	if err != nil {
		return nil, err
	}
	if len(fields) < 3 || !fields[0].IsUint() {
		return nil, errMalformedBlock
	}
	itemCount := int(fields[0].AsUint())
	pos := 1
	if itemCount < 0 || itemCount > len(fields) || len(fields) < pos+itemCount+2 {
		return nil, errMalformedBlock
	}
	items := make([][]byte, itemCount)
	for i := 0; i < itemCount; i++ {
		if fields[pos].IsUint() {
			return nil, errMalformedBlock
		}
		items[i] = fields[pos].AsBytes()
		pos++
	}
	if !fields[pos].IsUint() || !fields[pos+1].IsUint() {
		return nil, errMalformedBlock
	}
	index := fields[pos].AsUint()
	pos++
	fingerCount := int(fields[pos].AsUint())
	pos++
	if fingerCount < 0 || fingerCount > len(fields) || len(fields) < pos+fingerCount+1 {
		return nil, errMalformedBlock
	}
	fingers := make([]string, fingerCount)
	for i := 0; i < fingerCount; i++ {
		if fields[pos].IsUint() {
			return nil, errMalformedBlock
		}
		fingers[i] = string(fields[pos].AsBytes())
		pos++
	}
	if fields[pos].IsUint() {
		return nil, errMalformedBlock
	}
	aux := fields[pos].AsBytes()
	return &Block{Items: items, Index: index, Fingers: fingers, Aux: aux}, nil
}

// Chain is a per-owner append-only sequence of Blocks, content
// addressed in store by Block.Hash(). A nil head denotes an empty
// chain (no blocks appended yet).
type Chain struct {
	store *objectstore.Store
	head  []byte
}

// New constructs or reopens a chain over store at head (nil for a
// fresh chain).
func New(store *objectstore.Store, head []byte) *Chain {
	return &Chain{store: store, head: head}
}

// Head returns the fingerprint of the most recently appended block,
// or nil if the chain is empty.
func (c *Chain) Head() []byte {
	return c.head
}

// ObjectStore returns the content-addressed store backing this chain,
// letting a caller reuse it as a tree's backing store too.
func (c *Chain) ObjectStore() *objectstore.Store {
	return c.store
}

// Get returns the block stored under hash.
func (c *Chain) Get(hash []byte) (*Block, error) {
	raw, err := c.store.GetRequired(hash)
	if err != nil {
		return nil, err
	}
	return decodeBlock(raw)
}

// MultiAdd appends a new block whose Items equal items, invoking
// preCommit on the block exactly once before it is written to the
// store (preCommit may mutate Aux, e.g. to attach a signature). A
// preCommit error aborts the append: nothing is stored and the head
// does not move. After a successful return, Head() yields the new
// block's fingerprint.
func (c *Chain) MultiAdd(items [][]byte, preCommit func(*Block) error) ([]byte, error) {
	var index uint64
	var fingers []string
	if c.head != nil {
		prev, err := c.Get(c.head)
		if err != nil {
			return nil, err
		}
		index = prev.Index + 1
		fingers = []string{string(c.head)}
	}

	block := &Block{Items: items, Index: index, Fingers: fingers}
	if preCommit != nil {
		if err := preCommit(block); err != nil {
			return nil, err
		}
	}

	h := block.Hash()
	if err := c.store.PutAt(h, encodeBlock(block)); err != nil {
		return nil, err
	}
	c.head = h
	return h, nil
}
