// Copyright 2025 Certen Protocol

package tree

import (
	"sort"

	"github.com/claimchain/claimchain-core/pkg/objectstore"
)

// Tree is a verifiable map rooted at Root (nil means empty) and backed
// by store for both trie nodes and the entry blobs they point to.
type Tree struct {
	store *objectstore.Store
	root  []byte
}

// New wraps store as a Tree rooted at root (nil for an empty tree).
// It performs no I/O; the root is only consulted lazily by Get/Evidence.
func New(store *objectstore.Store, root []byte) *Tree {
	return &Tree{store: store, root: root}
}

// RootHash returns the tree's current root, or nil if it has no entries.
func (t *Tree) RootHash() []byte {
	return t.root
}

// Build inserts every (key, blob) pair in entries into store and
// returns the resulting Tree. Entries are added in an unspecified
// order; the resulting root hash is a pure function of the
// (key -> blob) set.
func Build(store *objectstore.Store, entries map[string][]byte) (*Tree, error) {
	if len(entries) == 0 {
		return &Tree{store: store, root: nil}, nil
	}

	built := make([]entry, 0, len(entries))
	for k, blob := range entries {
		valueHash, err := store.Put(blob)
		if err != nil {
			return nil, err
		}
		built = append(built, entry{key: []byte(k), valueHash: valueHash})
	}
	sort.Slice(built, func(i, j int) bool { return string(built[i].key) < string(built[j].key) })

	root, err := buildSubtree(store, built)
	if err != nil {
		return nil, err
	}
	return &Tree{store: store, root: root}, nil
}

// buildSubtree recursively builds a (possibly single-leaf) subtree over
// entries, which must already be sorted by key, and returns its hash.
func buildSubtree(store *objectstore.Store, entries []entry) ([]byte, error) {
	if len(entries) == 1 {
		n := node{kind: kindLeaf, key: entries[0].key, valueHash: entries[0].valueHash}
		h := hashNode(n)
		if err := store.PutAt(h, encodeNode(n)); err != nil {
			return nil, err
		}
		return h, nil
	}

	prefixLen := commonPrefixBits(entries[0].key, entries[len(entries)-1].key)
	for i := 0; i < len(entries)-1; i++ {
		if lcp := commonPrefixBits(entries[i].key, entries[i+1].key); lcp < prefixLen {
			prefixLen = lcp
		}
	}

	splitAt := len(entries)
	for i, e := range entries {
		if bitAt(e.key, prefixLen) == 1 {
			splitAt = i
			break
		}
	}
	left, right := entries[:splitAt], entries[splitAt:]

	var leftHash, rightHash []byte
	var err error
	if len(left) > 0 {
		leftHash, err = buildSubtree(store, left)
		if err != nil {
			return nil, err
		}
	}
	if len(right) > 0 {
		rightHash, err = buildSubtree(store, right)
		if err != nil {
			return nil, err
		}
	}

	n := node{
		kind:      kindBranch,
		prefixLen: prefixLen,
		repKey:    entries[0].key,
		leftHash:  leftHash,
		rightHash: rightHash,
	}
	h := hashNode(n)
	if err := store.PutAt(h, encodeNode(n)); err != nil {
		return nil, err
	}
	return h, nil
}

// Get returns the blob stored under key, or ErrKeyNotFound.
func (t *Tree) Get(key []byte) ([]byte, error) {
	valueHash, err := t.ValueHash(key)
	if err != nil {
		return nil, err
	}
	blob, err := t.store.GetRequired(valueHash)
	if err != nil {
		return nil, err
	}
	return blob, nil
}

// ValueHash returns the content address of the blob stored under key,
// without fetching the blob itself.
func (t *Tree) ValueHash(key []byte) ([]byte, error) {
	if t.root == nil {
		return nil, ErrKeyNotFound
	}
	return descend(t.store, t.root, key)
}

func descend(store *objectstore.Store, nodeHash, key []byte) ([]byte, error) {
	raw, err := store.GetRequired(nodeHash)
	if err != nil {
		return nil, ErrKeyNotFound
	}
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	switch n.kind {
	case kindLeaf:
		if bytesEqual(n.key, key) {
			return n.valueHash, nil
		}
		return nil, ErrKeyNotFound
	case kindBranch:
		if commonPrefixBits(key, n.repKey) < n.prefixLen {
			return nil, ErrKeyNotFound
		}
		var childHash []byte
		if bitAt(key, n.prefixLen) == 0 {
			childHash = n.leftHash
		} else {
			childHash = n.rightHash
		}
		if childHash == nil {
			return nil, ErrKeyNotFound
		}
		return descend(store, childHash, key)
	default:
		return nil, errMalformedNode
	}
}
