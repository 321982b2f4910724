// Copyright 2025 Certen Protocol
//
// Package objectstore provides the content-addressed blob store that
// backs both pkg/tree (trie nodes and encrypted entries) and pkg/chain
// (blocks keyed by their own fingerprint). The KV interface is Get/Set
// by raw key, with no assumptions about what a key "means", so a chain
// and a tree can share one backing store without colliding.
package objectstore

import (
	"crypto/sha256"
	"errors"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("objectstore: not found")

// KV is the minimal backing store every Store wraps. A real deployment
// supplies one backed by durable storage (see MemDB and the
// cometbft-db adapter in pkg/objectstore/cometdb.go); tests use the
// in-memory implementation directly.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
}

// MemDB is a trivial in-memory KV, used by tests and by
// cmd/claimchaindemo. It returns (nil, nil) for a missing key;
// absence is not an error at the KV layer.
type MemDB struct {
	data map[string][]byte
}

// NewMemDB creates an empty in-memory KV store.
func NewMemDB() *MemDB {
	return &MemDB{data: make(map[string][]byte)}
}

// Get implements KV.
func (m *MemDB) Get(key []byte) ([]byte, error) {
	v, ok := m.data[string(key)]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

// Set implements KV.
func (m *MemDB) Set(key, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[string(key)] = cp
	return nil
}

// Store layers content-addressing on top of a KV: Put derives the key
// from H(blob), while PutAt lets
// callers that already have an externally meaningful key (block
// fingerprints, trie node hashes they computed themselves) write
// directly.
type Store struct {
	kv KV
}

// New wraps kv as a content-addressed Store.
func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Hash returns H(blob), the canonical key a blob is stored under.
func Hash(blob []byte) []byte {
	h := sha256.Sum256(blob)
	return h[:]
}

// Put stores blob under H(blob) and returns that key.
func (s *Store) Put(blob []byte) ([]byte, error) {
	key := Hash(blob)
	if err := s.kv.Set(key, blob); err != nil {
		return nil, err
	}
	return key, nil
}

// PutAt stores blob under an explicit key (used by pkg/chain, whose
// blocks are keyed by their own Hash() rather than H(serialized block);
// the two differ, since the stored serialization also records item and
// finger counts).
func (s *Store) PutAt(key, blob []byte) error {
	return s.kv.Set(key, blob)
}

// Get fetches the blob stored under key. A missing key is not an
// error at this layer (mirrors KV); callers that need ErrNotFound
// semantics use GetRequired.
func (s *Store) Get(key []byte) ([]byte, error) {
	return s.kv.Get(key)
}

// GetRequired fetches key, returning ErrNotFound if absent.
func (s *Store) GetRequired(key []byte) ([]byte, error) {
	v, err := s.kv.Get(key)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotFound
	}
	return v, nil
}
