// Copyright 2025 Certen Protocol
//
// CometDB adapts a github.com/cometbft/cometbft-db database to the KV
// interface, letting an ObjectStore persist chains and trees on any
// dbm.DB backend instead of the bare in-memory MemDB.
package objectstore

import (
	dbm "github.com/cometbft/cometbft-db"
)

// CometDB wraps a dbm.DB as a KV.
type CometDB struct {
	db dbm.DB
}

// NewCometDB wraps db. Passing a *dbm.MemDB gives callers a drop-in
// replacement for MemDB backed by the same engine family a durable
// deployment would configure.
func NewCometDB(db dbm.DB) *CometDB {
	return &CometDB{db: db}
}

// Get implements KV. A missing key is reported as (nil, nil), matching
// MemDB's "absence is not an error" convention.
func (c *CometDB) Get(key []byte) ([]byte, error) {
	if c.db == nil {
		return nil, nil
	}
	v, err := c.db.Get(key)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Set implements KV, writing synchronously for durability.
func (c *CometDB) Set(key, value []byte) error {
	if c.db == nil {
		return nil
	}
	return c.db.SetSync(key, value)
}
