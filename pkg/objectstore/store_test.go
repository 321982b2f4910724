// Copyright 2025 Certen Protocol

package objectstore

import (
	"bytes"
	"testing"

	dbm "github.com/cometbft/cometbft-db"
)

func TestPutKeysByHash(t *testing.T) {
	s := New(NewMemDB())
	blob := []byte("hello claimchain")
	key, err := s.Put(blob)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !bytes.Equal(key, Hash(blob)) {
		t.Fatal("Put must key a blob by H(blob)")
	}
	got, err := s.GetRequired(key)
	if err != nil {
		t.Fatalf("GetRequired: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Fatal("GetRequired returned a different blob than was Put")
	}
}

func TestGetRequiredFailsOnMissingKey(t *testing.T) {
	s := New(NewMemDB())
	if _, err := s.GetRequired([]byte("nope")); err == nil {
		t.Fatal("GetRequired should fail on an absent key")
	}
}

func TestGetReturnsNilOnMissingKey(t *testing.T) {
	s := New(NewMemDB())
	v, err := s.Get([]byte("nope"))
	if err != nil {
		t.Fatalf("Get on a missing key should not error: %v", err)
	}
	if v != nil {
		t.Fatal("Get on a missing key should return nil")
	}
}

func TestPutAtStoresUnderExplicitKey(t *testing.T) {
	s := New(NewMemDB())
	key := []byte("explicit-key")
	blob := []byte("arbitrary content, not H(blob)-addressed here")
	if err := s.PutAt(key, blob); err != nil {
		t.Fatalf("PutAt: %v", err)
	}
	got, err := s.GetRequired(key)
	if err != nil {
		t.Fatalf("GetRequired: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Fatal("PutAt/GetRequired round-trip mismatch")
	}
}

func TestCometDBBackedStoreRoundTrip(t *testing.T) {
	s := New(NewCometDB(dbm.NewMemDB()))

	blob := []byte("persisted through the cometbft-db adapter")
	key, err := s.Put(blob)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.GetRequired(key)
	if err != nil {
		t.Fatalf("GetRequired: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Fatal("blob did not round-trip through the cometbft-db backend")
	}

	v, err := s.Get([]byte("missing"))
	if err != nil {
		t.Fatalf("Get on a missing key should not error: %v", err)
	}
	if v != nil {
		t.Fatal("missing key should report (nil, nil) like MemDB does")
	}
}

func TestMemDBCopiesOnSetAndGet(t *testing.T) {
	db := NewMemDB()
	value := []byte("mutable")
	if err := db.Set([]byte("k"), value); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value[0] = 'X'

	got, err := db.Get([]byte("k"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "mutable" {
		t.Fatal("MemDB.Set should copy its input so later caller mutation can't corrupt stored state")
	}
	got[0] = 'Y'
	got2, _ := db.Get([]byte("k"))
	if string(got2) != "mutable" {
		t.Fatal("MemDB.Get should copy its output so caller mutation can't corrupt stored state")
	}
}
