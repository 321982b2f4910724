// Copyright 2025 Certen Protocol

package group

import "testing"

func TestScalarRoundTrip(t *testing.T) {
	s, err := RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	got := ScalarFromBytes(s.Bytes())
	if !got.Equal(s) {
		t.Fatal("scalar did not round-trip through Bytes/ScalarFromBytes")
	}
}

func TestElementRoundTrip(t *testing.T) {
	s, err := RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	e := Generator().Mul(s)
	got, err := ElementFromBytes(e.Bytes())
	if err != nil {
		t.Fatalf("ElementFromBytes: %v", err)
	}
	if !got.Equal(e) {
		t.Fatal("element did not round-trip through Bytes/ElementFromBytes")
	}
}

func TestElementFromBytesRejectsGarbage(t *testing.T) {
	if _, err := ElementFromBytes([]byte("not a point")); err == nil {
		t.Fatal("expected an error decoding garbage bytes as a point")
	}
}

func TestScalarArithmetic(t *testing.T) {
	a, _ := RandomScalar()
	b, _ := RandomScalar()

	sum := a.Add(b)
	back := sum.Sub(b)
	if !back.Equal(a) {
		t.Fatal("(a+b)-b != a")
	}

	prod := a.Mul(b)
	if !a.IsZero() && !b.IsZero() {
		recovered := prod.Mul(b.Inverse())
		if !recovered.Equal(a) {
			t.Fatal("(a*b)*b^-1 != a")
		}
	}
}

func TestHashToPointDeterministic(t *testing.T) {
	msg := []byte("claimchain test message")
	a := HashToPoint(msg)
	b := HashToPoint(msg)
	if !a.Equal(b) {
		t.Fatal("hash_to_point is not deterministic for the same message")
	}
	if HashToPoint([]byte("different message")).Equal(a) {
		t.Fatal("hash_to_point collided across distinct messages")
	}
	if a.IsInfinity() {
		t.Fatal("hash_to_point produced the identity element")
	}
}

func TestHashToScalarRange(t *testing.T) {
	s := HashToScalar([]byte("some data"))
	if s.BigInt().Cmp(Order()) >= 0 {
		t.Fatal("hash_to_scalar result is not reduced modulo the group order")
	}
}
