// Copyright 2025 Certen Protocol

package signature

import (
	"testing"

	"github.com/claimchain/claimchain-core/pkg/group"
)

func genKeypair(t *testing.T) (group.Scalar, group.Element) {
	t.Helper()
	sk, err := group.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	return sk, group.Generator().Mul(sk)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	sk, pk := genKeypair(t)
	message := []byte("a block fingerprint, roughly")

	sig, err := Sign(sk, message)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !Verify(pk, sig, message) {
		t.Fatal("Verify rejected a genuine signature")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	sk, _ := genKeypair(t)
	_, otherPk := genKeypair(t)
	message := []byte("message")

	sig, err := Sign(sk, message)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if Verify(otherPk, sig, message) {
		t.Fatal("Verify accepted a signature under the wrong public key")
	}
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	sk, pk := genKeypair(t)
	sig, err := Sign(sk, []byte("original"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if Verify(pk, sig, []byte("tampered")) {
		t.Fatal("Verify accepted a signature over a different message")
	}
}

func TestVerifyRejectsMutatedSignature(t *testing.T) {
	sk, pk := genKeypair(t)
	message := []byte("message")
	sig, err := Sign(sk, message)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	sig.S = sig.S.Add(group.HashToScalar([]byte("perturb")))
	if Verify(pk, sig, message) {
		t.Fatal("Verify accepted a mutated signature")
	}
}

func TestSignatureBytesRoundTrip(t *testing.T) {
	sk, _ := genKeypair(t)
	sig, err := Sign(sk, []byte("msg"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	decoded, err := FromBytes(sig.Bytes())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if !decoded.R.Equal(sig.R) || !decoded.S.Equal(sig.S) {
		t.Fatal("signature did not round-trip through Bytes/FromBytes")
	}
}
