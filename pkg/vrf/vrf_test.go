// Copyright 2025 Certen Protocol

package vrf

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

func TestVrfCorrectness(t *testing.T) {
	sk, pk := genKeypair(t)
	message := []byte("lab_someNonce.somelabel")

	container, err := Compute(sk, pk, message)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !Verify(pk, container, message) {
		t.Fatal("verify_vrf rejected an honestly computed proof")
	}
}

func TestVrfValueDeterministic(t *testing.T) {
	sk, pk := genKeypair(t)
	message := []byte("fixed message")

	a, err := Compute(sk, pk, message)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	b, err := Compute(sk, pk, message)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if string(a.Value) != string(b.Value) {
		t.Fatal("vrf value is not deterministic for a fixed (sk, message)")
	}
	if string(a.Proof) == string(b.Proof) {
		t.Fatal("vrf proof should be randomized across evaluations (extremely unlikely collision)")
	}
}

func TestVrfSoundness(t *testing.T) {
	sk, pk := genKeypair(t)
	_, otherPk := genKeypair(t)
	message := []byte("the real message")

	container, err := Compute(sk, pk, message)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if Verify(otherPk, container, message) {
		t.Fatal("verify_vrf accepted a proof under the wrong public key")
	}
	if Verify(pk, container, []byte("a different message")) {
		t.Fatal("verify_vrf accepted a proof for a different message")
	}

	tamperedValue := Container{Value: append([]byte{}, container.Value...), Proof: container.Proof}
	tamperedValue.Value[0] ^= 0xff
	if Verify(pk, tamperedValue, message) {
		t.Fatal("verify_vrf accepted a tampered value")
	}

	tamperedProof := Container{Value: container.Value, Proof: append([]byte{}, container.Proof...)}
	tamperedProof.Proof[len(tamperedProof.Proof)-1] ^= 0xff
	if Verify(pk, tamperedProof, message) {
		t.Fatal("verify_vrf accepted a tampered proof")
	}
}

func TestVrfVerifyNeverPanicsOnGarbage(t *testing.T) {
	_, pk := genKeypair(t)
	garbage := Container{Value: []byte("not a point"), Proof: []byte("not a tuple")}
	if Verify(pk, garbage, []byte("anything")) {
		t.Fatal("verify_vrf accepted garbage input")
	}
}
