// Copyright 2025 Certen Protocol
//
// Package vrf implements the deterministic, publicly verifiable
// pseudorandom function claimchain owners use to derive per-label
// lookup keys and encryption keys without revealing the label to
// anyone but a capability holder. It is a Chaum-Pedersen proof of
// discrete-log equality bound to the owner's VRF key and a message,
// composed from pkg/group's scalar/point arithmetic.
package vrf

import (
	"github.com/claimchain/claimchain-core/pkg/encoding"
	"github.com/claimchain/claimchain-core/pkg/group"
)

// Container is the public output of a VRF evaluation: the value h and
// a proof that h was computed honestly under the claimed public key.
type Container struct {
	// Value is the canonical encoding of h = sk·hash_to_point(message).
	Value []byte
	// Proof is the canonical encoding of the Chaum-Pedersen pair (c, s).
	Proof []byte
}

// Compute evaluates the VRF for message under (sk, pk):
//
//  1. z = hash_to_point(message)
//  2. h = sk·z
//  3. r random in [0, q)
//  4. R = r·g, H_r = r·z
//  5. c = hash_to_scalar(canonical_encode(g, z, pk, h, R, H_r))
//  6. s = r - c·sk mod q
func Compute(sk group.Scalar, pk group.Element, message []byte) (Container, error) {
	z := group.HashToPoint(message)
	h := z.Mul(sk)

	r, err := group.RandomScalar()
	if err != nil {
		return Container{}, err
	}
	g := group.Generator()
	R := g.Mul(r)
	Hr := z.Mul(r)

	c := challenge(g, z, pk, h, R, Hr)
	s := r.Sub(c.Mul(sk))

	return Container{
		Value: h.Bytes(),
		Proof: encoding.EncodeTuple(encoding.BytesField(c.Bytes()), encoding.BytesField(s.Bytes())),
	}, nil
}

// Verify checks that container is a valid VRF evaluation of message
// under pk. It never panics: malformed
// encodings or invalid points simply make it return false.
func Verify(pk group.Element, container Container, message []byte) bool {
	h, err := group.ElementFromBytes(container.Value)
	if err != nil {
		return false
	}
	parts, err := encoding.DecodeBytesTuple(container.Proof, 2)
	if err != nil {
		return false
	}
	c := group.ScalarFromBytes(parts[0])
	s := group.ScalarFromBytes(parts[1])

	z := group.HashToPoint(message)
	g := group.Generator()

	// R' = s·g + c·pk ; H_r' = s·z + c·h
	Rp := g.Mul(s).Add(pk.Mul(c))
	Hrp := z.Mul(s).Add(h.Mul(c))

	cp := challenge(g, z, pk, h, Rp, Hrp)
	return cp.Equal(c)
}

// challenge computes c = hash_to_scalar(canonical_encode(g, z, pk, h, R, H_r)).
func challenge(g, z, pk, h, R, Hr group.Element) group.Scalar {
	packed := encoding.EncodeTuple(
		encoding.BytesField(g.Bytes()),
		encoding.BytesField(z.Bytes()),
		encoding.BytesField(pk.Bytes()),
		encoding.BytesField(h.Bytes()),
		encoding.BytesField(R.Bytes()),
		encoding.BytesField(Hr.Bytes()),
	)
	return group.HashToScalar(packed)
}
