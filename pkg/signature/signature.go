// Copyright 2025 Certen Protocol
//
// Package signature implements ECDSA sign/verify over the same bn254
// G1 group pkg/vrf uses, so a single LocalParams key bundle covers
// both. gnark-crypto supplies the field/point arithmetic; the ECDSA
// algorithm itself is composed from it directly, since crypto/ecdsa
// only accepts crypto/elliptic curves.
package signature

import (
	"crypto/sha256"

	"github.com/claimchain/claimchain-core/pkg/encoding"
	"github.com/claimchain/claimchain-core/pkg/group"
)

// Signature is the canonical ECDSA pair (r, s).
type Signature struct {
	R, S group.Scalar
}

// Bytes returns the canonical encoding of sig: the pair (r, s).
func (sig Signature) Bytes() []byte {
	return encoding.EncodeTuple(encoding.BytesField(sig.R.Bytes()), encoding.BytesField(sig.S.Bytes()))
}

// FromBytes decodes a signature previously produced by Bytes.
func FromBytes(b []byte) (Signature, error) {
	parts, err := encoding.DecodeBytesTuple(b, 2)
	if err != nil {
		return Signature{}, err
	}
	return Signature{
		R: group.ScalarFromBytes(parts[0]),
		S: group.ScalarFromBytes(parts[1]),
	}, nil
}

func digestScalar(message []byte) group.Scalar {
	d := sha256.Sum256(message)
	return group.HashToScalar(d[:])
}

// Sign produces an ECDSA signature over H(message) using sk. Signing
// and verification here run the same fixed sequence of field and
// group operations regardless of the secret scalar's value, which is
// as close to constant-time as gnark-crypto's exported arithmetic
// permits (it does not expose a side-channel-hardened scalar multiply).
func Sign(sk group.Scalar, message []byte) (Signature, error) {
	e := digestScalar(message)
	q := group.Order()
	g := group.Generator()

	for {
		k, err := group.RandomScalar()
		if err != nil {
			return Signature{}, err
		}
		if k.IsZero() {
			continue
		}
		R := g.Mul(k)
		r := R.XMod(q)
		if r.IsZero() {
			continue
		}
		kInv := k.Inverse()
		s := kInv.Mul(e.Add(r.Mul(sk)))
		if s.IsZero() {
			continue
		}
		return Signature{R: r, S: s}, nil
	}
}

// Verify checks sig against message under pk. It never panics on a
// malformed or adversarial signature; it returns false.
func Verify(pk group.Element, sig Signature, message []byte) bool {
	if sig.R.IsZero() || sig.S.IsZero() {
		return false
	}
	e := digestScalar(message)
	q := group.Order()
	g := group.Generator()

	w := sig.S.Inverse()
	u1 := e.Mul(w)
	u2 := sig.R.Mul(w)

	Rp := g.Mul(u1).Add(pk.Mul(u2))
	if Rp.IsInfinity() {
		return false
	}
	rp := Rp.XMod(q)
	return rp.Equal(sig.R)
}
