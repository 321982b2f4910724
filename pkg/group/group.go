// Copyright 2025 Certen Protocol
//
// Package group wraps the elliptic-curve group G used by every other
// claimchain package: VRF, ECDSA signing, and Diffie-Hellman key
// agreement all operate on the same prime-order subgroup so that a
// single key bundle (pkg/params.LocalParams) serves all three.
//
// The curve is bn254's G1 (github.com/consensys/gnark-crypto): a
// scalar field (fr.Element) and a group of matching prime order with a
// canonical compressed point encoding.
package group

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// ErrInvalidEncoding is returned when a Scalar or Element cannot be
// decoded from the supplied bytes.
var ErrInvalidEncoding = errors.New("group: invalid encoding")

// ScalarSize is the fixed big-endian encoding width of a Scalar.
const ScalarSize = fr.Bytes

// ElementSize is the fixed compressed encoding width of an Element.
const ElementSize = 32

var generator Element

func init() {
	_, _, g1Aff, _ := bn254.Generators()
	generator = Element{p: g1Aff}
}

// Generator returns g, the group's fixed generator.
func Generator() Element {
	return generator
}

// Order returns q, the prime order of the group (and of the scalar
// field every Scalar is reduced modulo).
func Order() *big.Int {
	m := fr.Modulus()
	return new(big.Int).Set(m)
}

// Scalar is an element of Z_q, big-endian encoded to ScalarSize bytes.
type Scalar struct {
	e fr.Element
}

// RandomScalar samples r uniformly in [0, q).
func RandomScalar() (Scalar, error) {
	var e fr.Element
	if _, err := e.SetRandom(); err != nil {
		return Scalar{}, err
	}
	return Scalar{e: e}, nil
}

// ScalarFromBigInt reduces i modulo q.
func ScalarFromBigInt(i *big.Int) Scalar {
	var e fr.Element
	e.SetBigInt(i)
	return Scalar{e: e}
}

// ScalarFromBytes decodes a big-endian scalar, reducing modulo q.
func ScalarFromBytes(b []byte) Scalar {
	var e fr.Element
	e.SetBytes(b)
	return Scalar{e: e}
}

// Bytes returns the canonical big-endian encoding of s.
func (s Scalar) Bytes() []byte {
	b := s.e.Bytes()
	return b[:]
}

// BigInt returns s as a non-negative big.Int less than q.
func (s Scalar) BigInt() *big.Int {
	var i big.Int
	s.e.BigInt(&i)
	return &i
}

// IsZero reports whether s is the additive identity.
func (s Scalar) IsZero() bool {
	return s.e.IsZero()
}

// Equal reports whether s and o represent the same residue mod q.
func (s Scalar) Equal(o Scalar) bool {
	return s.e.Equal(&o.e)
}

// Add returns s + o mod q.
func (s Scalar) Add(o Scalar) Scalar {
	var e fr.Element
	e.Add(&s.e, &o.e)
	return Scalar{e: e}
}

// Sub returns s - o mod q.
func (s Scalar) Sub(o Scalar) Scalar {
	var e fr.Element
	e.Sub(&s.e, &o.e)
	return Scalar{e: e}
}

// Mul returns s * o mod q.
func (s Scalar) Mul(o Scalar) Scalar {
	var e fr.Element
	e.Mul(&s.e, &o.e)
	return Scalar{e: e}
}

// Inverse returns s^-1 mod q. If s is zero it returns zero, matching
// fr.Element's own behavior; callers on the signing path must check
// IsZero first.
func (s Scalar) Inverse() Scalar {
	var e fr.Element
	e.Inverse(&s.e)
	return Scalar{e: e}
}

// Element is a point on G, canonically encoded to ElementSize bytes.
type Element struct {
	p bn254.G1Affine
}

// Mul returns s·e (scalar multiplication).
func (e Element) Mul(s Scalar) Element {
	var out bn254.G1Affine
	out.ScalarMultiplication(&e.p, s.BigInt())
	return Element{p: out}
}

// Add returns e + o, going through Jacobian coordinates for the
// addition itself.
func (e Element) Add(o Element) Element {
	var a, b bn254.G1Jac
	a.FromAffine(&e.p)
	b.FromAffine(&o.p)
	a.AddAssign(&b)
	var out bn254.G1Affine
	out.FromJacobian(&a)
	return Element{p: out}
}

// IsInfinity reports whether e is the group identity.
func (e Element) IsInfinity() bool {
	return e.p.IsInfinity()
}

// Equal reports whether e and o are the same point.
func (e Element) Equal(o Element) bool {
	return e.p.Equal(&o.p)
}

// Bytes returns e's compressed canonical encoding.
func (e Element) Bytes() []byte {
	b := e.p.Bytes()
	return b[:]
}

// ElementFromBytes decodes a compressed point previously produced by
// Bytes. It never panics on adversarial input.
func ElementFromBytes(b []byte) (Element, error) {
	var p bn254.G1Affine
	if _, err := p.SetBytes(b); err != nil {
		return Element{}, ErrInvalidEncoding
	}
	return Element{p: p}, nil
}

// XMod returns the element's affine X-coordinate reduced modulo q, the
// value ECDSA-style signatures over this curve compare the per-signature
// commitment against. Converting the base-field coordinate into a
// scalar-field residue this way is the standard technique for doing
// ECDSA on a curve whose base and scalar fields differ in size.
func (e Element) XMod(q *big.Int) Scalar {
	var xBig big.Int
	e.p.X.BigInt(&xBig)
	xBig.Mod(&xBig, q)
	return ScalarFromBigInt(&xBig)
}

// domainSeparatedHashToPoint maps bytes to a curve point by
// try-and-increment: repeatedly hash a counter alongside the message
// until the digest decodes to a curve point. It is deterministic in
// (domain, message) and never fails to terminate in practice (a digest
// decodes only when its flag bits mark a compressed point and its X
// lies on the curve, so roughly one attempt in four or five succeeds).
func domainSeparatedHashToPoint(domain string, message []byte) Element {
	base := sha256.New()
	base.Write([]byte(domain))
	base.Write(message)
	seed := base.Sum(nil)

	for counter := uint64(0); ; counter++ {
		h := sha256.New()
		h.Write(seed)
		var ctr [8]byte
		binary.BigEndian.PutUint64(ctr[:], counter)
		h.Write(ctr[:])
		digest := h.Sum(nil)

		var p bn254.G1Affine
		if _, err := p.SetBytes(digest); err == nil && !p.IsInfinity() {
			return Element{p: p}
		}
	}
}

// HashToPoint maps message to a group element. It is the hash_to_point
// primitive the VRF computes z = hash_to_point(message) from.
func HashToPoint(message []byte) Element {
	return domainSeparatedHashToPoint("claimchain|htp|", message)
}

// HashToScalar reduces a 512-bit digest of data modulo q: the SHA-512
// digest is interpreted as a big-endian integer, then taken mod the
// group order.
func HashToScalar(data []byte) Scalar {
	digest := sha512.Sum512(data)
	i := new(big.Int).SetBytes(digest[:])
	i.Mod(i, Order())
	return ScalarFromBigInt(i)
}
