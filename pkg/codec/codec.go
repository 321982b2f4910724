// Copyright 2025 Certen Protocol
//
// Package codec implements the claim and capability wire encoding:
// a (label, content) pair becomes a VRF-derived lookup key plus an
// AEAD-encrypted blob, and a reader's Diffie-Hellman share becomes a
// second, capability-wrapping layer pointing back at the claim.
package codec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"

	"github.com/claimchain/claimchain-core/pkg/ccerrors"
	"github.com/claimchain/claimchain-core/pkg/encoding"
	"github.com/claimchain/claimchain-core/pkg/group"
	"github.com/claimchain/claimchain-core/pkg/params"
	"github.com/claimchain/claimchain-core/pkg/vrf"
)

// Domain-separation prefixes. These are part of the wire format;
// changing any byte breaks interoperability with existing chains.
const (
	prefixLabelSalt   = "lab_"
	prefixClaimLookup = "clm_lookup|"
	prefixClaimEnc    = "clm_enc|"
	prefixCapLookup   = "cap_lookup|"
	prefixCapEnc      = "cap_enc|"
)

var zeroIV = make([]byte, 16)

// SaltedLabel derives the VRF message for label under a commit nonce:
// "lab_"‖nonce‖"."‖label.
// Exported so callers computing a VRF message directly (the View owner
// shortcut) derive it identically to EncodeClaim/DecodeClaim.
func SaltedLabel(nonce []byte, label []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(prefixLabelSalt)
	buf.Write(nonce)
	buf.WriteByte('.')
	buf.Write(label)
	return buf.Bytes()
}

func truncatedHash(prefix string, parts ...[]byte) []byte {
	h := sha256.New()
	h.Write([]byte(prefix))
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

func aesGCMSeal(key, iv, plaintext []byte) (body, tag []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("codec: aes key: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(iv))
	if err != nil {
		return nil, nil, fmt.Errorf("codec: gcm: %w", err)
	}
	sealed := gcm.Seal(nil, iv, plaintext, nil)
	tagSize := gcm.Overhead()
	return sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:], nil
}

func aesGCMOpen(key, iv, body, tag []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("codec: aes key: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(iv))
	if err != nil {
		return nil, fmt.Errorf("codec: gcm: %w", err)
	}
	plaintext, err := gcm.Open(nil, iv, append(append([]byte{}, body...), tag...), nil)
	if err != nil {
		return nil, ccerrors.ErrCryptoFailure
	}
	return plaintext, nil
}

// EncodeClaim derives the VRF value and lookup key for label under
// nonce, and encrypts content
// alongside the VRF proof so that a holder of the VRF value (but not
// the owner's vrf.sk) can still verify it came from the owner.
func EncodeClaim(vrfSk group.Scalar, vrfPk group.Element, nonce []byte, label, content []byte) (vrfValue, lookupKey, encryptedClaim []byte, err error) {
	salted := SaltedLabel(nonce, label)
	container, err := vrf.Compute(vrfSk, vrfPk, salted)
	if err != nil {
		return nil, nil, nil, err
	}

	pp := params.Public()
	lookupKey = truncatedHash(prefixClaimLookup, container.Value)[:pp.LookupKeySize]
	encKey := truncatedHash(prefixClaimEnc, container.Value)[:pp.EncKeySize]

	plaintext := encoding.EncodeTuple(encoding.BytesField(container.Proof), encoding.BytesField(content))
	body, tag, err := aesGCMSeal(encKey, zeroIV, plaintext)
	if err != nil {
		return nil, nil, nil, err
	}
	encryptedClaim = encoding.EncodeTuple(encoding.BytesField(body), encoding.BytesField(tag))
	return container.Value, lookupKey, encryptedClaim, nil
}

// DecodeClaim decrypts an encoded claim, verifying the recovered VRF
// proof against ownerVrfPk and the recomputed salted
// label before returning content.
func DecodeClaim(ownerVrfPk group.Element, nonce, label, vrfValue, encryptedClaim []byte) ([]byte, error) {
	pp := params.Public()
	encKey := truncatedHash(prefixClaimEnc, vrfValue)[:pp.EncKeySize]

	envelope, err := encoding.DecodeBytesTuple(encryptedClaim, 2)
	if err != nil {
		return nil, fmt.Errorf("codec: decode claim envelope: %w", err)
	}
	plaintext, err := aesGCMOpen(encKey, zeroIV, envelope[0], envelope[1])
	if err != nil {
		return nil, err
	}

	inner, err := encoding.DecodeBytesTuple(plaintext, 2)
	if err != nil {
		return nil, fmt.Errorf("codec: decode claim plaintext: %w", err)
	}
	proof, content := inner[0], inner[1]

	salted := SaltedLabel(nonce, label)
	if !vrf.Verify(ownerVrfPk, vrf.Container{Value: vrfValue, Proof: proof}, salted) {
		return nil, ccerrors.ErrWrongVrfValue
	}
	return content, nil
}

// ClaimLookupKey recomputes the claim lookup key from a VRF value
// alone, the step both EncodeClaim and DecodeCapability need.
func ClaimLookupKey(vrfValue []byte) []byte {
	pp := params.Public()
	return truncatedHash(prefixClaimLookup, vrfValue)[:pp.LookupKeySize]
}

// dhSharedKey computes H(serialize(sk·otherPk)), the symmetric key two
// parties can both reach via ECDH commutativity: sk_a·pk_b == sk_b·pk_a.
func dhSharedKey(sk group.Scalar, otherPk group.Element) []byte {
	shared := otherPk.Mul(sk)
	h := sha256.Sum256(shared.Bytes())
	return h[:]
}

// CapabilityLookupKey derives the capability entry's lookup key,
// reachable by either party from their own dh.sk and the other's
// dh.pk.
func CapabilityLookupKey(sk group.Scalar, otherPk group.Element, nonce, label []byte) []byte {
	pp := params.Public()
	k := dhSharedKey(sk, otherPk)
	return truncatedHash(prefixCapLookup, nonce, k, label)[:pp.LookupKeySize]
}

// EncodeCapability wraps a VRF value for a specific reader, so that
// only that
// reader's dh.sk (paired with the owner's dh.pk) can recover it.
func EncodeCapability(ownerDhSk group.Scalar, readerDhPk group.Element, nonce, label, vrfValue []byte) (lookupKey, encryptedCapability []byte, err error) {
	pp := params.Public()
	k := dhSharedKey(ownerDhSk, readerDhPk)
	lookupKey = truncatedHash(prefixCapLookup, nonce, k, label)[:pp.LookupKeySize]
	encKey := truncatedHash(prefixCapEnc, nonce, k, label)[:pp.EncKeySize]

	body, tag, err := aesGCMSeal(encKey, zeroIV, vrfValue)
	if err != nil {
		return nil, nil, err
	}
	encryptedCapability = encoding.EncodeTuple(encoding.BytesField(body), encoding.BytesField(tag))
	return lookupKey, encryptedCapability, nil
}

// DecodeCapability unwraps a capability using the reader's own dh.sk
// and the owner's
// dh.pk, recovering the VRF value and the claim's lookup key.
func DecodeCapability(readerDhSk group.Scalar, ownerDhPk group.Element, nonce, label, encryptedCapability []byte) (vrfValue, claimLookupKey []byte, err error) {
	pp := params.Public()
	k := dhSharedKey(readerDhSk, ownerDhPk)
	encKey := truncatedHash(prefixCapEnc, nonce, k, label)[:pp.EncKeySize]

	envelope, err := encoding.DecodeBytesTuple(encryptedCapability, 2)
	if err != nil {
		return nil, nil, fmt.Errorf("codec: decode capability envelope: %w", err)
	}
	vrfValue, err = aesGCMOpen(encKey, zeroIV, envelope[0], envelope[1])
	if err != nil {
		return nil, nil, err
	}
	return vrfValue, ClaimLookupKey(vrfValue), nil
}
