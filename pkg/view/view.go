// Copyright 2025 Certen Protocol
//
// Package view implements the reader side of a claimchain: given a
// chain head, reconstruct the owner's public parameters, verify the
// latest block's signature, and resolve a label to content either as
// the owner (a shortcut that needs no capability) or as a granted
// reader (capability lookup, then claim lookup).
package view

import (
	"errors"
	"fmt"

	"github.com/claimchain/claimchain-core/pkg/ccerrors"
	"github.com/claimchain/claimchain-core/pkg/chain"
	"github.com/claimchain/claimchain-core/pkg/codec"
	"github.com/claimchain/claimchain-core/pkg/params"
	"github.com/claimchain/claimchain-core/pkg/payload"
	"github.com/claimchain/claimchain-core/pkg/signature"
	"github.com/claimchain/claimchain-core/pkg/tree"
	"github.com/claimchain/claimchain-core/pkg/vrf"
)

// View reconstructs a read-only snapshot of an owner's chain as of its
// current head.
type View struct {
	sourceChain *chain.Chain
	latest      *chain.Block
	pl          payload.Payload
	ownerParams params.LocalParams // public halves only
	tree        *tree.Tree         // nil if pl.MtrHash is nil
}

// New builds a View over sourceChain's current head. sourceTree, if
// non-nil and rooted at the latest payload's mtr_hash, is reused
// instead of reconstructing a fresh Tree over the chain's own store.
func New(sourceChain *chain.Chain, sourceTree *tree.Tree) (*View, error) {
	head := sourceChain.Head()
	if head == nil {
		return nil, fmt.Errorf("view: chain has no blocks: %w", ccerrors.ErrInvalidArgument)
	}
	block, err := sourceChain.Get(head)
	if err != nil {
		return nil, fmt.Errorf("view: load latest block: %w", err)
	}
	if len(block.Items) == 0 {
		return nil, fmt.Errorf("view: block carries no payload: %w", ccerrors.ErrInvalidArgument)
	}
	pl, err := payload.Decode(block.Items[0])
	if err != nil {
		return nil, fmt.Errorf("view: decode payload: %w", err)
	}
	ownerParams, err := params.FromDict(pl.Params)
	if err != nil {
		return nil, fmt.Errorf("view: decode owner params: %w", err)
	}

	t := sourceTree
	if pl.MtrHash == nil {
		t = nil
	} else if t == nil || !bytesEqual(t.RootHash(), pl.MtrHash) {
		t = tree.New(sourceChain.ObjectStore(), pl.MtrHash)
	}

	return &View{
		sourceChain: sourceChain,
		latest:      block,
		pl:          pl,
		ownerParams: ownerParams,
		tree:        t,
	}, nil
}

// Head returns the source chain's current head. The View's payload and
// tree stay those of the block that was the head when New ran.
func (v *View) Head() []byte {
	return v.sourceChain.Head()
}

// IdentityInfo returns the owner-supplied free-text identity binding
// from the latest payload's metadata, or nil if the owner never set one.
func (v *View) IdentityInfo() []byte {
	return v.pl.IdentityInfo
}

// Validate verifies the latest block's signature against the owner's
// sig public key, backing up and clearing Aux the same way the block
// was hashed for signing.
func (v *View) Validate() error {
	sig, err := signature.FromBytes(v.latest.Aux)
	if err != nil {
		return fmt.Errorf("view: decode signature: %w", ccerrors.ErrInvalidSignature)
	}
	digest := v.latest.HashWithClearedAux()
	if !signature.Verify(v.ownerParams.Sig.Pk, sig, digest) {
		return ccerrors.ErrInvalidSignature
	}
	return nil
}

// Lookup resolves label to its committed content, returning the full
// set of failure kinds a caller may need to
// distinguish (NotFoundOrUnauthorized, NoClaimMap, ClaimMissing,
// WrongVrfValue).
func (v *View) Lookup(label string) ([]byte, error) {
	active := params.Active()

	if active.Vrf.Pk.Equal(v.ownerParams.Vrf.Pk) {
		return v.lookupAsOwner(active, label)
	}
	return v.lookupAsReader(active, label)
}

func (v *View) lookupAsOwner(active params.LocalParams, label string) ([]byte, error) {
	salted := codec.SaltedLabel(v.pl.Nonce, []byte(label))
	container, err := vrf.Compute(active.Vrf.Sk, active.Vrf.Pk, salted)
	if err != nil {
		return nil, fmt.Errorf("view: owner vrf compute: %w", err)
	}
	lookupKey := codec.ClaimLookupKey(container.Value)

	if v.tree == nil {
		return nil, ccerrors.ErrNoClaimMap
	}
	encryptedClaim, err := v.tree.Get(lookupKey)
	if err != nil {
		if errors.Is(err, tree.ErrKeyNotFound) {
			return nil, ccerrors.ErrNotFoundOrUnauthorized
		}
		return nil, err
	}
	return codec.DecodeClaim(v.ownerParams.Vrf.Pk, v.pl.Nonce, []byte(label), container.Value, encryptedClaim)
}

func (v *View) lookupAsReader(active params.LocalParams, label string) ([]byte, error) {
	if v.tree == nil {
		return nil, ccerrors.ErrNoClaimMap
	}

	capLookupKey := codec.CapabilityLookupKey(active.Dh.Sk, v.ownerParams.Dh.Pk, v.pl.Nonce, []byte(label))
	encryptedCapability, err := v.tree.Get(capLookupKey)
	if err != nil {
		if errors.Is(err, tree.ErrKeyNotFound) {
			return nil, ccerrors.ErrNotFoundOrUnauthorized
		}
		return nil, err
	}

	vrfValue, claimLookupKey, err := codec.DecodeCapability(active.Dh.Sk, v.ownerParams.Dh.Pk, v.pl.Nonce, []byte(label), encryptedCapability)
	if err != nil {
		return nil, err
	}

	encryptedClaim, err := v.tree.Get(claimLookupKey)
	if err != nil {
		if errors.Is(err, tree.ErrKeyNotFound) {
			return nil, ccerrors.ErrClaimMissing
		}
		return nil, err
	}

	return codec.DecodeClaim(v.ownerParams.Vrf.Pk, v.pl.Nonce, []byte(label), vrfValue, encryptedClaim)
}

// Get is the safe form of Lookup: a missing or
// unauthorized label (or an absent claim map) comes back as (nil,
// false, nil); every other failure (a capability whose claim entry is
// gone, a wrong VRF value, a crypto failure) is surfaced as an error
// so a caller cannot mistake a broken or inconsistent commit for a
// merely absent label.
func (v *View) Get(label string) ([]byte, bool, error) {
	content, err := v.Lookup(label)
	if err == nil {
		return content, true, nil
	}
	switch {
	case errors.Is(err, ccerrors.ErrNotFoundOrUnauthorized),
		errors.Is(err, ccerrors.ErrNoClaimMap):
		return nil, false, nil
	default:
		return nil, false, err
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
