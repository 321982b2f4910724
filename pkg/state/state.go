// Copyright 2025 Certen Protocol
//
// Package state implements the owner side of a claimchain: buffering
// claims and reader capabilities, then atomically materializing them
// into a signed block on commit. Claims and grants accumulate in memory
// and are only bound to the chain and tree when Commit runs.
package state

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/claimchain/claimchain-core/pkg/ccerrors"
	"github.com/claimchain/claimchain-core/pkg/chain"
	"github.com/claimchain/claimchain-core/pkg/codec"
	"github.com/claimchain/claimchain-core/pkg/group"
	"github.com/claimchain/claimchain-core/pkg/objectstore"
	"github.com/claimchain/claimchain-core/pkg/params"
	"github.com/claimchain/claimchain-core/pkg/payload"
	"github.com/claimchain/claimchain-core/pkg/signature"
	"github.com/claimchain/claimchain-core/pkg/tree"
)

// SkippedGrant names a (reader, label) pair commit could not satisfy
// because label was not present in the claim buffer at commit time.
type SkippedGrant struct {
	ReaderDhPk []byte
	Label      string
}

// CommitResult is what Commit returns on success.
type CommitResult struct {
	NewHead []byte
	Skipped []SkippedGrant
}

// cachedCommit is the material State retains after a successful commit,
// enough to answer ComputeEvidenceKeys without re-encoding any claim
// or rebuilding the tree.
type cachedCommit struct {
	payload         payload.Payload
	tree            *tree.Tree
	treeStore       *objectstore.Store
	vrfValueByLabel map[string][]byte
	nonce           []byte
}

// State accumulates one owner's pending claims and capability grants
// between commits. It is not safe for concurrent mutation.
type State struct {
	identityInfo []byte

	claims       map[string][]byte           // label -> content
	capabilities map[string]readerGrant      // dh_pk bytes (as string) -> grant

	cache *cachedCommit
}

type readerGrant struct {
	readerPk group.Element
	labels   map[string]struct{}
}

// New returns an empty State. identityInfo is carried verbatim into
// every committed Payload.
func New(identityInfo []byte) *State {
	return &State{
		identityInfo: identityInfo,
		claims:       make(map[string][]byte),
		capabilities: make(map[string]readerGrant),
	}
}

// SetIdentityInfo replaces the free-text identity binding carried into
// every future committed Payload (e.g. "Hi, I'm <dh_pk>").
func (s *State) SetIdentityInfo(identityInfo []byte) {
	s.identityInfo = identityInfo
}

// SetClaim buffers content under label, overwriting any previously
// buffered value for the same label (last write wins).
func (s *State) SetClaim(label string, content []byte) {
	s.claims[label] = content
}

// GetClaim returns the currently buffered content for label, if any.
func (s *State) GetClaim(label string) ([]byte, bool) {
	c, ok := s.claims[label]
	return c, ok
}

// GrantAccess unions labels into reader's capability set.
func (s *State) GrantAccess(readerDhPk group.Element, labels []string) {
	key := string(readerDhPk.Bytes())
	g, ok := s.capabilities[key]
	if !ok {
		g = readerGrant{readerPk: readerDhPk, labels: make(map[string]struct{})}
	}
	for _, l := range labels {
		g.labels[l] = struct{}{}
	}
	s.capabilities[key] = g
}

// RevokeAccess removes labels from reader's capability set. Revocation
// only affects future commits; a reader holding a capability from a
// prior block can still decrypt it.
func (s *State) RevokeAccess(readerDhPk group.Element, labels []string) {
	key := string(readerDhPk.Bytes())
	g, ok := s.capabilities[key]
	if !ok {
		return
	}
	for _, l := range labels {
		delete(g.labels, l)
	}
	s.capabilities[key] = g
}

// GetCapabilities lists labels currently granted to reader.
func (s *State) GetCapabilities(readerDhPk group.Element) []string {
	g, ok := s.capabilities[string(readerDhPk.Bytes())]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g.labels))
	for l := range g.labels {
		out = append(out, l)
	}
	return out
}

// Clear resets all buffers and the commit cache.
func (s *State) Clear() {
	s.claims = make(map[string][]byte)
	s.capabilities = make(map[string]readerGrant)
	s.cache = nil
}

// Commit materializes the current buffers into a new signed block
// appended to targetChain. It uses params.Active() for the owner's
// keys and nonce as the commit salt, sampling 16 fresh random bytes if
// nonce is nil. treeStore backs the verifiable map; if nil,
// targetChain's own store is reused.
func (s *State) Commit(targetChain *chain.Chain, treeStore *objectstore.Store, nonce []byte) (CommitResult, error) {
	lp := params.Active()
	if !lp.Vrf.HasSk() || !lp.Sig.HasSk() || !lp.Dh.HasSk() {
		return CommitResult{}, fmt.Errorf("state: commit requires a full private LocalParams: %w", ccerrors.ErrInvalidArgument)
	}

	if nonce == nil {
		n, err := randomNonce()
		if err != nil {
			return CommitResult{}, err
		}
		nonce = n
	}

	entries := make(map[string][]byte)
	vrfValueByLabel := make(map[string][]byte, len(s.claims))

	for label, content := range s.claims {
		vrfValue, lookupKey, encryptedClaim, err := codec.EncodeClaim(lp.Vrf.Sk, lp.Vrf.Pk, nonce, []byte(label), content)
		if err != nil {
			return CommitResult{}, fmt.Errorf("state: encode claim %q: %w", label, err)
		}
		entries[string(lookupKey)] = encryptedClaim
		vrfValueByLabel[label] = vrfValue
	}

	var skipped []SkippedGrant
	for _, grant := range s.capabilities {
		for label := range grant.labels {
			vrfValue, ok := vrfValueByLabel[label]
			if !ok {
				skipped = append(skipped, SkippedGrant{ReaderDhPk: grant.readerPk.Bytes(), Label: label})
				continue
			}
			lookupKey, encryptedCapability, err := codec.EncodeCapability(lp.Dh.Sk, grant.readerPk, nonce, []byte(label), vrfValue)
			if err != nil {
				return CommitResult{}, fmt.Errorf("state: encode capability %q: %w", label, err)
			}
			entries[string(lookupKey)] = encryptedCapability
		}
	}

	store := treeStore
	if store == nil {
		store = targetChain.ObjectStore()
	}
	t, err := tree.Build(store, entries)
	if err != nil {
		return CommitResult{}, fmt.Errorf("state: build tree: %w", err)
	}

	pl := payload.Payload{
		MtrHash:      t.RootHash(),
		Params:       lp.PublicExport(),
		IdentityInfo: s.identityInfo,
		Nonce:        nonce,
		Timestamp:    time.Now().Unix(),
		Version:      payload.ProtocolVersion,
	}

	newHead, err := targetChain.MultiAdd([][]byte{payload.Encode(pl)}, func(b *chain.Block) error {
		digest := b.HashWithClearedAux()
		sig, signErr := signature.Sign(lp.Sig.Sk, digest)
		if signErr != nil {
			return fmt.Errorf("state: sign block: %w", signErr)
		}
		b.Aux = sig.Bytes()
		return nil
	})
	if err != nil {
		return CommitResult{}, fmt.Errorf("state: append block: %w", err)
	}

	s.cache = &cachedCommit{
		payload:         pl,
		tree:            t,
		treeStore:       store,
		vrfValueByLabel: vrfValueByLabel,
		nonce:           nonce,
	}

	return CommitResult{NewHead: newHead, Skipped: skipped}, nil
}

// ComputeEvidenceKeys returns the union of object-store keys needed to
// prove inclusion of both the capability entry for (reader, label) and
// the claim entry for label. It runs as the owner (the active
// LocalParams supplies the owner's dh.sk; the reader side of the
// shared secret comes from readerDhPk) and only consults the most
// recent commit's cache.
func (s *State) ComputeEvidenceKeys(readerDhPk group.Element, label string) ([][]byte, error) {
	if s.cache == nil {
		return nil, fmt.Errorf("state: no committed cache: %w", ccerrors.ErrInvalidArgument)
	}
	lp := params.Active()
	if !lp.Dh.HasSk() {
		return nil, fmt.Errorf("state: evidence keys require the owner's dh keypair: %w", ccerrors.ErrInvalidArgument)
	}

	vrfValue, ok := s.cache.vrfValueByLabel[label]
	if !ok {
		return nil, fmt.Errorf("state: label %q not in last commit: %w", label, ccerrors.ErrClaimMissing)
	}
	claimLookupKey := codec.ClaimLookupKey(vrfValue)
	capLookupKey := codec.CapabilityLookupKey(lp.Dh.Sk, readerDhPk, s.cache.nonce, []byte(label))

	var keys [][]byte
	seen := make(map[string]struct{})
	add := func(k []byte) {
		sk := string(k)
		if _, dup := seen[sk]; dup {
			return
		}
		seen[sk] = struct{}{}
		keys = append(keys, k)
	}

	for _, lookupKey := range [][]byte{claimLookupKey, capLookupKey} {
		_, path, err := s.cache.tree.Evidence(lookupKey)
		if err != nil {
			return nil, err
		}
		for _, step := range path {
			add(step.NodeHash())
		}

		if valueHash, err := s.cache.tree.ValueHash(lookupKey); err == nil {
			add(valueHash)
		}
	}

	return keys, nil
}

func randomNonce() ([]byte, error) {
	nonce := make([]byte, params.Public().NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("state: sample nonce: %w", err)
	}
	return nonce, nil
}

