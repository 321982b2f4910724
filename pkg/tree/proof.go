// Copyright 2025 Certen Protocol

package tree

// ProofStep is one node on the path from the tree's root down to the
// leaf (or point of divergence) for a particular key. A full Merkle
// proof is the ordered list of ProofSteps from root to leaf; CheckEvidence
// recomputes the chain of hashes bottom-up and compares it against a
// claimed root.
type ProofStep struct {
	IsBranch bool

	// Branch fields. LeftHash/RightHash are nil when that child is
	// absent; both are always populated (even when not Followed) so
	// the step alone is enough to recompute this node's hash.
	PrefixLen int
	RepKey    []byte
	LeftHash  []byte
	RightHash []byte
	// Followed is 0 or 1 for the child the proof continues into, or -1
	// when the queried key's bits diverge from RepKey before reaching
	// PrefixLen (a non-inclusion witness that never reaches a leaf).
	Followed int

	// Leaf fields, set only on the final step when it is a genuine leaf.
	LeafKey       []byte
	LeafValueHash []byte
}

// Evidence returns (root_hash, path) for key: the path of internal
// nodes a verifier needs to confirm key's presence (or absence) under
// root_hash.
func (t *Tree) Evidence(key []byte) ([]byte, []ProofStep, error) {
	if t.root == nil {
		return nil, nil, nil
	}

	var path []ProofStep
	cur := t.root
	for {
		raw, err := t.store.GetRequired(cur)
		if err != nil {
			return nil, nil, err
		}
		n, err := decodeNode(raw)
		if err != nil {
			return nil, nil, err
		}

		if n.kind == kindLeaf {
			path = append(path, ProofStep{LeafKey: n.key, LeafValueHash: n.valueHash})
			return t.root, path, nil
		}

		if commonPrefixBits(key, n.repKey) < n.prefixLen {
			path = append(path, ProofStep{
				IsBranch: true, PrefixLen: n.prefixLen, RepKey: n.repKey,
				LeftHash: n.leftHash, RightHash: n.rightHash, Followed: -1,
			})
			return t.root, path, nil
		}

		dir := bitAt(key, n.prefixLen)
		step := ProofStep{
			IsBranch: true, PrefixLen: n.prefixLen, RepKey: n.repKey,
			LeftHash: n.leftHash, RightHash: n.rightHash, Followed: dir,
		}
		path = append(path, step)

		var childHash []byte
		if dir == 0 {
			childHash = n.leftHash
		} else {
			childHash = n.rightHash
		}
		if childHash == nil {
			return t.root, path, nil
		}
		cur = childHash
	}
}

// NodeHash recomputes the content-address (object-store key) of the
// node this step represents, letting a caller like
// pkg/state.ComputeEvidenceKeys collect the exact keys a verifier
// would need to fetch to replay a proof.
func (step ProofStep) NodeHash() []byte {
	if step.IsBranch {
		return hashNode(node{
			kind: kindBranch, prefixLen: step.PrefixLen, repKey: step.RepKey,
			leftHash: step.LeftHash, rightHash: step.RightHash,
		})
	}
	return hashNode(node{kind: kindLeaf, key: step.LeafKey, valueHash: step.LeafValueHash})
}

// IncludesKey reports whether path, already validated by CheckEvidence,
// witnesses inclusion of key (its final step is a leaf whose key
// exactly matches) rather than non-inclusion.
func IncludesKey(path []ProofStep, key []byte) bool {
	if len(path) == 0 {
		return false
	}
	last := path[len(path)-1]
	return !last.IsBranch && bytesEqual(last.LeafKey, key)
}

// CheckEvidence verifies path against a claimed root_hash for key,
// independent of any store: it recomputes every node hash from the
// step data itself and checks both that the chain reaches root and
// that each step's recorded direction is the one key's own bits
// dictate (otherwise a valid chain for an unrelated key could be
// replayed as "evidence" for key).
func CheckEvidence(root []byte, path []ProofStep, key []byte) bool {
	if len(path) == 0 {
		return root == nil
	}

	last := path[len(path)-1]
	var currentHash []byte
	if last.IsBranch {
		if last.Followed != -1 {
			return false // only a true divergence may terminate on a branch
		}
		if commonPrefixBits(key, last.RepKey) >= last.PrefixLen {
			return false // key doesn't actually diverge here
		}
		currentHash = hashNode(node{
			kind: kindBranch, prefixLen: last.PrefixLen, repKey: last.RepKey,
			leftHash: last.LeftHash, rightHash: last.RightHash,
		})
	} else {
		currentHash = hashNode(node{kind: kindLeaf, key: last.LeafKey, valueHash: last.LeafValueHash})
	}

	for i := len(path) - 2; i >= 0; i-- {
		step := path[i]
		if !step.IsBranch || step.Followed == -1 {
			return false // only the final step may be a leaf or a divergence
		}
		if bitAt(key, step.PrefixLen) != step.Followed {
			return false
		}
		if commonPrefixBits(key, step.RepKey) < step.PrefixLen {
			return false
		}
		var expectedChild []byte
		if step.Followed == 0 {
			expectedChild = step.LeftHash
		} else {
			expectedChild = step.RightHash
		}
		if expectedChild == nil || !bytesEqual(expectedChild, currentHash) {
			return false
		}
		currentHash = hashNode(node{
			kind: kindBranch, prefixLen: step.PrefixLen, repKey: step.RepKey,
			leftHash: step.LeftHash, rightHash: step.RightHash,
		})
	}

	return bytesEqual(currentHash, root)
}
