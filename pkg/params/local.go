// Copyright 2025 Certen Protocol

package params

import (
	"fmt"
	"sync"

	"github.com/claimchain/claimchain-core/pkg/encoding"
	"github.com/claimchain/claimchain-core/pkg/group"
)

// Keypair is a scalar/point pair on the active group. Sk is the zero
// value (IsZero() true) when only the public half is known, which is
// how a reader holds another user's LocalParams.
type Keypair struct {
	Sk group.Scalar
	Pk group.Element
}

// HasSk reports whether the private half is present.
func (k Keypair) HasSk() bool {
	return !k.Sk.IsZero()
}

// GenerateKeypair samples a fresh (sk, pk = sk·g) pair.
func GenerateKeypair() (Keypair, error) {
	sk, err := group.RandomScalar()
	if err != nil {
		return Keypair{}, err
	}
	return Keypair{Sk: sk, Pk: group.Generator().Mul(sk)}, nil
}

// LocalParams is a single owner's key bundle: VRF, signing, and
// Diffie-Hellman keypairs, plus two optional slots (prf, rescue)
// carried for forward compatibility that no core operation reads from.
type LocalParams struct {
	Vrf Keypair
	Sig Keypair
	Dh  Keypair

	// Prf is an optional symmetric key slot; no core operation derives
	// anything from it today.
	Prf []byte
	// Rescue is an optional spare keypair reserved for re-keying after
	// a compromise; inert today.
	Rescue *Keypair
}

// Generate produces a fresh LocalParams with vrf/sig/dh keypairs (and
// no rescue/prf material; callers that want those set them directly).
func Generate() (LocalParams, error) {
	vrf, err := GenerateKeypair()
	if err != nil {
		return LocalParams{}, err
	}
	sig, err := GenerateKeypair()
	if err != nil {
		return LocalParams{}, err
	}
	dh, err := GenerateKeypair()
	if err != nil {
		return LocalParams{}, err
	}
	return LocalParams{Vrf: vrf, Sig: sig, Dh: dh}, nil
}

// PublicExport returns an ASCII-safe export of the public halves only,
// keyed "vrf_pk", "sig_pk", "dh_pk", and "rescue_pk" when a rescue
// keypair is present.
func (lp LocalParams) PublicExport() map[string]string {
	out := map[string]string{
		"vrf_pk": encoding.AsciiEncode(lp.Vrf.Pk.Bytes()),
		"sig_pk": encoding.AsciiEncode(lp.Sig.Pk.Bytes()),
		"dh_pk":  encoding.AsciiEncode(lp.Dh.Pk.Bytes()),
	}
	if lp.Rescue != nil {
		out["rescue_pk"] = encoding.AsciiEncode(lp.Rescue.Pk.Bytes())
	}
	return out
}

// PrivateExport returns PublicExport plus "_sk" entries for every
// present private keypair.
func (lp LocalParams) PrivateExport() map[string]string {
	out := lp.PublicExport()
	if lp.Vrf.HasSk() {
		out["vrf_sk"] = encoding.AsciiEncode(lp.Vrf.Sk.Bytes())
	}
	if lp.Sig.HasSk() {
		out["sig_sk"] = encoding.AsciiEncode(lp.Sig.Sk.Bytes())
	}
	if lp.Dh.HasSk() {
		out["dh_sk"] = encoding.AsciiEncode(lp.Dh.Sk.Bytes())
	}
	if lp.Rescue != nil && lp.Rescue.HasSk() {
		out["rescue_sk"] = encoding.AsciiEncode(lp.Rescue.Sk.Bytes())
	}
	return out
}

func decodeKeypair(exported map[string]string, prefix string) (Keypair, bool, error) {
	pkStr, hasPk := exported[prefix+"_pk"]
	skStr, hasSk := exported[prefix+"_sk"]
	if !hasPk && !hasSk {
		return Keypair{}, false, nil
	}
	var kp Keypair
	if hasPk {
		raw, err := encoding.AsciiDecode(pkStr)
		if err != nil {
			return Keypair{}, false, fmt.Errorf("params: decode %s_pk: %w", prefix, err)
		}
		pk, err := group.ElementFromBytes(raw)
		if err != nil {
			return Keypair{}, false, fmt.Errorf("params: decode %s_pk point: %w", prefix, err)
		}
		kp.Pk = pk
	}
	if hasSk {
		raw, err := encoding.AsciiDecode(skStr)
		if err != nil {
			return Keypair{}, false, fmt.Errorf("params: decode %s_sk: %w", prefix, err)
		}
		kp.Sk = group.ScalarFromBytes(raw)
		if !hasPk {
			kp.Pk = group.Generator().Mul(kp.Sk)
		}
	}
	return kp, true, nil
}

// FromDict reconstructs a LocalParams from an exported map. Any field
// absent from the map stays absent in the result.
func FromDict(exported map[string]string) (LocalParams, error) {
	var lp LocalParams
	var err error
	var present bool

	if lp.Vrf, present, err = decodeKeypair(exported, "vrf"); err != nil {
		return LocalParams{}, err
	} else if !present {
		lp.Vrf = Keypair{}
	}
	if lp.Sig, _, err = decodeKeypair(exported, "sig"); err != nil {
		return LocalParams{}, err
	}
	if lp.Dh, _, err = decodeKeypair(exported, "dh"); err != nil {
		return LocalParams{}, err
	}
	if rescue, present, err := decodeKeypair(exported, "rescue"); err != nil {
		return LocalParams{}, err
	} else if present {
		lp.Rescue = &rescue
	}
	return lp, nil
}

// --- scoped default activation ---
//
// activeStack models the dynamically scoped "default LocalParams" the
// core needs on every call path. Entering a scope pushes; exiting pops
// and restores whatever was active before, so nesting (tests activating
// several owners in sequence, or a reader briefly impersonating itself
// inside an owner's scope) is safe. It is not safe across goroutines;
// activation belongs to a single call stack.
var (
	activeMu    sync.Mutex
	activeStack []LocalParams
)

// Active returns the currently active default LocalParams. It panics
// if nothing has been activated: every entry point into the core
// (State, View) requires a caller to have activated its own identity
// first.
func Active() LocalParams {
	activeMu.Lock()
	defer activeMu.Unlock()
	if len(activeStack) == 0 {
		panic("params: no active LocalParams; call Activate first")
	}
	return activeStack[len(activeStack)-1]
}

// HasActive reports whether a default LocalParams is currently active,
// without panicking.
func HasActive() bool {
	activeMu.Lock()
	defer activeMu.Unlock()
	return len(activeStack) > 0
}

// Activate installs lp as the default for the returned scope's
// lifetime. Callers must invoke the returned function to restore the
// previous default (typically via defer); activating never mutates lp.
func Activate(lp LocalParams) (deactivate func()) {
	activeMu.Lock()
	activeStack = append(activeStack, lp)
	activeMu.Unlock()

	return func() {
		activeMu.Lock()
		defer activeMu.Unlock()
		if len(activeStack) == 0 {
			return
		}
		activeStack = activeStack[:len(activeStack)-1]
	}
}
