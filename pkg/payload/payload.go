// Copyright 2025 Certen Protocol
//
// Package payload defines the single value every claimchain block
// carries in Items[0]: a commitment to that block's verifiable map,
// the owner's public parameters, and enough metadata for a reader to
// reconstruct a View without any side channel.
package payload

import (
	"github.com/claimchain/claimchain-core/pkg/encoding"
)

// ProtocolVersion is carried in every Payload.
const ProtocolVersion = 1

// Payload is the owner's per-commit commitment.
type Payload struct {
	// MtrHash is the verifiable map's root hash, or nil if the State
	// committed with no entries.
	MtrHash []byte
	// Params is the owner's LocalParams.PublicExport() at commit time.
	Params map[string]string
	// IdentityInfo is an opaque, owner-supplied identity binding (e.g.
	// "Hi, I'm <dh_pk>"); may be nil.
	IdentityInfo []byte
	// Nonce is the 16-byte per-commit salt used to derive every label's
	// VRF message for that block.
	Nonce []byte
	// Timestamp is a Unix-seconds stamp the owner attaches at commit
	// time; the core treats it as opaque metadata.
	Timestamp int64
	// Version is the PROTOCOL_VERSION in effect when this block was built.
	Version uint64
}

var paramKeys = []string{"vrf_pk", "sig_pk", "dh_pk", "rescue_pk", "vrf_sk", "sig_sk", "dh_sk", "rescue_sk"}

// Encode canonically serializes p, suitable as a Block's sole item.
func Encode(p Payload) []byte {
	fields := []encoding.Field{
		encoding.BytesField(p.MtrHash),
		encoding.UintField(uint64(len(paramKeys))),
	}
	for _, k := range paramKeys {
		v, ok := p.Params[k]
		if !ok {
			fields = append(fields, encoding.BytesField(nil))
			continue
		}
		fields = append(fields, encoding.BytesField([]byte(v)))
	}
	fields = append(fields,
		encoding.BytesField(p.IdentityInfo),
		encoding.BytesField(p.Nonce),
		encoding.UintField(uint64(p.Timestamp)),
		encoding.UintField(p.Version),
	)
	return encoding.EncodeTuple(fields...)
}

// Decode reverses Encode. It checks every field's kind as it goes, so
// a malformed or adversarial payload decodes to an error, never a
// panic.
func Decode(data []byte) (Payload, error) {
	fields, err := encoding.DecodeTuple(data)
	if err != nil {
		return Payload{}, err
	}
	if len(fields) < 2 || fields[0].IsUint() || !fields[1].IsUint() {
		return Payload{}, errMalformedPayload
	}
	var p Payload
	// An empty MtrHash field means the commit carried no entries; keep
	// it nil so callers can test for tree absence directly.
	if b := fields[0].AsBytes(); len(b) > 0 {
		p.MtrHash = b
	}
	keyCount := int(fields[1].AsUint())
	pos := 2
	if keyCount < 0 || keyCount > len(fields) || len(fields) < pos+keyCount+4 {
		return Payload{}, errMalformedPayload
	}
	p.Params = make(map[string]string, keyCount)
	for i := 0; i < keyCount; i++ {
		if fields[pos].IsUint() {
			return Payload{}, errMalformedPayload
		}
		if i < len(paramKeys) {
			if v := fields[pos].AsBytes(); len(v) > 0 {
				p.Params[paramKeys[i]] = string(v)
			}
		}
		pos++
	}
	if fields[pos].IsUint() || fields[pos+1].IsUint() || !fields[pos+2].IsUint() || !fields[pos+3].IsUint() {
		return Payload{}, errMalformedPayload
	}
	if b := fields[pos].AsBytes(); len(b) > 0 {
		p.IdentityInfo = b
	}
	p.Nonce = fields[pos+1].AsBytes()
	p.Timestamp = int64(fields[pos+2].AsUint())
	p.Version = fields[pos+3].AsUint()
	return p, nil
}
