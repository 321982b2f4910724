// Copyright 2025 Certen Protocol

package encoding

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// AsciiEncode base58-encodes the canonical single-field encoding of
// raw, the dictionary-safe transport form for curve points and raw
// byte strings.
func AsciiEncode(raw []byte) string {
	return base58.Encode(EncodeTuple(BytesField(raw)))
}

// AsciiDecode reverses AsciiEncode.
func AsciiDecode(s string) ([]byte, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("encoding: base58 decode: %w", err)
	}
	parts, err := DecodeBytesTuple(decoded, 1)
	if err != nil {
		return nil, fmt.Errorf("encoding: ascii payload: %w", err)
	}
	return parts[0], nil
}
