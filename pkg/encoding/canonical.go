// Copyright 2025 Certen Protocol
//
// Package encoding implements the canonical binary packing every other
// claimchain package relies on for hashing and encryption, plus the
// base58 ASCII transport encoding used by LocalParams export.
// Canonicalize first, then concatenate/hash, so two implementations
// that agree on the canonical form always agree on the digest.
package encoding

import (
	"encoding/binary"
	"fmt"
)

// Field is one element of a canonical tuple. Every Scalar and Element
// in the rest of the module is packed as a Field via its Bytes() form;
// small integers (timestamps, versions) are packed as uint fields.
type Field struct {
	isUint bool
	bytes  []byte
	uint   uint64
}

// BytesField wraps a raw byte string (a serialized scalar, point,
// ciphertext, or opaque content blob) as a canonical field.
func BytesField(b []byte) Field {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Field{bytes: cp}
}

// UintField wraps a 64-bit unsigned integer (timestamps, protocol
// version numbers) as a canonical field.
func UintField(u uint64) Field {
	return Field{isUint: true, uint: u}
}

// AsBytes returns f's byte payload. It panics if f was built with
// UintField; callers decode tuples knowing their own shape.
func (f Field) AsBytes() []byte {
	if f.isUint {
		panic("encoding: field is a uint, not bytes")
	}
	return f.bytes
}

// AsUint returns f's integer payload. It panics if f was built with
// BytesField.
func (f Field) AsUint() uint64 {
	if !f.isUint {
		panic("encoding: field is bytes, not a uint")
	}
	return f.uint
}

// IsUint reports whether f carries an integer payload. Decoders that
// parse untrusted wire data check this before AsBytes/AsUint so that a
// mismatched field kind surfaces as an error instead of a panic.
func (f Field) IsUint() bool {
	return f.isUint
}

const (
	tagBytes byte = 0x01
	tagUint  byte = 0x02
)

// EncodeTuple canonically packs an ordered list of heterogeneous values.
// Each field is written as a one-byte tag, an 8-byte big-endian length
// (bytes fields) or the raw 8-byte value (uint fields), and the payload.
// The format is self-describing and produces byte-identical output for
// the same semantic value on every call.
func EncodeTuple(fields ...Field) []byte {
	out := make([]byte, 0, 32*len(fields))
	for _, f := range fields {
		if f.isUint {
			out = append(out, tagUint)
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], f.uint)
			out = append(out, buf[:]...)
			continue
		}
		out = append(out, tagBytes)
		var lenBuf [8]byte
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(f.bytes)))
		out = append(out, lenBuf[:]...)
		out = append(out, f.bytes...)
	}
	return out
}

// DecodeTuple reverses EncodeTuple, returning the fields in order.
// It never panics on truncated or malformed input; it returns an error.
func DecodeTuple(data []byte) ([]Field, error) {
	var fields []Field
	for len(data) > 0 {
		tag := data[0]
		data = data[1:]
		switch tag {
		case tagUint:
			if len(data) < 8 {
				return nil, fmt.Errorf("encoding: truncated uint field")
			}
			fields = append(fields, UintField(binary.BigEndian.Uint64(data[:8])))
			data = data[8:]
		case tagBytes:
			if len(data) < 8 {
				return nil, fmt.Errorf("encoding: truncated length prefix")
			}
			n := binary.BigEndian.Uint64(data[:8])
			data = data[8:]
			if uint64(len(data)) < n {
				return nil, fmt.Errorf("encoding: truncated bytes field")
			}
			fields = append(fields, BytesField(data[:n]))
			data = data[n:]
		default:
			return nil, fmt.Errorf("encoding: unknown field tag %#x", tag)
		}
	}
	return fields, nil
}

// DecodeTupleExact decodes data and requires exactly n fields, which is
// how every fixed-shape tuple in the codec (claims, capabilities, VRF
// proofs, signatures) is consumed.
func DecodeTupleExact(data []byte, n int) ([]Field, error) {
	fields, err := DecodeTuple(data)
	if err != nil {
		return nil, err
	}
	if len(fields) != n {
		return nil, fmt.Errorf("encoding: expected %d fields, got %d", n, len(fields))
	}
	return fields, nil
}

// DecodeBytesTuple decodes data, requiring exactly n fields, all byte
// strings. It never panics on adversarial input: a field of the wrong
// kind is an error.
func DecodeBytesTuple(data []byte, n int) ([][]byte, error) {
	fields, err := DecodeTupleExact(data, n)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, n)
	for i, f := range fields {
		if f.isUint {
			return nil, fmt.Errorf("encoding: field %d is an integer, expected bytes", i)
		}
		out[i] = f.bytes
	}
	return out, nil
}
