// Copyright 2025 Certen Protocol

package encoding

import "testing"

func TestEncodeDecodeTupleRoundTrip(t *testing.T) {
	original := []Field{
		BytesField([]byte("hello")),
		UintField(42),
		BytesField(nil),
		BytesField([]byte{0x00, 0x01, 0x02}),
	}
	encoded := EncodeTuple(original...)
	decoded, err := DecodeTuple(encoded)
	if err != nil {
		t.Fatalf("DecodeTuple: %v", err)
	}
	if len(decoded) != len(original) {
		t.Fatalf("got %d fields, want %d", len(decoded), len(original))
	}
	if string(decoded[0].AsBytes()) != "hello" {
		t.Fatalf("field 0 = %q", decoded[0].AsBytes())
	}
	if decoded[1].AsUint() != 42 {
		t.Fatalf("field 1 = %d", decoded[1].AsUint())
	}
	if len(decoded[2].AsBytes()) != 0 {
		t.Fatalf("field 2 should be empty, got %v", decoded[2].AsBytes())
	}
}

func TestDecodeTupleExactRejectsWrongArity(t *testing.T) {
	encoded := EncodeTuple(BytesField([]byte("a")), BytesField([]byte("b")))
	if _, err := DecodeTupleExact(encoded, 3); err == nil {
		t.Fatal("expected an arity mismatch error")
	}
}

func TestDecodeTupleRejectsTruncatedInput(t *testing.T) {
	encoded := EncodeTuple(BytesField([]byte("hello world")))
	if _, err := DecodeTuple(encoded[:len(encoded)-3]); err == nil {
		t.Fatal("expected an error decoding truncated input")
	}
}

func TestDecodeBytesTupleRejectsUintField(t *testing.T) {
	encoded := EncodeTuple(BytesField([]byte("a")), UintField(7))
	if _, err := DecodeBytesTuple(encoded, 2); err == nil {
		t.Fatal("expected an error when a bytes-only tuple carries an integer field")
	}
}

func TestEncodeTupleIsDeterministic(t *testing.T) {
	a := EncodeTuple(BytesField([]byte("x")), UintField(7))
	b := EncodeTuple(BytesField([]byte("x")), UintField(7))
	if string(a) != string(b) {
		t.Fatal("EncodeTuple produced different output for the same input")
	}
}

func TestAsciiEncodeDecodeRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0xff, 0x10, 0x20, 0x00}
	encoded := AsciiEncode(raw)
	decoded, err := AsciiDecode(encoded)
	if err != nil {
		t.Fatalf("AsciiDecode: %v", err)
	}
	if string(decoded) != string(raw) {
		t.Fatalf("got %v, want %v", decoded, raw)
	}
}

func TestAsciiDecodeRejectsGarbage(t *testing.T) {
	if _, err := AsciiDecode("not-valid-base58!!!"); err == nil {
		t.Fatal("expected an error decoding invalid base58")
	}
}
