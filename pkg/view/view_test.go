// Copyright 2025 Certen Protocol

package view

import (
	"testing"

	"github.com/claimchain/claimchain-core/pkg/chain"
	"github.com/claimchain/claimchain-core/pkg/objectstore"
	"github.com/claimchain/claimchain-core/pkg/params"
	"github.com/claimchain/claimchain-core/pkg/payload"
)

func freshChain() *chain.Chain {
	return chain.New(objectstore.New(objectstore.NewMemDB()), nil)
}

func TestNewFailsOnEmptyChain(t *testing.T) {
	if _, err := New(freshChain(), nil); err == nil {
		t.Fatal("New should fail on a chain with no blocks")
	}
}

func TestHeadMatchesChainHead(t *testing.T) {
	c := freshChain()
	owner, err := params.Generate()
	if err != nil {
		t.Fatalf("params.Generate: %v", err)
	}
	pl := payload.Payload{
		Params:  owner.PublicExport(),
		Nonce:   make([]byte, 16),
		Version: payload.ProtocolVersion,
	}
	head, err := c.MultiAdd([][]byte{payload.Encode(pl)}, nil)
	if err != nil {
		t.Fatalf("MultiAdd: %v", err)
	}

	v, err := New(c, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if string(v.Head()) != string(head) {
		t.Fatal("View.Head() did not match the chain's head")
	}
}

func TestGetReturnsFalseWithNoClaimMap(t *testing.T) {
	c := freshChain()
	owner, err := params.Generate()
	if err != nil {
		t.Fatalf("params.Generate: %v", err)
	}
	pl := payload.Payload{
		Params:  owner.PublicExport(),
		Nonce:   make([]byte, 16),
		Version: payload.ProtocolVersion,
	}
	if _, err := c.MultiAdd([][]byte{payload.Encode(pl)}, nil); err != nil {
		t.Fatalf("MultiAdd: %v", err)
	}

	deactivate := params.Activate(owner)
	defer deactivate()
	v, err := New(c, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, ok, err := v.Get("anything")
	if err != nil {
		t.Fatalf("Get on an empty claim map returned an error instead of (false, nil): %v", err)
	}
	if ok {
		t.Fatal("Get on an empty claim map should never report ok")
	}
}

func TestValidateRejectsUndecodableAux(t *testing.T) {
	c := freshChain()
	owner, err := params.Generate()
	if err != nil {
		t.Fatalf("params.Generate: %v", err)
	}
	pl := payload.Payload{
		Params:  owner.PublicExport(),
		Nonce:   make([]byte, 16),
		Version: payload.ProtocolVersion,
	}
	if _, err := c.MultiAdd([][]byte{payload.Encode(pl)}, func(b *chain.Block) error {
		b.Aux = []byte("not a canonical signature encoding")
		return nil
	}); err != nil {
		t.Fatalf("MultiAdd: %v", err)
	}

	v, err := New(c, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := v.Validate(); err == nil {
		t.Fatal("Validate should reject an Aux that does not decode as a signature")
	}
}
