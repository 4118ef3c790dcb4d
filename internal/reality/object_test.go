package reality

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mesh-intelligence/prism/pkg/types"
)

// fakeKnowledge resolves a fixed set of node ids.
type fakeKnowledge struct {
	nodes map[uint64]types.KnowledgeNode
}

func (f *fakeKnowledge) Node(id uint64) (types.KnowledgeNode, error) {
	node, ok := f.nodes[id]
	if !ok {
		return types.KnowledgeNode{}, fmt.Errorf("knowledge node %d: %w", id, types.ErrNotFound)
	}
	return node, nil
}

func TestObjectIDFormula(t *testing.T) {
	e := newTestEngine(t)

	// Advance space ids so the formula is visible beyond space 1.
	var s types.Space
	var err error
	for i := 0; i < 5; i++ {
		s, err = e.CreateSpace(types.ModePhysical, types.Dim3D, false)
		if err != nil {
			t.Fatalf("CreateSpace failed: %v", err)
		}
	}
	if s.ID != 5 {
		t.Fatalf("space id = %d, want 5", s.ID)
	}

	first, err := e.CreateObject(s.ID, types.ObjectSpec{Name: "alpha"})
	if err != nil {
		t.Fatalf("CreateObject failed: %v", err)
	}
	second, err := e.CreateObject(s.ID, types.ObjectSpec{Name: "beta"})
	if err != nil {
		t.Fatalf("CreateObject failed: %v", err)
	}
	if first.ID != 5001 || second.ID != 5002 {
		t.Errorf("object ids = %d, %d, want 5001, 5002", first.ID, second.ID)
	}

	got, err := e.GetSpace(s.ID)
	if err != nil {
		t.Fatalf("GetSpace failed: %v", err)
	}
	if got.ObjectCount() != 2 {
		t.Errorf("ObjectCount = %d, want 2", got.ObjectCount())
	}
}

func TestCreateObjectCopiesBlobs(t *testing.T) {
	e := newTestEngine(t)

	s, err := e.CreateSpace(types.ModePhysical, types.Dim3D, false)
	if err != nil {
		t.Fatalf("CreateSpace failed: %v", err)
	}

	geometry := []byte{0x01, 0x02}
	material := []byte{0xAA}
	obj, err := e.CreateObject(s.ID, types.ObjectSpec{
		Name:        "cube",
		Geometry:    geometry,
		Material:    material,
		Interactive: true,
	})
	if err != nil {
		t.Fatalf("CreateObject failed: %v", err)
	}
	if obj.ID != s.ID*1000+1 {
		t.Errorf("object id = %d", obj.ID)
	}

	// Mutating the caller's buffers must not reach the stored object.
	geometry[0] = 0xFF
	material[0] = 0xFF

	got, err := e.GetSpace(s.ID)
	if err != nil {
		t.Fatalf("GetSpace failed: %v", err)
	}
	stored := got.Objects[0]
	if stored.Geometry[0] != 0x01 || stored.Material[0] != 0xAA {
		t.Errorf("stored blobs alias caller memory: %v %v", stored.Geometry, stored.Material)
	}
	if !stored.Interactive || stored.Name != "cube" {
		t.Errorf("stored object = %+v", stored)
	}
}

func TestCreateObjectUnknownSpace(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.CreateObject(99, types.ObjectSpec{Name: "ghost"}); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestCreateObjectResolvesKnowledge(t *testing.T) {
	store := &fakeKnowledge{nodes: map[uint64]types.KnowledgeNode{
		7: {ID: 7, Type: types.NodeConcept, Name: "superposition"},
	}}
	e := newTestEngine(t, WithKnowledge(store))

	s, err := e.CreateSpace(types.ModePhysical, types.Dim3D, false)
	if err != nil {
		t.Fatalf("CreateSpace failed: %v", err)
	}

	obj, err := e.CreateObject(s.ID, types.ObjectSpec{Name: "qubit", Knowledge: 7})
	if err != nil {
		t.Fatalf("CreateObject failed: %v", err)
	}
	if obj.Knowledge == nil || obj.Knowledge.Name != "superposition" {
		t.Errorf("Knowledge = %+v", obj.Knowledge)
	}
}

func TestCreateObjectStagingRollback(t *testing.T) {
	store := &fakeKnowledge{nodes: map[uint64]types.KnowledgeNode{}}
	provider := newFakeProvider()
	e := newTestEngine(t, WithKnowledge(store), WithProvider(provider))

	s, err := e.CreateSpace(types.ModePhysical, types.Dim3D, false)
	if err != nil {
		t.Fatalf("CreateSpace failed: %v", err)
	}

	// Knowledge resolution fails after the entanglement handle was
	// obtained: the handle must be destroyed and the space untouched.
	_, err = e.CreateObject(s.ID, types.ObjectSpec{
		Name:      "doomed",
		Quantum:   true,
		Knowledge: 404,
	})
	if !errors.Is(err, types.ErrAllocationFailed) {
		t.Fatalf("got %v, want ErrAllocationFailed", err)
	}
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("cause not preserved: %v", err)
	}

	if len(provider.live) != 0 {
		t.Errorf("provider still tracks %d handles after rollback: %v", len(provider.live), provider.live)
	}
	if len(provider.destroyed) != 1 {
		t.Errorf("destroyed handles = %v, want the rolled-back object handle", provider.destroyed)
	}

	got, err := e.GetSpace(s.ID)
	if err != nil {
		t.Fatalf("GetSpace failed: %v", err)
	}
	if got.ObjectCount() != 0 {
		t.Errorf("ObjectCount = %d after rollback, want 0", got.ObjectCount())
	}

	// The next successful object still gets the first ordinal.
	obj, err := e.CreateObject(s.ID, types.ObjectSpec{Name: "survivor"})
	if err != nil {
		t.Fatalf("CreateObject failed: %v", err)
	}
	if obj.ID != s.ID*1000+1 {
		t.Errorf("object id = %d, want %d", obj.ID, s.ID*1000+1)
	}
}

func TestCreateObjectKnowledgeWithoutStore(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.CreateObject(1, types.ObjectSpec{Knowledge: 1})
	if !errors.Is(err, types.ErrNotFound) {
		// Space 1 does not exist in a fresh engine.
		t.Fatalf("got %v, want ErrNotFound for missing space", err)
	}

	s, err := e.CreateSpace(types.ModePhysical, types.Dim3D, false)
	if err != nil {
		t.Fatalf("CreateSpace failed: %v", err)
	}
	_, err = e.CreateObject(s.ID, types.ObjectSpec{Knowledge: 1})
	if !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument without a store", err)
	}
}
