package memex

import (
	"errors"
	"fmt"
	"testing"

	"go.uber.org/goleak"

	"github.com/mesh-intelligence/prism/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openTestNetwork(t *testing.T) *Network {
	t.Helper()
	n, err := Open("")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := n.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return n
}

func TestCreateNode(t *testing.T) {
	n := openTestNetwork(t)

	node, err := n.CreateNode(types.NodeConcept, "entanglement", "paired quantum state")
	if err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}
	if node.ID != 1 {
		t.Errorf("first node id = %d, want 1", node.ID)
	}
	if node.Strength != 0.5 {
		t.Errorf("initial strength = %v, want 0.5", node.Strength)
	}

	second, err := n.CreateNode(types.NodeQuantum, "qubit", "")
	if err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}
	if second.ID != 2 {
		t.Errorf("second node id = %d, want 2", second.ID)
	}
}

func TestCreateNodeValidation(t *testing.T) {
	n := openTestNetwork(t)

	if _, err := n.CreateNode(types.NodeConcept, "", ""); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("empty name: got %v, want ErrInvalidArgument", err)
	}
	if _, err := n.CreateNode("dream", "x", ""); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("unknown type: got %v, want ErrInvalidArgument", err)
	}
}

func TestNodeLookup(t *testing.T) {
	n := openTestNetwork(t)
	created, _ := n.CreateNode(types.NodeEntity, "portal-gun", "handheld portal opener")

	got, err := n.Node(created.ID)
	if err != nil {
		t.Fatalf("Node failed: %v", err)
	}
	if got.Name != "portal-gun" || got.Type != types.NodeEntity || got.Description != "handheld portal opener" {
		t.Errorf("unexpected node: %+v", got)
	}

	if _, err := n.Node(999); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown id: got %v, want ErrNotFound", err)
	}
}

func TestFindNodes(t *testing.T) {
	n := openTestNetwork(t)
	n.CreateNode(types.NodeConcept, "quantum entanglement", "")
	n.CreateNode(types.NodeConcept, "classical field", "no quantum effects")
	n.CreateNode(types.NodeEvent, "observation", "collapse")

	nodes, err := n.FindNodes("quantum", 0)
	if err != nil {
		t.Fatalf("FindNodes failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("FindNodes returned %d nodes, want 2", len(nodes))
	}
	// Newest first.
	if nodes[0].Name != "classical field" {
		t.Errorf("first match = %q, want classical field", nodes[0].Name)
	}

	nodes, err = n.FindNodes("nothing-matches", 0)
	if err != nil {
		t.Fatalf("FindNodes failed: %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("expected no matches, got %d", len(nodes))
	}
}

func TestStrengthen(t *testing.T) {
	n := openTestNetwork(t)
	node, _ := n.CreateNode(types.NodeConcept, "resonance", "")

	up, err := n.Strengthen(node.ID, 0.3)
	if err != nil {
		t.Fatalf("Strengthen failed: %v", err)
	}
	if up.Strength != 0.8 {
		t.Errorf("strength = %v, want 0.8", up.Strength)
	}

	capped, err := n.Strengthen(node.ID, 5)
	if err != nil {
		t.Fatalf("Strengthen failed: %v", err)
	}
	if capped.Strength != 1 {
		t.Errorf("strength = %v, want clamp at 1", capped.Strength)
	}

	floored, err := n.Strengthen(node.ID, -9)
	if err != nil {
		t.Fatalf("Strengthen failed: %v", err)
	}
	if floored.Strength != 0 {
		t.Errorf("strength = %v, want clamp at 0", floored.Strength)
	}

	if _, err := n.Strengthen(404, 0.1); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown id: got %v, want ErrNotFound", err)
	}
}

func TestCreateRelation(t *testing.T) {
	n := openTestNetwork(t)
	a, _ := n.CreateNode(types.NodeConcept, "entanglement", "")
	b, _ := n.CreateNode(types.NodeConcept, "correlation", "")

	rel, err := n.CreateRelation(types.RelationCauses, a.ID, b.ID, 0.9)
	if err != nil {
		t.Fatalf("CreateRelation failed: %v", err)
	}
	if rel.ID != 1 || rel.SourceID != a.ID || rel.TargetID != b.ID {
		t.Errorf("unexpected relation: %+v", rel)
	}

	// Same endpoints and type collapse onto the existing edge.
	dup, err := n.CreateRelation(types.RelationCauses, a.ID, b.ID, 0.1)
	if err != nil {
		t.Fatalf("duplicate CreateRelation failed: %v", err)
	}
	if dup.ID != rel.ID {
		t.Errorf("duplicate relation id = %d, want %d", dup.ID, rel.ID)
	}
	if _, relations, _ := n.Counts(); relations != 1 {
		t.Errorf("relation count = %d, want 1", relations)
	}
}

func TestCreateRelationValidation(t *testing.T) {
	n := openTestNetwork(t)
	a, _ := n.CreateNode(types.NodeConcept, "a", "")

	if _, err := n.CreateRelation("binds", a.ID, a.ID, 1); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("unknown type: got %v, want ErrInvalidArgument", err)
	}
	if _, err := n.CreateRelation(types.RelationIsA, 0, a.ID, 1); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("zero endpoint: got %v, want ErrInvalidArgument", err)
	}
	if _, err := n.CreateRelation(types.RelationIsA, a.ID, 77, 1); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("missing endpoint: got %v, want ErrNotFound", err)
	}
}

func TestRelationStrengthClamped(t *testing.T) {
	n := openTestNetwork(t)
	a, _ := n.CreateNode(types.NodeConcept, "a", "")
	b, _ := n.CreateNode(types.NodeConcept, "b", "")

	rel, err := n.CreateRelation(types.RelationRelatedTo, a.ID, b.ID, 3.7)
	if err != nil {
		t.Fatalf("CreateRelation failed: %v", err)
	}
	if rel.Strength != 1 {
		t.Errorf("strength = %v, want clamp at 1", rel.Strength)
	}
}

func TestRelated(t *testing.T) {
	n := openTestNetwork(t)
	hub, _ := n.CreateNode(types.NodeConcept, "hub", "")
	weak, _ := n.CreateNode(types.NodeConcept, "weak", "")
	strong, _ := n.CreateNode(types.NodeConcept, "strong", "")
	other, _ := n.CreateNode(types.NodeConcept, "other", "")

	n.CreateRelation(types.RelationRelatedTo, hub.ID, weak.ID, 0.2)
	n.CreateRelation(types.RelationRelatedTo, hub.ID, strong.ID, 0.9)
	n.CreateRelation(types.RelationCauses, hub.ID, other.ID, 0.5)

	nodes, err := n.Related(hub.ID, types.RelationRelatedTo, 0)
	if err != nil {
		t.Fatalf("Related failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Related returned %d nodes, want 2", len(nodes))
	}
	if nodes[0].Name != "strong" || nodes[1].Name != "weak" {
		t.Errorf("ordering by strength broken: %q then %q", nodes[0].Name, nodes[1].Name)
	}

	all, err := n.Related(hub.ID, "", 0)
	if err != nil {
		t.Fatalf("Related failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("untyped Related returned %d nodes, want 3", len(all))
	}
}

func TestCloseIdempotent(t *testing.T) {
	n, err := Open("")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := n.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := n.Close(); err != nil {
		t.Errorf("second Close should not error, got %v", err)
	}

	if _, err := n.Node(1); !errors.Is(err, types.ErrNotInitialized) {
		t.Errorf("Node after Close: got %v, want ErrNotInitialized", err)
	}
	if _, err := n.CreateNode(types.NodeConcept, "x", ""); !errors.Is(err, types.ErrNotInitialized) {
		t.Errorf("CreateNode after Close: got %v, want ErrNotInitialized", err)
	}
}

func TestMonotonicNodeIDs(t *testing.T) {
	n := openTestNetwork(t)
	for i := 1; i <= 5; i++ {
		node, err := n.CreateNode(types.NodeResource, fmt.Sprintf("node-%d", i), "")
		if err != nil {
			t.Fatalf("CreateNode %d failed: %v", i, err)
		}
		if node.ID != uint64(i) {
			t.Errorf("node id = %d, want %d", node.ID, i)
		}
	}
}
