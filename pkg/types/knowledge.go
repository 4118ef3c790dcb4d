package types

import "time"

// Knowledge node types.
const (
	NodeConcept  = "concept"
	NodeEntity   = "entity"
	NodeEvent    = "event"
	NodeResource = "resource"
	NodeQuantum  = "quantum"
)

// Knowledge relation types.
const (
	RelationIsA       = "is_a"
	RelationPartOf    = "part_of"
	RelationRelatedTo = "related_to"
	RelationCauses    = "causes"
	RelationEntangled = "entangled"
)

var validNodeTypes = map[string]bool{
	NodeConcept:  true,
	NodeEntity:   true,
	NodeEvent:    true,
	NodeResource: true,
	NodeQuantum:  true,
}

var validRelationTypes = map[string]bool{
	RelationIsA:       true,
	RelationPartOf:    true,
	RelationRelatedTo: true,
	RelationCauses:    true,
	RelationEntangled: true,
}

// ValidNodeType reports whether t is a recognized knowledge node type.
func ValidNodeType(t string) bool {
	return validNodeTypes[t]
}

// ValidRelationType reports whether t is a recognized relation type.
func ValidRelationType(t string) bool {
	return validRelationTypes[t]
}

// KnowledgeNode is an entry in the knowledge network. Objects may hold a
// non-owning reference to one.
type KnowledgeNode struct {
	ID          uint64    // Monotonic from 1.
	Type        string    // One of the Node type constants.
	Name        string    // Required, non-empty.
	Description string    // Optional free text.
	Strength    float64   // Relevance weight in [0,1]; starts at 0.5.
	CreatedAt   time.Time // Timestamp of creation.
	UpdatedAt   time.Time // Timestamp of last modification.
}

// KnowledgeRelation is a typed, weighted edge between two nodes.
type KnowledgeRelation struct {
	ID        uint64    // Monotonic from 1.
	SourceID  uint64    // Origin node.
	TargetID  uint64    // Destination node.
	Type      string    // One of the Relation type constants.
	Strength  float64   // Edge weight clamped to [0,1].
	CreatedAt time.Time // Timestamp of creation.
}

// KnowledgeStore resolves knowledge nodes for object links. The engine
// uses only this lookup surface; the full network API lives with the
// implementation.
type KnowledgeStore interface {
	// Node returns the node with the given id.
	// Returns ErrNotFound if no node exists with that id.
	Node(id uint64) (KnowledgeNode, error)
}
