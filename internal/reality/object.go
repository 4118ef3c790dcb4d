package reality

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/prism/pkg/types"
)

// CreateObject stages a complete object and commits it to the space in
// one step. Staging failures leave the space exactly as it was: the
// object is appended and the count advances only after every fallible
// step has succeeded. The optional entanglement handle is released if a
// later staging step fails.
func (e *Engine) CreateObject(spaceID uint64, spec types.ObjectSpec) (types.Object, error) {
	if !e.initialized {
		return types.Object{}, types.ErrNotInitialized
	}
	sl := e.lookup(spaceID)
	if sl == nil {
		return types.Object{}, fmt.Errorf("space %d: %w", spaceID, types.ErrNotFound)
	}
	sp := &sl.space

	ordinal := len(sp.Objects)
	obj := types.Object{
		ID:          spaceID*1000 + uint64(ordinal) + 1,
		SpaceID:     spaceID,
		Name:        spec.Name,
		Geometry:    spec.Geometry,
		Material:    spec.Material,
		Interactive: spec.Interactive,
		CreatedAt:   e.now().UTC(),
		Correlator:  newCorrelator(),
	}
	// Detach the staged object from the caller's blob buffers.
	obj = obj.Clone()

	if spec.Quantum {
		if h, ok := e.entangle(obj.Correlator, types.ObjectEntanglementWidth, "object", obj.ID); ok {
			obj.Entanglement = &h
		}
	}

	if spec.Knowledge != 0 {
		node, err := e.resolveKnowledge(spec.Knowledge)
		if err != nil {
			if obj.Entanglement != nil {
				e.destroyHandle(obj.Entanglement.ID, "object", obj.ID)
			}
			return types.Object{}, fmt.Errorf("%w: object in space %d: %w", types.ErrAllocationFailed, spaceID, err)
		}
		obj.Knowledge = &node
	}

	sp.Objects = append(sp.Objects, obj)

	e.log.Debug("object created",
		zap.Uint64("space_id", spaceID),
		zap.Uint64("object_id", obj.ID),
		zap.Bool("entangled", obj.Entanglement != nil),
		zap.Bool("linked", obj.Knowledge != nil))
	return obj.Clone(), nil
}

// resolveKnowledge looks up the knowledge node an object links to.
func (e *Engine) resolveKnowledge(id uint64) (types.KnowledgeNode, error) {
	if e.knowledge == nil {
		return types.KnowledgeNode{}, fmt.Errorf("knowledge node %d requested with no store configured: %w", id, types.ErrInvalidArgument)
	}
	node, err := e.knowledge.Node(id)
	if err != nil {
		return types.KnowledgeNode{}, fmt.Errorf("resolve knowledge node %d: %w", id, err)
	}
	return node, nil
}
