package memex

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/prism/pkg/types"
)

// CreateRelation adds a typed, weighted edge between two existing nodes.
// Strength is clamped to [0,1]. Creating a relation that already exists
// with the same endpoints and type returns the existing edge.
func (n *Network) CreateRelation(relationType string, sourceID, targetID uint64, strength float64) (types.KnowledgeRelation, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return types.KnowledgeRelation{}, types.ErrNotInitialized
	}
	if !types.ValidRelationType(relationType) {
		return types.KnowledgeRelation{}, fmt.Errorf("unknown relation type %q: %w", relationType, types.ErrInvalidArgument)
	}
	if sourceID == 0 || targetID == 0 {
		return types.KnowledgeRelation{}, fmt.Errorf("relation endpoints must be nonzero: %w", types.ErrInvalidArgument)
	}
	for _, id := range []uint64{sourceID, targetID} {
		var one int
		if err := n.db.QueryRow("SELECT 1 FROM nodes WHERE node_id = ?", id).Scan(&one); err != nil {
			if err == sql.ErrNoRows {
				return types.KnowledgeRelation{}, fmt.Errorf("knowledge node %d: %w", id, types.ErrNotFound)
			}
			return types.KnowledgeRelation{}, fmt.Errorf("check knowledge node %d: %w", id, err)
		}
	}

	// Duplicate edges collapse onto the existing relation.
	existing := n.db.QueryRow(
		"SELECT relation_id, source_id, target_id, relation_type, strength, created_at FROM relations WHERE source_id = ? AND target_id = ? AND relation_type = ?",
		sourceID, targetID, relationType,
	)
	if rel, err := scanRelation(existing); err == nil {
		return rel, nil
	} else if err != sql.ErrNoRows {
		return types.KnowledgeRelation{}, fmt.Errorf("check existing relation: %w", err)
	}

	var count int
	if err := n.db.QueryRow("SELECT COUNT(*) FROM relations").Scan(&count); err != nil {
		return types.KnowledgeRelation{}, fmt.Errorf("count relations: %w", err)
	}
	if count >= maxRelations {
		return types.KnowledgeRelation{}, fmt.Errorf("graph holds %d relations: %w", maxRelations, types.ErrCapacityExhausted)
	}

	now := n.now().UTC()
	strength = clampStrength(strength)
	res, err := n.db.Exec(
		"INSERT INTO relations (source_id, target_id, relation_type, strength, created_at) VALUES (?, ?, ?, ?, ?)",
		sourceID, targetID, relationType, strength, timestamp(now),
	)
	if err != nil {
		return types.KnowledgeRelation{}, fmt.Errorf("insert relation %d->%d: %w", sourceID, targetID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.KnowledgeRelation{}, fmt.Errorf("relation id: %w", err)
	}

	n.log.Debug("knowledge relation created",
		zap.Int64("relation_id", id),
		zap.Uint64("source_id", sourceID),
		zap.Uint64("target_id", targetID),
		zap.String("type", relationType))
	return types.KnowledgeRelation{
		ID:        uint64(id),
		SourceID:  sourceID,
		TargetID:  targetID,
		Type:      relationType,
		Strength:  strength,
		CreatedAt: now,
	}, nil
}

// Related returns the nodes reachable from nodeID over one relation hop,
// optionally filtered by relation type. A limit of zero or less returns
// up to 20 nodes.
func (n *Network) Related(nodeID uint64, relationType string, limit int) ([]types.KnowledgeNode, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil, types.ErrNotInitialized
	}
	if relationType != "" && !types.ValidRelationType(relationType) {
		return nil, fmt.Errorf("unknown relation type %q: %w", relationType, types.ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = 20
	}

	query := "SELECT " + prefixedNodeColumns + " FROM relations r JOIN nodes n ON n.node_id = r.target_id WHERE r.source_id = ?"
	args := []any{nodeID}
	if relationType != "" {
		query += " AND r.relation_type = ?"
		args = append(args, relationType)
	}
	query += " ORDER BY r.strength DESC, r.relation_id ASC LIMIT ?"
	args = append(args, limit)

	rows, err := n.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("related nodes for %d: %w", nodeID, err)
	}
	defer rows.Close()

	var nodes []types.KnowledgeNode
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan related node: %w", err)
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("related nodes for %d: %w", nodeID, err)
	}
	return nodes, nil
}

const prefixedNodeColumns = "n.node_id, n.node_type, n.name, n.description, n.strength, n.created_at, n.updated_at"

// scanRelation hydrates one relation row.
func scanRelation(s scanner) (types.KnowledgeRelation, error) {
	var (
		rel       types.KnowledgeRelation
		createdAt string
	)
	if err := s.Scan(&rel.ID, &rel.SourceID, &rel.TargetID, &rel.Type, &rel.Strength, &createdAt); err != nil {
		return types.KnowledgeRelation{}, err
	}
	rel.CreatedAt = parseTimestamp(createdAt)
	return rel, nil
}
