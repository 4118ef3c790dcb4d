package memex

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/prism/pkg/types"
)

const nodeColumns = "node_id, node_type, name, description, strength, created_at, updated_at"

// CreateNode adds a node to the graph. Names are required; types must be
// one of the recognized node types. New nodes start at strength 0.5.
func (n *Network) CreateNode(nodeType, name, description string) (types.KnowledgeNode, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return types.KnowledgeNode{}, types.ErrNotInitialized
	}
	if name == "" {
		return types.KnowledgeNode{}, fmt.Errorf("node name must not be empty: %w", types.ErrInvalidArgument)
	}
	if !types.ValidNodeType(nodeType) {
		return types.KnowledgeNode{}, fmt.Errorf("unknown node type %q: %w", nodeType, types.ErrInvalidArgument)
	}

	var count int
	if err := n.db.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&count); err != nil {
		return types.KnowledgeNode{}, fmt.Errorf("count nodes: %w", err)
	}
	if count >= maxNodes {
		return types.KnowledgeNode{}, fmt.Errorf("graph holds %d nodes: %w", maxNodes, types.ErrCapacityExhausted)
	}

	now := n.now().UTC()
	res, err := n.db.Exec(
		"INSERT INTO nodes (node_type, name, description, strength, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		nodeType, name, description, 0.5, timestamp(now), timestamp(now),
	)
	if err != nil {
		return types.KnowledgeNode{}, fmt.Errorf("insert node %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.KnowledgeNode{}, fmt.Errorf("node id for %q: %w", name, err)
	}

	n.log.Debug("knowledge node created",
		zap.Int64("node_id", id),
		zap.String("type", nodeType),
		zap.String("name", name))
	return types.KnowledgeNode{
		ID:          uint64(id),
		Type:        nodeType,
		Name:        name,
		Description: description,
		Strength:    0.5,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Node returns the node with the given id.
// Returns ErrNotFound if no node exists with that id.
func (n *Network) Node(id uint64) (types.KnowledgeNode, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return types.KnowledgeNode{}, types.ErrNotInitialized
	}
	row := n.db.QueryRow("SELECT "+nodeColumns+" FROM nodes WHERE node_id = ?", id)
	node, err := scanNode(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.KnowledgeNode{}, fmt.Errorf("knowledge node %d: %w", id, types.ErrNotFound)
		}
		return types.KnowledgeNode{}, fmt.Errorf("get knowledge node %d: %w", id, err)
	}
	return node, nil
}

// FindNodes returns nodes whose name or description contains the query,
// newest first. A limit of zero or less returns up to 20 matches.
func (n *Network) FindNodes(query string, limit int) ([]types.KnowledgeNode, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil, types.ErrNotInitialized
	}
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"
	rows, err := n.db.Query(
		"SELECT "+nodeColumns+" FROM nodes WHERE name LIKE ? OR description LIKE ? ORDER BY node_id DESC LIMIT ?",
		pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("find nodes %q: %w", query, err)
	}
	defer rows.Close()

	var nodes []types.KnowledgeNode
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find nodes %q: %w", query, err)
	}
	return nodes, nil
}

// Strengthen adjusts a node's strength by delta, clamped to [0,1].
func (n *Network) Strengthen(id uint64, delta float64) (types.KnowledgeNode, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return types.KnowledgeNode{}, types.ErrNotInitialized
	}
	row := n.db.QueryRow("SELECT "+nodeColumns+" FROM nodes WHERE node_id = ?", id)
	node, err := scanNode(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.KnowledgeNode{}, fmt.Errorf("knowledge node %d: %w", id, types.ErrNotFound)
		}
		return types.KnowledgeNode{}, fmt.Errorf("get knowledge node %d: %w", id, err)
	}

	node.Strength = clampStrength(node.Strength + delta)
	node.UpdatedAt = n.now().UTC()
	if _, err := n.db.Exec(
		"UPDATE nodes SET strength = ?, updated_at = ? WHERE node_id = ?",
		node.Strength, timestamp(node.UpdatedAt), id,
	); err != nil {
		return types.KnowledgeNode{}, fmt.Errorf("update knowledge node %d: %w", id, err)
	}
	return node, nil
}

// scanner covers sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanNode hydrates one node row.
func scanNode(s scanner) (types.KnowledgeNode, error) {
	var (
		node        types.KnowledgeNode
		description sql.NullString
		createdAt   string
		updatedAt   string
	)
	if err := s.Scan(&node.ID, &node.Type, &node.Name, &description, &node.Strength, &createdAt, &updatedAt); err != nil {
		return types.KnowledgeNode{}, err
	}
	node.Description = description.String
	node.CreatedAt = parseTimestamp(createdAt)
	node.UpdatedAt = parseTimestamp(updatedAt)
	return node, nil
}
