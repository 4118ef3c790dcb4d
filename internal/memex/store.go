// Package memex implements the knowledge network: a typed, weighted
// graph of nodes and relations backed by SQLite. The default DSN is
// in-memory; the graph persists only when a file DSN is configured.
package memex

import (
	"database/sql"
	_ "embed"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/prism/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// Graph capacity, matching the platform's bounded-registry convention.
const (
	maxNodes     = 1000
	maxRelations = 5000
)

// Network is a knowledge graph handle. Operations are safe for
// concurrent use.
type Network struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
	log    *zap.Logger
	now    func() time.Time
}

var _ types.KnowledgeStore = (*Network)(nil)

// Option configures a Network at construction.
type Option func(*Network)

// WithLogger sets the network logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(n *Network) {
		if l != nil {
			n.log = l
		}
	}
}

// WithClock overrides the network's time source.
func WithClock(now func() time.Time) Option {
	return func(n *Network) {
		if now != nil {
			n.now = now
		}
	}
}

// Open opens the knowledge network at the given DSN and applies the
// schema. An empty DSN opens an in-memory network.
func Open(dsn string, opts ...Option) (*Network, error) {
	if dsn == "" {
		dsn = types.DefaultKnowledgeDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open knowledge db: %w", err)
	}
	// An in-memory database lives on a single connection; keep one so
	// every statement sees the same graph.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply knowledge schema: %w", err)
	}

	n := &Network{
		db:  db,
		log: zap.NewNop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.log.Debug("knowledge network opened", zap.String("dsn", dsn))
	return n, nil
}

// Close releases the network. Idempotent; operations after Close return
// ErrNotInitialized.
func (n *Network) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}
	n.closed = true
	if err := n.db.Close(); err != nil {
		return fmt.Errorf("close knowledge db: %w", err)
	}
	return nil
}

// Counts returns the number of nodes and relations in the graph.
func (n *Network) Counts() (nodes, relations int, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return 0, 0, types.ErrNotInitialized
	}
	if err := n.db.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&nodes); err != nil {
		return 0, 0, fmt.Errorf("count nodes: %w", err)
	}
	if err := n.db.QueryRow("SELECT COUNT(*) FROM relations").Scan(&relations); err != nil {
		return 0, 0, fmt.Errorf("count relations: %w", err)
	}
	return nodes, relations, nil
}

// timestamp formats t for storage.
func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTimestamp reads a stored timestamp, tolerating an empty column.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// clampStrength bounds a weight to [0,1].
func clampStrength(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
