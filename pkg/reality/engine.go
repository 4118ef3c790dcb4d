// Package reality provides the public API for the reality engine.
// It exposes the factory function and construction options while keeping
// the implementation internal.
package reality

import (
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/prism/internal/reality"
	"github.com/mesh-intelligence/prism/pkg/types"
)

// Option configures an engine at construction.
type Option = reality.Option

// WithProvider sets the entanglement provider. Without one, quantum
// creation requests succeed with the handle absent.
func WithProvider(p types.Provider) Option {
	return reality.WithProvider(p)
}

// WithKnowledge sets the knowledge store used to resolve object links.
func WithKnowledge(k types.KnowledgeStore) Option {
	return reality.WithKnowledge(k)
}

// WithLogger sets the engine logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return reality.WithLogger(l)
}

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return reality.WithClock(now)
}

// NewEngine creates a reality engine. The engine is not initialized; call
// Init with an EngineConfig before use.
//
// Example:
//
//	eng := reality.NewEngine()
//	err := eng.Init(types.EngineConfig{Capacity: 100})
//	defer eng.Shutdown()
func NewEngine(opts ...Option) types.Engine {
	return reality.New(opts...)
}
