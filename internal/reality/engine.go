// Package reality implements the reality engine: a bounded slot registry
// of spaces and their objects, with optional entanglement through an
// external provider.
package reality

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/prism/pkg/types"
)

// slot is one entry in the space registry. Slots are claimed first-fit
// and released only when the registry shuts down.
type slot struct {
	inUse bool
	space types.Space
}

// Engine implements the types.Engine registry. An Engine is not
// internally synchronized: callers serialize access to one instance.
// Independent instances are fully isolated from each other.
type Engine struct {
	initialized bool
	capacity    int
	slots       []slot
	nextID      uint64
	activeCount int
	defaults    types.EngineConfig

	provider  types.Provider
	knowledge types.KnowledgeStore
	log       *zap.Logger
	now       func() time.Time
}

var _ types.Engine = (*Engine)(nil)

// Option configures an Engine at construction.
type Option func(*Engine)

// WithProvider sets the entanglement provider. Without one, quantum
// creation requests succeed with the handle absent.
func WithProvider(p types.Provider) Option {
	return func(e *Engine) { e.provider = p }
}

// WithKnowledge sets the knowledge store used to resolve object links.
func WithKnowledge(k types.KnowledgeStore) Option {
	return func(e *Engine) { e.knowledge = k }
}

// WithLogger sets the engine logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an engine. The engine is not initialized; call Init with an
// EngineConfig before use.
func New(opts ...Option) *Engine {
	e := &Engine{
		log: zap.NewNop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Init allocates the slot registry and records creation defaults.
// Returns ErrAlreadyInitialized while initialized.
func (e *Engine) Init(cfg types.EngineConfig) error {
	if e.initialized {
		return types.ErrAlreadyInitialized
	}
	if cfg.Capacity < 0 {
		return fmt.Errorf("capacity %d must not be negative: %w", cfg.Capacity, types.ErrInvalidArgument)
	}
	if !cfg.DefaultMode.Valid() {
		return fmt.Errorf("unknown default mode %d: %w", cfg.DefaultMode, types.ErrInvalidArgument)
	}
	if !cfg.DefaultDimensions.Valid() {
		return fmt.Errorf("unknown default dimensions %d: %w", cfg.DefaultDimensions, types.ErrInvalidArgument)
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = types.DefaultSpaceCapacity
	}

	e.slots = make([]slot, cfg.Capacity)
	e.capacity = cfg.Capacity
	e.nextID = 1
	e.activeCount = 0
	e.defaults = cfg
	e.initialized = true

	e.log.Info("reality engine initialized",
		zap.Int("capacity", cfg.Capacity),
		zap.Stringer("default_mode", cfg.DefaultMode),
		zap.Stringer("default_dimensions", cfg.DefaultDimensions),
		zap.Bool("quantum", cfg.Quantum))
	return nil
}

// CreateSpace claims the first free slot for a new space. Space IDs are
// monotonic from 1 and never reused while the registry lives.
func (e *Engine) CreateSpace(mode types.Mode, dim types.Dimension, useQuantum bool) (types.Space, error) {
	if !e.initialized {
		return types.Space{}, types.ErrNotInitialized
	}
	if !mode.Valid() {
		return types.Space{}, fmt.Errorf("unknown mode %d: %w", mode, types.ErrInvalidArgument)
	}
	if !dim.Valid() {
		return types.Space{}, fmt.Errorf("unknown dimensions %d: %w", dim, types.ErrInvalidArgument)
	}

	idx := e.freeSlot()
	if idx < 0 {
		return types.Space{}, fmt.Errorf("registry has %d slots: %w", e.capacity, types.ErrCapacityExhausted)
	}

	now := e.now().UTC()
	s := types.Space{
		ID:         e.nextID,
		Mode:       mode,
		Dimensions: dim,
		CreatedAt:  now,
		LastUpdate: now,
		Correlator: newCorrelator(),
	}
	e.nextID++

	if useQuantum {
		if h, ok := e.entangle(s.Correlator, types.SpaceEntanglementWidth, "space", s.ID); ok {
			s.Entanglement = &h
		}
	}

	e.slots[idx] = slot{inUse: true, space: s}
	e.activeCount++

	e.log.Debug("space created",
		zap.Uint64("space_id", s.ID),
		zap.Stringer("mode", mode),
		zap.Stringer("dimensions", dim),
		zap.Bool("entangled", s.Entanglement != nil))
	return e.slots[idx].space.Clone(), nil
}

// CreateDefaultSpace creates a space from the defaults recorded at Init.
func (e *Engine) CreateDefaultSpace() (types.Space, error) {
	if !e.initialized {
		return types.Space{}, types.ErrNotInitialized
	}
	return e.CreateSpace(e.defaults.DefaultMode, e.defaults.DefaultDimensions, e.defaults.Quantum)
}

// GetSpace returns a deep snapshot of the space with the given id.
func (e *Engine) GetSpace(id uint64) (types.Space, error) {
	if !e.initialized {
		return types.Space{}, types.ErrNotInitialized
	}
	sl := e.lookup(id)
	if sl == nil {
		return types.Space{}, fmt.Errorf("space %d: %w", id, types.ErrNotFound)
	}
	return sl.space.Clone(), nil
}

// SyncSpace propagates entangled state for the space and its objects.
// A provider failure on the space handle fails the sync and leaves
// LastUpdate untouched; per-object failures are logged and ignored.
func (e *Engine) SyncSpace(id uint64) error {
	if !e.initialized {
		return types.ErrNotInitialized
	}
	sl := e.lookup(id)
	if sl == nil {
		return fmt.Errorf("space %d: %w", id, types.ErrNotFound)
	}
	sp := &sl.space

	if sp.Entanglement != nil && sp.Entanglement.Active {
		if err := e.provider.Sync(sp.Entanglement.ID); err != nil {
			return fmt.Errorf("sync space %d: %w", id, err)
		}
	}
	for i := range sp.Objects {
		o := &sp.Objects[i]
		if o.Entanglement == nil || !o.Entanglement.Active {
			continue
		}
		if err := e.provider.Sync(o.Entanglement.ID); err != nil {
			e.log.Debug("object sync failed",
				zap.Uint64("space_id", id),
				zap.Uint64("object_id", o.ID),
				zap.Error(err))
		}
	}

	sp.LastUpdate = e.now().UTC()
	return nil
}

// SpaceCount returns the number of occupied slots.
func (e *Engine) SpaceCount() int {
	return e.activeCount
}

// Capacity returns the slot count of the registry.
func (e *Engine) Capacity() int {
	return e.capacity
}

// Shutdown releases every space, destroys owned entanglement handles, and
// drops the registry. Safe to call when never initialized; the engine may
// be initialized again afterward.
func (e *Engine) Shutdown() {
	if !e.initialized {
		return
	}
	for i := range e.slots {
		if !e.slots[i].inUse {
			continue
		}
		e.releaseSpace(&e.slots[i].space)
		e.slots[i] = slot{}
	}
	e.slots = nil
	e.capacity = 0
	e.activeCount = 0
	e.nextID = 1
	e.initialized = false
	e.log.Info("reality engine shut down")
}

// releaseSpace destroys the entanglement handles a space and its objects
// own and clears their blob references. Objects are released before the
// space itself.
func (e *Engine) releaseSpace(sp *types.Space) {
	for i := range sp.Objects {
		o := &sp.Objects[i]
		if o.Entanglement != nil {
			e.destroyHandle(o.Entanglement.ID, "object", o.ID)
			o.Entanglement = nil
		}
		o.Geometry = nil
		o.Material = nil
		o.Knowledge = nil
	}
	sp.Objects = nil
	if sp.Entanglement != nil {
		e.destroyHandle(sp.Entanglement.ID, "space", sp.ID)
		sp.Entanglement = nil
	}
}

// entangle requests a handle from the provider. Failure or a missing
// provider leaves the handle absent without failing the caller.
func (e *Engine) entangle(correlator string, width uint32, owner string, ownerID uint64) (types.Handle, bool) {
	if e.provider == nil {
		e.log.Debug("entanglement requested without provider",
			zap.String("owner", owner), zap.Uint64("owner_id", ownerID))
		return types.Handle{}, false
	}
	h, err := e.provider.Entangle(types.KindMemory, correlator, "", width)
	if err != nil {
		e.log.Warn("entanglement create failed",
			zap.String("owner", owner),
			zap.Uint64("owner_id", ownerID),
			zap.Error(err))
		return types.Handle{}, false
	}
	return h, true
}

// destroyHandle releases a provider handle, logging failures. Handles are
// destroyed whether or not they are still active.
func (e *Engine) destroyHandle(id uint64, owner string, ownerID uint64) {
	if e.provider == nil {
		return
	}
	if err := e.provider.Destroy(id); err != nil {
		e.log.Warn("entanglement destroy failed",
			zap.String("owner", owner),
			zap.Uint64("owner_id", ownerID),
			zap.Uint64("entanglement_id", id),
			zap.Error(err))
	}
}

// freeSlot returns the index of the first free slot, or -1 when full.
func (e *Engine) freeSlot() int {
	for i := range e.slots {
		if !e.slots[i].inUse {
			return i
		}
	}
	return -1
}

// lookup returns the slot holding the space with the given id, or nil.
func (e *Engine) lookup(id uint64) *slot {
	for i := range e.slots {
		if e.slots[i].inUse && e.slots[i].space.ID == id {
			return &e.slots[i]
		}
	}
	return nil
}

// newCorrelator generates a stable endpoint token for provider calls,
// preferring time-ordered ids and never failing.
func newCorrelator() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
