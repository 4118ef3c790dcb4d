// Package entangle provides a simulated entanglement provider. It tracks
// entanglements in a bounded slot registry and models entangled state as
// amplitude vectors, so the engine's quantum paths run end to end without
// quantum hardware.
package entangle

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/prism/pkg/types"
)

// MaxWidth is the widest entanglement the simulation models. Amplitude
// vectors hold 1<<width entries, so width bounds allocation size.
const MaxWidth = 16

// record is one tracked entanglement. Each endpoint carries a simulated
// amplitude vector of 1<<width entries; Sync copies source over target.
type record struct {
	inUse       bool
	handle      types.Handle
	kind        types.EntanglementKind
	source      string
	target      string
	width       uint32
	sourceState []float64
	targetState []float64
	createdAt   time.Time
}

// Info is an introspection snapshot of a tracked entanglement.
type Info struct {
	Handle    types.Handle
	Kind      types.EntanglementKind
	Source    string
	Target    string
	Width     uint32
	CreatedAt time.Time
}

// Manager is the simulated provider. Unlike the engine it is internally
// synchronized: the kernel and engine paths may share one instance.
type Manager struct {
	mu       sync.Mutex
	capacity int
	records  []record
	nextID   uint64
	active   int
	log      *zap.Logger
	now      func() time.Time
}

var _ types.Provider = (*Manager)(nil)

// Option configures a Manager at construction.
type Option func(*Manager)

// WithLogger sets the manager logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithClock overrides the manager's time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a provider tracking at most capacity entanglements.
// A capacity of zero or less uses DefaultEntangleCapacity.
func NewManager(capacity int, opts ...Option) *Manager {
	if capacity <= 0 {
		capacity = types.DefaultEntangleCapacity
	}
	m := &Manager{
		capacity: capacity,
		records:  make([]record, capacity),
		nextID:   1,
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Entangle creates an entanglement between two endpoint labels. An empty
// target labels an unpaired endpoint. The returned handle is active.
func (m *Manager) Entangle(kind types.EntanglementKind, source, target string, width uint32) (types.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if source == "" {
		return types.Handle{}, fmt.Errorf("entangle: empty source: %w", types.ErrInvalidArgument)
	}
	if width == 0 {
		return types.Handle{}, fmt.Errorf("entangle: zero width: %w", types.ErrInvalidArgument)
	}
	if width > MaxWidth {
		return types.Handle{}, fmt.Errorf("entangle: width %d exceeds maximum %d: %w", width, MaxWidth, types.ErrInvalidArgument)
	}
	if !kind.Valid() {
		return types.Handle{}, fmt.Errorf("entangle: unknown kind %d: %w", kind, types.ErrInvalidArgument)
	}

	idx := -1
	for i := range m.records {
		if !m.records[i].inUse {
			idx = i
			break
		}
	}
	if idx < 0 {
		return types.Handle{}, fmt.Errorf("entangle: %d of %d slots in use: %w", m.active, m.capacity, types.ErrCapacityExhausted)
	}

	h := types.Handle{ID: m.nextID, Active: true}
	m.nextID++

	m.records[idx] = record{
		inUse:       true,
		handle:      h,
		kind:        kind,
		source:      source,
		target:      target,
		width:       width,
		sourceState: newState(width),
		targetState: make([]float64, 1<<width),
		createdAt:   m.now().UTC(),
	}
	m.active++

	m.log.Debug("entanglement created",
		zap.Uint64("id", h.ID),
		zap.Stringer("kind", kind),
		zap.Uint32("width", width),
		zap.Bool("paired", target != ""))
	return h, nil
}

// Sync copies the source state over the target state.
func (m *Manager) Sync(id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.find(id)
	if rec == nil || !rec.handle.Active {
		return fmt.Errorf("sync entanglement %d: %w", id, types.ErrNotFound)
	}
	copy(rec.targetState, rec.sourceState)
	return nil
}

// Destroy deactivates and releases the entanglement. Destroying an
// unknown or already-destroyed id is an error.
func (m *Manager) Destroy(id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.records {
		if m.records[i].inUse && m.records[i].handle.ID == id {
			m.records[i] = record{}
			m.active--
			m.log.Debug("entanglement destroyed", zap.Uint64("id", id))
			return nil
		}
	}
	return fmt.Errorf("destroy entanglement %d: %w", id, types.ErrNotFound)
}

// Info returns an introspection snapshot for the entanglement.
func (m *Manager) Info(id uint64) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.find(id)
	if rec == nil {
		return Info{}, fmt.Errorf("entanglement %d: %w", id, types.ErrNotFound)
	}
	return Info{
		Handle:    rec.handle,
		Kind:      rec.kind,
		Source:    rec.source,
		Target:    rec.target,
		Width:     rec.width,
		CreatedAt: rec.createdAt,
	}, nil
}

// Count returns the number of live entanglements.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Capacity returns the registry slot count.
func (m *Manager) Capacity() int {
	return m.capacity
}

// Shutdown releases every tracked entanglement. The manager stays usable;
// ids keep advancing from where they were.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.records {
		m.records[i] = record{}
	}
	m.active = 0
	m.log.Debug("entanglement manager drained")
}

// find returns the record holding id, or nil. Caller holds m.mu.
func (m *Manager) find(id uint64) *record {
	for i := range m.records {
		if m.records[i].inUse && m.records[i].handle.ID == id {
			return &m.records[i]
		}
	}
	return nil
}

// newState builds the initial source amplitudes: an even superposition of
// the all-zero and all-one basis states.
func newState(width uint32) []float64 {
	state := make([]float64, 1<<width)
	state[0] = math.Sqrt2 / 2
	state[len(state)-1] = math.Sqrt2 / 2
	return state
}
