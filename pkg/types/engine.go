package types

import "errors"

// Engine lifecycle errors.
var (
	ErrNotInitialized     = errors.New("engine is not initialized")
	ErrAlreadyInitialized = errors.New("engine is already initialized")
)

// Operation errors shared across the platform.
var (
	ErrCapacityExhausted = errors.New("capacity exhausted")
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrAllocationFailed  = errors.New("allocation failed")
	ErrTruncated         = errors.New("output truncated")
)

// EngineConfig holds the registry shape and creation defaults for an
// engine instance.
type EngineConfig struct {
	Capacity          int       // Slot count; 0 means DefaultSpaceCapacity.
	DefaultMode       Mode      // Mode for spaces created through defaults.
	DefaultDimensions Dimension // Dimensions for spaces created through defaults.
	Quantum           bool      // Request entanglement for new spaces by default.
}

// DefaultSpaceCapacity is the slot count used when EngineConfig.Capacity
// is zero.
const DefaultSpaceCapacity = 100

// Entanglement widths the engine requests from its provider.
const (
	SpaceEntanglementWidth  = 4
	ObjectEntanglementWidth = 2
)

// Engine is the reality engine operations surface. An engine instance is
// not internally synchronized; callers serialize access to it. Multiple
// independent instances may coexist.
type Engine interface {
	// Init allocates the slot registry and records creation defaults.
	// Returns ErrAlreadyInitialized if called while initialized. Every
	// other operation returns ErrNotInitialized before Init or after
	// Shutdown.
	Init(cfg EngineConfig) error

	// CreateSpace claims the first free slot and returns a snapshot of
	// the new space. Space IDs are assigned monotonically from 1 and
	// never reused while the registry lives. Returns ErrCapacityExhausted
	// when every slot is occupied. When useQuantum is set and a provider
	// is configured, the space gets an entanglement handle; provider
	// failure leaves the handle absent without failing creation.
	CreateSpace(mode Mode, dim Dimension, useQuantum bool) (Space, error)

	// CreateDefaultSpace creates a space using the configured defaults.
	CreateDefaultSpace() (Space, error)

	// GetSpace returns a deep snapshot of the space.
	// Returns ErrNotFound if no space has that id.
	GetSpace(id uint64) (Space, error)

	// CreateObject stages a complete object, then commits it to the
	// space. On any staging failure the space is left untouched. The
	// object id is spaceID*1000 + ordinal+1. Blob slices in spec are
	// copied. Returns ErrNotFound for an unknown space.
	CreateObject(spaceID uint64, spec ObjectSpec) (Object, error)

	// SyncSpace propagates entangled state for the space and its
	// objects. A provider failure on the space handle fails the call;
	// per-object failures are ignored. LastUpdate is touched only on
	// success. A space with no entanglement syncs trivially.
	SyncSpace(id uint64) error

	// RenderSpace writes the space's render descriptor into buf and
	// returns the byte count. When the descriptor does not fit, returns
	// ErrTruncated and writes nothing; the frame count and render
	// timestamp advance only on success.
	RenderSpace(id uint64, buf []byte) (int, error)

	// SpaceCount returns the number of occupied slots.
	SpaceCount() int

	// Capacity returns the slot count of the registry, 0 before Init.
	Capacity() int

	// Shutdown releases every space, destroys owned entanglement
	// handles, and drops the registry. Safe to call when never
	// initialized. After Shutdown the engine may be initialized again.
	Shutdown()
}
