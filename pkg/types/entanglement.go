package types

import "fmt"

// EntanglementKind classifies what an entanglement binds.
type EntanglementKind uint8

// Entanglement kinds. Spaces and objects entangle memory regions.
const (
	KindProcess EntanglementKind = 0
	KindDevice  EntanglementKind = 1
	KindMemory  EntanglementKind = 2
	KindFile    EntanglementKind = 3
)

// Valid reports whether k is a recognized entanglement kind.
func (k EntanglementKind) Valid() bool {
	return k <= KindFile
}

// String returns the lowercase name of the kind.
func (k EntanglementKind) String() string {
	switch k {
	case KindProcess:
		return "process"
	case KindDevice:
		return "device"
	case KindMemory:
		return "memory"
	case KindFile:
		return "file"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Handle is an opaque reference to a provider-managed entanglement.
// Spaces and objects hold an optional *Handle: nil means no entanglement
// was requested or obtained; a non-nil handle with Active false is still
// owned and is released at shutdown.
type Handle struct {
	ID     uint64
	Active bool
}

// Clone returns a copy of the handle, or nil for a nil handle.
func (h *Handle) Clone() *Handle {
	if h == nil {
		return nil
	}
	c := *h
	return &c
}

// Provider is the entanglement provider contract the engine depends on.
// The provider is external to the engine; only this surface is assumed.
// Endpoint labels are correlator tokens, not addresses; an empty target
// labels an unpaired endpoint.
type Provider interface {
	// Entangle creates an entanglement of the given kind and width
	// between two endpoints. Returns ErrInvalidArgument for an empty
	// source, an unrecognized kind, or a width of zero or beyond what
	// the provider can model, and ErrCapacityExhausted when the
	// provider cannot track more entanglements.
	Entangle(kind EntanglementKind, source, target string, width uint32) (Handle, error)

	// Sync propagates entangled state from source to target.
	// Returns ErrNotFound for unknown or inactive handles.
	Sync(id uint64) error

	// Destroy releases the entanglement. Returns ErrNotFound for unknown
	// handles; destroying a handle twice is an error.
	Destroy(id uint64) error
}
