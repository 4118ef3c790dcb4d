package types

import "errors"

// Arch selects a HAL backend.
type Arch string

// Supported architecture names. Only x86 and qpu have backends today;
// arm and hybrid are reserved and rejected by the HAL factory.
const (
	ArchX86    Arch = "x86"
	ArchARM    Arch = "arm"
	ArchQPU    Arch = "qpu"
	ArchHybrid Arch = "hybrid"
)

// knownArchitectures is the set of recognized architecture names.
var knownArchitectures = map[Arch]bool{
	ArchX86:    true,
	ArchARM:    true,
	ArchQPU:    true,
	ArchHybrid: true,
}

// Valid reports whether a is a recognized architecture name.
func (a Arch) Valid() bool {
	return knownArchitectures[a]
}

// HAL errors.
var (
	ErrUnsupportedArchitecture = errors.New("unsupported architecture")
	ErrUnsupportedProcessor    = errors.New("unsupported processor vendor")
)

// ProcessorInfo reports processor capabilities discovered by a HAL
// backend. Family, ModelID, and Stepping carry the extended-field folding
// already applied.
type ProcessorInfo struct {
	Vendor       string // 12-character vendor identification string.
	Model        string // Human-readable model description.
	Family       uint32
	ModelID      uint32
	Stepping     uint32
	CoreCount    uint32 // At least 1.
	FrequencyMHz uint64
	FeatureFlags uint32 // Raw feature bitset from discovery.
	CacheL1KB    uint32
	CacheL2KB    uint32
	CacheL3KB    uint32
	HasQuantum   bool // Whether a quantum processing unit is present.
	Resonance    Tier // Informational capability tier.
}

// MemoryInfo reports memory and quantum-memory capabilities. A zero
// TotalPhysical means the backend could not report memory information.
type MemoryInfo struct {
	TotalPhysical        uint64 // Bytes.
	AvailablePhysical    uint64 // Bytes.
	PageSize             uint32 // Bytes.
	TotalQubits          uint32 // 0 without quantum memory.
	AvailableQubits      uint32
	EntanglementLimit    uint32 // Max simultaneously entangled regions.
	SupportsEntanglement bool
	Resonance            Tier // Informational capability tier.
}

// SystemLimits are the resource ceilings the kernel derives at boot.
type SystemLimits struct {
	TotalMemory    uint64 // Effective memory limit in bytes.
	MaxProcesses   uint32
	MaxThreads     uint32 // Per process.
	MaxFileHandles uint32
	MaxDevices     uint32
}

// Default system limit values.
const (
	DefaultMaxProcesses   = 1024
	DefaultMaxThreads     = 64
	DefaultMaxFileHandles = 1024
	DefaultMaxDevices     = 256
)

// DefaultSystemLimits returns the standard limits with the given
// effective memory total.
func DefaultSystemLimits(totalMemory uint64) SystemLimits {
	return SystemLimits{
		TotalMemory:    totalMemory,
		MaxProcesses:   DefaultMaxProcesses,
		MaxThreads:     DefaultMaxThreads,
		MaxFileHandles: DefaultMaxFileHandles,
		MaxDevices:     DefaultMaxDevices,
	}
}

// HAL is the capability-query surface a backend exposes to the kernel.
type HAL interface {
	// Init discovers the platform. Returns ErrUnsupportedProcessor when
	// the processor vendor is not recognized. Calling Init again without
	// Shutdown succeeds without side effects.
	Init() error

	// Shutdown releases discovery state. Idempotent.
	Shutdown()

	// ProcessorInfo returns the processor capability report.
	ProcessorInfo() ProcessorInfo

	// MemoryInfo returns the memory capability report. A zero-valued
	// report means memory information is unavailable.
	MemoryInfo() MemoryInfo

	// HasQuantumSupport reports whether a quantum processing unit is
	// present.
	HasQuantumSupport() bool

	// Name returns the backend's architecture name.
	Name() string
}

// QuantumUnit is an optional HAL capability. Backends with a quantum
// processing unit implement it; callers discover it by type assertion
// and tolerate its absence.
type QuantumUnit interface {
	// InitQuantumUnit readies the quantum processing unit.
	InitQuantumUnit() error
}
