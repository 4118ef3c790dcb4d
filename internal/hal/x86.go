package hal

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/prism/pkg/types"
)

// cpuidRegs holds one identification leaf.
type cpuidRegs struct {
	eax, ebx, ecx, edx uint32
}

// Identification leaves.
const (
	leafVendor   = 0
	leafFeatures = 1
)

// backend is a simulated discovery backend driven by a fixed
// identification table. Both architectures share this machinery; only
// the table and the quantum surface differ.
type backend struct {
	arch    types.Arch
	table   map[uint32]cpuidRegs
	freqMHz uint64
	cacheKB [3]uint32

	initialized bool
	proc        types.ProcessorInfo
	mem         types.MemoryInfo
	log         *zap.Logger
}

var _ types.HAL = (*backend)(nil)

// newX86 builds the x86 backend. The identification table describes a
// Family 6 Model 142 Stepping 9 part with 16 cores.
func newX86(opts ...Option) *backend {
	b := &backend{
		arch: types.ArchX86,
		table: map[uint32]cpuidRegs{
			leafVendor:   {ebx: 0x756E6547, edx: 0x49656E69, ecx: 0x6C65746E},
			leafFeatures: {eax: 0x000806E9, ebx: 0x00100800, ecx: 0xFFBC3FBF, edx: 0xBFEBFBFF},
		},
		freqMHz: 3200,
		cacheKB: [3]uint32{32, 256, 8192},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// cpuid reads one leaf from the identification table.
func (b *backend) cpuid(leaf uint32) cpuidRegs {
	return b.table[leaf]
}

// Init discovers the simulated platform. Repeated calls without Shutdown
// succeed without side effects.
func (b *backend) Init() error {
	if b.initialized {
		return nil
	}

	vendor := vendorString(b.cpuid(leafVendor))
	if !recognizedVendors[vendor] {
		return fmt.Errorf("vendor %q: %w", vendor, types.ErrUnsupportedProcessor)
	}

	id := b.cpuid(leafFeatures)
	family, model, stepping := decodeSignature(id.eax)
	cores := (id.ebx >> 16) & 0xFF
	if cores == 0 {
		cores = 1
	}
	quantum := vendor == vendorQuantum

	b.proc = types.ProcessorInfo{
		Vendor:       vendor,
		Model:        fmt.Sprintf("Family %d Model %d Stepping %d", family, model, stepping),
		Family:       family,
		ModelID:      model,
		Stepping:     stepping,
		CoreCount:    cores,
		FrequencyMHz: b.freqMHz,
		FeatureFlags: id.edx,
		CacheL1KB:    b.cacheKB[0],
		CacheL2KB:    b.cacheKB[1],
		CacheL3KB:    b.cacheKB[2],
		HasQuantum:   quantum,
		Resonance:    processorTier(quantum, family),
	}
	b.mem = memoryReport(quantum)
	b.initialized = true

	b.log.Debug("hal initialized",
		zap.String("arch", string(b.arch)),
		zap.String("vendor", vendor),
		zap.Uint32("family", family),
		zap.Uint32("model", model),
		zap.Bool("quantum", quantum))
	return nil
}

// Shutdown clears discovery state. Idempotent.
func (b *backend) Shutdown() {
	b.initialized = false
	b.proc = types.ProcessorInfo{}
	b.mem = types.MemoryInfo{}
}

// ProcessorInfo returns the processor report, zero before Init.
func (b *backend) ProcessorInfo() types.ProcessorInfo {
	return b.proc
}

// MemoryInfo returns the memory report, zero before Init.
func (b *backend) MemoryInfo() types.MemoryInfo {
	return b.mem
}

// HasQuantumSupport reports whether the discovered processor carries a
// quantum processing unit.
func (b *backend) HasQuantumSupport() bool {
	return b.initialized && b.proc.HasQuantum
}

// Name returns the backend's architecture name.
func (b *backend) Name() string {
	return string(b.arch)
}

// vendorString assembles the 12-byte vendor identification from the
// vendor leaf in ebx, edx, ecx order, dropping trailing padding.
func vendorString(r cpuidRegs) string {
	raw := make([]byte, 0, 12)
	for _, reg := range [3]uint32{r.ebx, r.edx, r.ecx} {
		raw = append(raw, byte(reg), byte(reg>>8), byte(reg>>16), byte(reg>>24))
	}
	end := len(raw)
	for end > 0 && (raw[end-1] == 0 || raw[end-1] == ' ') {
		end--
	}
	return string(raw[:end])
}

// decodeSignature splits the processor signature into family, model, and
// stepping, folding the extended fields: family 0xF adds the extended
// family, and families 0x6 and 0xF fold the extended model in.
func decodeSignature(eax uint32) (family, model, stepping uint32) {
	base := (eax >> 8) & 0xF
	family = base
	model = (eax >> 4) & 0xF
	stepping = eax & 0xF
	if base == 0xF {
		family += (eax >> 20) & 0xFF
	}
	if base == 0x6 || base == 0xF {
		model += ((eax >> 16) & 0xF) << 4
	}
	return family, model, stepping
}

// processorTier picks the informational resonance tier for a processor.
func processorTier(quantum bool, family uint32) types.Tier {
	switch {
	case quantum:
		return types.TierTechnologist
	case family >= 0x10:
		return types.TierMatrixArchitect
	default:
		return types.TierPrimaryNavigator
	}
}

// memoryReport builds the memory capability report: 8 GiB physical with
// 7 GiB available, and quantum memory figures when a quantum unit is
// present.
func memoryReport(quantum bool) types.MemoryInfo {
	mem := types.MemoryInfo{
		TotalPhysical:     8 << 30,
		AvailablePhysical: 7 << 30,
		PageSize:          4096,
		Resonance:         types.TierZeroPoint,
	}
	if quantum {
		mem.TotalQubits = 64
		mem.AvailableQubits = 60
		mem.EntanglementLimit = 32
		mem.SupportsEntanglement = true
		mem.Resonance = types.TierQuantumGuardian
	}
	return mem
}
