// Package hal provides hardware abstraction backends. Backends answer
// capability queries (processor, memory, quantum support) through the
// types.HAL surface; discovery is simulated from fixed identification
// tables rather than probed from real hardware.
package hal

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/prism/pkg/types"
)

// Recognized processor vendors.
const (
	vendorIntel   = "GenuineIntel"
	vendorAMD     = "AuthenticAMD"
	vendorQuantum = "QuantumCPU"
)

var recognizedVendors = map[string]bool{
	vendorIntel:   true,
	vendorAMD:     true,
	vendorQuantum: true,
}

// Option configures a backend at construction.
type Option func(*backend)

// WithLogger sets the backend logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *backend) {
		if l != nil {
			b.log = l
		}
	}
}

// New returns the HAL backend for the architecture. Only x86 and qpu
// have backends; other recognized names are reserved.
func New(arch types.Arch, opts ...Option) (types.HAL, error) {
	switch arch {
	case types.ArchX86:
		return newX86(opts...), nil
	case types.ArchQPU:
		return newQPU(opts...), nil
	case types.ArchARM, types.ArchHybrid:
		return nil, fmt.Errorf("architecture %q has no backend yet: %w", arch, types.ErrUnsupportedArchitecture)
	}
	return nil, fmt.Errorf("architecture %q: %w", arch, types.ErrUnsupportedArchitecture)
}

// edx feature bit names, indexed by bit position. Unassigned bits are
// reserved and stay empty.
var featureNames = [32]string{
	0: "fpu", 1: "vme", 2: "de", 3: "pse", 4: "tsc", 5: "msr",
	6: "pae", 7: "mce", 8: "cx8", 9: "apic", 11: "sep", 12: "mtrr",
	13: "pge", 14: "mca", 15: "cmov", 16: "pat", 17: "pse36",
	19: "clfsh", 21: "ds", 22: "acpi", 23: "mmx", 24: "fxsr",
	25: "sse", 26: "sse2", 27: "ss", 28: "htt", 29: "tm", 31: "pbe",
}

// FeatureNames expands a feature bitset into the names of the set bits,
// lowest bit first. Reserved bits are skipped.
func FeatureNames(flags uint32) []string {
	var names []string
	for bit := 0; bit < 32; bit++ {
		if flags&(1<<bit) == 0 || featureNames[bit] == "" {
			continue
		}
		names = append(names, featureNames[bit])
	}
	return names
}
