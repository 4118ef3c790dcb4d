package hal

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/prism/pkg/types"
)

// qpu is the quantum processing backend. It shares the simulated
// discovery machinery and additionally implements the optional
// QuantumUnit capability.
type qpu struct {
	backend
	unitReady bool
}

var (
	_ types.HAL         = (*qpu)(nil)
	_ types.QuantumUnit = (*qpu)(nil)
)

// newQPU builds the qpu backend. The identification table describes a
// QuantumCPU part: family 16 (0xF plus extended family 1), 4 cores.
func newQPU(opts ...Option) *qpu {
	q := &qpu{
		backend: backend{
			arch: types.ArchQPU,
			table: map[uint32]cpuidRegs{
				leafVendor:   {ebx: 0x6E617551, edx: 0x436D7574, ecx: 0x00005550},
				leafFeatures: {eax: 0x00100F10, ebx: 0x00040800, ecx: 0xFFBC3FBF, edx: 0xBFEBFBFF},
			},
			freqMHz: 4000,
			cacheKB: [3]uint32{64, 512, 16384},
			log:     zap.NewNop(),
		},
	}
	for _, opt := range opts {
		opt(&q.backend)
	}
	return q
}

// Shutdown clears discovery and quantum-unit state. Idempotent.
func (q *qpu) Shutdown() {
	q.backend.Shutdown()
	q.unitReady = false
}

// InitQuantumUnit readies the quantum processing unit. It requires a
// discovered platform and is idempotent afterward.
func (q *qpu) InitQuantumUnit() error {
	if !q.initialized {
		return types.ErrNotInitialized
	}
	if q.unitReady {
		return nil
	}
	q.unitReady = true
	q.log.Debug("quantum unit ready",
		zap.Uint32("qubits", q.mem.TotalQubits),
		zap.Uint32("entanglement_limit", q.mem.EntanglementLimit))
	return nil
}
