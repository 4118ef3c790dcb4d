package hal

import (
	"errors"
	"testing"

	"github.com/mesh-intelligence/prism/pkg/types"
)

func TestNewUnsupportedArchitectures(t *testing.T) {
	for _, arch := range []types.Arch{types.ArchARM, types.ArchHybrid, types.Arch("sparc")} {
		if _, err := New(arch); !errors.Is(err, types.ErrUnsupportedArchitecture) {
			t.Errorf("New(%q): got %v, want ErrUnsupportedArchitecture", arch, err)
		}
	}
}

func TestX86Discovery(t *testing.T) {
	h, err := New(types.ArchX86)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := h.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer h.Shutdown()

	proc := h.ProcessorInfo()
	if proc.Vendor != "GenuineIntel" {
		t.Errorf("Vendor = %q, want GenuineIntel", proc.Vendor)
	}
	if proc.Family != 6 || proc.ModelID != 142 || proc.Stepping != 9 {
		t.Errorf("signature = family %d model %d stepping %d, want 6/142/9",
			proc.Family, proc.ModelID, proc.Stepping)
	}
	if proc.Model != "Family 6 Model 142 Stepping 9" {
		t.Errorf("Model = %q", proc.Model)
	}
	if proc.CoreCount != 16 {
		t.Errorf("CoreCount = %d, want 16", proc.CoreCount)
	}
	if proc.HasQuantum {
		t.Error("x86 part must not report a quantum unit")
	}
	if proc.Resonance != types.TierPrimaryNavigator {
		t.Errorf("Resonance = %v, want primary-navigator", proc.Resonance)
	}
	if h.HasQuantumSupport() {
		t.Error("HasQuantumSupport() = true, want false")
	}

	mem := h.MemoryInfo()
	if mem.TotalPhysical != 8<<30 || mem.AvailablePhysical != 7<<30 || mem.PageSize != 4096 {
		t.Errorf("memory report = %+v", mem)
	}
	if mem.SupportsEntanglement || mem.TotalQubits != 0 {
		t.Errorf("x86 memory must not report quantum figures: %+v", mem)
	}
	if mem.Resonance != types.TierZeroPoint {
		t.Errorf("memory Resonance = %v, want zero-point", mem.Resonance)
	}
}

func TestX86InitIdempotent(t *testing.T) {
	h, _ := New(types.ArchX86)
	if err := h.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := h.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}

	h.Shutdown()
	h.Shutdown() // idempotent
	if got := h.ProcessorInfo(); got.Vendor != "" {
		t.Errorf("ProcessorInfo after Shutdown = %+v, want zero", got)
	}
}

func TestX86HasNoQuantumUnit(t *testing.T) {
	h, _ := New(types.ArchX86)
	if _, ok := h.(types.QuantumUnit); ok {
		t.Error("x86 backend must not implement QuantumUnit")
	}
}

func TestQPUDiscovery(t *testing.T) {
	h, err := New(types.ArchQPU)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := h.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer h.Shutdown()

	proc := h.ProcessorInfo()
	if proc.Vendor != "QuantumCPU" {
		t.Errorf("Vendor = %q, want QuantumCPU", proc.Vendor)
	}
	if proc.Family != 16 || proc.ModelID != 1 || proc.Stepping != 0 {
		t.Errorf("signature = family %d model %d stepping %d, want 16/1/0",
			proc.Family, proc.ModelID, proc.Stepping)
	}
	if proc.CoreCount != 4 {
		t.Errorf("CoreCount = %d, want 4", proc.CoreCount)
	}
	if !h.HasQuantumSupport() {
		t.Error("HasQuantumSupport() = false, want true")
	}
	if proc.Resonance != types.TierTechnologist {
		t.Errorf("Resonance = %v, want technologist", proc.Resonance)
	}

	mem := h.MemoryInfo()
	if !mem.SupportsEntanglement || mem.TotalQubits != 64 || mem.AvailableQubits != 60 || mem.EntanglementLimit != 32 {
		t.Errorf("quantum memory report = %+v", mem)
	}
	if mem.Resonance != types.TierQuantumGuardian {
		t.Errorf("memory Resonance = %v, want quantum-guardian", mem.Resonance)
	}
}

func TestQPUQuantumUnit(t *testing.T) {
	h, _ := New(types.ArchQPU)

	unit, ok := h.(types.QuantumUnit)
	if !ok {
		t.Fatal("qpu backend must implement QuantumUnit")
	}
	if err := unit.InitQuantumUnit(); !errors.Is(err, types.ErrNotInitialized) {
		t.Errorf("InitQuantumUnit before Init: got %v, want ErrNotInitialized", err)
	}

	if err := h.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := unit.InitQuantumUnit(); err != nil {
		t.Errorf("InitQuantumUnit failed: %v", err)
	}
	if err := unit.InitQuantumUnit(); err != nil {
		t.Errorf("repeated InitQuantumUnit failed: %v", err)
	}
	h.Shutdown()
}

func TestDecodeSignature(t *testing.T) {
	tests := []struct {
		name     string
		eax      uint32
		family   uint32
		model    uint32
		stepping uint32
	}{
		{name: "family 6 folds extended model", eax: 0x000806E9, family: 6, model: 142, stepping: 9},
		{name: "extended family added", eax: 0x00220F32, family: 17, model: 35, stepping: 2},
		{name: "plain family 5", eax: 0x00000543, family: 5, model: 4, stepping: 3},
		{name: "family f extended zero keeps model fold", eax: 0x00040F21, family: 15, model: 66, stepping: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			family, model, stepping := decodeSignature(tt.eax)
			if family != tt.family || model != tt.model || stepping != tt.stepping {
				t.Errorf("decodeSignature(%#x) = %d/%d/%d, want %d/%d/%d",
					tt.eax, family, model, stepping, tt.family, tt.model, tt.stepping)
			}
		})
	}
}

func TestVendorString(t *testing.T) {
	got := vendorString(cpuidRegs{ebx: 0x756E6547, edx: 0x49656E69, ecx: 0x6C65746E})
	if got != "GenuineIntel" {
		t.Errorf("vendorString = %q, want GenuineIntel", got)
	}
	got = vendorString(cpuidRegs{ebx: 0x6E617551, edx: 0x436D7574, ecx: 0x00005550})
	if got != "QuantumCPU" {
		t.Errorf("vendorString = %q, want QuantumCPU", got)
	}
}

func TestVendorRejection(t *testing.T) {
	b := newX86()
	// "BogusVendor " assembled from a table the recognizer must reject.
	b.table[leafVendor] = cpuidRegs{ebx: 0x75676F42, edx: 0x6E655673, ecx: 0x20726F64}
	if err := b.Init(); !errors.Is(err, types.ErrUnsupportedProcessor) {
		t.Fatalf("Init with unknown vendor: got %v, want ErrUnsupportedProcessor", err)
	}
	if b.HasQuantumSupport() {
		t.Error("failed Init must leave the backend uninitialized")
	}
}

func TestFeatureNames(t *testing.T) {
	names := FeatureNames(1<<0 | 1<<25 | 1<<26)
	want := []string{"fpu", "sse", "sse2"}
	if len(names) != len(want) {
		t.Fatalf("FeatureNames = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("FeatureNames[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	if FeatureNames(0) != nil {
		t.Error("FeatureNames(0) should be nil")
	}
	// Reserved bits are skipped.
	if got := FeatureNames(1 << 10); got != nil {
		t.Errorf("reserved bit produced %v", got)
	}
}
