// Probe command for the prism CLI.
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/prism/internal/hal"
	"github.com/mesh-intelligence/prism/pkg/types"
)

// probeReport is the JSON shape of a probe result.
type probeReport struct {
	Arch      string          `json:"arch"`
	Processor processorReport `json:"processor"`
	Memory    memoryReport    `json:"memory"`
}

type processorReport struct {
	Vendor       string   `json:"vendor"`
	Model        string   `json:"model"`
	Family       uint32   `json:"family"`
	ModelID      uint32   `json:"model_id"`
	Stepping     uint32   `json:"stepping"`
	Cores        uint32   `json:"cores"`
	FrequencyMHz uint64   `json:"frequency_mhz"`
	CacheKB      []uint32 `json:"cache_kb"`
	Features     []string `json:"features"`
	QuantumUnit  bool     `json:"quantum_unit"`
	Resonance    string   `json:"resonance"`
}

type memoryReport struct {
	TotalBytes        uint64 `json:"total_bytes"`
	AvailableBytes    uint64 `json:"available_bytes"`
	PageSize          uint32 `json:"page_size"`
	TotalQubits       uint32 `json:"total_qubits"`
	AvailableQubits   uint32 `json:"available_qubits"`
	EntanglementLimit uint32 `json:"entanglement_limit"`
	Entanglement      bool   `json:"entanglement_supported"`
	Resonance         string `json:"resonance"`
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Probe the hardware abstraction layer",
	Long: `Initialize the HAL backend for the configured architecture and print
its processor, memory, and resonance report. Nothing else boots.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := hal.New(cfg.ArchOrDefault(), hal.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("select hal backend: %w", err)
		}
		if err := backend.Init(); err != nil {
			return fmt.Errorf("hal init: %w", err)
		}
		defer backend.Shutdown()

		report := buildProbeReport(backend)
		if flagJSON {
			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		w := cmd.OutOrStdout()
		p := report.Processor
		fmt.Fprintf(w, "Architecture: %s\n", report.Arch)
		fmt.Fprintf(w, "Vendor:       %s\n", p.Vendor)
		fmt.Fprintf(w, "Model:        %s\n", p.Model)
		fmt.Fprintf(w, "Cores:        %d @ %d MHz\n", p.Cores, p.FrequencyMHz)
		fmt.Fprintf(w, "Caches:       L1 %d KB, L2 %d KB, L3 %d KB\n", p.CacheKB[0], p.CacheKB[1], p.CacheKB[2])
		fmt.Fprintf(w, "Features:     %s\n", strings.Join(p.Features, " "))
		fmt.Fprintf(w, "Quantum unit: %v\n", p.QuantumUnit)
		fmt.Fprintf(w, "Resonance:    %s\n", p.Resonance)
		m := report.Memory
		fmt.Fprintf(w, "Memory:       %d bytes total, %d available, page %d\n", m.TotalBytes, m.AvailableBytes, m.PageSize)
		if m.Entanglement {
			fmt.Fprintf(w, "Qubits:       %d total, %d available, entanglement limit %d (%s)\n",
				m.TotalQubits, m.AvailableQubits, m.EntanglementLimit, m.Resonance)
		} else {
			fmt.Fprintln(w, "Qubits:       entanglement unsupported")
		}
		return nil
	},
}

// buildProbeReport converts the HAL reports into the probe output shape.
func buildProbeReport(backend types.HAL) probeReport {
	proc := backend.ProcessorInfo()
	mem := backend.MemoryInfo()
	return probeReport{
		Arch: backend.Name(),
		Processor: processorReport{
			Vendor:       proc.Vendor,
			Model:        proc.Model,
			Family:       proc.Family,
			ModelID:      proc.ModelID,
			Stepping:     proc.Stepping,
			Cores:        proc.CoreCount,
			FrequencyMHz: proc.FrequencyMHz,
			CacheKB:      []uint32{proc.CacheL1KB, proc.CacheL2KB, proc.CacheL3KB},
			Features:     hal.FeatureNames(proc.FeatureFlags),
			QuantumUnit:  proc.HasQuantum,
			Resonance:    proc.Resonance.String(),
		},
		Memory: memoryReport{
			TotalBytes:        mem.TotalPhysical,
			AvailableBytes:    mem.AvailablePhysical,
			PageSize:          mem.PageSize,
			TotalQubits:       mem.TotalQubits,
			AvailableQubits:   mem.AvailableQubits,
			EntanglementLimit: mem.EntanglementLimit,
			Entanglement:      mem.SupportsEntanglement,
			Resonance:         mem.Resonance.String(),
		},
	}
}
