// Boot command for the prism CLI.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/prism/pkg/kernel"
	"github.com/mesh-intelligence/prism/pkg/types"
)

// flagDemo drives a demonstration pass through the reality engine after
// boot: one space, one object, a sync, and a render.
var flagDemo bool

// bootReport is the JSON shape of a boot result.
type bootReport struct {
	Arch         string `json:"arch"`
	Vendor       string `json:"vendor"`
	MemoryLimit  uint64 `json:"memory_limit"`
	QuantumReady bool   `json:"quantum_ready"`
	Resonance    string `json:"resonance"`
	Capacity     int    `json:"engine_capacity"`
}

var bootCmd = &cobra.Command{
	Use:   "boot",
	Short: "Boot the full platform",
	Long: `Boot the kernel: initialize the HAL, derive system limits, ready the
quantum subsystem when present, and bring up the reality engine with its
entanglement provider and knowledge network.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		k := kernel.New(cfg, kernel.WithLogger(logger))
		if err := k.Init(); err != nil {
			return fmt.Errorf("kernel init: %w", err)
		}
		defer k.Shutdown()

		lim, err := k.SystemLimits()
		if err != nil {
			return fmt.Errorf("system limits: %w", err)
		}
		report := bootReport{
			Arch:         k.HAL().Name(),
			Vendor:       k.HAL().ProcessorInfo().Vendor,
			MemoryLimit:  lim.TotalMemory,
			QuantumReady: k.QuantumReady(),
			Resonance:    k.ResonanceLevel().String(),
			Capacity:     k.Engine().Capacity(),
		}

		w := cmd.OutOrStdout()
		if flagJSON {
			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal JSON: %w", err)
			}
			fmt.Fprintln(w, string(out))
		} else {
			fmt.Fprintf(w, "Booted %s (%s)\n", report.Arch, report.Vendor)
			fmt.Fprintf(w, "Memory limit:    %d bytes\n", report.MemoryLimit)
			fmt.Fprintf(w, "Quantum ready:   %v\n", report.QuantumReady)
			fmt.Fprintf(w, "Resonance:       %s\n", report.Resonance)
			fmt.Fprintf(w, "Engine capacity: %d spaces\n", report.Capacity)
		}

		if flagDemo {
			return runDemo(cmd, k)
		}
		return nil
	},
}

func init() {
	bootCmd.Flags().BoolVar(&flagDemo, "demo", false, "create a space and an object, sync, and render")
}

// runDemo exercises the engine end to end and prints what happened.
func runDemo(cmd *cobra.Command, k *kernel.Kernel) error {
	eng := k.Engine()
	quantum := k.QuantumReady()

	space, err := eng.CreateDefaultSpace()
	if err != nil {
		return fmt.Errorf("create space: %w", err)
	}
	obj, err := eng.CreateObject(space.ID, types.ObjectSpec{
		Name:        "cube",
		Geometry:    []byte{0x01, 0x02},
		Interactive: true,
		Quantum:     quantum,
	})
	if err != nil {
		return fmt.Errorf("create object: %w", err)
	}
	if err := eng.SyncSpace(space.ID); err != nil {
		return fmt.Errorf("sync space: %w", err)
	}

	buf := make([]byte, 128)
	n, err := eng.RenderSpace(space.ID, buf)
	if err != nil {
		return fmt.Errorf("render space: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Space %d (%s, %s), object %d %q, entangled=%v\n",
		space.ID, space.Mode, space.Dimensions, obj.ID, obj.Name, obj.Entanglement != nil)
	fmt.Fprintf(w, "Render: %s\n", buf[:n])
	return nil
}
