// Limits command for the prism CLI.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/prism/pkg/kernel"
)

// limitsReport is the JSON shape of a limits result.
type limitsReport struct {
	TotalMemory    uint64 `json:"total_memory"`
	MaxProcesses   uint32 `json:"max_processes"`
	MaxThreads     uint32 `json:"max_threads"`
	MaxFileHandles uint32 `json:"max_file_handles"`
	MaxDevices     uint32 `json:"max_devices"`
}

var limitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "Boot the kernel and print system limits",
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

		if flagJSON {
			out, err := json.MarshalIndent(limitsReport{
				TotalMemory:    lim.TotalMemory,
				MaxProcesses:   lim.MaxProcesses,
				MaxThreads:     lim.MaxThreads,
				MaxFileHandles: lim.MaxFileHandles,
				MaxDevices:     lim.MaxDevices,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Total memory:     %d bytes\n", lim.TotalMemory)
		fmt.Fprintf(w, "Max processes:    %d\n", lim.MaxProcesses)
		fmt.Fprintf(w, "Max threads:      %d per process\n", lim.MaxThreads)
		fmt.Fprintf(w, "Max file handles: %d\n", lim.MaxFileHandles)
		fmt.Fprintf(w, "Max devices:      %d\n", lim.MaxDevices)
		return nil
	},
}
