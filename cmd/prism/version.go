// Version command for the prism CLI.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/prism/pkg/prism"
)

const modulePath = "github.com/mesh-intelligence/prism"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the prism version",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagJSON {
			out, err := json.MarshalIndent(map[string]string{
				"version": prism.Version,
				"module":  modulePath,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "prism v%s\nmodule: %s\n", prism.Version, modulePath)
		return nil
	},
}
