// Root command for the prism CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/prism/internal/paths"
	"github.com/mesh-intelligence/prism/pkg/prism"
	"github.com/mesh-intelligence/prism/pkg/types"
)

// Global flag values.
var (
	flagConfigDir string
	flagJSON      bool
	flagDebug     bool
	flagArch      string
	flagMemLimit  uint64
)

// cfg is the effective configuration: config.yaml merged with flag
// overrides. Set by PersistentPreRunE before any subcommand runs.
var cfg types.Config

// logger is the process logger. Library code receives it through
// options; command output itself goes to stdout via fmt.
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:     "prism",
	Short:   "Prism is a quantum-reality platform core",
	Long: `Prism boots a simulated quantum-reality platform: a hardware
abstraction layer answering capability queries, a reality engine
managing spaces and objects, an entanglement provider, and a
knowledge network.`,
	Version:      prism.Version,
	SilenceUsage: true,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unknown command %q for %q: %w", args[0], cmd.CommandPath(), types.ErrInvalidArgument)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Version output and the bare root (help or an unknown
		// command) need no configuration or logger.
		if cmd.Name() == "version" || cmd == cmd.Root() {
			return nil
		}

		l, err := newLogger(flagDebug)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		logger = l

		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		loaded, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		cfg = loaded
		applyFlagOverrides(cmd, &cfg)

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagArch, "arch", "", "HAL architecture (x86, qpu)")
	rootCmd.PersistentFlags().Uint64Var(&flagMemLimit, "memory-limit", 0, "memory limit in bytes (0 = HAL-reported total)")

	// Flag parse failures are operator mistakes; mark them so main
	// exits with the usage code.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%v: %w", err, types.ErrInvalidArgument)
	})

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(limitsCmd)
	rootCmd.AddCommand(bootCmd)
	rootCmd.AddCommand(knowledgeCmd)
}

// newLogger builds the process logger: production config with ISO8601
// timestamps by default, development config at debug level with --debug.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		zcfg := zap.NewDevelopmentConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return zcfg.Build()
	}
	zcfg := zap.NewProductionConfig()
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zcfg.Build()
}

// applyFlagOverrides lets explicitly set flags win over config.yaml.
func applyFlagOverrides(cmd *cobra.Command, c *types.Config) {
	if cmd.Flags().Changed("arch") {
		c.Arch = flagArch
	}
	if cmd.Flags().Changed("memory-limit") {
		c.MemoryLimit = flagMemLimit
	}
}
