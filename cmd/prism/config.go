// Config loading for the prism CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/prism/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyArch           = "arch"
	cfgKeyMemoryLimit    = "memory_limit"
	cfgKeyEngineCapacity = "engine.capacity"
	cfgKeyEngineMode     = "engine.default_mode"
	cfgKeyEngineDims     = "engine.default_dimensions"
	cfgKeyEngineQuantum  = "engine.quantum"
	cfgKeyEntangleCap    = "entangle.capacity"
	cfgKeyKnowledgeDSN   = "knowledge.dsn"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Prism platform configuration

# HAL architecture (x86, qpu)
arch: x86

# Memory limit in bytes (0 = use HAL-reported total)
memory_limit: 0

engine:
  capacity: 100
  default_mode: physical
  default_dimensions: 3d
  quantum: false

entangle:
  capacity: 32

knowledge:
  dsn: ":memory:"
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on
// first run. A missing config.yaml is not an error; defaults apply.
func loadConfig(configDir string) (types.Config, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyArch, string(types.DefaultArch))
	v.SetDefault(cfgKeyMemoryLimit, 0)
	v.SetDefault(cfgKeyEngineCapacity, types.DefaultSpaceCapacity)
	v.SetDefault(cfgKeyEngineMode, types.DefaultMode)
	v.SetDefault(cfgKeyEngineDims, types.DefaultDimensions)
	v.SetDefault(cfgKeyEngineQuantum, false)
	v.SetDefault(cfgKeyEntangleCap, types.DefaultEntangleCapacity)
	v.SetDefault(cfgKeyKnowledgeDSN, types.DefaultKnowledgeDSN)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
		// Missing config.yaml is not an error; defaults apply.
	}

	return types.Config{
		Arch:        v.GetString(cfgKeyArch),
		MemoryLimit: v.GetUint64(cfgKeyMemoryLimit),
		Engine: types.EngineSettings{
			Capacity:          v.GetInt(cfgKeyEngineCapacity),
			DefaultMode:       v.GetString(cfgKeyEngineMode),
			DefaultDimensions: v.GetString(cfgKeyEngineDims),
			Quantum:           v.GetBool(cfgKeyEngineQuantum),
		},
		Entangle: types.EntangleSettings{
			Capacity: v.GetInt(cfgKeyEntangleCap),
		},
		Knowledge: types.KnowledgeSettings{
			DSN: v.GetString(cfgKeyKnowledgeDSN),
		},
	}, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
