package types

import "fmt"

// Config holds platform settings as they appear in config files and
// flags. String-typed mode and dimension fields keep the serialized form
// friendly; EngineConfig converts them to typed values.
type Config struct {
	Arch        string            `json:"arch" yaml:"arch"`
	MemoryLimit uint64            `json:"memory_limit" yaml:"memory_limit"`
	Engine      EngineSettings    `json:"engine" yaml:"engine"`
	Entangle    EntangleSettings  `json:"entangle" yaml:"entangle"`
	Knowledge   KnowledgeSettings `json:"knowledge" yaml:"knowledge"`
}

// EngineSettings configures the reality engine registry.
type EngineSettings struct {
	Capacity          int    `json:"capacity" yaml:"capacity"`
	DefaultMode       string `json:"default_mode" yaml:"default_mode"`
	DefaultDimensions string `json:"default_dimensions" yaml:"default_dimensions"`
	Quantum           bool   `json:"quantum" yaml:"quantum"`
}

// EntangleSettings configures the simulated entanglement provider.
type EntangleSettings struct {
	Capacity int `json:"capacity" yaml:"capacity"`
}

// KnowledgeSettings configures the knowledge network.
type KnowledgeSettings struct {
	DSN string `json:"dsn" yaml:"dsn"`
}

// Configuration defaults.
const (
	DefaultArch             = ArchX86
	DefaultMode             = "physical"
	DefaultDimensions       = "3d"
	DefaultEntangleCapacity = 32
	DefaultKnowledgeDSN     = ":memory:"
)

// Validate checks that the Config is well-formed. Empty fields are
// allowed; defaults apply when the config is consumed. Returns an error
// wrapping ErrInvalidArgument on failure.
func (c Config) Validate() error {
	if c.Arch != "" && !Arch(c.Arch).Valid() {
		return fmt.Errorf("unknown architecture %q: %w", c.Arch, ErrInvalidArgument)
	}
	if c.Engine.Capacity < 0 {
		return fmt.Errorf("engine capacity must not be negative: %w", ErrInvalidArgument)
	}
	if c.Engine.DefaultMode != "" {
		if _, err := ParseMode(c.Engine.DefaultMode); err != nil {
			return err
		}
	}
	if c.Engine.DefaultDimensions != "" {
		if _, err := ParseDimension(c.Engine.DefaultDimensions); err != nil {
			return err
		}
	}
	if c.Entangle.Capacity < 0 {
		return fmt.Errorf("entangle capacity must not be negative: %w", ErrInvalidArgument)
	}
	return nil
}

// ArchOrDefault returns the configured architecture, or DefaultArch when
// unset.
func (c Config) ArchOrDefault() Arch {
	if c.Arch == "" {
		return DefaultArch
	}
	return Arch(c.Arch)
}

// EngineConfig converts the engine settings to their typed form,
// applying defaults for empty fields.
func (c Config) EngineConfig() (EngineConfig, error) {
	mode := c.Engine.DefaultMode
	if mode == "" {
		mode = DefaultMode
	}
	dims := c.Engine.DefaultDimensions
	if dims == "" {
		dims = DefaultDimensions
	}
	m, err := ParseMode(mode)
	if err != nil {
		return EngineConfig{}, err
	}
	d, err := ParseDimension(dims)
	if err != nil {
		return EngineConfig{}, err
	}
	return EngineConfig{
		Capacity:          c.Engine.Capacity,
		DefaultMode:       m,
		DefaultDimensions: d,
		Quantum:           c.Engine.Quantum,
	}, nil
}
