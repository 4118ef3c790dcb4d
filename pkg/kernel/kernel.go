// Package kernel is the boot façade for the prism platform. It selects a
// HAL backend, derives system limits, readies the quantum subsystem, and
// composes the reality engine with its entanglement provider and
// knowledge store.
package kernel

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/prism/internal/entangle"
	"github.com/mesh-intelligence/prism/internal/hal"
	"github.com/mesh-intelligence/prism/internal/memex"
	"github.com/mesh-intelligence/prism/pkg/reality"
	"github.com/mesh-intelligence/prism/pkg/types"
)

// fallbackMemoryLimit applies when the HAL cannot report memory totals.
const fallbackMemoryLimit = 8 << 30

// Kernel owns the platform lifecycle. Init and Shutdown are safe for
// concurrent use; the engine it exposes is not, per the Engine contract.
type Kernel struct {
	mu          sync.Mutex
	initialized bool
	cfg         types.Config

	hal          types.HAL
	engine       types.Engine
	provider     types.Provider
	knowledge    types.KnowledgeStore
	ownKnowledge bool

	limits       types.SystemLimits
	quantumReady bool
	resonance    types.Tier
	log          *zap.Logger

	injectedHAL       types.HAL
	injectedProvider  types.Provider
	injectedKnowledge types.KnowledgeStore
}

// Option configures a Kernel at construction.
type Option func(*Kernel)

// WithLogger sets the kernel logger, shared with the components it
// constructs. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(k *Kernel) {
		if l != nil {
			k.log = l
		}
	}
}

// WithHAL injects a HAL backend instead of selecting one from the
// configured architecture.
func WithHAL(h types.HAL) Option {
	return func(k *Kernel) { k.injectedHAL = h }
}

// WithProvider injects an entanglement provider. An injected provider is
// handed to the engine regardless of quantum readiness.
func WithProvider(p types.Provider) Option {
	return func(k *Kernel) { k.injectedProvider = p }
}

// WithKnowledge injects a knowledge store. The kernel does not close
// injected stores on shutdown.
func WithKnowledge(s types.KnowledgeStore) Option {
	return func(k *Kernel) { k.injectedKnowledge = s }
}

// New creates a kernel for the given configuration. Nothing starts until
// Init.
func New(cfg types.Config, opts ...Option) *Kernel {
	k := &Kernel{
		cfg: cfg,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Init boots the platform. Calling Init on an initialized kernel logs
// and returns nil. A HAL failure aborts the boot; a quantum-unit failure
// is a warning and leaves the kernel running without quantum readiness.
func (k *Kernel) Init() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.initialized {
		k.log.Info("kernel already initialized")
		return nil
	}
	if err := k.cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	h := k.injectedHAL
	if h == nil {
		backend, err := hal.New(k.cfg.ArchOrDefault(), hal.WithLogger(k.log))
		if err != nil {
			return fmt.Errorf("select hal backend: %w", err)
		}
		h = backend
	}
	if err := h.Init(); err != nil {
		return fmt.Errorf("hal init: %w", err)
	}

	mem := h.MemoryInfo()
	limit := effectiveMemoryLimit(k.cfg.MemoryLimit, mem)
	proc := h.ProcessorInfo()

	quantumReady := false
	if h.HasQuantumSupport() {
		unit, ok := h.(types.QuantumUnit)
		switch {
		case !ok:
			k.log.Warn("quantum support reported without a quantum unit surface",
				zap.String("arch", h.Name()))
		default:
			if err := unit.InitQuantumUnit(); err != nil {
				k.log.Warn("quantum unit init failed", zap.Error(err))
			} else {
				quantumReady = true
			}
		}
	}

	provider := k.injectedProvider
	if provider == nil && quantumReady {
		provider = entangle.NewManager(k.cfg.Entangle.Capacity, entangle.WithLogger(k.log))
	}

	knowledge := k.injectedKnowledge
	ownKnowledge := false
	if knowledge == nil {
		dsn := k.cfg.Knowledge.DSN
		if dsn == "" {
			dsn = types.DefaultKnowledgeDSN
		}
		net, err := memex.Open(dsn, memex.WithLogger(k.log))
		if err != nil {
			h.Shutdown()
			return fmt.Errorf("open knowledge network: %w", err)
		}
		knowledge = net
		ownKnowledge = true
	}

	engCfg, err := k.cfg.EngineConfig()
	if err != nil {
		k.closeKnowledge(knowledge, ownKnowledge)
		h.Shutdown()
		return err
	}

	engineOpts := []reality.Option{reality.WithLogger(k.log), reality.WithKnowledge(knowledge)}
	if provider != nil {
		engineOpts = append(engineOpts, reality.WithProvider(provider))
	}
	eng := reality.NewEngine(engineOpts...)
	if err := eng.Init(engCfg); err != nil {
		k.closeKnowledge(knowledge, ownKnowledge)
		h.Shutdown()
		return fmt.Errorf("engine init: %w", err)
	}

	k.hal = h
	k.engine = eng
	k.provider = provider
	k.knowledge = knowledge
	k.ownKnowledge = ownKnowledge
	k.limits = types.DefaultSystemLimits(limit)
	k.quantumReady = quantumReady
	k.resonance = proc.Resonance
	k.initialized = true

	k.log.Info("kernel initialized",
		zap.String("arch", h.Name()),
		zap.String("vendor", proc.Vendor),
		zap.Uint64("memory_limit", limit),
		zap.Bool("quantum_ready", quantumReady),
		zap.Stringer("resonance", k.resonance))
	return nil
}

// Shutdown tears the platform down in reverse boot order: engine first,
// then provider, HAL, and any owned knowledge store. Idempotent and safe
// before Init.
func (k *Kernel) Shutdown() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.initialized {
		return
	}
	k.engine.Shutdown()
	if drainer, ok := k.provider.(interface{ Shutdown() }); ok {
		drainer.Shutdown()
	}
	k.hal.Shutdown()
	k.closeKnowledge(k.knowledge, k.ownKnowledge)

	k.hal = nil
	k.engine = nil
	k.provider = nil
	k.knowledge = nil
	k.ownKnowledge = false
	k.limits = types.SystemLimits{}
	k.quantumReady = false
	k.resonance = 0
	k.initialized = false
	k.log.Info("kernel shut down")
}

// SystemLimits returns the limits derived at boot.
// Returns ErrNotInitialized before Init.
func (k *Kernel) SystemLimits() (types.SystemLimits, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.initialized {
		return types.SystemLimits{}, types.ErrNotInitialized
	}
	return k.limits, nil
}

// Engine returns the reality engine, nil before Init.
func (k *Kernel) Engine() types.Engine {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.engine
}

// HAL returns the active HAL backend, nil before Init.
func (k *Kernel) HAL() types.HAL {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.hal
}

// Provider returns the entanglement provider, nil when the platform
// booted without one.
func (k *Kernel) Provider() types.Provider {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.provider
}

// Knowledge returns the knowledge store, nil before Init.
func (k *Kernel) Knowledge() types.KnowledgeStore {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.knowledge
}

// QuantumReady reports whether the quantum subsystem came up.
func (k *Kernel) QuantumReady() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.quantumReady
}

// ResonanceLevel returns the processor resonance tier discovered at boot.
func (k *Kernel) ResonanceLevel() types.Tier {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.resonance
}

// Initialized reports whether the kernel is booted.
func (k *Kernel) Initialized() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.initialized
}

// closeKnowledge closes a knowledge store the kernel owns. Injected
// stores belong to the caller.
func (k *Kernel) closeKnowledge(s types.KnowledgeStore, owned bool) {
	if !owned {
		return
	}
	if closer, ok := s.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			k.log.Warn("close knowledge network failed", zap.Error(err))
		}
	}
}

// effectiveMemoryLimit applies the boot memory rule: the configured limit
// capped by the reported total, the total when unconfigured, and a fixed
// fallback when memory info is unavailable.
func effectiveMemoryLimit(configured uint64, mem types.MemoryInfo) uint64 {
	if mem.TotalPhysical == 0 {
		return fallbackMemoryLimit
	}
	if configured == 0 || configured > mem.TotalPhysical {
		return mem.TotalPhysical
	}
	return configured
}
