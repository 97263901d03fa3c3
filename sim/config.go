package sim

import "fmt"

const (
	DefaultSilverQuantum     int64 = 80
	DefaultGoldQuantum       int64 = 120
	DefaultContextSwitchCost int64 = 10
	DefaultExitCost          int64 = 10
	DefaultMaxInstructionID  int   = 20
)

// DefaultMaxCycles only guards against non-termination. Idle cycles advance the
// clock by one tick, so it must comfortably exceed the latest arrival time.
const DefaultMaxCycles int64 = 10_000_000

// QuantumConfig groups the time-slice lengths of the sliced tiers.
// PLATINUM has no quantum: it always runs to completion.
type QuantumConfig struct {
	Silver int64 // SILVER quantum in ticks (must be > 0)
	Gold   int64 // GOLD quantum in ticks (must be > 0)
}

// AgingConfig groups the cumulative-executed-time promotion thresholds.
type AgingConfig struct {
	SilverToGold   int64 // 0 = 3 * Silver quantum
	GoldToPlatinum int64 // 0 = 5 * Gold quantum
}

// EngineConfig groups all Scheduling Engine parameters for NewSimulator.
type EngineConfig struct {
	Quantum           QuantumConfig
	Aging             AgingConfig
	ContextSwitchCost int64 // charged after every platinum run
	InitialClock      int64 // the mandatory context switch before any execution
	MaxCycles         int64 // safety net; exceeding it is an ErrInvariantViolation
}

// BuilderConfig groups Process Model Builder parameters.
type BuilderConfig struct {
	ExitCost         int64 // fixed overhead of the exit instruction, added to every burst
	MaxInstructionID int   // valid instruction ids are [1, MaxInstructionID]
}

// NewQuantumConfig creates a QuantumConfig with all fields explicitly set.
func NewQuantumConfig(silver, gold int64) QuantumConfig {
	return QuantumConfig{Silver: silver, Gold: gold}
}

// NewAgingConfig creates an AgingConfig with all fields explicitly set.
func NewAgingConfig(silverToGold, goldToPlatinum int64) AgingConfig {
	return AgingConfig{SilverToGold: silverToGold, GoldToPlatinum: goldToPlatinum}
}

// DefaultEngineConfig returns the reference policy: 80/120 quanta, 10-tick context
// switches, promotion at 240 and 600 executed ticks.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Quantum:           NewQuantumConfig(DefaultSilverQuantum, DefaultGoldQuantum),
		Aging:             NewAgingConfig(3*DefaultSilverQuantum, 5*DefaultGoldQuantum),
		ContextSwitchCost: DefaultContextSwitchCost,
		InitialClock:      DefaultContextSwitchCost,
		MaxCycles:         DefaultMaxCycles,
	}
}

// DefaultBuilderConfig returns the reference builder parameters.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{ExitCost: DefaultExitCost, MaxInstructionID: DefaultMaxInstructionID}
}

// withDefaults fills derived zero-valued fields. Thresholds follow the quanta.
func (c EngineConfig) withDefaults() EngineConfig {
	if c.Aging.SilverToGold == 0 {
		c.Aging.SilverToGold = 3 * c.Quantum.Silver
	}
	if c.Aging.GoldToPlatinum == 0 {
		c.Aging.GoldToPlatinum = 5 * c.Quantum.Gold
	}
	if c.MaxCycles == 0 {
		c.MaxCycles = DefaultMaxCycles
	}
	return c
}

// Validate checks that all parameters are usable. Errors wrap ErrMalformedInput.
func (c EngineConfig) Validate() error {
	if c.Quantum.Silver <= 0 || c.Quantum.Gold <= 0 {
		return fmt.Errorf("%w: quanta must be positive, got silver=%d gold=%d", ErrMalformedInput, c.Quantum.Silver, c.Quantum.Gold)
	}
	if c.Aging.SilverToGold < 0 || c.Aging.GoldToPlatinum < 0 {
		return fmt.Errorf("%w: aging thresholds must be non-negative, got %d and %d", ErrMalformedInput, c.Aging.SilverToGold, c.Aging.GoldToPlatinum)
	}
	if c.ContextSwitchCost < 0 {
		return fmt.Errorf("%w: context switch cost must be non-negative, got %d", ErrMalformedInput, c.ContextSwitchCost)
	}
	if c.InitialClock < 0 {
		return fmt.Errorf("%w: initial clock must be non-negative, got %d", ErrMalformedInput, c.InitialClock)
	}
	if c.MaxCycles < 0 {
		return fmt.Errorf("%w: max cycles must be non-negative, got %d", ErrMalformedInput, c.MaxCycles)
	}
	return nil
}

// quantumFor returns the slice length for a tier. ok is false for PLATINUM.
func (c QuantumConfig) quantumFor(t Tier) (q int64, ok bool) {
	switch t {
	case TierSilver:
		return c.Silver, true
	case TierGold:
		return c.Gold, true
	default:
		return 0, false
	}
}
