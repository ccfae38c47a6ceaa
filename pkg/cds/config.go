package cds

import "time"

// Config holds in-process solver configuration: iteration budgets,
// pool sizing, and the oracle's per-call time budget. There is no
// file/env loader here — "configuration loading" is an excluded
// external collaborator; only the in-memory shape is part of this
// package, mirroring the teacher's SolverConfig + constructor-takes-a-
// config-or-defaults idiom (pkg/minikanren/fd.go's SolverConfig /
// DefaultSolverConfig / NewFDSolver).
type Config struct {
	MaxIterations       int
	IterationTimeLimit  time.Duration
	StagnationThreshold int
	SolutionPoolSize    int
	FreeEdgesLowCap     int
	OracleTimeLimit     time.Duration
	UseHeuristicBoot    bool
}

// DefaultConfig returns the configuration matching spec-mandated
// defaults: 15 iterations of up to 60s each, the §4.7 constants, and
// heuristic bootstrapping disabled.
func DefaultConfig() Config {
	return Config{
		MaxIterations:       15,
		IterationTimeLimit:  60 * time.Second,
		StagnationThreshold: StagnationThreshold,
		SolutionPoolSize:    SolutionPoolSize,
		FreeEdgesLowCap:     FreeEdgesLowCap,
		OracleTimeLimit:     60 * time.Second,
		UseHeuristicBoot:    false,
	}
}

// ConfigOption mutates a Config under construction.
type ConfigOption func(*Config)

// WithMaxIterations overrides the iteration budget.
func WithMaxIterations(n int) ConfigOption {
	return func(c *Config) { c.MaxIterations = n }
}

// WithIterationTimeLimit overrides the per-iteration wall-clock budget.
func WithIterationTimeLimit(d time.Duration) ConfigOption {
	return func(c *Config) { c.IterationTimeLimit = d }
}

// WithHeuristicBootstrap toggles the C6 bootstrap path used when
// neither an engine solution nor a caller-supplied initial exists.
func WithHeuristicBootstrap(enabled bool) ConfigOption {
	return func(c *Config) { c.UseHeuristicBoot = enabled }
}

// WithStagnationThreshold overrides the number of non-improving
// iterations before CdsNeighborhoodSelector escapes to the solution
// pool (§4.7).
func WithStagnationThreshold(n int) ConfigOption {
	return func(c *Config) { c.StagnationThreshold = n }
}

// WithSolutionPoolSize overrides the bounded solution pool's capacity.
func WithSolutionPoolSize(n int) ConfigOption {
	return func(c *Config) { c.SolutionPoolSize = n }
}

// WithFreeEdgesLowCap overrides the floor max_free_edges never shrinks
// below.
func WithFreeEdgesLowCap(n int) ConfigOption {
	return func(c *Config) { c.FreeEdgesLowCap = n }
}

// WithOracleTimeLimit overrides the per-call budget handed to the
// embedded exact oracle, independent of the caller's iteration time
// limit (the oracle is never given more than the smaller of the two).
func WithOracleTimeLimit(d time.Duration) ConfigOption {
	return func(c *Config) { c.OracleTimeLimit = d }
}

// NewConfig builds a Config from DefaultConfig with opts applied.
func NewConfig(opts ...ConfigOption) Config {
	cfg := DefaultConfig()
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}
