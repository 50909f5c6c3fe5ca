// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package undwarf

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/petar-djukic/go-undwarf/internal/synth"
	"github.com/petar-djukic/go-undwarf/pkg/types"
)

// Synthesizer rebuilds declarations for batches of compilation units.
type Synthesizer struct {
	cfg Config
}

// New validates the config and returns a ready-to-use Synthesizer.
func New(cfg Config) (*Synthesizer, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	applyDefaults(&cfg)
	return &Synthesizer{cfg: cfg}, nil
}

// Run synthesizes every unit and returns one result per unit, in input
// order. A unit that fails carries its error in UnitResult.Err and does not
// stop the others. Run itself fails only when ctx is cancelled; units not
// yet started are then reported with the context error.
func (s *Synthesizer) Run(ctx context.Context, units []*types.Unit) ([]UnitResult, error) {
	results := make([]UnitResult, len(units))
	p := pool.New().WithMaxGoroutines(s.cfg.Concurrency)
	for i, u := range units {
		p.Go(func() {
			if err := ctx.Err(); err != nil {
				results[i] = passThrough(u)
				results[i].Err = err
				return
			}
			results[i] = s.unit(u)
		})
	}
	p.Wait()
	return results, ctx.Err()
}

func (s *Synthesizer) unit(u *types.Unit) UnitResult {
	start := time.Now()
	res, err := synth.Synthesize(u, synth.Options{Logger: s.cfg.Logger})

	out := passThrough(u)
	out.Tree = res.Tree
	out.Diagnostics = res.Diagnostics
	out.Stats = stats(res)
	if err != nil {
		out.Err = fmt.Errorf("%w: %w", ErrAborted, err)
		s.cfg.Logger.Error("unit aborted", slog.String("unit", u.Name), slog.Any("error", err))
		return out
	}

	s.cfg.Logger.Info("unit synthesized",
		slog.String("unit", u.Name),
		slog.Int("constructs", out.Stats.Constructs),
		slog.Int("declarations", res.Tree.Len()),
		slog.Duration("elapsed", time.Since(start)),
	)
	return out
}

func passThrough(u *types.Unit) UnitResult {
	return UnitResult{
		Unit:        u.Name,
		Producer:    u.Producer,
		AddressSize: u.AddressSize,
		Language:    u.Language,
	}
}

func stats(res *synth.Result) Stats {
	st := Stats{
		Constructs:   res.Constructs,
		Anonymous:    res.Anonymous,
		Declarations: make(map[string]int),
		Diagnostics:  make(map[string]int),
	}
	for kind, n := range res.Tree.Count() {
		st.Declarations[kind.String()] = n
	}
	for _, d := range res.Diagnostics {
		st.Diagnostics[d.Severity.String()]++
	}
	return st
}

// validateConfig checks field ranges.
func validateConfig(cfg Config) error {
	if cfg.Concurrency < 0 {
		return fmt.Errorf("Concurrency must not be negative, got %d", cfg.Concurrency)
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Concurrency == 0 {
		cfg.Concurrency = runtime.GOMAXPROCS(0)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
}
