// Package engine implements the validation pipeline: column matching,
// type and quality checks, drift detection, and report assembly.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/validata-io/validata/internal/baseline"
	"github.com/validata-io/validata/internal/catalog"
)

// DefaultSampleSize is how many non-null values type and rule inference
// look at per column.
const DefaultSampleSize = 50

// DefaultMatchThreshold is the minimum similarity score for an alias-phase
// column match.
const DefaultMatchThreshold = 0.6

// DefaultKeepSnapshots is how many baseline snapshot runs are retained
// per table.
const DefaultKeepSnapshots = 3

// Config carries the engine's collaborators and tunables. Catalog is
// required; Baseline may be nil, which disables drift detection and
// snapshot recording.
type Config struct {
	Catalog  catalog.Catalog
	Baseline baseline.Store
	Logger   *slog.Logger

	// SampleSize overrides DefaultSampleSize when > 0.
	SampleSize int
	// MatchThreshold overrides DefaultMatchThreshold when > 0. Values
	// above 1 are clamped.
	MatchThreshold float64
	// Aliases adds entries to the built-in column alias dictionary.
	Aliases map[string]string
	// KeepSnapshots overrides DefaultKeepSnapshots when > 0.
	KeepSnapshots int
}

// Engine runs validation and profiling against a catalog and an optional
// baseline store.
type Engine struct {
	catalog       catalog.Catalog
	baseline      baseline.Store
	logger        *slog.Logger
	matcher       *Matcher
	sampleSize    int
	keepSnapshots int
}

// New validates cfg and builds an Engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("engine config: catalog is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sampleSize := cfg.SampleSize
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	threshold := cfg.MatchThreshold
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	keep := cfg.KeepSnapshots
	if keep <= 0 {
		keep = DefaultKeepSnapshots
	}

	return &Engine{
		catalog:       cfg.Catalog,
		baseline:      cfg.Baseline,
		logger:        logger,
		matcher:       NewMatcher(threshold, cfg.Aliases),
		sampleSize:    sampleSize,
		keepSnapshots: keep,
	}, nil
}

// Catalog exposes the engine's schema catalog for table listing.
func (e *Engine) Catalog() catalog.Catalog { return e.catalog }

// Close releases the engine's collaborators.
func (e *Engine) Close() error {
	var first error
	if e.catalog != nil {
		if err := e.catalog.Close(); err != nil {
			first = err
		}
	}
	if e.baseline != nil {
		if err := e.baseline.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
