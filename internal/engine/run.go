package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/validata-io/validata/pkg/core"
)

// columnFindings is what one worker produces for one matched column.
type columnFindings struct {
	order    int
	typeViol *core.TypeViolation
	ruleRes  ruleResult
}

// Validate runs the full pipeline for a table against the named target
// schema. A missing schema degrades to a report with SchemaMissing set;
// any other catalog failure is an error.
func (e *Engine) Validate(ctx context.Context, table *core.Table, targetName string) (*core.Report, error) {
	runID := uuid.NewString()
	log := e.logger.With("run_id", runID, "source", table.Name, "target", targetName)

	report := &core.Report{
		RunID:       runID,
		Source:      table.Name,
		TargetTable: targetName,
		RowCount:    table.RowCount,
	}

	schema, err := e.catalog.Schema(ctx, targetName)
	if err != nil {
		var snf *core.SchemaNotFoundError
		if errors.As(err, &snf) {
			log.Warn("target schema not found, producing degraded report")
			report.SchemaMissing = true
			report.SchemaReason = snf.Error()
			report.Drift = core.DriftResult{Skipped: true, Reason: "no target schema"}
			report.Load = core.LoadRecommendation{
				Strategy: core.LoadManual,
				Reasons:  []string{"target schema unavailable"},
			}
			report.RootCauses = assembleRootCauses(report)
			return report, nil
		}
		return nil, fmt.Errorf("resolve schema for %s: %w", targetName, err)
	}

	report.Mapping = e.matcher.Match(table, schema)
	log.Debug("matched columns",
		"matched", len(report.Mapping.Matched),
		"missing", len(report.Mapping.Missing),
		"extra", len(report.Mapping.Extra))

	findings, err := e.checkColumns(ctx, table, schema, report.Mapping)
	if err != nil {
		return nil, err
	}
	for _, f := range findings {
		if f.typeViol != nil {
			report.TypeViolations = append(report.TypeViolations, *f.typeViol)
		}
		report.InferredRules = append(report.InferredRules, f.ruleRes.Rules...)
		report.Violations = append(report.Violations, f.ruleRes.Violations...)
		report.SkippedRules = append(report.SkippedRules, f.ruleRes.Skipped...)
	}

	report.Drift = e.detectDrift(ctx, table, targetName, report.Mapping, log)
	report.Load = recommendLoad(table, schema, report.Mapping, report.Violations)
	report.Totals = scoreSeverity(schema, report.Mapping, report.TypeViolations, report.Violations)
	report.RootCauses = assembleRootCauses(report)

	e.saveSnapshot(ctx, table, targetName, runID, report.Mapping, log)

	log.Info("validation complete",
		"high", report.Totals.High,
		"medium", report.Totals.Medium,
		"low", report.Totals.Low,
		"strategy", report.Load.Strategy)
	return report, nil
}

// checkColumns fans type and rule checks out to one worker per matched
// column. Workers share a cancellation context; the first failure cancels
// the rest, and all workers have joined before results are read.
func (e *Engine) checkColumns(ctx context.Context, table *core.Table, schema *core.TargetSchema, mapping core.ColumnMapping) ([]columnFindings, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	findings := make([]columnFindings, 0, len(mapping.Matched))

	for i, mc := range mapping.Matched {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			col := table.Column(mc.FileColumn)
			spec := schema.Column(mc.TargetColumn)
			if col == nil || spec == nil {
				return fmt.Errorf("matched column %s -> %s not resolvable", mc.FileColumn, mc.TargetColumn)
			}

			f := columnFindings{
				order:    i,
				typeViol: checkType(col, *spec, table.RowCount, e.sampleSize),
				ruleRes:  checkRules(col, *spec, table.RowCount, e.sampleSize),
			}
			mu.Lock()
			findings = append(findings, f)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Workers finish in arbitrary order; reports must not.
	sort.Slice(findings, func(a, b int) bool { return findings[a].order < findings[b].order })
	return findings, nil
}

func (e *Engine) detectDrift(ctx context.Context, table *core.Table, targetName string, mapping core.ColumnMapping, log *slog.Logger) core.DriftResult {
	if e.baseline == nil {
		return core.DriftResult{Skipped: true, Reason: "baseline store disabled"}
	}
	baselineCols, runID, err := e.baseline.LatestSnapshot(ctx, targetName)
	if err != nil {
		log.Warn("baseline lookup failed, skipping drift detection", "error", err)
		return core.DriftResult{Skipped: true, Reason: "baseline lookup failed"}
	}
	return diffColumns(resolvedColumns(table, mapping), baselineCols, runID)
}

func (e *Engine) saveSnapshot(ctx context.Context, table *core.Table, targetName, runID string, mapping core.ColumnMapping, log *slog.Logger) {
	if e.baseline == nil {
		return
	}
	cols := resolvedColumns(table, mapping)
	if err := e.baseline.SaveSnapshot(ctx, targetName, runID, cols); err != nil {
		log.Warn("failed to record baseline snapshot", "error", err)
		return
	}
	if err := e.baseline.Prune(ctx, targetName, e.keepSnapshots); err != nil {
		log.Warn("failed to prune baseline snapshots", "error", err)
	}
}
