package engine

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/validata-io/validata/pkg/core"
)

const (
	formatSupportMin  = 0.9
	numericSupportMin = 0.9
	enumMaxDistinct   = 10
	enumMaxRowShare   = 0.3
)

// formatLibrary is the closed, ordered set of patterns FORMAT inference
// draws from. The first pattern covering enough of the sample wins.
var formatLibrary = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"code", regexp.MustCompile(`^[A-Za-z]+[0-9]+$`)},
	{"iso-date", regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)},
	{"email", regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)},
	{"numeric", regexp.MustCompile(`^-?\d+(\.\d+)?$`)},
}

// ruleResult bundles everything rule processing produces for one column.
type ruleResult struct {
	Rules      []core.QualityRule
	Violations []core.QualityViolation
	Skipped    []core.SkippedRule
}

// checkRules infers quality rules from a column's sample and evaluates
// them against the full column. A rule that cannot be evaluated is skipped
// and recorded, never fatal.
func checkRules(col *core.Column, spec core.ColumnSpec, rowCount, sampleSize int) ruleResult {
	var res ruleResult
	sample := sampleValues(col, sampleSize)
	observed := observeType(sample)

	// NOT_NULL is always a candidate but only binds on non-nullable
	// targets.
	if spec.Nullable {
		res.Skipped = append(res.Skipped, core.SkippedRule{
			Column: spec.Name,
			Kind:   core.RuleNotNull,
			Reason: "target column is nullable",
		})
	} else {
		rule := core.QualityRule{Column: spec.Name, Kind: core.RuleNotNull, SupportRatio: 1}
		res.Rules = append(res.Rules, rule)
		if nulls := col.NullCount(); nulls > 0 {
			res.Violations = append(res.Violations, core.QualityViolation{
				Rule:     rule,
				Count:    nulls,
				RowCount: rowCount,
				Severity: core.SeverityHigh,
			})
		}
	}

	if len(sample) == 0 {
		res.Skipped = append(res.Skipped, core.SkippedRule{
			Column: spec.Name,
			Kind:   core.RuleFormat,
			Reason: "no non-null values to sample",
		})
		return res
	}

	inferred := []func(*core.Column, core.ColumnSpec, []string, core.ColumnType, int) (*core.QualityRule, *core.QualityViolation, error){
		inferFormat,
		inferEnum,
		inferRange,
		inferNumeric,
	}
	for _, infer := range inferred {
		rule, violation, err := infer(col, spec, sample, observed, rowCount)
		if err != nil {
			var re *core.RuleEvaluationError
			if errors.As(err, &re) {
				res.Skipped = append(res.Skipped, core.SkippedRule{
					Column: re.Column,
					Kind:   re.Kind,
					Reason: re.Err.Error(),
				})
			}
			continue
		}
		if rule != nil {
			res.Rules = append(res.Rules, *rule)
		}
		if violation != nil {
			res.Violations = append(res.Violations, *violation)
		}
	}
	return res
}

// ratioSeverity grades FORMAT, ENUM and NUMERIC violations.
func ratioSeverity(count, rowCount int) core.Severity {
	if rowCount > 0 && float64(count)/float64(rowCount) > 0.1 {
		return core.SeverityHigh
	}
	return core.SeverityMedium
}

func collectViolation(col *core.Column, rule core.QualityRule, rowCount int, bad func(string) bool, severity func(int) core.Severity) *core.QualityViolation {
	count := 0
	var samples []string
	seen := make(map[string]bool)
	for i, v := range col.Values {
		if col.IsNull(i) || !bad(v) {
			continue
		}
		count++
		if len(samples) < maxInvalidSamples && !seen[v] {
			seen[v] = true
			samples = append(samples, v)
		}
	}
	if count == 0 {
		return nil
	}
	return &core.QualityViolation{
		Rule:     rule,
		Count:    count,
		RowCount: rowCount,
		Samples:  samples,
		Severity: severity(count),
	}
}

func inferFormat(col *core.Column, spec core.ColumnSpec, sample []string, _ core.ColumnType, rowCount int) (*core.QualityRule, *core.QualityViolation, error) {
	for _, entry := range formatLibrary {
		hits := 0
		for _, v := range sample {
			if entry.pattern.MatchString(strings.TrimSpace(v)) {
				hits++
			}
		}
		support := float64(hits) / float64(len(sample))
		if support < formatSupportMin {
			continue
		}
		rule := core.QualityRule{
			Column:       spec.Name,
			Kind:         core.RuleFormat,
			Pattern:      entry.pattern.String(),
			SupportRatio: support,
		}
		violation := collectViolation(col, rule, rowCount, func(v string) bool {
			return !entry.pattern.MatchString(strings.TrimSpace(v))
		}, func(n int) core.Severity { return ratioSeverity(n, rowCount) })
		return &rule, violation, nil
	}
	return nil, nil, nil
}

func inferEnum(col *core.Column, spec core.ColumnSpec, sample []string, _ core.ColumnType, rowCount int) (*core.QualityRule, *core.QualityViolation, error) {
	distinct := make(map[string]bool, len(sample))
	for _, v := range sample {
		distinct[strings.TrimSpace(v)] = true
	}
	limit := float64(enumMaxDistinct)
	if share := float64(rowCount) * enumMaxRowShare; share < limit {
		limit = share
	}
	if float64(len(distinct)) > limit {
		return nil, nil, nil
	}

	allowed := make([]string, 0, len(distinct))
	for v := range distinct {
		allowed = append(allowed, v)
	}
	sort.Strings(allowed)

	rule := core.QualityRule{
		Column:       spec.Name,
		Kind:         core.RuleEnum,
		Allowed:      allowed,
		SupportRatio: 1,
	}
	violation := collectViolation(col, rule, rowCount, func(v string) bool {
		return !distinct[strings.TrimSpace(v)]
	}, func(n int) core.Severity { return ratioSeverity(n, rowCount) })
	return &rule, violation, nil
}

// inferRange applies to columns whose observed type orders naturally.
// Cells that do not parse at all are the type checker's problem and are
// not double-counted as range violations.
func inferRange(col *core.Column, spec core.ColumnSpec, sample []string, observed core.ColumnType, rowCount int) (*core.QualityRule, *core.QualityViolation, error) {
	if !observed.Numeric() && observed != core.TypeDate {
		return nil, nil, nil
	}

	if observed == core.TypeDate {
		return inferDateRange(col, spec, sample, rowCount)
	}

	var lo, hi float64
	found := false
	for _, v := range sample {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			continue
		}
		if !found || f < lo {
			lo = f
		}
		if !found || f > hi {
			hi = f
		}
		found = true
	}
	if !found {
		return nil, nil, &core.RuleEvaluationError{
			Column: spec.Name,
			Kind:   core.RuleRange,
			Err:    fmt.Errorf("no parseable numeric values in sample"),
		}
	}

	rule := core.QualityRule{
		Column:       spec.Name,
		Kind:         core.RuleRange,
		Min:          formatFloat(lo),
		Max:          formatFloat(hi),
		SupportRatio: 1,
	}
	violation := collectViolation(col, rule, rowCount, func(v string) bool {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return false
		}
		return f < lo || f > hi
	}, func(int) core.Severity { return core.SeverityMedium })
	return &rule, violation, nil
}

func inferDateRange(col *core.Column, spec core.ColumnSpec, sample []string, rowCount int) (*core.QualityRule, *core.QualityViolation, error) {
	var lo, hi time.Time
	found := false
	for _, v := range sample {
		t, ok := parseDate(v)
		if !ok {
			continue
		}
		if !found || t.Before(lo) {
			lo = t
		}
		if !found || t.After(hi) {
			hi = t
		}
		found = true
	}
	if !found {
		return nil, nil, &core.RuleEvaluationError{
			Column: spec.Name,
			Kind:   core.RuleRange,
			Err:    fmt.Errorf("no parseable dates in sample"),
		}
	}

	rule := core.QualityRule{
		Column:       spec.Name,
		Kind:         core.RuleRange,
		Min:          lo.Format("2006-01-02"),
		Max:          hi.Format("2006-01-02"),
		SupportRatio: 1,
	}
	violation := collectViolation(col, rule, rowCount, func(v string) bool {
		t, ok := parseDate(v)
		if !ok {
			return false
		}
		return t.Before(lo) || t.After(hi)
	}, func(int) core.Severity { return core.SeverityMedium })
	return &rule, violation, nil
}

func parseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func inferNumeric(col *core.Column, spec core.ColumnSpec, sample []string, _ core.ColumnType, rowCount int) (*core.QualityRule, *core.QualityViolation, error) {
	hits := 0
	for _, v := range sample {
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			hits++
		}
	}
	support := float64(hits) / float64(len(sample))
	if support < numericSupportMin {
		return nil, nil, nil
	}

	rule := core.QualityRule{
		Column:       spec.Name,
		Kind:         core.RuleNumeric,
		SupportRatio: support,
	}
	violation := collectViolation(col, rule, rowCount, func(v string) bool {
		_, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err != nil
	}, func(n int) core.Severity { return ratioSeverity(n, rowCount) })
	return &rule, violation, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
