// Package output renders validation reports and profiles as markdown,
// styled terminal tables, or JSON. Rendering is a pure function of the
// report: the same input always produces the same bytes.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/validata-io/validata/pkg/core"
)

// Format selects the output encoding.
type Format string

const (
	FormatAuto     Format = "auto"
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

var sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// Renderer writes reports in one concrete format.
type Renderer struct {
	format Format
	out    io.Writer
}

// NewRenderer resolves format (including "auto") against the destination
// writer: a terminal gets styled tables, anything else gets markdown.
func NewRenderer(format string, out io.Writer) (*Renderer, error) {
	f := Format(format)
	switch f {
	case FormatAuto:
		f = FormatMarkdown
		if file, ok := out.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
			f = FormatTable
		}
	case FormatTable, FormatMarkdown, FormatJSON:
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	return &Renderer{format: f, out: out}, nil
}

// Format returns the resolved concrete format.
func (r *Renderer) Format() Format { return r.format }

// Report renders a full validation report.
func (r *Renderer) Report(rep *core.Report) error {
	if r.format == FormatJSON {
		return r.renderJSON(rep)
	}
	return r.renderReportSections(rep)
}

// Profile renders a table profile.
func (r *Renderer) Profile(p *core.Profile) error {
	if r.format == FormatJSON {
		return r.renderJSON(p)
	}
	return r.renderProfileSections(p)
}

func (r *Renderer) renderJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) heading(text string) {
	if r.format == FormatTable {
		fmt.Fprintf(r.out, "\n%s\n", sectionStyle.Render(text))
		return
	}
	fmt.Fprintf(r.out, "\n## %s\n\n", text)
}

func (r *Renderer) newTable() table.Writer {
	w := table.NewWriter()
	w.SetOutputMirror(r.out)
	w.SetStyle(table.StyleLight)
	return w
}

func (r *Renderer) flush(w table.Writer) {
	if r.format == FormatTable {
		w.Render()
	} else {
		w.RenderMarkdown()
	}
	fmt.Fprintln(r.out)
}

// Section order is fixed: at a glance, schema mismatch, type violations,
// quality violations, root cause, load strategy, drift, inferred rules.
func (r *Renderer) renderReportSections(rep *core.Report) error {
	title := fmt.Sprintf("Validation Report: %s -> %s", rep.Source, rep.TargetTable)
	if r.format == FormatTable {
		fmt.Fprintln(r.out, sectionStyle.Render(title))
	} else {
		fmt.Fprintf(r.out, "# %s\n", title)
	}

	r.heading("At a Glance")
	w := r.newTable()
	w.AppendHeader(table.Row{"Rows", "High", "Medium", "Low", "Strategy"})
	w.AppendRow(table.Row{rep.RowCount, rep.Totals.High, rep.Totals.Medium, rep.Totals.Low, string(rep.Load.Strategy)})
	r.flush(w)

	r.heading("Schema Mismatch")
	if rep.SchemaMissing {
		fmt.Fprintf(r.out, "%s\n", rep.SchemaReason)
	} else {
		w = r.newTable()
		w.AppendHeader(table.Row{"File Column", "Target Column", "Method", "Score"})
		for _, mc := range rep.Mapping.Matched {
			w.AppendRow(table.Row{mc.FileColumn, mc.TargetColumn, string(mc.Method), fmt.Sprintf("%.2f", mc.Score)})
		}
		for _, name := range rep.Mapping.Missing {
			w.AppendRow(table.Row{"-", name, "MISSING", "-"})
		}
		for _, name := range rep.Mapping.Extra {
			w.AppendRow(table.Row{name, "-", "EXTRA", "-"})
		}
		r.flush(w)
	}

	r.heading("Type Violations")
	if len(rep.TypeViolations) == 0 {
		fmt.Fprintln(r.out, "None.")
	} else {
		w = r.newTable()
		w.AppendHeader(table.Row{"Column", "Declared", "Observed", "Affected", "Samples", "Severity"})
		for _, tv := range rep.TypeViolations {
			w.AppendRow(table.Row{
				tv.Column, string(tv.Declared), string(tv.Observed),
				fmt.Sprintf("%d/%d", tv.AffectedCount, tv.RowCount),
				strings.Join(tv.InvalidSamples, ", "),
				string(tv.Severity),
			})
		}
		r.flush(w)
	}

	r.heading("Quality Violations")
	if len(rep.Violations) == 0 {
		fmt.Fprintln(r.out, "None.")
	} else {
		w = r.newTable()
		w.AppendHeader(table.Row{"Column", "Rule", "Count", "Samples", "Severity"})
		for _, v := range rep.Violations {
			w.AppendRow(table.Row{
				v.Rule.Column, string(v.Rule.Kind),
				fmt.Sprintf("%d/%d", v.Count, v.RowCount),
				strings.Join(v.Samples, ", "),
				string(v.Severity),
			})
		}
		r.flush(w)
	}
	for _, s := range rep.SkippedRules {
		fmt.Fprintf(r.out, "skipped: %s on %s (%s)\n", s.Kind, s.Column, s.Reason)
	}

	r.heading("Root Cause")
	if len(rep.RootCauses) == 0 {
		fmt.Fprintln(r.out, "None.")
	}
	for _, c := range rep.RootCauses {
		fmt.Fprintf(r.out, "- %s\n", c)
	}

	r.heading("Load Strategy")
	fmt.Fprintf(r.out, "Strategy: %s\n", rep.Load.Strategy)
	if rep.Load.PrimaryKeyColumn != "" {
		fmt.Fprintf(r.out, "Primary key: %s\n", rep.Load.PrimaryKeyColumn)
	}
	for _, reason := range rep.Load.Reasons {
		fmt.Fprintf(r.out, "- %s\n", reason)
	}

	r.heading("Schema Drift")
	switch {
	case rep.Drift.Skipped:
		fmt.Fprintf(r.out, "Skipped: %s\n", rep.Drift.Reason)
	case !rep.Drift.Changed():
		fmt.Fprintf(r.out, "No drift against baseline run %s.\n", rep.Drift.BaselineRunID)
	default:
		fmt.Fprintf(r.out, "Baseline run: %s\n", rep.Drift.BaselineRunID)
		for _, c := range rep.Drift.Added {
			fmt.Fprintf(r.out, "+ %s\n", c)
		}
		for _, c := range rep.Drift.Removed {
			fmt.Fprintf(r.out, "- %s\n", c)
		}
	}

	r.heading("Inferred Rules")
	if len(rep.InferredRules) == 0 {
		fmt.Fprintln(r.out, "None.")
		return nil
	}
	w = r.newTable()
	w.AppendHeader(table.Row{"Column", "Rule", "Detail", "Support"})
	for _, rule := range rep.InferredRules {
		w.AppendRow(table.Row{
			rule.Column, string(rule.Kind), ruleDetail(rule),
			fmt.Sprintf("%.0f%%", rule.SupportRatio*100),
		})
	}
	r.flush(w)
	return nil
}

func ruleDetail(rule core.QualityRule) string {
	switch rule.Kind {
	case core.RuleFormat:
		return rule.Pattern
	case core.RuleEnum:
		return strings.Join(rule.Allowed, ", ")
	case core.RuleRange:
		return fmt.Sprintf("[%s, %s]", rule.Min, rule.Max)
	default:
		return "-"
	}
}

func (r *Renderer) renderProfileSections(p *core.Profile) error {
	title := fmt.Sprintf("Profile: %s (%d rows)", p.Table, p.RowCount)
	if r.format == FormatTable {
		fmt.Fprintln(r.out, sectionStyle.Render(title))
	} else {
		fmt.Fprintf(r.out, "# %s\n", title)
	}

	if len(p.SampleRows) > 0 {
		r.heading(fmt.Sprintf("Sample (%d rows)", p.SampleSize))
		w := r.newTable()
		header := make(table.Row, len(p.Header))
		for i, h := range p.Header {
			header[i] = h
		}
		w.AppendHeader(header)
		for _, row := range p.SampleRows {
			cells := make(table.Row, len(row))
			for i, c := range row {
				cells[i] = c
			}
			w.AppendRow(cells)
		}
		r.flush(w)
	}

	r.heading("Columns")
	w := r.newTable()
	w.AppendHeader(table.Row{"Column", "Count", "Nulls", "Distinct", "Min", "Max", "Mean"})
	for _, c := range p.Columns {
		w.AppendRow(table.Row{
			c.Name, c.Count, c.NullCount, c.DistinctCount,
			formatStat(c.Min), formatStat(c.Max), formatStat(c.Mean),
		})
	}
	r.flush(w)
	return nil
}

func formatStat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}
