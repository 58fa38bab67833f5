package engine

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/validata-io/validata/pkg/core"
)

// defaultAliases maps common source-side column shorthands to canonical
// target names. Keys and values are compared in normalized form, so case
// and separators in config-supplied entries do not matter.
var defaultAliases = map[string]string{
	"cust":      "CustomerID",
	"custid":    "CustomerID",
	"customer":  "CustomerID",
	"qty":       "Quantity",
	"quant":     "Quantity",
	"amt":       "Amount",
	"desc":      "Description",
	"descr":     "Description",
	"num":       "Number",
	"no":        "Number",
	"addr":      "Address",
	"tel":       "PhoneNumber",
	"phoneno":   "PhoneNumber",
	"dob":       "DateOfBirth",
	"prod":      "ProductID",
	"prodid":    "ProductID",
	"orderdt":   "OrderDate",
	"createdts": "CreatedAt",
	"updatedts": "UpdatedAt",
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeName folds a column name for comparison: diacritics stripped,
// lowercased, non-alphanumerics removed.
func normalizeName(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// tokenizeName splits a column name into lowercase tokens on separator
// characters and camelCase boundaries.
func tokenizeName(name string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}
	prev := rune(0)
	for _, r := range name {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && prev != 0 && !unicode.IsUpper(prev):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
		prev = r
	}
	flush()
	return tokens
}

func editSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

func tokenOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, tok := range a {
		set[tok] = true
	}
	union := len(set)
	inter := 0
	for _, tok := range b {
		if set[tok] {
			inter++
			delete(set, tok)
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

// Matcher binds file columns to target schema columns, first by normalized
// exact match, then by alias dictionary and name similarity.
type Matcher struct {
	threshold float64
	aliases   map[string]string // normalized alias -> normalized target
}

// NewMatcher builds a matcher with the given similarity threshold and
// extra alias entries layered over the built-in dictionary. Thresholds
// outside [0, 1] are clamped.
func NewMatcher(threshold float64, extraAliases map[string]string) *Matcher {
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 1 {
		threshold = 1
	}
	aliases := make(map[string]string, len(defaultAliases)+len(extraAliases))
	for k, v := range defaultAliases {
		aliases[normalizeName(k)] = normalizeName(v)
	}
	for k, v := range extraAliases {
		aliases[normalizeName(k)] = normalizeName(v)
	}
	return &Matcher{threshold: threshold, aliases: aliases}
}

// score rates how well a file column name fits a target column name.
// An alias-dictionary hit counts as a perfect score; otherwise the best of
// edit-distance similarity and token overlap wins.
func (m *Matcher) score(fileCol, targetCol string) float64 {
	nf, nt := normalizeName(fileCol), normalizeName(targetCol)
	if m.aliases[nf] == nt {
		return 1
	}
	s := editSimilarity(nf, nt)
	if o := tokenOverlap(tokenizeName(fileCol), tokenizeName(targetCol)); o > s {
		s = o
	}
	return s
}

// Match resolves the file's columns against the target schema. Exact
// matches claim targets first; the remainder is assigned best score first
// across all columns, so a stronger-fitting column wins a target regardless
// of file order. A file column whose two best candidates score identically
// stays unmatched rather than guessing.
func (m *Matcher) Match(table *core.Table, schema *core.TargetSchema) core.ColumnMapping {
	mapping := core.ColumnMapping{}
	claimed := make(map[string]bool, len(schema.Columns))

	// Pass 1: exact matches on normalized names.
	var rest []string
	for _, col := range table.Columns {
		nf := normalizeName(col.Name)
		var hit *core.ColumnSpec
		for i := range schema.Columns {
			spec := &schema.Columns[i]
			if !claimed[spec.Name] && normalizeName(spec.Name) == nf {
				hit = spec
				break
			}
		}
		if hit != nil {
			claimed[hit.Name] = true
			mapping.Matched = append(mapping.Matched, core.MatchedColumn{
				FileColumn:   col.Name,
				TargetColumn: hit.Name,
				Method:       core.MatchExact,
				Score:        1,
			})
		} else {
			rest = append(rest, col.Name)
		}
	}

	// Pass 2: alias and similarity matches over the remainder. Each round
	// assigns the globally best-scoring eligible pair and re-scores, so a
	// column tied between two targets can still match once a competitor
	// claims one of them. Equal scores keep the earlier file column.
	pending := rest
	for len(pending) > 0 {
		pickIdx, pickScore, pickTarget := -1, -1.0, ""
		for i, fileCol := range pending {
			best, runnerUp := -1.0, -1.0
			bestTarget := ""
			for j := range schema.Columns {
				spec := &schema.Columns[j]
				if claimed[spec.Name] {
					continue
				}
				s := m.score(fileCol, spec.Name)
				switch {
				case s > best:
					runnerUp = best
					best, bestTarget = s, spec.Name
				case s > runnerUp:
					runnerUp = s
				}
			}
			if bestTarget == "" || best < m.threshold || best == runnerUp {
				continue
			}
			if best > pickScore {
				pickIdx, pickScore, pickTarget = i, best, bestTarget
			}
		}
		if pickIdx < 0 {
			break
		}
		claimed[pickTarget] = true
		mapping.Matched = append(mapping.Matched, core.MatchedColumn{
			FileColumn:   pending[pickIdx],
			TargetColumn: pickTarget,
			Method:       core.MatchAlias,
			Score:        pickScore,
		})
		pending = append(pending[:pickIdx], pending[pickIdx+1:]...)
	}
	mapping.Extra = append(mapping.Extra, pending...)

	for _, spec := range schema.Columns {
		if !claimed[spec.Name] {
			mapping.Missing = append(mapping.Missing, spec.Name)
		}
	}
	sort.Strings(mapping.Extra)
	return mapping
}
