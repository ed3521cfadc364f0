// Package models provides static knowledge about the CodeML models:
// which model codes exist, the category each belongs to and which
// null/alternative pairs form statistically valid nested comparisons.
package models

// Category is the kind of a CodeML model. It determines which
// parameter blocks are expected in the output and how they are
// reshaped into tables.
type Category int

const (
	// Null is the one-ratio M0 model.
	Null Category = iota
	// Site models allow omega to vary between sites (M1, M2, M7, M8).
	Site
	// BranchSite models allow omega to vary between sites on the
	// foreground branch (bsA, bsA1).
	BranchSite
	// Clade models partition branches into clades with separate
	// omega (bsC, bsD).
	Clade
	// Branch models allow omega to vary between branches (b_free,
	// b_neut).
	Branch
)

// String returns the category name as used in output file names.
func (c Category) String() string {
	switch c {
	case Null:
		return "null"
	case Site:
		return "site"
	case BranchSite:
		return "branch-site"
	case Clade:
		return "clade"
	case Branch:
		return "branch"
	}
	return "unknown"
}

// Categories lists all categories in output order.
var Categories = []Category{Null, Site, BranchSite, Clade, Branch}

// categoryOf maps a model code to its category.
var categoryOf = map[string]Category{
	"M0":     Null,
	"M1":     Site,
	"M2":     Site,
	"M7":     Site,
	"M8":     Site,
	"bsA":    BranchSite,
	"bsA1":   BranchSite,
	"bsC":    Clade,
	"bsD":    Clade,
	"b_free": Branch,
	"b_neut": Branch,
}

// CategoryOf returns the category of a model code. The second return
// value is false for unknown model codes.
func CategoryOf(model string) (Category, bool) {
	c, ok := categoryOf[model]
	return c, ok
}

// comparison is a null model together with its valid alternatives.
type comparison struct {
	null string
	alts []string
}

// allowedComparisons is the fixed DAG of nested-model relationships:
// an LRT is statistically meaningful only for these pairs. Order of
// null models and of alternatives is the output order.
var allowedComparisons = []comparison{
	{"M0", []string{"M1", "M2", "M8", "M7", "bsA", "bsA1", "bsC", "bsD", "b_free"}},
	{"M1", []string{"M2", "M8", "bsA", "bsA1", "bsC", "bsD"}},
	{"M2", []string{"bsC", "bsD"}},
	{"M8", []string{"bsC", "bsD"}},
	{"M7", []string{"M2", "M8", "bsA", "bsA1", "bsC", "bsD"}},
	{"bsA", []string{"bsC", "bsD"}},
	{"bsA1", []string{"M2", "M8", "bsA", "bsC", "bsD"}},
	{"bsC", []string{"bsD"}},
	{"b_free", []string{"bsA", "bsA1", "bsC", "bsD"}},
	{"b_neut", []string{"bsA", "bsA1", "bsC", "bsD", "b_free"}},
}

// NullModels returns the null models of the comparison table in
// output order.
func NullModels() []string {
	nulls := make([]string, 0, len(allowedComparisons))
	for _, c := range allowedComparisons {
		nulls = append(nulls, c.null)
	}
	return nulls
}

// Alternatives returns the valid alternative models for a null model
// in output order. It returns nil if the model is not a valid null.
func Alternatives(null string) []string {
	for _, c := range allowedComparisons {
		if c.null == null {
			alts := make([]string, len(c.alts))
			copy(alts, c.alts)
			return alts
		}
	}
	return nil
}

// ValidComparison returns true if the null/alt pair is a valid
// nested-model comparison.
func ValidComparison(null, alt string) bool {
	for _, a := range Alternatives(null) {
		if a == alt {
			return true
		}
	}
	return false
}

// bebModels are the models for which CodeML reports a Bayes Empirical
// Bayes table in the detail (rst) output.
var bebModels = map[string]bool{
	"M2":  true,
	"M8":  true,
	"bsA": true,
}

// HasBEB returns true if the model produces a BEB site table.
func HasBEB(model string) bool {
	return bebModels[model]
}
