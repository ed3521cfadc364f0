// Package codeml reads CodeML result files into structured records.
// It parses the primary per-model output ("out") and the Bayes
// Empirical Bayes section of the detail output ("rst").
package codeml

import (
	"github.com/op/go-logging"
)

// log is the global logging variable.
var log = logging.MustGetLogger("codeml")

// CladeOmega is a per-clade omega estimate of one site class of a
// clade model.
type CladeOmega struct {
	// Label is the clade label, e.g. "branch type 0".
	Label string
	Omega float64
}

// SiteClass is one class of the site-class mixture. Site models carry
// a single omega; branch-site models carry a background/foreground
// pair; clade models carry one omega per clade.
type SiteClass struct {
	// Label is the class label as printed by CodeML ("0", "1",
	// "2a", ...).
	Label      string
	Proportion float64
	Omega      *float64
	Background *float64
	Foreground *float64
	Clades     []CladeOmega
}

// BranchRate holds the per-branch rate estimates from the
// "dN & dS for each branch" table.
type BranchRate struct {
	// Branch is the branch identifier, e.g. "8..9".
	Branch string
	T      float64
	N      float64
	S      float64
	Omega  float64
	DN     float64
	DS     float64
	NDN    float64
	SDS    float64
}

// BEBSite is one site with a high posterior probability of positive
// selection.
type BEBSite struct {
	Pos  int
	AA   string
	Prob float64
}

// Result is the output of one fitted model for one gene. Pointer
// fields are nil when the model does not report the value; this is
// distinct from a computed zero.
type Result struct {
	// Model is the short model code, e.g. "M8" or "bsA".
	Model string
	// LnL is the maximum log-likelihood.
	LnL float64
	// NP is the number of free parameters.
	NP int
	// ModelName is the long model name from the "Model:" line.
	ModelName string
	// CodonModel is the codon frequency model, e.g. "F3X4".
	CodonModel string
	// SiteClassModel is the site-class model name, if reported.
	SiteClassModel string
	// Description is the NSsites model description.
	Description string
	TreeLength  float64
	Kappa       float64
	// Omega holds one value for one-ratio models and a pair for
	// branch models.
	Omega []float64
	// DN and DS are the tree lengths for dN and dS.
	DN *float64
	DS *float64
	// P0, P, Q and W are the extra mixture parameters of the
	// M7/M8 beta(-and-omega) models.
	P0 *float64
	P  *float64
	Q  *float64
	W  *float64
	// SiteClasses is the site-class mixture; at least one entry
	// for any well-formed output.
	SiteClasses []SiteClass
	Branches    []BranchRate
	// BEB is present only for models with a BEB table (M2, M8,
	// bsA); sites are pre-filtered to the reporting thresholds.
	BEB []BEBSite
}
