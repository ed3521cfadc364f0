package results

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"etetools/table"
)

// outContent builds a minimal CodeML out file for a model.
func outContent(np int, lnl float64, extra string) string {
	return fmt.Sprintf(`CODONML (in paml version 4.9j, February 2020)  alignment.phy
Model: test model,
Codon frequency model: F3X4

NSsites Model 0: test

lnL(ntime: 5  np: %d):  %.6f     +0.000000

tree length =   1.50000

kappa (ts/tv) =  2.00000

%s
`, np, lnl, extra)
}

const m0Extra = `omega (dN/dS) =  0.05503

dN & dS for each branch

 branch          t       N       S    dN/dS      dN      dS  N*dN  S*dS

   5..6      0.044   461.9   115.1   0.0550  0.0021  0.0381   1.0   4.4
   6..7      0.103   461.9   115.1   0.0550  0.0049  0.0891   2.3  10.3

tree length for dN:       0.0342
tree length for dS:       0.6223
`

const siteExtra = `MLEs of dN/dS (w) for site classes (K=2)

p:   0.93332  0.06668
w:   0.05170  1.00000
`

const m8Extra = `Parameters in M8 (p0 & p1 of the mixture for beta & w>1):
  p0 =   0.99043  p =   0.36313 q =   3.21249
 (p1 =   0.00957) w =   1.48371

MLEs of dN/dS (w) for site classes (K=3)

p:   0.33333  0.33333  0.33333
w:   0.00261  0.08306  1.48371
`

const bsExtra = `MLEs of dN/dS (w) for site classes (K=4)

site class             0        1       2a       2b
proportion       0.77936  0.13847  0.06953  0.01264
background w     0.05679  1.00000  0.05679  1.00000
foreground w     0.05679  1.00000  3.15024  3.15024
`

const siteRst = `Bayes Empirical Bayes (BEB) analysis
Positively selected sites

	Prob(w>1)  mean w

   12 T      0.612         1.234 +- 0.537
   45 K      0.998**       3.155 +- 0.421
`

const bsRst = `Bayes Empirical Bayes (BEB) probabilities for 4 classes
(amino acids refer to 1st sequence)

   4 L   0.00200  0.00100  0.59800  0.39900 ( 3)  0.997
   9 K   0.90000  0.05000  0.03000  0.02000 ( 1)  0.100
`

// addModel writes one model result directory under a gene directory.
func addModel(t *testing.T, gene, model string, np int, lnl float64, extra, rst string) {
	t.Helper()
	dir := filepath.Join(gene, model+"~tag")
	if err := os.MkdirAll(dir, 0777); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "out"),
		[]byte(outContent(np, lnl, extra)), 0666); err != nil {
		t.Fatal(err)
	}
	if rst != "" {
		if err := os.WriteFile(filepath.Join(dir, "rst"), []byte(rst), 0666); err != nil {
			t.Fatal(err)
		}
	}
}

func TestModelFromDir(t *testing.T) {
	cases := map[string]string{
		"M0~ENSG0001.fa": "M0",
		"bsA~gene":       "bsA",
		"M8.1~gene":      "M8",
		"b_free~g.out":   "b_free",
	}
	for dir, model := range cases {
		if m := modelFromDir(dir); m != model {
			t.Errorf("modelFromDir(%s)=%s, expected %s", dir, m, model)
		}
	}
}

func TestNewGeneResults(t *testing.T) {
	gene := filepath.Join(t.TempDir(), "ENSG0001")
	addModel(t, gene, "M0", 15, -2694.57, m0Extra, "")
	addModel(t, gene, "M1", 17, -2690.11, siteExtra, "")

	g, err := NewGeneResults(gene, nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "ENSG0001" {
		t.Errorf("name=%s", g.Name)
	}
	if len(g.Models) != 2 || len(g.Records) != 2 {
		t.Fatalf("models=%v", g.Models)
	}
	if g.Records["M0"].NP != 15 {
		t.Errorf("M0 np=%d", g.Records["M0"].NP)
	}
}

func TestNewGeneResultsRestricted(t *testing.T) {
	gene := filepath.Join(t.TempDir(), "g1")
	addModel(t, gene, "M0", 15, -2694.57, m0Extra, "")
	addModel(t, gene, "M1", 17, -2690.11, siteExtra, "")

	g, err := NewGeneResults(gene, []string{"M0"})
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Models) != 1 || g.Models[0] != "M0" {
		t.Errorf("models=%v, expected just M0", g.Models)
	}
}

func TestNewGeneResultsUnknownModel(t *testing.T) {
	gene := filepath.Join(t.TempDir(), "g1")
	addModel(t, gene, "M3", 15, -2694.57, m0Extra, "")
	if _, err := NewGeneResults(gene, nil); err == nil {
		t.Error("expected an error for an unknown model directory")
	}
}

// lrtRow finds the LRT row for a null/alt pair.
func lrtRow(t *testing.T, tbl *table.Table, null, alt string) int {
	t.Helper()
	for i := 0; i < tbl.NRows(); i++ {
		if tbl.Cell(i, "null") == null && tbl.Cell(i, "alt") == alt {
			return i
		}
	}
	t.Fatalf("no LRT row for %s vs %s", null, alt)
	return -1
}

func TestLRTThreeModels(t *testing.T) {
	gene := filepath.Join(t.TempDir(), "g1")
	addModel(t, gene, "M0", 1, -100, m0Extra, "")
	addModel(t, gene, "M1", 3, -97, siteExtra, "")
	addModel(t, gene, "M2", 5, -90, siteExtra, siteRst)

	g, err := NewGeneResults(gene, nil)
	if err != nil {
		t.Fatal(err)
	}
	lrt := g.LRT()
	if lrt.NRows() != 3 {
		t.Fatalf("%d LRT rows, expected 3", lrt.NRows())
	}

	i := lrtRow(t, lrt, "M0", "M1")
	if lrt.Cell(i, "df") != "2" {
		t.Errorf("M0 vs M1 df=%s", lrt.Cell(i, "df"))
	}
	if lrt.Cell(i, "stat") != "6" {
		t.Errorf("M0 vs M1 stat=%s", lrt.Cell(i, "stat"))
	}
	// qchisq check: df=2, D=6 -> p ~ 0.0498
	var pval float64
	fmt.Sscanf(lrt.Cell(i, "pval"), "%g", &pval)
	if pval < 0.0495 || pval > 0.0501 {
		t.Errorf("M0 vs M1 pval=%v, expected ~0.0498", pval)
	}

	if i := lrtRow(t, lrt, "M0", "M2"); lrt.Cell(i, "df") != "4" {
		t.Errorf("M0 vs M2 df=%s", lrt.Cell(i, "df"))
	}
	if i := lrtRow(t, lrt, "M1", "M2"); lrt.Cell(i, "df") != "2" {
		t.Errorf("M1 vs M2 df=%s", lrt.Cell(i, "df"))
	}

	for i := 0; i < lrt.NRows(); i++ {
		var p float64
		if _, err := fmt.Sscanf(lrt.Cell(i, "pval"), "%g", &p); err != nil {
			t.Errorf("row %d: unparsable pval '%s'", i, lrt.Cell(i, "pval"))
		}
		if p <= 0 || p > 1 {
			t.Errorf("row %d: pval=%v out of range", i, p)
		}
		if lrt.Cell(i, "note") != "" {
			t.Errorf("row %d: unexpected note '%s'", i, lrt.Cell(i, "note"))
		}
	}
}

func TestLRTNegative(t *testing.T) {
	// the alternative scores worse than its null
	gene := filepath.Join(t.TempDir(), "g1")
	addModel(t, gene, "M0", 1, -90, m0Extra, "")
	addModel(t, gene, "M1", 3, -95, siteExtra, "")

	g, err := NewGeneResults(gene, nil)
	if err != nil {
		t.Fatal(err)
	}
	lrt := g.LRT()
	if lrt.NRows() != 1 {
		t.Fatalf("%d LRT rows, expected 1", lrt.NRows())
	}
	if lrt.Cell(0, "note") != "lnl1 < lnl0" {
		t.Errorf("note='%s'", lrt.Cell(0, "note"))
	}
	if lrt.Cell(0, "pval") != "" || lrt.Cell(0, "stat") != "" {
		t.Error("pval and stat should be unset for a negative LRT")
	}
	if lrt.Cell(0, "df") != "2" {
		t.Errorf("df=%s", lrt.Cell(0, "df"))
	}
}

func TestLRTNoNullModel(t *testing.T) {
	// bsA1 is a valid null, but none of its alternatives are present
	gene := filepath.Join(t.TempDir(), "g1")
	addModel(t, gene, "bsA1", 17, -2690, bsExtra, "")

	g, err := NewGeneResults(gene, nil)
	if err != nil {
		t.Fatal(err)
	}
	if lrt := g.LRT(); lrt.NRows() != 0 {
		t.Errorf("%d LRT rows, expected none", lrt.NRows())
	}
}

func TestLRTNoInvalidPairs(t *testing.T) {
	gene := filepath.Join(t.TempDir(), "g1")
	addModel(t, gene, "M1", 3, -97, siteExtra, "")
	addModel(t, gene, "M2", 5, -90, siteExtra, siteRst)

	g, err := NewGeneResults(gene, nil)
	if err != nil {
		t.Fatal(err)
	}
	lrt := g.LRT()
	// M2 vs M1 is not a valid comparison, only M1 vs M2 is
	if lrt.NRows() != 1 {
		t.Fatalf("%d LRT rows, expected 1", lrt.NRows())
	}
	if lrt.Cell(0, "null") != "M1" || lrt.Cell(0, "alt") != "M2" {
		t.Errorf("row=%s vs %s", lrt.Cell(0, "null"), lrt.Cell(0, "alt"))
	}
}
