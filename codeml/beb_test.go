package codeml

import (
	"os"
	"path/filepath"
	"testing"
)

// writeRst writes an rst file fixture and returns its path.
func writeRst(t *testing.T, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "rst")
	if err := os.WriteFile(fn, []byte(content), 0666); err != nil {
		t.Fatal(err)
	}
	return fn
}

const bsARst = `Summary of changes along branches.

Bayes Empirical Bayes (BEB) probabilities for 4 classes (class)
(amino acids refer to 1st sequence: seq1)

   1 M   0.02000  0.03000  0.50000  0.46000 ( 3)  0.950
   2 -   0.00100  0.00100  0.60000  0.39900 ( 3)  0.999
   3 K   0.90000  0.05000  0.03000  0.02000 ( 1)  0.100
   4 L   0.00200  0.00100  0.59800  0.39900 ( 3)  0.997
`

func TestBEBBranchSite(t *testing.T) {
	sites, err := ReadBEB(writeRst(t, bsARst), "bsA")
	if err != nil {
		t.Fatal(err)
	}
	if len(sites) != 1 {
		t.Fatalf("sites=%v, expected a single site", sites)
	}
	s := sites[0]
	if s.Pos != 4 || s.AA != "L" || !appreq(s.Prob, 0.997) {
		t.Errorf("site=%v", s)
	}
}

func TestBEBBranchSiteNoMarker(t *testing.T) {
	if _, err := ReadBEB(writeRst(t, "no BEB section here\n"), "bsA"); err == nil {
		t.Error("expected an error without the BEB marker")
	}
}

const m8Rst = `Summary of changes along branches.

Bayes Empirical Bayes (BEB) analysis (Yang, Wong & Nielsen 2005. Mol. Biol. Evol. 22:1107-1118)
Positively selected sites

	Prob(w>1)  mean w

   12 T      0.612         1.234 +- 0.537
   45 K      0.998**       3.155 +- 0.421
   67 -      0.995**       3.001 +- 0.400
   89 S      0.951*        2.877 +- 0.699
`

func TestBEBSite(t *testing.T) {
	sites, err := ReadBEB(writeRst(t, m8Rst), "M8")
	if err != nil {
		t.Fatal(err)
	}
	if len(sites) != 1 {
		t.Fatalf("sites=%v, expected a single site", sites)
	}
	s := sites[0]
	if s.Pos != 45 || s.AA != "K" || !appreq(s.Prob, 0.998) {
		t.Errorf("site=%v", s)
	}
}

const m8RstSingleRow = `Bayes Empirical Bayes (BEB) analysis
Positively selected sites

	Prob(w>1)  mean w

   45 K      0.998**       3.155 +- 0.421
`

func TestBEBSiteSingleRow(t *testing.T) {
	// a single-row table is treated as having no sites to report
	sites, err := ReadBEB(writeRst(t, m8RstSingleRow), "M8")
	if err != nil {
		t.Fatal(err)
	}
	if len(sites) != 0 {
		t.Errorf("sites=%v, expected none", sites)
	}
}

func TestBEBSiteNoStars(t *testing.T) {
	rst := `Bayes Empirical Bayes (BEB) analysis
Positively selected sites

	Prob(w>1)  mean w

   12 T      0.612         1.234 +- 0.537
   13 S      0.702         1.334 +- 0.503
`
	sites, err := ReadBEB(writeRst(t, rst), "M8")
	if err != nil {
		t.Fatal(err)
	}
	if len(sites) != 0 {
		t.Errorf("sites=%v, expected none", sites)
	}
}

func TestBEBUnknownModel(t *testing.T) {
	if _, err := ReadBEB(writeRst(t, m8Rst), "X9"); err == nil {
		t.Error("expected an error for an unknown model")
	}
}
