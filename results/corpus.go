package results

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"etetools/models"
	"etetools/table"
)

// Corpus holds the merged tables of a whole input directory.
type Corpus struct {
	// LRT is the likelihood-ratio test table across all genes.
	LRT *table.Table
	// Summary maps each model category to its summary table; only
	// categories with at least one contributing gene are present.
	Summary map[models.Category]*table.Table
	// Branches is the per-branch rate table across all genes.
	Branches *table.Table
	// BEB is the positively selected site table across all genes.
	BEB *table.Table
}

// ProcessCorpus builds one GeneResults per gene subdirectory of input
// and merges the derived tables. A fault in any gene's result files
// aborts the run; it indicates an upstream tool failure.
func ProcessCorpus(input string, only []string) (*Corpus, error) {
	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, err
	}

	var genes []string
	for _, e := range entries {
		if e.IsDir() {
			genes = append(genes, e.Name())
		}
	}
	sort.Strings(genes)
	if len(genes) == 0 {
		log.Warningf("no gene directories found in %s", input)
	}

	c := &Corpus{
		LRT:      table.New("file", "null", "alt", "df", "stat", "pval", "note"),
		Summary:  make(map[models.Category]*table.Table),
		Branches: table.New(),
		BEB:      table.New("Gene", "model", "pos", "aa", "prob"),
	}

	for _, gene := range genes {
		g, err := NewGeneResults(filepath.Join(input, gene), only)
		if err != nil {
			return nil, err
		}
		log.Infof("%s: %d models", g.Name, len(g.Models))

		c.LRT.Concat(g.LRT())
		summary, branches := g.Summary()
		for cat, t := range summary {
			ct, ok := c.Summary[cat]
			if !ok {
				ct = table.New()
				c.Summary[cat] = ct
			}
			ct.Concat(t)
		}
		c.Branches.Concat(branches)
		c.BEB.Concat(g.BEB())
	}

	return c, nil
}

// Write writes the corpus tables into outdir: lrt.csv, beb.csv,
// branches.csv and one model-<category>.csv per category present.
// The branch table is omitted with a warning when empty; category
// tables are never written empty.
func (c *Corpus) Write(outdir string) error {
	if err := c.LRT.WriteFile(filepath.Join(outdir, "lrt.csv")); err != nil {
		return fmt.Errorf("writing lrt.csv: %v", err)
	}
	if err := c.BEB.WriteFile(filepath.Join(outdir, "beb.csv")); err != nil {
		return fmt.Errorf("writing beb.csv: %v", err)
	}

	if c.Branches.NRows() == 0 {
		log.Warning("no branch rates in the corpus, omitting branches.csv")
	} else {
		if err := c.Branches.WriteFile(filepath.Join(outdir, "branches.csv")); err != nil {
			return fmt.Errorf("writing branches.csv: %v", err)
		}
	}

	for _, cat := range models.Categories {
		t, ok := c.Summary[cat]
		if !ok || t.NRows() == 0 {
			continue
		}
		fn := fmt.Sprintf("model-%s.csv", cat)
		if err := t.WriteFile(filepath.Join(outdir, fn)); err != nil {
			return fmt.Errorf("writing %s: %v", fn, err)
		}
	}
	return nil
}
