// Package results aggregates per-model CodeML results for a gene and
// derives the comparison and summary tables from them.
package results

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/op/go-logging"

	"etetools/codeml"
	"etetools/models"
)

// log is the global logging variable.
var log = logging.MustGetLogger("results")

// GeneResults stores all fitted-model results for one gene/alignment.
// The gene name is the base name of the result directory, which is
// expected to be the unique MSA/ortholog identifier.
type GeneResults struct {
	Name string
	// Models is the fitted-model set in directory order.
	Models []string
	// Records maps each fitted model to its result; every model in
	// Models has exactly one record.
	Records map[string]*codeml.Result
}

// modelFromDir extracts the model code from a result directory name.
// ETE3 evol uses the model as the directory prefix before a '~', with
// an optional '.'-separated suffix.
func modelFromDir(dir string) string {
	m := strings.SplitN(dir, "~", 2)[0]
	return strings.SplitN(m, ".", 2)[0]
}

// restricted returns true if only is non-empty and does not contain
// model.
func restricted(only []string, model string) bool {
	if len(only) == 0 {
		return false
	}
	for _, m := range only {
		if m == model {
			return false
		}
	}
	return true
}

// NewGeneResults reads all model results from a gene directory. Each
// subdirectory holds one model's output: the primary "out" file and,
// for BEB-bearing models, the "rst" detail file. If only is
// non-empty, other models are skipped.
func NewGeneResults(path string, only []string) (*GeneResults, error) {
	name := filepath.Base(filepath.Clean(path))
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	g := &GeneResults{
		Name:    name,
		Records: make(map[string]*codeml.Result),
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		model := modelFromDir(e.Name())
		if restricted(only, model) {
			log.Debugf("%s: skipping model %s", name, model)
			continue
		}
		if _, ok := models.CategoryOf(model); !ok {
			return nil, fmt.Errorf("gene %s: unknown model '%s' (directory %s)", name, model, e.Name())
		}
		if _, ok := g.Records[model]; ok {
			return nil, fmt.Errorf("gene %s: duplicate results for model %s", name, model)
		}

		res, err := codeml.ReadResult(filepath.Join(path, e.Name(), "out"), model)
		if err != nil {
			return nil, fmt.Errorf("gene %s, model %s: %v", name, model, err)
		}
		if models.HasBEB(model) {
			beb, err := codeml.ReadBEB(filepath.Join(path, e.Name(), "rst"), model)
			if err != nil {
				return nil, fmt.Errorf("gene %s, model %s: %v", name, model, err)
			}
			res.BEB = beb
		}

		g.Models = append(g.Models, model)
		g.Records[model] = res
	}

	return g, nil
}
