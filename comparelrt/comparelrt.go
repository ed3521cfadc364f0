/*

Comparelrt takes two LRT tables produced by etetools and compares the
branch-site LRT p-values against the site LRT p-values from a
drop-out test. It assumes the site models used the same samples as
the branch-site tests, but without the foreground species present.

A significant branch-site p-value together with a non-significant
site p-value indicates positive selection on the foreground branch
while no background species shows it (PS_fg). The other outcomes are
PS_fg_bg, PS_bg, no_PS and poor_fit (a p-value missing from either
table, e.g. because of a negative LRT).

*/
package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"

	"etetools/table"
)

// Logger settings.
var log = logging.MustGetLogger("comparelrt")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	app = kingpin.New("comparelrt", "drop-out LRT comparison").Version("1.0")

	branchSiteF = app.Arg("branchsite", "branch-site LRT table (lrt.csv)").Required().ExistingFile()
	siteF       = app.Arg("site", "site LRT table from the drop-out run (lrt.csv)").Required().ExistingFile()
	outCsv      = app.Arg("outcsv", "output csv file").Required().String()

	pValue = app.Flag("pvalue", "p-value threshold").Short('p').Default("0.05").Float64()

	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("info").
		Enum("critical", "error", "warning", "notice", "info", "debug")
)

// classify assigns the selection signal from the branch-site (px) and
// site (py) p-values. A missing p-value means the model pair fit
// poorly; poor_fit takes precedence over the threshold outcomes.
func classify(px, py string, thr float64) string {
	x, errx := strconv.ParseFloat(px, 64)
	y, erry := strconv.ParseFloat(py, 64)
	if errx != nil || erry != nil {
		return "poor_fit"
	}
	switch {
	case x <= thr && y > thr:
		return "PS_fg"
	case x <= thr && y <= thr:
		return "PS_fg_bg"
	case y <= thr:
		return "PS_bg"
	}
	return "no_PS"
}

// siteComparison returns true for the site-model comparisons of the
// drop-out test (M1 vs M2 and M7 vs M8).
func siteComparison(null, alt string) bool {
	return (null == "M1" && alt == "M2") || (null == "M7" && alt == "M8")
}

// compare joins the two tables on the gene name and classifies every
// joined row.
func compare(bs, site *table.Table, thr float64) *table.Table {
	out := table.New("file", "null_x", "alt_x", "pval_x",
		"null_y", "alt_y", "pval_y", "signal")

	for i := 0; i < bs.NRows(); i++ {
		for j := 0; j < site.NRows(); j++ {
			if site.Cell(j, "file") != bs.Cell(i, "file") {
				continue
			}
			if !siteComparison(site.Cell(j, "null"), site.Cell(j, "alt")) {
				continue
			}
			px := bs.Cell(i, "pval")
			py := site.Cell(j, "pval")
			out.Append(table.Row{
				{Col: "file", Val: bs.Cell(i, "file")},
				{Col: "null_x", Val: bs.Cell(i, "null")},
				{Col: "alt_x", Val: bs.Cell(i, "alt")},
				{Col: "pval_x", Val: px},
				{Col: "null_y", Val: site.Cell(j, "null")},
				{Col: "alt_y", Val: site.Cell(j, "alt")},
				{Col: "pval_y", Val: py},
				{Col: "signal", Val: classify(px, py, thr)},
			})
		}
	}
	return out
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	logging.SetFormatter(formatter)
	logging.SetBackend(logging.NewLogBackend(os.Stderr, "", 0))
	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logging.SetLevel(level, "comparelrt")

	bs, err := table.ReadFile(*branchSiteF)
	if err != nil {
		log.Fatal(fmt.Errorf("reading %s: %v", *branchSiteF, err))
	}
	site, err := table.ReadFile(*siteF)
	if err != nil {
		log.Fatal(fmt.Errorf("reading %s: %v", *siteF, err))
	}

	out := compare(bs, site, *pValue)
	log.Infof("Classified %d comparisons", out.NRows())

	if err := out.WriteFile(*outCsv); err != nil {
		log.Fatal(err)
	}
}
