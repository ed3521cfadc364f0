// Plotlrt reads an lrt.csv table produced by etetools, prints summary
// statistics of the p-value distribution and saves a histogram.
package main

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"etetools/table"
)

func main() {
	out := flag.String("out", "pvalues.png", "output image file")
	bins := flag.Int("bins", 20, "number of histogram bins")
	flag.Parse()

	if flag.NArg() != 1 {
		panic("usage: plotlrt [flags] lrt.csv")
	}

	t, err := table.ReadFile(flag.Arg(0))
	if err != nil {
		panic(err)
	}

	pvals := make([]float64, 0, t.NRows())
	skipped := 0
	for i := 0; i < t.NRows(); i++ {
		// rows with a negative LRT have no p-value
		v, err := strconv.ParseFloat(t.Cell(i, "pval"), 64)
		if err != nil {
			skipped++
			continue
		}
		pvals = append(pvals, v)
	}
	if len(pvals) == 0 {
		panic("no p-values in the table")
	}

	mean, _ := stats.Mean(pvals)
	median, _ := stats.Median(pvals)
	q05, _ := stats.Percentile(pvals, 5)
	fmt.Printf("n=%d (skipped %d), mean=%g, median=%g, 5%%=%g\n",
		len(pvals), skipped, mean, median, q05)

	p := plot.New()
	p.Title.Text = "LRT p-values"
	p.X.Label.Text = "p-value"
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(plotter.Values(pvals), *bins)
	if err != nil {
		panic(err)
	}
	p.Add(h)

	if err := p.Save(4*vg.Inch, 4*vg.Inch, *out); err != nil {
		panic(err)
	}
}
