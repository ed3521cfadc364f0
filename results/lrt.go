package results

import (
	"etetools/dist"
	"etetools/models"
	"etetools/table"
)

// lnlNote marks comparisons where the alternative model scored worse
// than its null. Under correct nesting this should never happen, so
// no p-value is computed for such rows.
const lnlNote = "lnl1 < lnl0"

// LRT computes the likelihood-ratio test for every valid nested
// null/alternative pair present in the fitted-model set. Null models
// without any fitted alternative are dropped; a gene with no valid
// comparison at all yields an empty table and a warning.
func (g *GeneResults) LRT() *table.Table {
	t := table.New("file", "null", "alt", "df", "stat", "pval", "note")

	for _, null := range g.Models {
		alts := models.Alternatives(null)
		if alts == nil {
			continue
		}
		for _, alt := range alts {
			r1, ok := g.Records[alt]
			if !ok {
				continue
			}
			r0 := g.Records[null]

			// the comparison table is not guaranteed to order
			// parameter counts, protect with abs
			df := r1.NP - r0.NP
			if df < 0 {
				df = -df
			}

			row := table.Row{
				{Col: "file", Val: g.Name},
				{Col: "null", Val: null},
				{Col: "alt", Val: alt},
				{Col: "df", Val: table.Int(df)},
			}
			if r1.LnL < r0.LnL {
				row = append(row, table.Cell{Col: "note", Val: lnlNote})
			} else {
				stat := 2 * (r1.LnL - r0.LnL)
				pval := dist.UpperChi2(stat, float64(df))
				row = append(row,
					table.Cell{Col: "stat", Val: table.Float(stat)},
					table.Cell{Col: "pval", Val: table.Float(pval)})
			}
			t.Append(row)
		}
	}

	if t.NRows() == 0 {
		log.Warningf("%s: no valid model comparisons", g.Name)
	}
	return t
}
