package results

import (
	"strings"

	"etetools/codeml"
	"etetools/models"
	"etetools/table"
)

// optFloat formats an optional value, blank when the model did not
// report it.
func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return table.Float(*v)
}

// commonRow builds the columns shared by every model category.
func (g *GeneResults) commonRow(rec *codeml.Result) table.Row {
	return table.Row{
		{Col: "file", Val: g.Name},
		{Col: "model", Val: rec.Model},
		{Col: "model-long", Val: rec.ModelName},
		{Col: "codon model", Val: rec.CodonModel},
		{Col: "description", Val: rec.Description},
		{Col: "tree-length", Val: table.Float(rec.TreeLength)},
		{Col: "Lnl", Val: table.Float(rec.LnL)},
		{Col: "np", Val: table.Int(rec.NP)},
		{Col: "kappa", Val: table.Float(rec.Kappa)},
	}
}

// omegaAt returns the i-th omega estimate, blank when absent.
func omegaAt(rec *codeml.Result, i int) string {
	if i >= len(rec.Omega) {
		return ""
	}
	return table.Float(rec.Omega[i])
}

// siteClassCells flattens the flat site-model mixture into one
// (parameter, class) column pair per class.
func siteClassCells(rec *codeml.Result) (cells table.Row) {
	for _, sc := range rec.SiteClasses {
		cells = append(cells,
			table.Cell{Col: "proportion_" + sc.Label, Val: table.Float(sc.Proportion)},
			table.Cell{Col: "omega_" + sc.Label, Val: optFloat(sc.Omega)})
	}
	return cells
}

// branchSiteClassCells flattens the branch-site mixture, one column
// per (class, branch-category) pair.
func branchSiteClassCells(rec *codeml.Result) (cells table.Row) {
	for _, sc := range rec.SiteClasses {
		cells = append(cells,
			table.Cell{Col: "proportion_" + sc.Label, Val: table.Float(sc.Proportion)},
			table.Cell{Col: "background_" + sc.Label, Val: optFloat(sc.Background)},
			table.Cell{Col: "foreground_" + sc.Label, Val: optFloat(sc.Foreground)})
	}
	return cells
}

// cladeClassCells flattens the clade-model mixture; the column name
// carries the clade label since clades are named rather than a fixed
// foreground/background pair.
func cladeClassCells(rec *codeml.Result) (cells table.Row) {
	for _, sc := range rec.SiteClasses {
		cells = append(cells,
			table.Cell{Col: "proportion_" + sc.Label, Val: table.Float(sc.Proportion)})
		for _, cl := range sc.Clades {
			label := strings.ReplaceAll(cl.Label, " ", "-")
			cells = append(cells,
				table.Cell{Col: "w_" + sc.Label + "_" + label, Val: table.Float(cl.Omega)})
		}
	}
	return cells
}

// branchRows emits one row per branch of the per-branch rate table,
// each carrying the model's summary columns.
func (g *GeneResults) branchRows(rec *codeml.Result, branch *table.Table) {
	for _, br := range rec.Branches {
		row := g.commonRow(rec)
		row = append(row,
			table.Cell{Col: "branch", Val: br.Branch},
			table.Cell{Col: "t", Val: table.Float(br.T)},
			table.Cell{Col: "N", Val: table.Float(br.N)},
			table.Cell{Col: "S", Val: table.Float(br.S)},
			table.Cell{Col: "omega", Val: table.Float(br.Omega)},
			table.Cell{Col: "dN", Val: table.Float(br.DN)},
			table.Cell{Col: "dS", Val: table.Float(br.DS)},
			table.Cell{Col: "N*dN", Val: table.Float(br.NDN)},
			table.Cell{Col: "S*dS", Val: table.Float(br.SDS)})
		branch.Append(row)
	}
}

// Summary reshapes every fitted model into one flat summary row,
// grouped by model category, plus the per-branch rate table. Only
// categories with at least one fitted model appear in the map.
func (g *GeneResults) Summary() (map[models.Category]*table.Table, *table.Table) {
	summary := make(map[models.Category]*table.Table)
	branch := table.New()

	for _, model := range g.Models {
		rec := g.Records[model]
		cat, _ := models.CategoryOf(model)

		row := g.commonRow(rec)
		switch cat {
		case models.Null:
			row = append(row,
				table.Cell{Col: "omega", Val: omegaAt(rec, 0)},
				table.Cell{Col: "dN", Val: optFloat(rec.DN)},
				table.Cell{Col: "dS", Val: optFloat(rec.DS)})
			g.branchRows(rec, branch)
		case models.Site:
			p0, w, p, q := "", "", "", ""
			if model == "M8" {
				p0 = optFloat(rec.P0)
				w = optFloat(rec.W)
			}
			if model == "M7" || model == "M8" {
				p = optFloat(rec.P)
				q = optFloat(rec.Q)
			}
			row = append(row,
				table.Cell{Col: "siteClassModel", Val: rec.SiteClassModel},
				table.Cell{Col: "p0", Val: p0},
				table.Cell{Col: "w", Val: w},
				table.Cell{Col: "p", Val: p},
				table.Cell{Col: "q", Val: q})
			row = append(row, siteClassCells(rec)...)
			g.branchRows(rec, branch)
		case models.BranchSite:
			row = append(row,
				table.Cell{Col: "siteClassModel", Val: rec.SiteClassModel})
			row = append(row, branchSiteClassCells(rec)...)
		case models.Clade:
			row = append(row,
				table.Cell{Col: "siteClassModel", Val: rec.SiteClassModel})
			row = append(row, cladeClassCells(rec)...)
		case models.Branch:
			row = append(row,
				table.Cell{Col: "omega1", Val: omegaAt(rec, 0)},
				table.Cell{Col: "omega2", Val: omegaAt(rec, 1)},
				table.Cell{Col: "dN", Val: optFloat(rec.DN)},
				table.Cell{Col: "dS", Val: optFloat(rec.DS)})
			g.branchRows(rec, branch)
		}

		t, ok := summary[cat]
		if !ok {
			t = table.New()
			summary[cat] = t
		}
		t.Append(row)
	}

	return summary, branch
}

// BEB returns the high-posterior-probability sites of all fitted
// models as one table.
func (g *GeneResults) BEB() *table.Table {
	t := table.New("Gene", "model", "pos", "aa", "prob")
	for _, model := range g.Models {
		for _, s := range g.Records[model].BEB {
			t.Append(table.Row{
				{Col: "Gene", Val: g.Name},
				{Col: "model", Val: model},
				{Col: "pos", Val: table.Int(s.Pos)},
				{Col: "aa", Val: s.AA},
				{Col: "prob", Val: table.Float(s.Prob)},
			})
		}
	}
	return t
}
