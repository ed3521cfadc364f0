package codeml

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"etetools/models"
)

// bsProbThreshold is the minimal summed posterior probability for a
// branch-site BEB site to be reported.
const bsProbThreshold = 0.99

// ReadBEB reads the Bayes Empirical Bayes table from a detail (rst)
// file for the given model. The table format differs between site and
// branch-site models.
func ReadBEB(fn, model string) ([]BEBSite, error) {
	cat, ok := models.CategoryOf(model)
	if !ok {
		return nil, fmt.Errorf("unknown model '%s'", model)
	}

	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines, err := readLines(f)
	if err != nil {
		return nil, err
	}

	switch cat {
	case models.Site:
		return bebSite(fn, lines)
	case models.BranchSite:
		return bebBranchSite(fn, lines)
	}
	return nil, fmt.Errorf("%s: model %s has no BEB table", fn, model)
}

// dataRows collects consecutive table rows starting at lines[start]:
// blank lines are skipped, the first line not starting with an
// integer position ends the table.
func dataRows(lines []string, start int) [][]string {
	var rows [][]string
	if start > len(lines) {
		return rows
	}
	for _, raw := range lines[start:] {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if _, err := strconv.Atoi(fields[0]); err != nil {
			break
		}
		rows = append(rows, fields)
	}
	return rows
}

// bebBranchSite extracts sites from the branch-site BEB table. The
// data begins 3 lines after the section marker; the two class-2
// components (2a/2b) are summed into the reported probability. Gap
// rows are dropped and only sites with probability >= 0.99 are kept.
func bebBranchSite(fn string, lines []string) ([]BEBSite, error) {
	start := -1
	for i, l := range lines {
		if strings.HasPrefix(l, "Bayes Empirical Bayes") {
			start = i + 3
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("%s: no Bayes Empirical Bayes section", fn)
	}

	var sites []BEBSite
	for _, fields := range dataRows(lines, start) {
		if len(fields) < 6 {
			return nil, fmt.Errorf("%s: malformed BEB row %v", fn, fields)
		}
		if fields[1] == "-" {
			continue
		}
		pos, _ := strconv.Atoi(fields[0])
		p2a, err := parseFloat(fields[4], "BEB class 2a")
		if err != nil {
			return nil, fmt.Errorf("%s: %v", fn, err)
		}
		p2b, err := parseFloat(fields[5], "BEB class 2b")
		if err != nil {
			return nil, fmt.Errorf("%s: %v", fn, err)
		}
		if prob := p2a + p2b; prob >= bsProbThreshold {
			sites = append(sites, BEBSite{Pos: pos, AA: fields[1], Prob: prob})
		}
	}
	return sites, nil
}

// bebSite extracts sites from the site-model BEB table. The data
// begins 2 lines after the "Prob(w>1)" header inside the "(BEB)"
// section. Only rows whose probability carries the two-asterisk
// significance marker are kept. A single-row table is treated as
// having no sites to report.
func bebSite(fn string, lines []string) ([]BEBSite, error) {
	beb := -1
	for i, l := range lines {
		if strings.Contains(l, "(BEB)") {
			beb = i
			break
		}
	}
	if beb < 0 {
		return nil, fmt.Errorf("%s: no BEB section", fn)
	}

	start := -1
	for i, l := range lines[beb:] {
		if strings.Contains(l, "Prob(w>1)") {
			start = beb + i + 2
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("%s: no Prob(w>1) header in BEB section", fn)
	}

	rows := dataRows(lines, start)
	if len(rows) == 1 {
		return nil, nil
	}

	var sites []BEBSite
	for _, fields := range rows {
		if len(fields) < 4 {
			return nil, fmt.Errorf("%s: malformed BEB row %v", fn, fields)
		}
		if fields[1] == "-" {
			continue
		}
		if !strings.Contains(fields[2], "**") {
			continue
		}
		pos, _ := strconv.Atoi(fields[0])
		prob, err := parseFloat(strings.TrimRight(fields[2], "*"), "BEB probability")
		if err != nil {
			return nil, fmt.Errorf("%s: %v", fn, err)
		}
		sites = append(sites, BEBSite{Pos: pos, AA: fields[1], Prob: prob})
	}
	return sites, nil
}
