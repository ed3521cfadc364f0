package codeml

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	reLnL        = regexp.MustCompile(`^lnL\(ntime:\s*\d+\s+np:\s*(\d+)\):\s*([-+0-9.eE]+)`)
	reNSsites    = regexp.MustCompile(`^NSsites Model\s+\d+:\s*(.*?)\s*$`)
	reMixturePar = regexp.MustCompile(`\(?\b(p0|p1|p|q|w)\s*=\s*([-+0-9.eE]+)`)
	reBranchID   = regexp.MustCompile(`^\d+\.\.\d+$`)
	reBranchType = regexp.MustCompile(`^(branch type\s+\S+):\s*(.*)$`)
)

// readLines reads all lines from a reader.
func readLines(rd io.Reader) (lines []string, err error) {
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// parseFloat parses a float, wrapping the error with the offending
// field.
func parseFloat(s, what string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparsable %s value '%s'", what, s)
	}
	return v, nil
}

// afterEquals returns the value after the '=' sign of a "name = value"
// line.
func afterEquals(line string) string {
	i := strings.Index(line, "=")
	if i < 0 {
		return ""
	}
	fields := strings.Fields(line[i+1:])
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ReadResult parses a CodeML primary output file into a Result for
// the given model code.
func ReadResult(fn, model string) (*Result, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines, err := readLines(f)
	if err != nil {
		return nil, err
	}

	res := &Result{Model: model}
	var seenLnL, seenKappa, seenTreeLength bool

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "Model:"):
			res.ModelName = strings.Trim(strings.TrimSpace(line[len("Model:"):]), ",")
		case strings.HasPrefix(line, "Codon frequency model:"):
			res.CodonModel = strings.TrimSpace(line[len("Codon frequency model:"):])
		case strings.HasPrefix(line, "Site-class models:"):
			res.SiteClassModel = strings.TrimSpace(line[len("Site-class models:"):])
		case reNSsites.MatchString(line):
			res.Description = reNSsites.FindStringSubmatch(line)[1]
		case strings.HasPrefix(line, "lnL("):
			m := reLnL.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("%s: malformed lnL line '%s'", fn, line)
			}
			np, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("%s: unparsable np in '%s'", fn, line)
			}
			lnl, err := parseFloat(m[2], "lnL")
			if err != nil {
				return nil, fmt.Errorf("%s: %v", fn, err)
			}
			res.NP = np
			res.LnL = lnl
			seenLnL = true
		case strings.HasPrefix(line, "tree length for dN:"):
			v, err := parseFloat(afterEquals("="+line[len("tree length for dN:"):]), "dN")
			if err != nil {
				return nil, fmt.Errorf("%s: %v", fn, err)
			}
			res.DN = &v
		case strings.HasPrefix(line, "tree length for dS:"):
			v, err := parseFloat(afterEquals("="+line[len("tree length for dS:"):]), "dS")
			if err != nil {
				return nil, fmt.Errorf("%s: %v", fn, err)
			}
			res.DS = &v
		case strings.HasPrefix(line, "tree length ="):
			if res.TreeLength, err = parseFloat(afterEquals(line), "tree length"); err != nil {
				return nil, fmt.Errorf("%s: %v", fn, err)
			}
			seenTreeLength = true
		case strings.HasPrefix(line, "kappa (ts/tv)"):
			if res.Kappa, err = parseFloat(afterEquals(line), "kappa"); err != nil {
				return nil, fmt.Errorf("%s: %v", fn, err)
			}
			seenKappa = true
		case strings.HasPrefix(line, "omega (dN/dS)"):
			v, err := parseFloat(afterEquals(line), "omega")
			if err != nil {
				return nil, fmt.Errorf("%s: %v", fn, err)
			}
			res.Omega = []float64{v}
		case strings.HasPrefix(line, "w (dN/dS) for branches:"):
			fields := strings.Fields(line[len("w (dN/dS) for branches:"):])
			res.Omega = res.Omega[:0]
			for _, f := range fields {
				v, err := parseFloat(f, "branch omega")
				if err != nil {
					return nil, fmt.Errorf("%s: %v", fn, err)
				}
				res.Omega = append(res.Omega, v)
			}
		case strings.Contains(line, "dN/dS (w) for site classes"):
			if err := parseSiteClassesPW(lines[i+1:], res); err != nil {
				return nil, fmt.Errorf("%s: %v", fn, err)
			}
		case strings.HasPrefix(line, "site class") && !strings.Contains(line, "site classes"):
			if err := parseSiteClassTable(line, lines[i+1:], res); err != nil {
				return nil, fmt.Errorf("%s: %v", fn, err)
			}
		case strings.HasPrefix(line, "dN & dS for each branch"):
			if err := parseBranchTable(lines[i+1:], res); err != nil {
				return nil, fmt.Errorf("%s: %v", fn, err)
			}
		case strings.HasPrefix(line, "p0 =") || strings.HasPrefix(line, "p =") ||
			strings.HasPrefix(line, "(p1 ="):
			if err := parseMixtureParameters(line, res); err != nil {
				return nil, fmt.Errorf("%s: %v", fn, err)
			}
		}
	}

	if !seenLnL {
		return nil, fmt.Errorf("%s: no lnL line found", fn)
	}
	if !seenTreeLength {
		return nil, fmt.Errorf("%s: no tree length found", fn)
	}
	if !seenKappa {
		return nil, fmt.Errorf("%s: no kappa found", fn)
	}
	log.Debugf("%s: %s, lnL=%f, np=%d", fn, model, res.LnL, res.NP)
	return res, nil
}

// parseMixtureParameters extracts the beta/omega mixture parameters
// of the M7/M8 models (p0, p, q, w) from a "name = value" line.
func parseMixtureParameters(line string, res *Result) error {
	for _, m := range reMixturePar.FindAllStringSubmatch(line, -1) {
		v, err := parseFloat(m[2], m[1])
		if err != nil {
			return err
		}
		val := v
		switch m[1] {
		case "p0":
			res.P0 = &val
		case "p":
			res.P = &val
		case "q":
			res.Q = &val
		case "w":
			res.W = &val
		}
	}
	return nil
}

// parseSiteClassesPW parses the site-model mixture block:
//
//	p:   0.93332  0.06668
//	w:   0.05170  1.00000
func parseSiteClassesPW(lines []string, res *Result) error {
	var ps, ws []string
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "p:") {
			ps = strings.Fields(line[2:])
			continue
		}
		if strings.HasPrefix(line, "w:") {
			ws = strings.Fields(line[2:])
		}
		break
	}
	if ps == nil {
		// branch-site and clade models print a site class table
		// under the same header instead of p/w rows
		return nil
	}
	if len(ps) == 0 || len(ps) != len(ws) {
		return fmt.Errorf("malformed site class block (p: %v, w: %v)", ps, ws)
	}
	res.SiteClasses = make([]SiteClass, 0, len(ps))
	for i := range ps {
		p, err := parseFloat(ps[i], "site class proportion")
		if err != nil {
			return err
		}
		w, err := parseFloat(ws[i], "site class omega")
		if err != nil {
			return err
		}
		omega := w
		res.SiteClasses = append(res.SiteClasses, SiteClass{
			Label:      strconv.Itoa(i),
			Proportion: p,
			Omega:      &omega,
		})
	}
	return nil
}

// parseRow parses n float fields of one site-class table row.
func parseRow(fields []string, n int, what string) ([]float64, error) {
	if len(fields) != n {
		return nil, fmt.Errorf("site class table: %d %s values for %d classes", len(fields), what, n)
	}
	vals := make([]float64, n)
	for i, f := range fields {
		v, err := parseFloat(f, what)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// parseSiteClassTable parses the branch-site and clade model mixture
// block:
//
//	site class             0        1       2a       2b
//	proportion       0.77936  0.13847  0.06953  0.01264
//	background w     0.05679  1.00000  0.05679  1.00000
//	foreground w     0.05679  1.00000  0.00000  0.00000
//
// Clade models report "branch type N:" rows instead of the
// background/foreground pair.
func parseSiteClassTable(header string, lines []string, res *Result) error {
	labels := strings.Fields(header)[2:]
	if len(labels) == 0 {
		return fmt.Errorf("site class table without classes: '%s'", header)
	}
	classes := make([]SiteClass, len(labels))
	for i, l := range labels {
		classes[i].Label = l
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "proportion"):
			vals, err := parseRow(strings.Fields(line)[1:], len(labels), "proportion")
			if err != nil {
				return err
			}
			for i, v := range vals {
				classes[i].Proportion = v
			}
			continue
		case strings.HasPrefix(line, "background w"):
			vals, err := parseRow(strings.Fields(line)[2:], len(labels), "background omega")
			if err != nil {
				return err
			}
			for i, v := range vals {
				w := v
				classes[i].Background = &w
			}
			continue
		case strings.HasPrefix(line, "foreground w"):
			vals, err := parseRow(strings.Fields(line)[2:], len(labels), "foreground omega")
			if err != nil {
				return err
			}
			for i, v := range vals {
				w := v
				classes[i].Foreground = &w
			}
			continue
		}
		if m := reBranchType.FindStringSubmatch(line); m != nil {
			vals, err := parseRow(strings.Fields(m[2]), len(labels), "clade omega")
			if err != nil {
				return err
			}
			for i, v := range vals {
				classes[i].Clades = append(classes[i].Clades, CladeOmega{Label: m[1], Omega: v})
			}
			continue
		}
		// end of the block
		break
	}
	res.SiteClasses = classes
	return nil
}

// parseBranchTable parses the per-branch rate table:
//
//	branch       t       N       S    dN/dS      dN      dS  N*dN  S*dS
//	 8..9    0.044   461.9   115.1   0.0550  0.0021  0.0381   1.0   4.4
func parseBranchTable(lines []string, res *Result) error {
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if fields[0] == "branch" {
			continue
		}
		if !reBranchID.MatchString(fields[0]) {
			break
		}
		if len(fields) != 9 {
			return fmt.Errorf("malformed branch row '%s'", line)
		}
		vals := make([]float64, 8)
		for i, f := range fields[1:] {
			v, err := parseFloat(f, "branch rate")
			if err != nil {
				return err
			}
			vals[i] = v
		}
		res.Branches = append(res.Branches, BranchRate{
			Branch: fields[0],
			T:      vals[0],
			N:      vals[1],
			S:      vals[2],
			Omega:  vals[3],
			DN:     vals[4],
			DS:     vals[5],
			NDN:    vals[6],
			SDS:    vals[7],
		})
	}
	if len(res.Branches) == 0 {
		return fmt.Errorf("empty branch table")
	}
	return nil
}
