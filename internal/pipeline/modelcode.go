package pipeline

import (
	"regexp"
	"sort"
	"strings"

	"specsheet/internal/corpus"
	"specsheet/internal/util"
)

// structural words whose presence disqualifies a candidate from being an
// orderable part number
var modelCodeDenylist = []string{
	"CIRCUIT", "EXAMPLE", "CONDITIONAL", "SHORT", "CURRENT",
	"NOTE", "FIGURE", "TABLE", "PAGE", "SPECIFICATION",
	"DIMENSION", "MOUNTING", "TERMINAL", "VOLTAGE", "SEALING",
}

const (
	strictCodeMinLen = 8
	strictCodeMaxLen = 25
	looseCodeMinLen  = 5
	looseCodeMaxLen  = 30
)

// ExtractModelCodes finds orderable part numbers anchored on the series
// prefix, in the text and in every table cell. Output is deduplicated
// case-insensitively and sorted for determinism.
func ExtractModelCodes(c *corpus.PageCorpus, series string) []string {
	if strings.TrimSpace(series) == "" {
		return nil
	}

	strictPattern := regexp.MustCompile(
		`(?i)\b` + regexp.QuoteMeta(series) + `[-][A-Z0-9]{2,}(?:[-][A-Z0-9]+)*\b`)

	var codes []string
	seen := map[string]bool{}
	add := func(code string) {
		code = strings.ToUpper(strings.TrimSpace(code))
		if !validateStrict(code, series) || seen[code] {
			return
		}
		seen[code] = true
		codes = append(codes, code)
	}

	for _, m := range strictPattern.FindAllString(c.Text, -1) {
		add(m)
	}

	for _, table := range c.Tables {
		for _, row := range table {
			for i := range row {
				cell := row.CellAt(i)
				if cell == "" {
					continue
				}
				for _, m := range strictPattern.FindAllString(cell, -1) {
					add(m)
				}
				add(cell)
			}
		}
	}

	sort.Strings(codes)
	return codes
}

// validateStrict applies the structural rules for codes discovered by this
// extractor: series prefix plus hyphen, length band, at least one digit in
// the suffix, no whitespace or denylisted words, alphanumeric/hyphen only.
func validateStrict(code, series string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	series = strings.ToUpper(series)

	if len(code) < strictCodeMinLen || len(code) > strictCodeMaxLen {
		return false
	}
	if !strings.HasPrefix(code, series) {
		return false
	}
	if len(code) <= len(series) || code[len(series)] != '-' {
		return false
	}
	if strings.Contains(code, " ") {
		return false
	}
	for _, word := range modelCodeDenylist {
		if strings.Contains(code, word) {
			return false
		}
	}
	if !util.HasDigit(code[len(series)+1:]) {
		return false
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	return true
}

// ValidateModelCode is the looser predicate used for externally supplied
// candidates: the series prefix is not required, but length, charset and
// denylist rules still hold.
func ValidateModelCode(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))

	if len(code) < looseCodeMinLen || len(code) > looseCodeMaxLen {
		return false
	}
	if strings.Contains(code, " ") {
		return false
	}
	for _, word := range modelCodeDenylist {
		if strings.Contains(code, word) {
			return false
		}
	}
	return util.HasLetter(code) && util.HasDigit(code)
}
