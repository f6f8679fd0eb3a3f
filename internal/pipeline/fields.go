package pipeline

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"specsheet/internal/config"
	"specsheet/internal/corpus"
	"specsheet/internal/util"
)

// Extractor runs the per-field extraction routines over one PageCorpus.
// It is stateless between documents; all thresholds come from config.
type Extractor struct {
	cfg config.Config
}

func NewExtractor(cfg config.Config) *Extractor {
	return &Extractor{cfg: cfg}
}

var (
	reSeriesPrefix = regexp.MustCompile(`^([A-Za-z0-9]+)`)
	reFirstNumber  = regexp.MustCompile(`\d+\.?\d*`)
)

// SeriesFromFilename derives the product family identifier from the leading
// alphanumeric run of the filename. Always succeeds, independent of whether
// the document itself is parseable.
func SeriesFromFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if m := reSeriesPrefix.FindStringSubmatch(base); m != nil {
		return strings.ToUpper(m[1])
	}
	fields := strings.Fields(base)
	if len(fields) > 0 {
		return strings.ToUpper(fields[0])
	}
	return notFound
}

// matchAll runs a pattern and normalizes every match to a single string,
// taking the first capturing group when one exists.
func matchAll(re *regexp.Regexp, s string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		v := m[0]
		if len(m) > 1 && m[1] != "" {
			v = m[1]
		}
		out = append(out, v)
	}
	return out
}

// exhaustiveTextSearch runs every pattern over the full text and returns
// all distinct trimmed matches in discovery order.
func exhaustiveTextSearch(text string, patterns []*regexp.Regexp) []string {
	var all []string
	seen := map[string]bool{}
	for _, re := range patterns {
		for _, m := range matchAll(re, text) {
			m = strings.TrimSpace(m)
			if m == "" || seen[m] {
				continue
			}
			seen[m] = true
			all = append(all, m)
		}
	}
	return all
}

// exhaustiveTableSearch scans every cell of every table for vocabulary
// terms. When a matching cell has a short alphabetic neighbor (at most 3
// characters) that neighbor is recorded as the term's order code.
func exhaustiveTableSearch(tables []corpus.Table, vocab []string, normalize func(string) string) (*Pairs, []string) {
	pairs := NewPairs()
	var values []string
	seen := map[string]bool{}

	add := func(term string) {
		v := ProperCapitalize(term)
		if normalize != nil {
			v = normalize(v)
		}
		if !seen[strings.ToLower(v)] {
			seen[strings.ToLower(v)] = true
			values = append(values, v)
		}
	}

	for _, table := range tables {
		for _, row := range table {
			rowText := row.JoinedLower()
			for _, term := range vocab {
				termLower := strings.ToLower(term)
				if !strings.Contains(rowText, termLower) {
					continue
				}
				for i := range row {
					cell := row.CellAt(i)
					if cell == "" || !strings.Contains(strings.ToLower(cell), termLower) {
						continue
					}

					value := ProperCapitalize(term)
					if normalize != nil {
						value = normalize(value)
					}
					for _, code := range adjacentCodes(row, i, 3) {
						pairs.Set(code, value)
					}
					add(term)
				}
			}
		}
	}

	return pairs, values
}

// adjacentCodes inspects the previous and next cells; a short alphabetic
// token (ignoring footnote asterisks) is treated as an order code. Both
// neighbors may qualify when the value sits between two code columns.
func adjacentCodes(row corpus.Row, i, maxLen int) []string {
	var codes []string
	for _, j := range []int{i - 1, i + 1} {
		cell := row.CellAt(j)
		if cell == "" {
			continue
		}
		clean := strings.ReplaceAll(cell, "*", "")
		if len(cell) <= maxLen && util.IsAlpha(clean) {
			codes = append(codes, strings.ToUpper(cell))
		}
	}
	return codes
}

func firstNumber(s string) (float64, bool) {
	m := reFirstNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ---------------------------------------------------------------------------
// Mounting hole

var mountingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)[øØ]\s*\d+\.?\d*\s*mm`),
	regexp.MustCompile(`(?i)[øØ]\s*\d+\.?\d*`),
	regexp.MustCompile(`(?i)\d+\.?\d*\s*mm\s*[Xx×]\s*\d+\.?\d*\s*mm`),
	regexp.MustCompile(`(?i)\d+\.?\d*\s*to\s*\d+\.?\d*\s*mm`),
	regexp.MustCompile(`(?i)\d+\.?\d*\s*to\s*\d+\.?\d*`),
	regexp.MustCompile(`(?i)panel\s*cut[- ]?out[:\s]*([øØ]?\s*\d+\.?\d*)`),
}

var mountingKeywords = []string{
	"panel cut-out", "panel cutout", "panel cut out",
	"mounting hole", "mounting", "cut-out", "cutout",
	"panel hole", "hole diameter", "hole size",
}

// window of text scanned after a mounting keyword to catch dimensions not
// adjacent to a diameter glyph
const mountingKeywordWindow = 200

var reMountingNormKey = regexp.MustCompile(`[øØ\s]`)

func (e *Extractor) extractMountingHole(c *corpus.PageCorpus) string {
	var found []string
	seen := map[string]bool{}

	add := func(val string) {
		norm := reMountingNormKey.ReplaceAllString(strings.ToLower(val), "")
		norm = strings.ReplaceAll(norm, "mm", "")
		if norm == "" || seen[norm] {
			return
		}
		seen[norm] = true
		found = append(found, val)
	}

	scan := func(s string, min, max float64) {
		for _, re := range mountingPatterns {
			for _, m := range matchAll(re, s) {
				if n, ok := firstNumber(m); ok && n >= min && n <= max {
					add(strings.TrimSpace(m))
				}
			}
		}
	}

	// a mounting keyword in the row is context enough: no numeric band
	scanAny := func(s string) {
		for _, re := range mountingPatterns {
			for _, m := range matchAll(re, s) {
				if _, ok := firstNumber(m); ok {
					add(strings.TrimSpace(m))
				}
			}
		}
	}

	scan(c.Text, e.cfg.MountingHoleTextMin, e.cfg.MountingHoleTextMax)

	// second text pass: dimensions mentioned shortly after a mounting
	// keyword, without any diameter glyph nearby
	textLower := strings.ToLower(c.Text)
	for _, kw := range mountingKeywords {
		idx := 0
		for {
			rel := strings.Index(textLower[idx:], kw)
			if rel < 0 {
				break
			}
			start := idx + rel + len(kw)
			end := start + mountingKeywordWindow
			if end > len(c.Text) {
				end = len(c.Text)
			}
			scan(c.Text[start:end], e.cfg.MountingHoleTextMin, e.cfg.MountingHoleTextMax)
			idx = start
		}
	}

	for _, table := range c.Tables {
		for _, row := range table {
			rowText := row.JoinedLower()
			hasKeyword := containsAny(rowText, mountingKeywords)
			for i := range row {
				cell := row.CellAt(i)
				if cell == "" {
					continue
				}
				if hasKeyword {
					scanAny(cell)
				} else {
					scan(cell, e.cfg.MountingHoleCellMin, e.cfg.MountingHoleCellMax)
				}
			}
		}
	}

	if len(found) == 0 {
		return notFound
	}
	if len(found) > e.cfg.MaxMountingValues {
		found = found[:e.cfg.MaxMountingValues]
	}
	return CleanAndDedupe("{"+strings.Join(found, "|")+"}", KindDimension)
}

// ---------------------------------------------------------------------------
// Voltage

var voltagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+\.?\d*\s*/\s*\d+\.?\d*\s*V\s*(?:DC|AC)`),
	regexp.MustCompile(`(?i)\d+\.?\d*\s*V\s*(?:DC|AC)`),
	regexp.MustCompile(`(?i)\d+\.?\d*\s*(?:VDC|VAC)`),
	regexp.MustCompile(`(?i)\d+\.?\d*\s*to\s*\d+\.?\d*\s*V\s*(?:DC|AC)`),
	regexp.MustCompile(`(?i)\d+\.?\d*[-–]\d+\.?\d*\s*V\s*(?:DC|AC)`),
}

func (e *Extractor) extractVoltage(c *corpus.PageCorpus) string {
	pairs := NewPairs()
	var voltages []string
	seen := map[string]bool{}

	add := func(v string) {
		// leading zeros are a sentinel for spurious zero-padded table
		// fragments
		if v == "" || strings.HasPrefix(v, "000") {
			return
		}
		if seen[strings.ToLower(v)] {
			return
		}
		seen[strings.ToLower(v)] = true
		voltages = append(voltages, v)
	}

	for _, m := range exhaustiveTextSearch(c.Text, voltagePatterns) {
		add(StandardizeVoltage(m))
	}

	for _, table := range c.Tables {
		for _, row := range table {
			for i := range row {
				cell := row.CellAt(i)
				if cell == "" {
					continue
				}
				for _, re := range voltagePatterns {
					for _, m := range matchAll(re, cell) {
						clean := StandardizeVoltage(strings.TrimSpace(m))
						if clean == "" || strings.HasPrefix(clean, "000") {
							continue
						}
						add(clean)
						for _, code := range adjacentAlnumCodes(row, i) {
							pairs.Set(code, clean)
						}
					}
				}
			}
		}
	}

	var result string
	switch {
	case pairs.Len() > 0:
		result = FormatField(pairs, nil)
	case len(voltages) > 0:
		if len(voltages) > e.cfg.MaxVoltageValues {
			voltages = voltages[:e.cfg.MaxVoltageValues]
		}
		result = "{" + strings.Join(voltages, "|") + "}"
	default:
		return notFound
	}
	return CleanAndDedupe(result, KindVoltage)
}

// adjacentAlnumCodes is the voltage variant: codes may contain digits.
func adjacentAlnumCodes(row corpus.Row, i int) []string {
	var codes []string
	for _, j := range []int{i - 1, i + 1} {
		cell := row.CellAt(j)
		if cell != "" && len(cell) <= 3 && util.IsAlnum(cell) {
			codes = append(codes, strings.ToUpper(cell))
		}
	}
	return codes
}

// ---------------------------------------------------------------------------
// Sealing (IP ratings)

var sealingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)IP\s*\d{2}[A-Z]?`),
	regexp.MustCompile(`(?i)IP\s*\d{2}`),
}

func (e *Extractor) extractSealing(c *corpus.PageCorpus) string {
	pairs := NewPairs()
	var ratings []string
	seen := map[string]bool{}

	add := func(m string) string {
		rating := strings.ToUpper(strings.ReplaceAll(m, " ", ""))
		if rating != "" && !seen[rating] {
			seen[rating] = true
			ratings = append(ratings, rating)
		}
		return rating
	}

	for _, m := range exhaustiveTextSearch(c.Text, sealingPatterns) {
		add(m)
	}

	for _, table := range c.Tables {
		for _, row := range table {
			for i := range row {
				cell := row.CellAt(i)
				if cell == "" {
					continue
				}
				for _, re := range sealingPatterns {
					for _, m := range matchAll(re, cell) {
						rating := add(m)
						prev := row.CellAt(i - 1)
						if prev != "" && len(prev) <= 2 && util.IsAlpha(prev) {
							pairs.Set(strings.ToUpper(prev), rating)
						}
					}
				}
			}
		}
	}

	if pairs.Len() > 0 {
		return FormatField(pairs, nil)
	}
	if len(ratings) > 0 {
		// no code discovered anywhere: synthesize the E placeholder for
		// every rating
		items := make([]string, 0, len(ratings))
		for _, r := range ratings {
			items = append(items, "E:"+r)
		}
		return "{" + strings.Join(items, "|") + "}"
	}
	return notFound
}

// ---------------------------------------------------------------------------
// LED color

var ledColors = []string{
	"red", "green", "amber", "yellow", "white", "blue",
	"orange", "warm white", "cool white", "pink",
	"purple", "bi-color", "rgb", "multicolor",
}

var ledContextKeywords = []string{
	"led", "color", "colour", "lamp", "lens", "indicator",
	"cap", "light", "backlight", "illumination",
}

// ledTextPatterns are the strict co-occurrence patterns: a bare color word
// in free text is never accepted without an LED-context anchor.
var ledTextPatterns = func() map[string][]*regexp.Regexp {
	templates := []string{
		`\b%s\s+led\b`,
		`\bled\s+%s\b`,
		`\bbacklight\s+%s\b`,
		`\b%s\s+backlight\b`,
		`\b%s\s+indicator\b`,
		`\b%s\s+lamp\b`,
		`\b%s\s+lens\b`,
		`\billuminat\w+.*?\b%s\b`,
		`\bcolor[:\s]+%s\b`,
		`\b%s\s+cap\b`,
		`colored\s+cap.*?%s`,
	}
	out := make(map[string][]*regexp.Regexp, len(ledColors))
	for _, color := range ledColors {
		quoted := regexp.QuoteMeta(color)
		patterns := make([]*regexp.Regexp, 0, len(templates))
		for _, tpl := range templates {
			patterns = append(patterns, regexp.MustCompile(fmt.Sprintf(tpl, quoted)))
		}
		out[color] = patterns
	}
	return out
}()

var ledOrderingPatterns = func() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(ledColors))
	for _, color := range ledColors {
		out[color] = regexp.MustCompile(`\b` + regexp.QuoteMeta(color) + `\b`)
	}
	return out
}()

func isValidColorCode(code string) bool {
	clean := strings.NewReplacer("*", "", "-", "").Replace(code)
	return len(clean) >= 1 && len(clean) <= 2 &&
		util.IsAlpha(clean) && clean == strings.ToUpper(clean)
}

func (e *Extractor) extractLEDColor(c *corpus.PageCorpus) string {
	pairs := NewPairs()
	var colors []string
	seen := map[string]bool{}

	add := func(color string) {
		v := ProperCapitalize(color)
		if !seen[strings.ToLower(v)] {
			seen[strings.ToLower(v)] = true
			colors = append(colors, v)
		}
	}

	// phase 1: tables. A color cell is accepted only with an adjacent valid
	// code or LED context in the header or the current row.
	for _, table := range c.Tables {
		tableContext := len(table) > 0 && containsAny(table[0].JoinedLower(), ledContextKeywords)

		for _, row := range table {
			if len(row) < 2 {
				continue
			}
			rowContext := containsAny(row.JoinedLower(), ledContextKeywords)

			for i := range row {
				cell := row.CellAt(i)
				if cell == "" {
					continue
				}
				cellLower := strings.ToLower(cell)

				for _, color := range ledColors {
					exact := cellLower == color || cellLower == strings.ReplaceAll(color, " ", "")
					near := strings.Contains(cellLower, color) && len(cellLower) <= len(color)+5
					if !exact && !near {
						continue
					}

					code := ""
					if prev := strings.ToUpper(row.CellAt(i - 1)); prev != "" && isValidColorCode(prev) {
						code = prev
					}
					if code == "" {
						if next := strings.ToUpper(row.CellAt(i + 1)); next != "" && isValidColorCode(next) {
							code = next
						}
					}

					if code == "" && !tableContext && !rowContext {
						continue
					}
					if code != "" {
						pairs.Set(code, ProperCapitalize(color))
					}
					add(color)
				}
			}
		}
	}

	// phase 2: free text, strict LED-context co-occurrence only
	textLower := strings.ToLower(c.Text)
	for _, color := range ledColors {
		for _, re := range ledTextPatterns[color] {
			if re.MatchString(textLower) {
				add(color)
				break
			}
		}
	}

	// phase 3: ordering-information block, looser word-boundary match
	ordering := strings.ToLower(orderingInfoSection(c.Text))
	if ordering != "" {
		for _, color := range ledColors {
			if ledOrderingPatterns[color].MatchString(ordering) {
				add(color)
			}
		}
	}

	return FormatColorsWithCodes(pairs, colors)
}

// ---------------------------------------------------------------------------
// Ordering information section

var orderingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)ordering\s+information[:\s]*(.*?)(?:\n\n|\z)`),
	regexp.MustCompile(`(?is)part\s+number[:\s]*(.*?)(?:\n\n|\z)`),
	regexp.MustCompile(`(?is)model\s+number[:\s]*(.*?)(?:\n\n|\z)`),
	regexp.MustCompile(`(?is)how\s+to\s+order[:\s]*(.*?)(?:\n\n|\z)`),
}

// orderingInfoSection collects the text of "ordering information" style
// blocks, which often hold the complete option list.
func orderingInfoSection(text string) string {
	var out strings.Builder
	for _, re := range orderingPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			out.WriteString(" ")
			out.WriteString(m[1])
		}
	}
	return out.String()
}

// ---------------------------------------------------------------------------
// Vocabulary fields: illumination, bezel style, terminals, bezel finish

var illuminationTypes = []string{"LED", "Neon", "Incandescent", "Halogen", "Lamp", "Fluorescent", "Filament"}

var bezelStyles = []string{
	"Dome", "Flat", "Round", "Square", "Rectangular", "Flush",
	"Projected", "Extended", "Raised", "Recessed", "Convex", "Mushroom",
}

var terminalTypes = []string{
	"Solder", "Screw", "Quick-connect", "Quick Connect",
	"Spring", "Crimp", "Wire", "Tab", "PCB", "Through-hole",
	"SMD", "Plug-in", "Faston", "Blade", "Pin",
}

var bezelFinishes = []string{
	"Chrome", "Plastic", "Metal", "Aluminum", "Stainless",
	"Nickel", "Black", "Silver", "Brass", "Zinc", "Painted",
	"Anodized", "Polished", "Satin", "Matte",
}

func normalizeTerminal(v string) string {
	if strings.EqualFold(v, "Quick Connect") {
		return "Quick-connect"
	}
	return v
}

// extractVocabField is the shared routine for fixed-vocabulary fields:
// exhaustive table scan with adjacent-code capture plus a flat substring
// scan over the text.
func (e *Extractor) extractVocabField(c *corpus.PageCorpus, vocab []string, normalize func(string) string) string {
	pairs, values := exhaustiveTableSearch(c.Tables, vocab, normalize)

	textLower := strings.ToLower(c.Text)
	seen := map[string]bool{}
	for _, v := range values {
		seen[strings.ToLower(v)] = true
	}
	for _, term := range vocab {
		if !strings.Contains(textLower, strings.ToLower(term)) {
			continue
		}
		v := term
		if normalize != nil {
			v = normalize(v)
		}
		if !seen[strings.ToLower(v)] {
			seen[strings.ToLower(v)] = true
			values = append(values, v)
		}
	}

	return FormatField(pairs, values)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
