package pipeline

import (
	"regexp"
	"strings"
)

var (
	reVDC       = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*VDC`)
	reVAC       = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*VAC`)
	reVSpacedDC = regexp.MustCompile(`V\s+DC`)
	reVSpacedAC = regexp.MustCompile(`V\s+AC`)
	reNumSlash  = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)

	reDiameterGlyph = regexp.MustCompile(`[øØ]\s*`)
	reTrailingMM    = regexp.MustCompile(`(?i)\s*mm\b`)
)

// StandardizeVoltage rewrites "24VDC" to "24V DC", collapses whitespace
// inside "V DC"/"V AC" and tightens "a / b" ranges. Idempotent.
func StandardizeVoltage(s string) string {
	if s == "" {
		return s
	}
	v := strings.TrimSpace(s)
	v = reVDC.ReplaceAllString(v, "${1}V DC")
	v = reVAC.ReplaceAllString(v, "${1}V AC")
	v = reVSpacedDC.ReplaceAllString(v, "V DC")
	v = reVSpacedAC.ReplaceAllString(v, "V AC")
	v = reNumSlash.ReplaceAllString(v, "$1/$2")
	return v
}

// CleanDimension strips diameter glyphs and a trailing "mm". Idempotent.
func CleanDimension(s string) string {
	if s == "" {
		return s
	}
	d := strings.TrimSpace(s)
	d = reDiameterGlyph.ReplaceAllString(d, "")
	d = reTrailingMM.ReplaceAllString(d, "")
	return strings.TrimSpace(d)
}

var uppercaseAcronyms = map[string]bool{
	"LED": true, "RGB": true, "SMD": true, "PCB": true,
	"AC": true, "DC": true, "IP": true,
}

// ProperCapitalize uppercases known acronyms and otherwise capitalizes only
// the first letter, leaving the rest of the value untouched.
func ProperCapitalize(s string) string {
	if s == "" {
		return s
	}
	if uppercaseAcronyms[strings.ToUpper(s)] {
		return strings.ToUpper(s)
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var ledColorCodes = map[string]string{
	"red":        "R",
	"green":      "G",
	"blue":       "B",
	"white":      "W",
	"amber":      "A",
	"yellow":     "Y",
	"orange":     "O",
	"clear":      "C",
	"warm white": "WW",
	"cool white": "CW",
	"pink":       "P",
	"purple":     "PR",
	"bi-color":   "BC",
	"rgb":        "RGB",
	"multicolor": "MC",
}

// ColorCode returns the standard order code for a color name, falling back
// to the uppercased first letter.
func ColorCode(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if code, ok := ledColorCodes[lower]; ok {
		return code
	}
	if name == "" {
		return "X"
	}
	return strings.ToUpper(name[:1])
}
