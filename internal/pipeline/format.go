package pipeline

import (
	"regexp"
	"strings"
)

const notFound = "N/A"

type ValueKind int

const (
	KindGeneric ValueKind = iota
	KindVoltage
	KindDimension
)

// Pairs is an insertion-ordered code-to-value mapping. Setting an existing
// code overwrites its value without changing its position.
type Pairs struct {
	order []string
	vals  map[string]string
}

func NewPairs() *Pairs {
	return &Pairs{vals: map[string]string{}}
}

func (p *Pairs) Set(code, value string) {
	if _, ok := p.vals[code]; !ok {
		p.order = append(p.order, code)
	}
	p.vals[code] = value
}

func (p *Pairs) Len() int { return len(p.order) }

// FormatField renders the canonical field string: code-bearing pairs first
// in insertion order, then codeless values whose value is not already
// represented (case-insensitive). Empty input renders as "N/A".
func FormatField(pairs *Pairs, values []string) string {
	var items []string
	used := map[string]bool{}

	if pairs != nil {
		for _, code := range pairs.order {
			value := pairs.vals[code]
			items = append(items, code+":"+value)
			used[strings.ToLower(value)] = true
		}
	}
	for _, value := range values {
		if used[strings.ToLower(value)] {
			continue
		}
		used[strings.ToLower(value)] = true
		items = append(items, value)
	}

	if len(items) == 0 {
		return notFound
	}
	return "{" + strings.Join(items, "|") + "}"
}

// FormatColorsWithCodes renders LED colors, always pairing every color with
// a code: discovered codes first, then standard codes generated for the
// rest.
func FormatColorsWithCodes(pairs *Pairs, colors []string) string {
	var items []string
	used := map[string]bool{}

	if pairs != nil {
		for _, code := range pairs.order {
			color := pairs.vals[code]
			items = append(items, code+":"+color)
			used[strings.ToLower(color)] = true
		}
	}
	for _, color := range colors {
		if used[strings.ToLower(color)] {
			continue
		}
		used[strings.ToLower(color)] = true
		items = append(items, ColorCode(color)+":"+color)
	}

	if len(items) == 0 {
		return notFound
	}
	return "{" + strings.Join(items, "|") + "}"
}

var reBraced = regexp.MustCompile(`^\{(.+)\}`)

// CleanAndDedupe re-parses an already formatted field string, normalizes
// each value per kind and drops case-insensitive duplicate values. Final
// pass of the voltage and mounting hole extractors, whose text and table
// phases can surface the same value under several spellings. Fixed point:
// applying it to its own output is a no-op.
func CleanAndDedupe(s string, kind ValueKind) string {
	if s == "" || s == notFound {
		return s
	}
	m := reBraced.FindStringSubmatch(s)
	if m == nil {
		return s
	}

	var cleaned []string
	seen := map[string]bool{}
	for _, item := range strings.Split(m[1], "|") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		code := ""
		value := item
		if idx := strings.Index(item, ":"); idx >= 0 {
			code = strings.TrimSpace(item[:idx])
			value = strings.TrimSpace(item[idx+1:])
		}

		switch kind {
		case KindVoltage:
			value = StandardizeVoltage(value)
		case KindDimension:
			value = CleanDimension(value)
		}

		lower := strings.ToLower(value)
		if seen[lower] {
			continue
		}
		seen[lower] = true

		if code != "" {
			cleaned = append(cleaned, code+":"+value)
		} else {
			cleaned = append(cleaned, value)
		}
	}

	if len(cleaned) == 0 {
		return notFound
	}
	return "{" + strings.Join(cleaned, "|") + "}"
}
