package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"specsheet/internal"
	"specsheet/internal/util"
)

// AnalyzeConfidence assigns a per-field confidence entry after extraction.
// A field with at least one code:value pair and two or more options is
// high; a single option or a codeless value is medium; "N/A" is low.
// SERIES comes from the filename and is always high.
func (e *Extractor) AnalyzeConfidence(fields internal.FieldRecord, pages []string) map[string]internal.ConfidenceEntry {
	validation := make(map[string]internal.ConfidenceEntry, len(fields))

	for field, value := range fields {
		switch {
		case value == notFound:
			validation[field] = internal.ConfidenceEntry{
				Confidence: internal.ConfidenceLow,
				Reason:     "value not found in document",
			}
		case field == "SERIES":
			validation[field] = internal.ConfidenceEntry{
				Confidence: internal.ConfidenceHigh,
				Reason:     "extracted from filename",
				Source:     "Filename",
			}
		case strings.Contains(value, "{") && strings.Contains(value, ":"):
			options := 1
			if strings.Contains(value, "|") {
				options = strings.Count(value, "|") + 1
			}
			if options >= 2 {
				validation[field] = internal.ConfidenceEntry{
					Confidence: internal.ConfidenceHigh,
					Reason:     fmt.Sprintf("found %d options with code format", options),
					Source:     "Table/Ordering Info",
					Page:       findValuePage(value, pages),
				}
			} else {
				validation[field] = internal.ConfidenceEntry{
					Confidence: internal.ConfidenceMedium,
					Reason:     "single option found",
					Source:     "Table/Text",
					Page:       findValuePage(value, pages),
				}
			}
		case strings.Contains(value, "{"):
			validation[field] = internal.ConfidenceEntry{
				Confidence: internal.ConfidenceMedium,
				Reason:     "value found but no code mapping",
				Source:     "Text search",
				Page:       findValuePage(value, pages),
			}
		default:
			validation[field] = internal.ConfidenceEntry{
				Confidence: internal.ConfidenceMedium,
				Reason:     "basic value extracted",
				Source:     "Text",
			}
		}
	}

	return validation
}

// findValuePage reports the first page containing one of the field's first
// two option values.
func findValuePage(value string, pages []string) *int {
	if value == "" || len(pages) == 0 {
		return nil
	}

	var terms []string
	if strings.Contains(value, "{") {
		clean := strings.NewReplacer("{", "", "}", "", "\n", " ").Replace(value)
		parts := strings.Split(clean, "|")
		if len(parts) > 2 {
			parts = parts[:2]
		}
		for _, p := range parts {
			if idx := strings.LastIndex(p, ":"); idx >= 0 {
				p = p[idx+1:]
			}
			terms = append(terms, strings.TrimSpace(p))
		}
	} else {
		terms = append(terms, value)
	}

	for i, page := range pages {
		pageLower := strings.ToLower(page)
		for _, term := range terms {
			if term != "" && strings.Contains(pageLower, strings.ToLower(term)) {
				return util.IntPtr(i + 1)
			}
		}
	}
	return nil
}

var confidenceScores = map[internal.Confidence]int{
	internal.ConfidenceHigh:   3,
	internal.ConfidenceMedium: 2,
	internal.ConfidenceLow:    1,
}

// OverallConfidence averages the per-field scores to a 0-100 percentage
// and buckets it with the configured cutoffs.
func (e *Extractor) OverallConfidence(validation map[string]internal.ConfidenceEntry) (int, internal.Confidence) {
	if len(validation) == 0 {
		return 0, internal.ConfidenceLow
	}

	total := 0
	for _, entry := range validation {
		score, ok := confidenceScores[entry.Confidence]
		if !ok {
			score = 1
		}
		total += score
	}

	avg := float64(total) / float64(len(validation))
	pct := int(avg / 3 * 100)

	switch {
	case avg >= e.cfg.ConfidenceHighCutoff:
		return pct, internal.ConfidenceHigh
	case avg >= e.cfg.ConfidenceMediumCutoff:
		return pct, internal.ConfidenceMedium
	default:
		return pct, internal.ConfidenceLow
	}
}

// LowConfidenceFields lists the fields eligible for external enhancement:
// low confidence or no recorded source.
func LowConfidenceFields(result internal.DocumentResult) []string {
	var out []string
	for field, entry := range result.Validation {
		if entry.Confidence == internal.ConfidenceLow || entry.Source == "" {
			out = append(out, field)
		}
	}
	sort.Strings(out)
	return out
}
