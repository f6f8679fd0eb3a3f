package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"specsheet/internal"
	"specsheet/internal/util"
)

// candidateKeyMap translates the AI collaborator's underscore keys to the
// canonical column names.
var candidateKeyMap = map[string]string{
	"MODEL_CODE":           "MODEL_CODE",
	"SERIES":               "SERIES",
	"MOUNTING_HOLE":        "MOUNTING HOLE",
	"BEZEL_STYLE":          "BEZEL STYLE",
	"TERMINALS":            "TERMINALS",
	"BEZEL_FINISH":         "BEZEL FINISH",
	"TYPE_OF_ILLUMINATION": "TYPE OF ILLUMINATION",
	"LED_COLOR":            "LED COLOR",
	"VOLTAGE":              "VOLTAGE",
	"SEALING":              "SEALING",
}

// candidateSchema checks the shape of one candidate record: an object with
// string or null values. Missing keys are tolerated and normalized to
// absence.
var candidateSchema = jsonschema.MustCompileString("candidate.json", `{
	"type": "object",
	"properties": {
		"MODEL_CODE": {"type": ["string", "null"]},
		"SERIES": {"type": ["string", "null"]},
		"MOUNTING_HOLE": {"type": ["string", "null"]},
		"BEZEL_STYLE": {"type": ["string", "null"]},
		"TERMINALS": {"type": ["string", "null"]},
		"BEZEL_FINISH": {"type": ["string", "null"]},
		"TYPE_OF_ILLUMINATION": {"type": ["string", "null"]},
		"LED_COLOR": {"type": ["string", "null"]},
		"VOLTAGE": {"type": ["string", "null"]},
		"SEALING": {"type": ["string", "null"]}
	}
}`)

func isAbsent(v string) bool {
	return v == "" || v == "null" || v == notFound
}

// DecodeCandidates parses an AI candidate payload, dropping
// null/"null"/""/"N/A" sentinels. A lone object is treated as a
// single-candidate list, any other non-list payload as absence, and a
// record failing the shape contract is skipped without aborting the rest.
func DecodeCandidates(data []byte) ([]internal.CandidateRecord, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}

	var raw []any
	switch v := payload.(type) {
	case []any:
		raw = v
	case map[string]any:
		raw = []any{v}
	default:
		return nil, nil
	}

	out := make([]internal.CandidateRecord, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok || candidateSchema.Validate(obj) != nil {
			continue
		}
		rec := internal.CandidateRecord{Fields: map[string]string{}}
		for key, value := range obj {
			col, ok := candidateKeyMap[key]
			if !ok || value == nil {
				continue
			}
			s := strings.TrimSpace(fmt.Sprint(value))
			if isAbsent(s) {
				continue
			}
			if col == "MODEL_CODE" {
				rec.ModelCode = s
			} else {
				rec.Fields[col] = s
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// MergeProducts reconciles the heuristic record with externally supplied
// candidates: one Product per candidate whose model code passes the loose
// validator and has not been seen (case-insensitive); field-by-field the
// heuristic value wins over the candidate's. When no candidate survives, a
// single fallback Product is synthesized from the heuristic record with
// the series as its model code.
func MergeProducts(heuristic internal.DocumentResult, candidates []internal.CandidateRecord, seriesName string) []internal.Product {
	var products []internal.Product
	seen := map[string]bool{}

	for _, cand := range candidates {
		code := cand.ModelCode
		if code == "" || seen[strings.ToUpper(code)] {
			continue
		}
		if !ValidateModelCode(code) {
			continue
		}
		seen[strings.ToUpper(code)] = true

		product := internal.Product{ModelCode: code, Fields: map[string]*string{}}
		for _, col := range internal.MergedColumns {
			switch col {
			case "MODEL_CODE":
				product.Fields[col] = util.StringPtr(code)
			case "SERIES":
				series := heuristicValue(heuristic, "SERIES")
				if series == "" {
					series = cand.Fields["SERIES"]
				}
				if series == "" {
					series = seriesName
				}
				product.Fields[col] = nonEmptyPtr(series)
			default:
				if v := heuristicValue(heuristic, col); v != "" {
					product.Fields[col] = util.StringPtr(v)
				} else if v := cand.Fields[col]; !isAbsent(v) {
					product.Fields[col] = util.StringPtr(v)
				} else {
					product.Fields[col] = nil
				}
			}
		}
		products = append(products, product)
	}

	if len(products) == 0 {
		products = append(products, fallbackProduct(heuristic, seriesName))
	}
	return products
}

func fallbackProduct(heuristic internal.DocumentResult, seriesName string) internal.Product {
	product := internal.Product{Fields: map[string]*string{}}
	for _, col := range internal.MergedColumns {
		product.Fields[col] = nonEmptyPtr(heuristicValue(heuristic, col))
	}

	code := heuristicValue(heuristic, "SERIES")
	if code == "" {
		code = seriesName
	}
	if code == "" {
		code = "Unknown"
	}
	product.ModelCode = code
	product.Fields["MODEL_CODE"] = util.StringPtr(code)
	return product
}

func heuristicValue(result internal.DocumentResult, col string) string {
	if col == "SERIES" && result.Series != "" && result.Series != notFound {
		return result.Series
	}
	v := result.Fields[col]
	if isAbsent(v) {
		return ""
	}
	return v
}

func nonEmptyPtr(v string) *string {
	if v == "" {
		return nil
	}
	return util.StringPtr(v)
}

// EnhanceFromCandidate is the confidence-gated merge path: only fields
// flagged low-confidence or sourceless may be overwritten, and only with a
// non-empty replacement. Accepted overwrites downgrade the field to medium
// confidence and tag it as externally enhanced. Returns the number of
// fields replaced.
func EnhanceFromCandidate(result *internal.DocumentResult, cand internal.CandidateRecord) int {
	enhanced := 0
	for _, field := range LowConfidenceFields(*result) {
		value, ok := cand.Fields[field]
		if !ok || isAbsent(value) {
			continue
		}
		result.Fields[field] = value
		result.Validation[field] = internal.ConfidenceEntry{
			Confidence: internal.ConfidenceMedium,
			Reason:     "filled from external extraction",
			Source:     "AI Enhanced",
		}
		enhanced++
	}
	return enhanced
}
