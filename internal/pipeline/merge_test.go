package pipeline

import (
	"testing"

	"specsheet/internal"
)

func TestDecodeCandidates(t *testing.T) {
	payload := []byte(`[
		{"MODEL_CODE": "APW199-R24V", "LED_COLOR": "{R:Red}", "VOLTAGE": null, "SEALING": "N/A"},
		{"MODEL_CODE": "null", "SERIES": "APW199"}
	]`)

	candidates, err := DecodeCandidates(payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 2 {
		t.Fatalf("len=%d", len(candidates))
	}
	if candidates[0].ModelCode != "APW199-R24V" {
		t.Fatalf("code=%q", candidates[0].ModelCode)
	}
	if candidates[0].Fields["LED COLOR"] != "{R:Red}" {
		t.Fatalf("fields=%v", candidates[0].Fields)
	}
	if _, ok := candidates[0].Fields["VOLTAGE"]; ok {
		t.Fatal("null value should be dropped")
	}
	if _, ok := candidates[0].Fields["SEALING"]; ok {
		t.Fatal("N/A value should be dropped")
	}
	if candidates[1].ModelCode != "" {
		t.Fatalf("sentinel code kept: %q", candidates[1].ModelCode)
	}
}

func TestDecodeCandidatesLoneObject(t *testing.T) {
	candidates, err := DecodeCandidates([]byte(`{"MODEL_CODE": "APW199-R24V"}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 || candidates[0].ModelCode != "APW199-R24V" {
		t.Fatalf("candidates=%v", candidates)
	}
}

func TestDecodeCandidatesNonListPayload(t *testing.T) {
	for _, payload := range []string{`42`, `"oops"`, `true`, `null`} {
		candidates, err := DecodeCandidates([]byte(payload))
		if err != nil {
			t.Fatalf("payload %s: %v", payload, err)
		}
		if candidates != nil {
			t.Fatalf("payload %s: candidates=%v", payload, candidates)
		}
	}
}

func TestDecodeCandidatesSkipsBadRecords(t *testing.T) {
	payload := []byte(`[
		42,
		{"MODEL_CODE": 7},
		{"MODEL_CODE": "APW199-R24V"}
	]`)

	candidates, err := DecodeCandidates(payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 || candidates[0].ModelCode != "APW199-R24V" {
		t.Fatalf("candidates=%v", candidates)
	}
}

func TestDecodeCandidatesRejectsInvalidJSON(t *testing.T) {
	if _, err := DecodeCandidates([]byte(`not json`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestMergeProducts(t *testing.T) {
	heuristic := internal.DocumentResult{
		Series: "APW199",
		Fields: internal.FieldRecord{
			"VOLTAGE":   "{S:24V DC}",
			"LED COLOR": "N/A",
		},
	}
	candidates := []internal.CandidateRecord{
		{ModelCode: "APW199-R24V", Fields: map[string]string{"LED COLOR": "{R:Red}", "VOLTAGE": "{12V DC}"}},
		{ModelCode: "apw199-r24v", Fields: map[string]string{}},
		{ModelCode: "BAD", Fields: map[string]string{}},
	}

	products := MergeProducts(heuristic, candidates, "APW199")
	if len(products) != 1 {
		t.Fatalf("len=%d", len(products))
	}

	p := products[0]
	if p.ModelCode != "APW199-R24V" {
		t.Fatalf("code=%q", p.ModelCode)
	}
	if v := p.Fields["VOLTAGE"]; v == nil || *v != "{S:24V DC}" {
		t.Fatalf("heuristic should win: %v", v)
	}
	if v := p.Fields["LED COLOR"]; v == nil || *v != "{R:Red}" {
		t.Fatalf("candidate should fill gap: %v", v)
	}
	if v := p.Fields["SERIES"]; v == nil || *v != "APW199" {
		t.Fatalf("series=%v", v)
	}
	if p.Fields["BEZEL STYLE"] != nil {
		t.Fatal("absent field should be nil")
	}
}

func TestMergeProductsFallback(t *testing.T) {
	heuristic := internal.DocumentResult{
		Series: "APW199",
		Fields: internal.FieldRecord{"VOLTAGE": "{24V DC}"},
	}

	products := MergeProducts(heuristic, nil, "APW199")
	if len(products) != 1 {
		t.Fatalf("len=%d", len(products))
	}
	if products[0].ModelCode != "APW199" {
		t.Fatalf("code=%q", products[0].ModelCode)
	}
	if v := products[0].Fields["MODEL_CODE"]; v == nil || *v != "APW199" {
		t.Fatalf("model code column=%v", v)
	}
}

func TestMergeProductsFallbackUnknown(t *testing.T) {
	products := MergeProducts(internal.DocumentResult{Fields: internal.FieldRecord{}}, nil, "")
	if len(products) != 1 || products[0].ModelCode != "Unknown" {
		t.Fatalf("products=%v", products)
	}
}

func TestEnhanceFromCandidate(t *testing.T) {
	result := internal.DocumentResult{
		Fields: internal.FieldRecord{
			"VOLTAGE":   "N/A",
			"LED COLOR": "{R:Red}",
		},
		Validation: map[string]internal.ConfidenceEntry{
			"VOLTAGE":   {Confidence: internal.ConfidenceLow, Reason: "value not found in document"},
			"LED COLOR": {Confidence: internal.ConfidenceHigh, Source: "Table/Ordering Info"},
		},
	}
	cand := internal.CandidateRecord{
		ModelCode: "APW199-R24V",
		Fields: map[string]string{
			"VOLTAGE":   "{24V DC}",
			"LED COLOR": "{G:Green}",
		},
	}

	if got := EnhanceFromCandidate(&result, cand); got != 1 {
		t.Fatalf("enhanced=%d", got)
	}
	if result.Fields["VOLTAGE"] != "{24V DC}" {
		t.Fatalf("VOLTAGE=%q", result.Fields["VOLTAGE"])
	}
	if result.Fields["LED COLOR"] != "{R:Red}" {
		t.Fatal("high confidence field must not be overwritten")
	}
	entry := result.Validation["VOLTAGE"]
	if entry.Confidence != internal.ConfidenceMedium || entry.Source != "AI Enhanced" {
		t.Fatalf("entry=%+v", entry)
	}
}
