package pipeline

import (
	"testing"

	"specsheet/internal"
)

func TestAnalyzeConfidence(t *testing.T) {
	e := testExtractor(t)
	fields := internal.FieldRecord{
		"SERIES":    "APW199",
		"VOLTAGE":   "{S:24V DC|R:12V DC}",
		"SEALING":   "{E:IP65}",
		"LED COLOR": "N/A",
		"TERMINALS": "{Solder}",
	}

	validation := e.AnalyzeConfidence(fields, nil)

	if validation["SERIES"].Confidence != internal.ConfidenceHigh {
		t.Fatalf("SERIES=%+v", validation["SERIES"])
	}
	if validation["VOLTAGE"].Confidence != internal.ConfidenceHigh {
		t.Fatalf("VOLTAGE=%+v", validation["VOLTAGE"])
	}
	if validation["SEALING"].Confidence != internal.ConfidenceMedium {
		t.Fatalf("SEALING=%+v", validation["SEALING"])
	}
	if validation["LED COLOR"].Confidence != internal.ConfidenceLow {
		t.Fatalf("LED COLOR=%+v", validation["LED COLOR"])
	}
	if validation["TERMINALS"].Confidence != internal.ConfidenceMedium {
		t.Fatalf("TERMINALS=%+v", validation["TERMINALS"])
	}
}

func TestAnalyzeConfidencePageAttribution(t *testing.T) {
	e := testExtractor(t)
	fields := internal.FieldRecord{"VOLTAGE": "{S:24V DC}"}
	pages := []string{"mechanical drawings", "rated at 24V DC"}

	validation := e.AnalyzeConfidence(fields, pages)
	entry := validation["VOLTAGE"]
	if entry.Page == nil || *entry.Page != 2 {
		t.Fatalf("page=%v", entry.Page)
	}
}

func TestOverallConfidence(t *testing.T) {
	e := testExtractor(t)
	validation := map[string]internal.ConfidenceEntry{
		"A": {Confidence: internal.ConfidenceHigh},
		"B": {Confidence: internal.ConfidenceHigh},
		"C": {Confidence: internal.ConfidenceMedium},
		"D": {Confidence: internal.ConfidenceLow},
	}

	score, level := e.OverallConfidence(validation)
	if score != 75 {
		t.Fatalf("score=%d", score)
	}
	if level != internal.ConfidenceMedium {
		t.Fatalf("level=%s", level)
	}

	score, level = e.OverallConfidence(nil)
	if score != 0 || level != internal.ConfidenceLow {
		t.Fatalf("empty: score=%d level=%s", score, level)
	}
}

func TestLowConfidenceFields(t *testing.T) {
	result := internal.DocumentResult{
		Validation: map[string]internal.ConfidenceEntry{
			"VOLTAGE":   {Confidence: internal.ConfidenceHigh, Source: "Table/Ordering Info"},
			"LED COLOR": {Confidence: internal.ConfidenceLow},
			"SEALING":   {Confidence: internal.ConfidenceMedium},
			"SERIES":    {Confidence: internal.ConfidenceHigh, Source: "Filename"},
		},
	}

	got := LowConfidenceFields(result)
	want := []string{"LED COLOR", "SEALING"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v want %v", got, want)
	}
}
