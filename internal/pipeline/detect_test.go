package pipeline

import (
	"testing"

	"specsheet/internal"
)

func TestDetectProductType(t *testing.T) {
	cases := []struct {
		text     string
		filename string
		want     internal.ProductType
	}{
		{"", "BHN1A.pdf", internal.TypePaddleJoystick},
		{"BHN series paddle controller", "sheet.pdf", internal.TypePaddleJoystick},
		{"", "CJ25_datasheet.pdf", internal.TypeThumbstickJoystick},
		{"", "XS 30 catalog.pdf", internal.TypeFingertipJoystick},
		{"", "BN-W catalog.pdf", internal.TypeTerminalBlock},
		{"interlock switch with solenoid", "HS1T.pdf", internal.TypeLEDIndicator},
		{"controller with operator interface", "FT1J-C14.pdf", internal.TypeLEDIndicator},
		{"panel mount indicator with led lens", "APW199.pdf", internal.TypeLEDIndicator},
		{"proportional fingertip controller", "sheet.pdf", internal.TypeFingertipJoystick},
		{"", "unknown.pdf", internal.TypeLEDIndicator},
	}
	for _, c := range cases {
		if got := DetectProductType(c.text, c.filename); got != c.want {
			t.Fatalf("DetectProductType(%q, %q)=%q want %q", c.text, c.filename, got, c.want)
		}
	}
}

func TestSchemasAlwaysIncludeSeries(t *testing.T) {
	for pt, cols := range Schemas {
		if len(cols) == 0 || cols[0] != "SERIES" {
			t.Fatalf("schema %s does not lead with SERIES: %v", pt, cols)
		}
	}
}
