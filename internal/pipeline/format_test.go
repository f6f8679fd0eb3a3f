package pipeline

import "testing"

func TestFormatField(t *testing.T) {
	pairs := NewPairs()
	pairs.Set("S", "24V DC")
	pairs.Set("R", "12V DC")

	got := FormatField(pairs, []string{"24v dc", "48V DC"})
	if got != "{S:24V DC|R:12V DC|48V DC}" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatFieldEmpty(t *testing.T) {
	if got := FormatField(NewPairs(), nil); got != "N/A" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatColorsWithCodes(t *testing.T) {
	pairs := NewPairs()
	pairs.Set("R", "Red")

	got := FormatColorsWithCodes(pairs, []string{"red", "Green", "warm white"})
	if got != "{R:Red|G:Green|WW:warm white}" {
		t.Fatalf("got %q", got)
	}
}

func TestCleanAndDedupe(t *testing.T) {
	cases := []struct {
		in   string
		kind ValueKind
		want string
	}{
		{"{24VDC|24V DC}", KindVoltage, "{24V DC}"},
		{"{S:24VDC|24V DC|R:12VDC}", KindVoltage, "{S:24V DC|R:12V DC}"},
		{"{Ø22mm|22|ø22}", KindDimension, "{22}"},
		{"{Flat|flat|Dome}", KindGeneric, "{Flat|Dome}"},
		{"N/A", KindGeneric, "N/A"},
		{"plain", KindGeneric, "plain"},
	}
	for _, c := range cases {
		if got := CleanAndDedupe(c.in, c.kind); got != c.want {
			t.Fatalf("CleanAndDedupe(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestCleanAndDedupeFixedPoint(t *testing.T) {
	inputs := []string{"{S:24VDC|24V DC}", "{Ø22mm|16mm}", "{R:Red|Green}"}
	kinds := []ValueKind{KindVoltage, KindDimension, KindGeneric}
	for i, in := range inputs {
		once := CleanAndDedupe(in, kinds[i])
		if twice := CleanAndDedupe(once, kinds[i]); twice != once {
			t.Fatalf("not a fixed point: %q -> %q -> %q", in, once, twice)
		}
	}
}
