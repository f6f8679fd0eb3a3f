package pipeline

import "testing"

func TestStandardizeVoltage(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"24VDC", "24V DC"},
		{"24 VDC", "24V DC"},
		{"24V DC", "24V DC"},
		{"120VAC", "120V AC"},
		{"12 / 24V DC", "12/24V DC"},
		{"", ""},
	}
	for _, c := range cases {
		if got := StandardizeVoltage(c.in); got != c.want {
			t.Fatalf("StandardizeVoltage(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestStandardizeVoltageIdempotent(t *testing.T) {
	inputs := []string{"24VDC", "120VAC", "12/24V DC", "5 to 30V DC"}
	for _, in := range inputs {
		once := StandardizeVoltage(in)
		if twice := StandardizeVoltage(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestCleanDimension(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Ø22mm", "22"},
		{"ø 22", "22"},
		{"22", "22"},
		{"16mm x 18mm", "16 x 18"},
	}
	for _, c := range cases {
		if got := CleanDimension(c.in); got != c.want {
			t.Fatalf("CleanDimension(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestProperCapitalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"led", "LED"},
		{"rgb", "RGB"},
		{"dc", "DC"},
		{"flat", "Flat"},
		{"warm white", "Warm white"},
		{"", ""},
	}
	for _, c := range cases {
		if got := ProperCapitalize(c.in); got != c.want {
			t.Fatalf("ProperCapitalize(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestColorCode(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"red", "R"},
		{"Green", "G"},
		{"warm white", "WW"},
		{"bi-color", "BC"},
		{"rgb", "RGB"},
		{"multicolor", "MC"},
		{"teal", "T"},
		{"", "X"},
	}
	for _, c := range cases {
		if got := ColorCode(c.in); got != c.want {
			t.Fatalf("ColorCode(%q)=%q want %q", c.in, got, c.want)
		}
	}
}
