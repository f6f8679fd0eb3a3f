package util

import "testing"

func TestNormalizeSpaces(t *testing.T) {
	if got := NormalizeSpaces("  Panel \t cut-out \n Ø22 "); got != "Panel cut-out Ø22" {
		t.Fatalf("got %q", got)
	}
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("a\r\n\n  b  \n")
	if len(lines) != 2 || lines[0] != "a" || lines[1] != "b" {
		t.Fatalf("lines=%v", lines)
	}
}

func TestCharPredicates(t *testing.T) {
	cases := []struct {
		s                               string
		hasLetter, hasDigit, alpha, num bool
	}{
		{"IP65", true, true, false, true},
		{"Red", true, false, true, true},
		{"123", false, true, false, true},
		{"A-1", true, true, false, false},
		{"", false, false, false, false},
	}
	for _, c := range cases {
		if HasLetter(c.s) != c.hasLetter {
			t.Fatalf("HasLetter(%q)", c.s)
		}
		if HasDigit(c.s) != c.hasDigit {
			t.Fatalf("HasDigit(%q)", c.s)
		}
		if IsAlpha(c.s) != c.alpha {
			t.Fatalf("IsAlpha(%q)", c.s)
		}
		if IsAlnum(c.s) != c.num {
			t.Fatalf("IsAlnum(%q)", c.s)
		}
	}
}
