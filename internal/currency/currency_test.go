package currency

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestUnformat(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"", ""},
		{"R$ ", ""},
		{"1.234,56", "1234.56"},
		{"R$ 1.234,56", "1234.56"},
		{"12,5", "12.5"},
		{"12,345", "12.34"}, // truncated, not rounded
		{"1,2,3", "12.3"},   // last typed separator wins
		{"007", "7"},
		{"0,50", "0.50"},
		{",5", "0.5"},
		{"1234", "1234"},
	}
	for _, tc := range cases {
		if got := Unformat(tc.in); got != tc.out {
			t.Fatalf("Unformat(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"1234.56", "1.234,56"},
		{"7", "7,00"},
		{"0.5", "0,50"},
		{"1234567.8", "1.234.567,80"},
		{"999", "999,00"},
		{"1000", "1.000,00"},
		{"12.349", "12,34"}, // truncated, not rounded
	}
	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.in)
		if err != nil {
			t.Fatalf("bad case %q: %v", tc.in, err)
		}
		if got := Format(d); got != tc.out {
			t.Fatalf("Format(%s) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestDisplay(t *testing.T) {
	d := decimal.NewFromFloat(1234.56)
	got := Display(d)
	if !strings.Contains(got, "R$") {
		t.Fatalf("Display(1234.56) = %q, want currency symbol", got)
	}
	if !strings.Contains(got, "1.234,56") {
		t.Fatalf("Display(1234.56) = %q, want grouped value", got)
	}
}

func TestFormatInputProgressive(t *testing.T) {
	// Typing "123456" digit by digit regroups on every keystroke.
	steps := []struct {
		typed string
		shown string
	}{
		{"1", "1"},
		{"12", "12"},
		{"123", "123"},
		{"1234", "1.234"},
		{"12345", "12.345"},
		{"123456", "123.456"},
	}
	shown := ""
	for _, s := range steps {
		// Each keystroke appends to what the field already shows.
		shown = FormatInput(shown + s.typed[len(s.typed)-1:])
		if shown != s.shown {
			t.Fatalf("after typing %q field shows %q, want %q", s.typed, shown, s.shown)
		}
	}
	// Blur applies the implicit-cents rule.
	if got := FormatCents(shown); got != "1.234,56" {
		t.Fatalf("FormatCents(%q) = %q, want %q", shown, got, "1.234,56")
	}
}

func TestFormatInput(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"", ""},
		{"abc", ""},
		{"0", "0"},
		{"12345", "12.345"},
		{"1234,567", "1.234,56"},
		{"1,2,3", "12,3"},
		{"12,", "12,"},
		{"1.234,56", "1.234,56"}, // already formatted input is stable
	}
	for _, tc := range cases {
		if got := FormatInput(tc.in); got != tc.out {
			t.Fatalf("FormatInput(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

// FormatInput never yields more than one decimal separator nor more
// than two fraction digits, whatever is thrown at it.
func TestFormatInputInvariants(t *testing.T) {
	inputs := []string{
		"1,2,3,4,5", ",,,,", "1234567890123", "9,999999", "0,0,0",
		"R$ 1.2.3,4.5", ",", "00000,000",
	}
	for _, in := range inputs {
		got := FormatInput(in)
		if strings.Count(got, ",") > 1 {
			t.Fatalf("FormatInput(%q) = %q: more than one decimal separator", in, got)
		}
		if i := strings.IndexByte(got, ','); i >= 0 && len(got)-i-1 > 2 {
			t.Fatalf("FormatInput(%q) = %q: more than two fraction digits", in, got)
		}
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"", ""},
		{"5", "0,05"},
		{"56", "0,56"},
		{"123456", "1.234,56"},
		{"123.456", "1.234,56"},
		{"12,5", "12,50"}, // typed separator beats the implicit rule
		{"0,00", "0,00"},
	}
	for _, tc := range cases {
		if got := FormatCents(tc.in); got != tc.out {
			t.Fatalf("FormatCents(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestParseLocaleNumber(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1.234,56", "1234.56", true},
		{"R$ 0,05", "0.05", true},
		{"7", "7", true},
		{"", "", false},
		{"abc", "", false},
	}
	for _, tc := range cases {
		got, err := ParseLocaleNumber(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("ParseLocaleNumber(%q): %v", tc.in, err)
			}
			want, _ := decimal.NewFromString(tc.out)
			if !got.Equal(want) {
				t.Fatalf("ParseLocaleNumber(%q) = %s, want %s", tc.in, got, want)
			}
		} else if err == nil {
			t.Fatalf("ParseLocaleNumber(%q): expected error", tc.in)
		}
	}
}

// Round-trip law: parsing what Format produced returns the original
// amount within two-decimal precision.
func TestFormatParseRoundTrip(t *testing.T) {
	amounts := []string{"0.01", "1", "12.34", "999.99", "1000", "1234567.89"}
	for _, a := range amounts {
		want, _ := decimal.NewFromString(a)
		got, err := ParseLocaleNumber(Format(want))
		if err != nil {
			t.Fatalf("round trip %q: %v", a, err)
		}
		if !got.Equal(want.Truncate(2)) {
			t.Fatalf("round trip %q: got %s", a, got)
		}
	}
}

// Unformat-format-unformat reaches a fixed point after one pass.
func TestUnformatIdempotent(t *testing.T) {
	inputs := []string{"1.234,56", "12,3", "1,2,3", "R$ 9,90", "7", "0,5"}
	pass := func(canonical string) string {
		d, err := decimal.NewFromString(canonical)
		if err != nil {
			t.Fatalf("canonical %q: %v", canonical, err)
		}
		return Unformat(Format(d))
	}
	for _, in := range inputs {
		once := pass(Unformat(in))
		twice := pass(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
