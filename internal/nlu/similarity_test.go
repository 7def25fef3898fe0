package nlu

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "  Cześć!!  Jak   się masz? ", want: "cześć jak się masz"},
		{in: "Ile\tstolików\nwolnych", want: "ile stolików wolnych"},
		{in: "ŻÓŁTA Łódź", want: "żółta łódź"},
		{in: "Porto-Azzurro", want: "portoazzurro"},
		{in: "snake_case", want: "snakecase"},
		{in: "stolik na 4 osoby", want: "stolik na 4 osoby"},
		{in: "!!!", want: ""},
		{in: "   ", want: ""},
		{in: "", want: ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "mixed case", in: "  Gdzie JEST Zielnik?? ", want: "gdzie jest zielnik"},
		{name: "diacritic capitals", in: "ZAŻÓŁĆ GĘŚLĄ JAŹŃ", want: "zażółć gęślą jaźń"},
		{name: "combining marks", in: "GE\u0328S\u0301LA jaz\u0301n\u0301", want: "gęśla jaźń"},
		{name: "stray combining mark", in: "x\u0301", want: "x"},
		{name: "tabs", in: "a\tb\t\tc", want: "a b c"},
		{name: "punctuation only", in: "?!...", want: ""},
		{name: "whitespace only", in: "\t\n ", want: ""},
		{name: "empty", in: "", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			once := Normalize(tc.in)
			if once != tc.want {
				t.Fatalf("Normalize(%q)=%q, want %q", tc.in, once, tc.want)
			}
			if twice := Normalize(once); twice != once {
				t.Fatalf("normalize not idempotent: %q -> %q", once, twice)
			}
		})
	}
}

func TestSequenceRatio(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{a: "abcd", b: "bcde", want: 0.75},
		{a: "", b: "", want: 1},
		{a: "abc", b: "xyz", want: 0},
		{a: "żurek", b: "żurku", want: 0.8},
		{a: "neon", b: "neon", want: 1},
	}
	for _, tc := range cases {
		got := SequenceRatio(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("SequenceRatio(%q,%q)=%.4f, want %.4f", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSequenceRatioSymmetricOnSamples(t *testing.T) {
	pairs := [][2]string{{"kuchnia", "kuchni"}, {"stolik", "stoliki"}, {"godziny", "godzina"}}
	for _, p := range pairs {
		ab := SequenceRatio(p[0], p[1])
		ba := SequenceRatio(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("ratio(%q,%q)=%.4f but reversed=%.4f", p[0], p[1], ab, ba)
		}
	}
}

func TestOverlapScoreIsUnclamped(t *testing.T) {
	got := overlapScore([]string{"pizza", "pizzas"}, []string{"pizza"})
	if math.Abs(got-1.5) > 1e-9 {
		t.Fatalf("overlap=%.3f, want 1.5", got)
	}
}

func TestOverlapScoreEmptyPattern(t *testing.T) {
	if got := overlapScore([]string{"pizza"}, nil); got != 0 {
		t.Fatalf("overlap=%.3f, want 0", got)
	}
}

func TestOverlapScoreSimilarWordCredit(t *testing.T) {
	// "stolika" vs "stoliki": ratio 12/14 > 0.8, no containment either way.
	got := overlapScore([]string{"stolika"}, []string{"stoliki"})
	if math.Abs(got-0.7) > 1e-9 {
		t.Fatalf("overlap=%.3f, want 0.7", got)
	}
}

func TestContainmentScore(t *testing.T) {
	if got := containmentScore("cześć wszystkim", "cześć"); got != 0.9 {
		t.Fatalf("forward containment=%.2f, want 0.9", got)
	}
	if got := containmentScore("co polecasz", "co polecasz dzisiaj"); got != 0.7 {
		t.Fatalf("reverse containment=%.2f, want 0.7", got)
	}
	if got := containmentScore("neon", "zielnik"); got != 0 {
		t.Fatalf("containment=%.2f, want 0", got)
	}
}

func TestSignificantWordsDropsShortAndStopWords(t *testing.T) {
	stop := map[string]struct{}{"jest": {}}
	got := significantWords([]string{"gdzie", "jest", "na", "neon"}, stop)
	if len(got) != 2 || got[0] != "gdzie" || got[1] != "neon" {
		t.Fatalf("significant=%v, want [gdzie neon]", got)
	}
}
