package match

import (
	"math"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Purple RAIN", "purple rain"},
		{"strips leading article", "The Beautiful Ones", "beautiful ones"},
		{"strips parenthetical", "Purple Rain (Live at Syracuse)", "purple rain"},
		{"strips bracketed", "Darling Nikki [demo]", "darling nikki"},
		{"collapses whitespace", "  When   Doves\tCry ", "when doves cry"},
		{"article only strips at start", "Take A Bow", "take a bow"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.input)
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
			if again := Normalize(got); again != got {
				t.Fatalf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestScoreIdenticalTitles(t *testing.T) {
	s := Score("When Doves Cry", "when doves cry")
	if s.Ratio != 1.0 || s.Partial != 1.0 || s.TokenSort != 1.0 || s.TokenSet != 1.0 {
		t.Fatalf("identical titles should score 1.0 everywhere, got %+v", s)
	}
}

func TestScoreWordOrder(t *testing.T) {
	s := Score("Rain Purple", "Purple Rain")
	if s.TokenSort != 1.0 {
		t.Errorf("token sort should ignore word order, got %v", s.TokenSort)
	}
	if s.TokenSet != 1.0 {
		t.Errorf("token set should ignore word order, got %v", s.TokenSet)
	}
	if s.Ratio >= 0.9 {
		t.Errorf("plain ratio should suffer from reordering, got %v", s.Ratio)
	}
}

func TestPartialRatioSubstring(t *testing.T) {
	s := Score("Boom", "BoomStratus")
	if s.Partial != 1.0 {
		t.Fatalf("exact substring should give partial 1.0, got %v", s.Partial)
	}
	if s.Ratio >= 0.7 {
		t.Fatalf("ratio should stay low for substring match, got %v", s.Ratio)
	}
}

func TestCombineStaged(t *testing.T) {
	cases := []struct {
		name   string
		scores Scores
		want   float64
	}{
		{"strong ratio wins outright", Scores{Ratio: 0.95}, 0.95},
		{"decent ratio discounted", Scores{Ratio: 0.75}, 0.675},
		{"partial tier", Scores{Ratio: 0.5, Partial: 0.9}, 0.54},
		{"fallback token sort", Scores{Ratio: 0.5, Partial: 0.5, TokenSort: 0.9, TokenSet: 0.5}, 0.45},
		{"fallback token set", Scores{Ratio: 0.1, Partial: 0.2, TokenSort: 0.2, TokenSet: 0.8}, 0.32},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CombineStaged(tc.scores)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("CombineStaged(%+v) = %v, want %v", tc.scores, got, tc.want)
			}
		})
	}
}

func TestResolveIdentical(t *testing.T) {
	res := NewResolver().Resolve("Purple Rain", "Purple Rain", "")
	if res.Confidence < 0.9 {
		t.Fatalf("identical titles should resolve above 0.9, got %v", res.Confidence)
	}
	if got := res.Reason(""); got != "Title match (1.00) - exact" {
		t.Fatalf("unexpected reason %q", got)
	}
}

func TestResolveShortCandidatePenalized(t *testing.T) {
	r := NewResolver()
	sub := r.Resolve("BoomStratus", "Boom", "")
	exact := r.Resolve("Boom", "Boom", "")
	if math.Abs(sub.Confidence-0.30) > 0.01 {
		t.Errorf("substring candidate should land near 0.30, got %v", sub.Confidence)
	}
	if sub.Confidence >= exact.Confidence {
		t.Errorf("substring match %v should score below exact match %v", sub.Confidence, exact.Confidence)
	}
	if got := sub.Reason(""); got != "Title match (0.30)" {
		t.Errorf("unexpected reason %q", got)
	}
}

func TestResolveContentBonus(t *testing.T) {
	r := NewResolver()
	content := "Medley performed live, containing Boom Stratus and other songs."
	with := r.Resolve("Boom Stratus", "Boom", content)
	without := r.Resolve("Boom Stratus", "Boom", "")
	if with.Confidence < without.Confidence {
		t.Fatalf("content containment should never lower confidence: %v < %v", with.Confidence, without.Confidence)
	}
	if with.Bonus == 0 {
		t.Fatalf("expected a containment bonus, got %+v", with)
	}
	if got := with.Reason(""); !strings.Contains(got, "+ content match") {
		t.Fatalf("reason should mention content match, got %q", got)
	}
}

func TestResolveWeakBaseIgnoresBonus(t *testing.T) {
	r := NewResolver()
	content := "Completely Different Song appears in this text."
	with := r.Resolve("Completely Different Song", "Xyz", content)
	without := r.Resolve("Completely Different Song", "Xyz", "")
	if with.Base >= 0.3 {
		t.Fatalf("expected a weak base for unrelated titles, got %v", with.Base)
	}
	if with.Confidence != without.Confidence {
		t.Fatalf("bonus must not apply below the base floor: %v vs %v", with.Confidence, without.Confidence)
	}
}

func TestResolveConfidenceBounds(t *testing.T) {
	queries := []string{"", "Boom", "The Beautiful Ones", "Purple Rain (Live)", "A", "an extremely long improvised jam title"}
	candidates := []string{"", "Boom", "Beautiful Ones", "Rain", "Purple Rain", "Something Else Entirely"}
	contents := []string{"", "PURPLE RAIN appears here", "boomstratus medley"}
	r := NewResolver()
	for _, q := range queries {
		for _, c := range candidates {
			for _, content := range contents {
				res := r.Resolve(q, c, content)
				if res.Confidence < 0 || res.Confidence > 1 {
					t.Fatalf("Resolve(%q, %q) confidence %v out of range", q, c, res.Confidence)
				}
			}
		}
	}
}

func TestContentBonus(t *testing.T) {
	if got := ContentBonus("Boom Stratus", "the boomstratus medley"); got != 0.5 {
		t.Errorf("whitespace-stripped containment should earn 0.5, got %v", got)
	}
	if got := ContentBonus("Boom Stratus", "played BOOM then STRATUS separately"); got != 0.0 {
		t.Errorf("split mentions should earn nothing, got %v", got)
	}
	if got := ContentBonus("", "anything"); got != 0.0 {
		t.Errorf("empty query should earn nothing, got %v", got)
	}
}

func TestReasonVariant(t *testing.T) {
	res := NewResolver().Resolve("Purple Rain", "Purple Rain", "")
	got := res.Reason("purple rain")
	if got != "Title match (1.00) via 'purple rain' - exact" {
		t.Fatalf("unexpected reason %q", got)
	}
}

func TestCombineWeightedMaxStaysFlat(t *testing.T) {
	s := Scores{Ratio: 0.5, Partial: 0.9, TokenSort: 0.6, TokenSet: 0.7}
	got := CombineWeightedMax(s)
	want := 0.81
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("CombineWeightedMax = %v, want %v", got, want)
	}
}
