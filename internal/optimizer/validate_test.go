package optimizer

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		original  string
		candidate string
		accepted  bool
		preserved float64
	}{
		{name: "no numbers same length", original: "Built a data platform", candidate: "Engineered a data hub", accepted: true, preserved: 1},
		{name: "number dropped", original: "Saved 40% on 3 clusters", candidate: "Saved 40% across clusters", accepted: false, preserved: 0.5},
		{name: "eighty percent kept", original: "a1 b2 c3 d4 e6", candidate: "a1 b2 c3 d4 e7", accepted: true, preserved: 0.8},
		{name: "all numbers kept", original: "Cut cost by 40% for 12 teams", candidate: "Reduced spend 40% across 12 product teams", accepted: true, preserved: 1},
		{name: "lower length bound", original: "abcdefghij", candidate: "abcd", accepted: true, preserved: 1},
		{name: "too short", original: "abcdefghij", candidate: "abc", accepted: false, preserved: 1},
		{name: "upper length bound", original: "abcdefghij", candidate: strings.Repeat("x", 30), accepted: true, preserved: 1},
		{name: "too long", original: "abcdefghij", candidate: strings.Repeat("x", 31), accepted: false, preserved: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := Validate(tt.original, tt.candidate)
			if v.Accepted != tt.accepted {
				t.Fatalf("expected accepted=%v, got %+v", tt.accepted, v)
			}
			if v.NumbersPreserved != tt.preserved {
				t.Fatalf("expected preserved=%v, got %v", tt.preserved, v.NumbersPreserved)
			}
			if !v.Accepted && v.Reason == "" {
				t.Fatal("expected a reason for rejection")
			}
		})
	}
}

func TestValidateAcceptedRewritesKeepNumbersAndBounds(t *testing.T) {
	t.Parallel()

	original := "Migrated 120 tables and 3 pipelines to Snowflake in 6 weeks"
	candidates := []string{
		"Migrated 120 tables and 3 pipelines to Snowflake within 6 weeks, cutting costs",
		"Moved 120 tables to Snowflake",
		"Transformed 120 tables, 3 pipelines in 6 weeks",
		strings.Repeat("Modernized 120 tables, 3 pipelines in 6 weeks. ", 5),
	}

	for _, c := range candidates {
		v := Validate(original, c)
		if !v.Accepted {
			continue
		}
		for _, n := range numberPattern.FindAllString(original, -1) {
			if !strings.Contains(c, n) {
				t.Fatalf("accepted %q but lost %s", c, n)
			}
		}
		if v.LengthRatio < 0.4 || v.LengthRatio > 3.0 {
			t.Fatalf("accepted %q with ratio %v", c, v.LengthRatio)
		}
	}
}
