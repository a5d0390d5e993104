package scoring

import (
	"fmt"
	"math"
	"strings"
)

// recommend lists fixes in a fixed order: metrics, verb categories, then
// missing sections.
func recommend(content ContentBreakdown, format FormatBreakdown) []string {
	out := []string{}

	if content.Bullets > 0 {
		// The target rounds up: 7 bullets at 90% need all 7 quantified.
		target := int(math.Ceil(metricsTarget * float64(content.Bullets)))
		if missing := target - content.BulletsWithMetrics; missing > 0 {
			out = append(out, fmt.Sprintf("Add metrics to %d more bullet points", missing))
		}
	}

	for _, usage := range content.VerbCategories {
		if n := usage.Shortfall(); n > 0 {
			out = append(out, fmt.Sprintf("Add %d more %s power verbs", n, usage.Category))
		}
	}

	if len(format.MissingSections) > 0 {
		out = append(out, "Add missing sections: "+strings.Join(format.MissingSections, ", "))
	}

	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}

func comply(content ContentBreakdown, format FormatBreakdown, recommendations []string) Compliance {
	c := Compliance{
		Passed:          []string{},
		Failed:          []string{},
		Warnings:        []string{},
		Recommendations: recommendations,
	}

	if content.TotalMetrics >= minMetricsCount {
		c.Passed = append(c.Passed, fmt.Sprintf("Sufficient quantification (%d metrics)", content.TotalMetrics))
	} else {
		c.Failed = append(c.Failed, fmt.Sprintf("Insufficient metrics (%d/%d)", content.TotalMetrics, minMetricsCount))
	}

	if len(format.ATSIssues) == 0 {
		c.Passed = append(c.Passed, "ATS-friendly format")
	}
	for _, issue := range format.ATSIssues {
		c.Failed = append(c.Failed, "ATS killer: "+issue)
	}

	if len(format.MissingSections) == 0 {
		c.Passed = append(c.Passed, "All required sections present")
	} else {
		c.Failed = append(c.Failed, "Missing sections: "+strings.Join(format.MissingSections, ", "))
	}

	if format.Tables > 1 {
		c.Warnings = append(c.Warnings, fmt.Sprintf("%d tabular environments; keep the layout to a single table", format.Tables))
	}
	if len(content.FluffWords) > 0 {
		c.Warnings = append(c.Warnings, "Fluff words: "+strings.Join(content.FluffWords, ", "))
	}
	if content.Pronouns > 0 {
		c.Warnings = append(c.Warnings, fmt.Sprintf("First-person pronouns used %d times", content.Pronouns))
	}

	return c
}
