package optimizer

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-tuner/internal/keywords"
	"github.com/spigell/resume-tuner/internal/utils"
)

// powerVerbs is the curated verb list tracked across a run, grouped as
// leadership, technical, optimization, scale, delivery and other.
var powerVerbs = []string{
	"Spearheaded", "Directed", "Led", "Drove", "Championed", "Orchestrated",
	"Architected", "Engineered", "Built", "Designed", "Implemented", "Developed",
	"Optimized", "Enhanced", "Streamlined", "Improved", "Accelerated", "Refined",
	"Scaled", "Expanded", "Migrated", "Transformed", "Modernized",
	"Delivered", "Shipped", "Launched", "Deployed", "Released", "Executed",
	"Reduced", "Increased", "Created", "Established", "Coordinated",
}

var verbSynonyms = map[string][]string{
	"designed":     {"architected", "engineered", "crafted", "built", "planned"},
	"built":        {"engineered", "developed", "created", "constructed", "established"},
	"created":      {"established", "generated", "initiated", "built", "developed"},
	"developed":    {"engineered", "built", "implemented", "delivered", "created"},
	"implemented":  {"deployed", "executed", "delivered", "launched", "established"},
	"reduced":      {"decreased", "minimized", "cut", "lowered", "slashed"},
	"improved":     {"enhanced", "optimized", "strengthened", "boosted", "elevated"},
	"increased":    {"boosted", "elevated", "expanded", "grew", "scaled"},
	"led":          {"spearheaded", "directed", "drove", "championed", "headed"},
	"managed":      {"oversaw", "directed", "coordinated", "supervised", "administered"},
	"optimized":    {"enhanced", "streamlined", "refined", "accelerated", "improved"},
	"delivered":    {"shipped", "launched", "deployed", "executed", "released"},
	"collaborated": {"partnered", "coordinated", "teamed with", "worked with"},
	"analyzed":     {"evaluated", "assessed", "examined", "investigated", "studied"},
	"architected":  {"engineered", "designed", "built", "created", "developed"},
}

var metricPatterns = compileAll(
	`\d+%`, `\d+\+`, `\d+[KMB]\+?`, `\d+x`,
	`\d+\.\d+%`, `\d+,\d+`, `\d+TB`, `\d+GB`,
	`\d+ hours?`, `\d+ minutes?`, `\d+ users?`,
	`\d+ tables?`, `\d+ events?`, `\d+ reports?`,
)

var (
	leadingVerbPattern = regexp.MustCompile(`^([A-Z][a-z]+)`)
	lowerWordPattern   = regexp.MustCompile(`[a-z]+`)
	listMarkerPattern  = regexp.MustCompile(`^(?:[-•]+\s*|\*+\s+|\d+[.)]\s+|\d+[.)]([A-Za-z]))`)
	boldPattern        = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	emphasisPattern    = regexp.MustCompile(`\*([^*]+)\*`)
	sentenceBoundary   = regexp.MustCompile(`[.!?]\s+`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
	numberPattern      = regexp.MustCompile(`\d+`)
)

// aiKeywords are only suggested when the unit's technology context is AI related.
var aiKeywords = map[string]struct{}{"ai": {}, "ml": {}, "llm": {}, "rag": {}, "genai": {}}

var aiContextTerms = map[string]struct{}{"vector": {}, "semantic": {}, "nlp": {}, "ai": {}, "ml": {}}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// HasMetric reports whether text contains a quantified figure.
func HasMetric(text string) bool {
	for _, p := range metricPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// knownVerbs merges the curated list with the profile's verbs, without
// case-insensitive duplicates.
func knownVerbs(profile keywords.Profile) []string {
	seen := make(map[string]struct{}, len(powerVerbs))
	out := make([]string, 0, len(powerVerbs))
	for _, verb := range append(append([]string(nil), powerVerbs...), profile.Verbs()...) {
		key := strings.ToLower(strings.TrimSpace(verb))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, verb)
	}
	return out
}

// verbsIn returns every known verb present in text as a whole word,
// lower-cased.
func verbsIn(text string, known []string) []string {
	var found []string
	for _, verb := range known {
		if utils.ContainsWord(text, verb) {
			found = append(found, strings.ToLower(verb))
		}
	}
	return found
}

func leadingVerb(text string) string {
	match := leadingVerbPattern.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return ""
	}
	return match[1]
}

// RepetitionAnalysis flags words longer than three letters used three or more
// times in one unit.
type RepetitionAnalysis struct {
	Repeated map[string]int      `json:"repeated"`
	Synonyms map[string][]string `json:"synonyms"`
	// Severity is "high" when anything repeats, "low" otherwise.
	Severity string `json:"severity"`
}

func wordCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, word := range lowerWordPattern.FindAllString(strings.ToLower(text), -1) {
		counts[word]++
	}
	return counts
}

func analyzeRepetitions(text string) RepetitionAnalysis {
	analysis := RepetitionAnalysis{
		Repeated: make(map[string]int),
		Synonyms: make(map[string][]string),
		Severity: "low",
	}

	for word, count := range wordCounts(text) {
		if count < 3 || utf8.RuneCountInString(word) <= 3 {
			continue
		}
		analysis.Repeated[word] = count
		if synonyms, ok := verbSynonyms[word]; ok {
			analysis.Synonyms[word] = synonyms
		}
	}

	if len(analysis.Repeated) > 0 {
		analysis.Severity = "high"
	}
	return analysis
}

// repetitionsFixed reports, per repeated word, how many occurrences the
// rewrite removed.
func repetitionsFixed(analysis RepetitionAnalysis, rewritten string) map[string]int {
	counts := wordCounts(rewritten)
	fixed := make(map[string]int)
	for word, before := range analysis.Repeated {
		if after := counts[word]; after < before {
			fixed[word] = before - after
		}
	}
	return fixed
}

// presentKeywords lists primary and secondary keywords found in text.
func presentKeywords(text string, profile keywords.Profile) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, kw := range append(append([]string(nil), profile.Primary...), profile.Secondary...) {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			found = append(found, kw)
		}
	}
	return found
}

// missingKeywords lists up to ten primary keywords absent from text.
func missingKeywords(text string, profile keywords.Profile) []string {
	lower := strings.ToLower(text)
	var missing []string
	for _, kw := range profile.Primary {
		if kw == "" || strings.Contains(lower, strings.ToLower(kw)) {
			continue
		}
		missing = append(missing, kw)
		if len(missing) == 10 {
			break
		}
	}
	return missing
}

func aiRelated(technologies []string) bool {
	for _, tech := range technologies {
		for _, word := range strings.FieldsFunc(strings.ToLower(tech), func(r rune) bool {
			return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
		}) {
			if _, ok := aiContextTerms[word]; ok {
				return true
			}
		}
	}
	return false
}

// relevantKeywords filters the first five missing keywords, dropping AI
// buzzwords unless the technology context supports them.
func relevantKeywords(missing, technologies []string) []string {
	if len(missing) > 5 {
		missing = missing[:5]
	}
	allowAI := aiRelated(technologies)

	var out []string
	for _, kw := range missing {
		if _, ok := aiKeywords[strings.ToLower(kw)]; ok && !allowAI {
			continue
		}
		out = append(out, kw)
	}
	return out
}

func addedKeywords(before, after []string) []string {
	seen := make(map[string]struct{}, len(before))
	for _, kw := range before {
		seen[kw] = struct{}{}
	}
	var added []string
	for _, kw := range after {
		if _, ok := seen[kw]; !ok {
			added = append(added, kw)
		}
	}
	return added
}

// cleanOutput normalizes a raw generator answer.
func cleanOutput(text string, unit UnitType) string {
	text = strings.TrimSpace(text)
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	text = listMarkerPattern.ReplaceAllString(text, "$1")
	text = boldPattern.ReplaceAllString(text, "$1")
	text = emphasisPattern.ReplaceAllString(text, "$1")

	if unit == UnitExperience {
		if sentences := sentenceBoundary.Split(text, -1); len(sentences) > 1 {
			text = strings.TrimSpace(sentences[0])
			if !strings.HasSuffix(text, ".") {
				text += "."
			}
		}
	}

	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
