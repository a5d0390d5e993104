package optimizer

import (
	"fmt"
	"strings"

	"github.com/spigell/resume-tuner/internal/keywords"
)

// UnitType is the kind of text being rewritten.
type UnitType string

const (
	UnitSummary    UnitType = "summary"
	UnitExperience UnitType = "experience"
	UnitProject    UnitType = "project"
)

// Section is the label sent to the generator for this unit type.
func (u UnitType) Section() string {
	return string(u) + "_optimization"
}

// UnitContext carries what is known about the entry a unit belongs to.
type UnitContext struct {
	Company      string
	Position     string
	ProjectName  string
	Role         string
	Technologies []string
}

const (
	coverageTarget    = 0.85
	overuseThreshold  = 3
	warnThreshold     = 2
	maxContextTech    = 3
	maxAvailableVerbs = 12
	maxBulletKeywords = 3
	maxProseKeywords  = 2
)

// Plan is everything decided about a unit before the generator is called.
type Plan struct {
	Unit        UnitType
	Text        string
	LeadingVerb string
	// LeadingVerbUses is the run-wide count of LeadingVerb.
	LeadingVerbUses int
	HasMetric       bool
	Coverage        float64
	NeedsMetrics    bool
	Present         []string
	Missing         []string
	Relevant        []string
	Technologies    []string
	AvoidVerbs      []string
	AvailableVerbs  []string
	Repetition      RepetitionAnalysis
	Instruction     string
}

// BuildPlan reads state but never mutates it.
func BuildPlan(text string, unit UnitType, profile keywords.Profile, uctx UnitContext, state *State) Plan {
	p := Plan{
		Unit:        unit,
		Text:        text,
		LeadingVerb: leadingVerb(text),
		HasMetric:   HasMetric(text),
		Coverage:    state.Coverage(),
		Present:     presentKeywords(text, profile),
		Missing:     missingKeywords(text, profile),
		Repetition:  analyzeRepetitions(text),
		AvoidVerbs:  state.Overused(overuseThreshold),
	}

	if p.LeadingVerb != "" {
		p.LeadingVerbUses = state.VerbCount(p.LeadingVerb)
	}
	p.NeedsMetrics = !p.HasMetric && p.Coverage < coverageTarget

	p.Technologies = head(uctx.Technologies, maxContextTech)
	p.Relevant = relevantKeywords(p.Missing, p.Technologies)

	avoid := make(map[string]struct{}, len(p.AvoidVerbs))
	for _, verb := range p.AvoidVerbs {
		avoid[verb] = struct{}{}
	}
	for _, verb := range knownVerbs(profile) {
		if _, ok := avoid[strings.ToLower(verb)]; ok {
			continue
		}
		p.AvailableVerbs = append(p.AvailableVerbs, verb)
		if len(p.AvailableVerbs) == maxAvailableVerbs {
			break
		}
	}

	p.Instruction = p.render(uctx)
	return p
}

func (p Plan) avoids(verb string) bool {
	verb = strings.ToLower(verb)
	for _, v := range p.AvoidVerbs {
		if v == verb {
			return true
		}
	}
	return false
}

func (p Plan) render(uctx UnitContext) string {
	var b strings.Builder

	switch p.Unit {
	case UnitExperience:
		b.WriteString("Rewrite this resume bullet for maximum impact.\n")
		if uctx.Position != "" || uctx.Company != "" {
			fmt.Fprintf(&b, "Role: %s at %s\n", uctx.Position, uctx.Company)
		}
	case UnitSummary:
		b.WriteString("Rewrite this professional summary.\n")
		if uctx.Role != "" {
			fmt.Fprintf(&b, "Target role: %s\n", uctx.Role)
		}
	default:
		b.WriteString("Rewrite this project description.\n")
		if uctx.ProjectName != "" {
			fmt.Fprintf(&b, "Project: %s\n", uctx.ProjectName)
		}
	}
	fmt.Fprintf(&b, "\nCURRENT:\n%s\n\n", p.Text)

	limit := maxProseKeywords
	if p.Unit == UnitExperience {
		limit = maxBulletKeywords
	}
	fmt.Fprintf(&b, "KEYWORDS: %s\n", listOr(head(p.Relevant, limit), "focus on the existing technologies"))
	fmt.Fprintf(&b, "TECH CONTEXT: %s\n", listOr(p.Technologies, "general"))
	fmt.Fprintf(&b, "VERBS TO AVOID (already overused): %s\n", listOr(p.AvoidVerbs, "none"))
	fmt.Fprintf(&b, "AVAILABLE VERBS: %s\n", listOr(p.AvailableVerbs, "any strong action verb"))

	if p.LeadingVerb != "" && p.LeadingVerbUses >= warnThreshold {
		fmt.Fprintf(&b, "WARNING: %q is already used %d times in this resume. Start with a different verb.\n",
			p.LeadingVerb, p.LeadingVerbUses)
	}
	if len(p.Repetition.Repeated) > 0 {
		var parts []string
		for _, word := range sortedKeys(p.Repetition.Repeated) {
			part := fmt.Sprintf("%s (%dx)", word, p.Repetition.Repeated[word])
			if syn := p.Repetition.Synonyms[word]; len(syn) > 0 {
				part += " -> " + strings.Join(syn, "/")
			}
			parts = append(parts, part)
		}
		fmt.Fprintf(&b, "REPEATED WORDS: %s\n", strings.Join(parts, ", "))
	}
	if p.NeedsMetrics {
		b.WriteString("METRICS: this text has no quantified impact. Add a concrete number, percentage, scale or user count.\n")
	}

	b.WriteString("\nRULES:\n")
	b.WriteString("1. Keep every existing number exactly as written.\n")
	switch p.Unit {
	case UnitExperience:
		b.WriteString("2. Start with a fresh verb from AVAILABLE VERBS.\n")
		b.WriteString("3. Add one or two relevant keywords only if they fit the facts.\n")
		b.WriteString("4. One sentence, at most two lines.\n")
		b.WriteString("\nOUTPUT: the improved bullet only.")
	case UnitSummary:
		b.WriteString("2. Keep all years of experience.\n")
		b.WriteString("3. Add one or two relevant keywords.\n")
		b.WriteString("4. At most 80 words.\n")
		b.WriteString("\nOUTPUT: the summary only.")
	default:
		b.WriteString("2. Keep the technical details and name the stack.\n")
		b.WriteString("3. Show scale or impact clearly.\n")
		b.WriteString("4. One or two lines.\n")
		b.WriteString("\nOUTPUT: the description only.")
	}

	return b.String()
}

func listOr(values []string, empty string) string {
	if len(values) == 0 {
		return empty
	}
	return strings.Join(values, ", ")
}

func head(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
