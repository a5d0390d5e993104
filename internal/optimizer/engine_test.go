package optimizer

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/spigell/resume-tuner/internal/keywords"
)

type scriptedGenerator struct {
	respond func(current string) (string, error)

	sections []string
	currents []string
}

func (g *scriptedGenerator) Generate(_ context.Context, section, instruction, _ string) (string, error) {
	current := currentText(instruction)
	g.sections = append(g.sections, section)
	g.currents = append(g.currents, current)
	if g.respond == nil {
		return "", nil
	}
	return g.respond(current)
}

// currentText extracts the unit text embedded in an instruction.
func currentText(instruction string) string {
	_, rest, ok := strings.Cut(instruction, "CURRENT:\n")
	if !ok {
		return ""
	}
	text, _, _ := strings.Cut(rest, "\n\n")
	return text
}

func reply(text string) func(string) (string, error) {
	return func(string) (string, error) { return text, nil }
}

var testProfile = keywords.Profile{
	Primary:   []string{"Kafka", "Airflow"},
	Secondary: []string{"SQL"},
}

func TestOptimizeContentSkipsShortText(t *testing.T) {
	gen := &scriptedGenerator{respond: reply("Engineered everything")}
	state := NewState()

	r := NewEngine(gen, nil).OptimizeContent(context.Background(), " Built it ", UnitExperience, testProfile, UnitContext{}, state)

	if r.Changed() || !reflect.DeepEqual(r.Improvements, []string{TagSkippedShort}) {
		t.Fatalf("expected skipped result, got %+v", r)
	}
	if len(gen.sections) != 0 {
		t.Fatalf("expected no generator call, got %d", len(gen.sections))
	}
	if len(state.VerbCounts()) != 0 {
		t.Fatalf("expected state untouched, got %v", state.VerbCounts())
	}
}

func TestOptimizeContentNoResponse(t *testing.T) {
	tests := map[string]*scriptedGenerator{
		"error": {respond: func(string) (string, error) { return "", errors.New("unavailable") }},
		"empty": {respond: reply("   ")},
	}

	for name, gen := range tests {
		t.Run(name, func(t *testing.T) {
			state := NewState()
			text := "Built a data pipeline for analytics"

			r := NewEngine(gen, nil).OptimizeContent(context.Background(), text, UnitExperience, testProfile, UnitContext{}, state)

			if r.Optimized != text || !reflect.DeepEqual(r.Improvements, []string{TagNoResponse}) {
				t.Fatalf("expected original with no-response tag, got %+v", r)
			}
			if r.Factuality != 1.0 {
				t.Fatalf("unexpected factuality %v", r.Factuality)
			}
			if state.VerbCount("built") != 1 {
				t.Fatalf("expected original verb registered before generation, got %d", state.VerbCount("built"))
			}
		})
	}
}

func TestOptimizeContentNilGenerator(t *testing.T) {
	r := NewEngine(nil, nil).OptimizeContent(context.Background(), "Built a data pipeline for analytics", UnitExperience, testProfile, UnitContext{}, nil)
	if !reflect.DeepEqual(r.Improvements, []string{TagNoResponse}) {
		t.Fatalf("expected no-response tag, got %v", r.Improvements)
	}
}

// A rejected candidate leaves the original's verbs registered while verbs
// only the candidate used are never counted.
func TestOptimizeContentRejectionKeepsPreRegisteredVerbs(t *testing.T) {
	gen := &scriptedGenerator{respond: reply("Engineered faster services with caching")}
	state := NewState()
	text := "Reduced latency by 40% across 12 services"

	r := NewEngine(gen, nil).OptimizeContent(context.Background(), text, UnitExperience, testProfile, UnitContext{}, state)

	if r.Optimized != text {
		t.Fatalf("expected original text, got %q", r.Optimized)
	}
	if !reflect.DeepEqual(r.Improvements, []string{TagValidationFailed}) {
		t.Fatalf("unexpected improvements %v", r.Improvements)
	}
	if r.Factuality != 0.5 {
		t.Fatalf("expected factuality 0.5, got %v", r.Factuality)
	}
	if !r.HasMetrics {
		t.Fatal("expected original metric to be reported")
	}
	if state.VerbCount("reduced") != 1 {
		t.Fatalf("expected reduced=1, got %d", state.VerbCount("reduced"))
	}
	if state.VerbCount("engineered") != 0 {
		t.Fatalf("expected engineered to stay unregistered, got %d", state.VerbCount("engineered"))
	}
}

func TestOptimizeContentRejectsTruncatedCandidate(t *testing.T) {
	gen := &scriptedGenerator{respond: reply("Cut 40% 12")}
	text := "Reduced latency by 40% across 12 services"

	r := NewEngine(gen, nil).OptimizeContent(context.Background(), text, UnitExperience, testProfile, UnitContext{}, NewState())
	if r.Changed() || r.Improvements[0] != TagValidationFailed {
		t.Fatalf("expected rejection, got %+v", r)
	}
}

func TestOptimizeContentAccepted(t *testing.T) {
	gen := &scriptedGenerator{respond: reply("- **Engineered** a Kafka pipeline serving 200 users for reporting data.")}
	state := NewState()
	state.RegisterBullets(2, 1)

	r := NewEngine(gen, nil).OptimizeContent(context.Background(), "Built a pipeline for reporting data", UnitExperience, testProfile,
		UnitContext{Company: "Acme", Position: "Data Engineer", Technologies: []string{"Kafka"}}, state)

	if r.Optimized != "Engineered a Kafka pipeline serving 200 users for reporting data." {
		t.Fatalf("unexpected optimized text %q", r.Optimized)
	}
	if !reflect.DeepEqual(r.Improvements, []string{"+1 keywords", TagAddedMetrics, TagVariedVerb}) {
		t.Fatalf("unexpected improvements %v", r.Improvements)
	}
	if !reflect.DeepEqual(r.KeywordsAdded, []string{"Kafka"}) {
		t.Fatalf("unexpected keywords %v", r.KeywordsAdded)
	}
	if !r.HasMetrics || r.Factuality != 1.0 {
		t.Fatalf("unexpected result %+v", r)
	}

	if gen.sections[0] != "experience_optimization" {
		t.Fatalf("unexpected section %q", gen.sections[0])
	}
	if state.VerbCount("built") != 1 || state.VerbCount("engineered") != 1 {
		t.Fatalf("unexpected verb counts %v", state.VerbCounts())
	}
	if state.BulletsWithMetrics() != 2 || state.BulletsTotal() != 2 {
		t.Fatalf("unexpected coverage %d/%d", state.BulletsWithMetrics(), state.BulletsTotal())
	}
}

func TestOptimizeContentMetricOutsideExperienceDoesNotTouchCoverage(t *testing.T) {
	gen := &scriptedGenerator{respond: reply("Data platform serving 300 users with Kafka streaming")}
	state := NewState()
	state.RegisterBullets(4, 1)

	r := NewEngine(gen, nil).OptimizeContent(context.Background(), "Data platform with Kafka streaming", UnitProject, testProfile, UnitContext{}, state)

	if !r.Changed() || !r.HasMetrics {
		t.Fatalf("expected accepted rewrite with metric, got %+v", r)
	}
	if state.BulletsWithMetrics() != 1 {
		t.Fatalf("expected coverage counter unchanged, got %d", state.BulletsWithMetrics())
	}
}

func TestOptimizeContentRejectsOverusedLeadingVerb(t *testing.T) {
	gen := &scriptedGenerator{respond: reply("Engineered a reporting pipeline for 3 teams")}
	state := NewState()
	for i := 0; i < 3; i++ {
		state.RegisterVerb("Engineered")
	}

	r := NewEngine(gen, nil).OptimizeContent(context.Background(), "Built a reporting pipeline for 3 teams", UnitExperience, testProfile, UnitContext{}, state)

	if r.Changed() || !reflect.DeepEqual(r.Improvements, []string{TagOverusedVerb}) {
		t.Fatalf("expected overused verb rejection, got %+v", r)
	}
	if r.Factuality != factualityRejected {
		t.Fatalf("expected factuality %.1f for a rejected rewrite, got %.1f", factualityRejected, r.Factuality)
	}
	if state.VerbCount("engineered") != 3 {
		t.Fatalf("expected engineered count unchanged, got %d", state.VerbCount("engineered"))
	}
}

func TestOptimizeContentKeepsOverusedVerbAlreadyLeading(t *testing.T) {
	gen := &scriptedGenerator{respond: reply("Built a Kafka reporting pipeline for 3 teams")}
	state := NewState()
	for i := 0; i < 3; i++ {
		state.RegisterVerb("built")
	}

	r := NewEngine(gen, nil).OptimizeContent(context.Background(), "Built a reporting pipeline for 3 teams", UnitExperience, testProfile, UnitContext{}, state)

	if !r.Changed() || !reflect.DeepEqual(r.Improvements, []string{"+1 keywords", TagEnhanced}) {
		t.Fatalf("expected accepted rewrite, got %+v", r)
	}
}

func TestBuildPlanFlagsMissingMetrics(t *testing.T) {
	state := NewState()
	state.RegisterBullets(2, 1)
	state.RegisterVerb("built")

	plan := BuildPlan("Built a pipeline", UnitExperience, testProfile, UnitContext{}, state)

	if !plan.NeedsMetrics {
		t.Fatalf("expected needs metrics at 50%% coverage, got %+v", plan)
	}
	if plan.Coverage != 0.5 {
		t.Fatalf("unexpected coverage %v", plan.Coverage)
	}
	if !strings.Contains(plan.Instruction, "METRICS:") {
		t.Fatalf("expected metric instruction, got %q", plan.Instruction)
	}
	if len(plan.AvoidVerbs) != 0 {
		t.Fatalf("expected no verbs to avoid, got %v", plan.AvoidVerbs)
	}
	if !reflect.DeepEqual(plan.Missing, []string{"Kafka", "Airflow"}) {
		t.Fatalf("unexpected missing keywords %v", plan.Missing)
	}
}

func TestBuildPlanSkipsMetricsWhenCovered(t *testing.T) {
	state := NewState()
	state.RegisterBullets(10, 9)

	if plan := BuildPlan("Built a pipeline", UnitExperience, testProfile, UnitContext{}, state); plan.NeedsMetrics {
		t.Fatal("expected no metric request at 90% coverage")
	}

	state = NewState()
	if plan := BuildPlan("Built a pipeline for 40% of teams", UnitExperience, testProfile, UnitContext{}, state); plan.NeedsMetrics {
		t.Fatal("expected no metric request when a metric exists")
	}
}

func TestBuildPlanVerbGuidance(t *testing.T) {
	state := NewState()
	state.RegisterVerb("built")
	state.RegisterVerb("built")
	for i := 0; i < 3; i++ {
		state.RegisterVerb("spearheaded")
	}

	plan := BuildPlan("Built a pipeline for reporting", UnitExperience, testProfile, UnitContext{}, state)

	if plan.LeadingVerb != "Built" || plan.LeadingVerbUses != 2 {
		t.Fatalf("unexpected leading verb info %q/%d", plan.LeadingVerb, plan.LeadingVerbUses)
	}
	if !strings.Contains(plan.Instruction, `WARNING: "Built" is already used 2 times`) {
		t.Fatalf("expected leading verb warning, got %q", plan.Instruction)
	}
	if !reflect.DeepEqual(plan.AvoidVerbs, []string{"spearheaded"}) {
		t.Fatalf("unexpected avoid list %v", plan.AvoidVerbs)
	}
	if len(plan.AvailableVerbs) != 12 || plan.AvailableVerbs[0] != "Directed" {
		t.Fatalf("unexpected available verbs %v", plan.AvailableVerbs)
	}
}

func TestBuildPlanFiltersAIKeywordsWithoutAIContext(t *testing.T) {
	profile := keywords.Profile{Primary: []string{"AI", "Kafka", "LLM", "Airflow"}}

	plan := BuildPlan("Built a reporting pipeline", UnitExperience, profile, UnitContext{Technologies: []string{"Airflow", "Postgres"}}, NewState())
	if !reflect.DeepEqual(plan.Relevant, []string{"Kafka", "Airflow"}) {
		t.Fatalf("expected AI keywords dropped, got %v", plan.Relevant)
	}

	plan = BuildPlan("Built a reporting pipeline", UnitExperience, profile, UnitContext{Technologies: []string{"Vector search", "Python", "Go", "Rust"}}, NewState())
	if !reflect.DeepEqual(plan.Relevant, []string{"AI", "Kafka", "LLM", "Airflow"}) {
		t.Fatalf("expected AI keywords kept, got %v", plan.Relevant)
	}
	if !reflect.DeepEqual(plan.Technologies, []string{"Vector search", "Python", "Go"}) {
		t.Fatalf("expected three context technologies, got %v", plan.Technologies)
	}
}

func TestBuildPlanDoesNotMutateState(t *testing.T) {
	state := NewState()
	state.RegisterVerb("led")

	BuildPlan("Led and built a platform", UnitExperience, testProfile, UnitContext{}, state)

	if !reflect.DeepEqual(state.VerbCounts(), map[string]int{"led": 1}) {
		t.Fatalf("state mutated: %v", state.VerbCounts())
	}
}

func TestProfileVerbsAreTracked(t *testing.T) {
	profile := keywords.Profile{PowerVerbs: map[string][]string{"Technical": {"Automated"}}}
	state := NewState()

	NewEngine(nil, nil).OptimizeContent(context.Background(), "Automated nightly data checks", UnitExperience, profile, UnitContext{}, state)

	if state.VerbCount("automated") != 1 {
		t.Fatalf("expected profile verb registered, got %v", state.VerbCounts())
	}
}
