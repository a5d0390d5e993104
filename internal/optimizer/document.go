package optimizer

import (
	"context"
	"strings"

	"github.com/spigell/resume-tuner/internal/keywords"
	"github.com/spigell/resume-tuner/internal/resume"
	"go.uber.org/zap"
)

const (
	// Only the most recent experiences are rewritten.
	maxExperiences  = 3
	minBulletLength = 20
	topVerbsLimit   = 5
)

// Step describes how many entries a selection stage kept.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// UnitResult ties a Result to the entry it was produced for.
type UnitResult struct {
	Unit   UnitType `json:"unit"`
	Label  string   `json:"label"`
	Result Result   `json:"result"`
}

// Stats summarizes one OptimizeResume run.
type Stats struct {
	SectionsOptimized  int          `json:"sections_optimized"`
	BulletsOptimized   int          `json:"bullets_optimized"`
	KeywordsAdded      int          `json:"keywords_added"`
	RepetitionsFixed   int          `json:"repetitions_fixed"`
	MetricsAdded       int          `json:"metrics_added"`
	VerbsVaried        int          `json:"verbs_varied"`
	Rejected           int          `json:"rejected"`
	NoResponse         int          `json:"no_response"`
	SkippedExperiences int          `json:"skipped_experiences"`
	BulletsTotal       int          `json:"bullets_total"`
	BulletsWithMetrics int          `json:"bullets_with_metrics"`
	Coverage           float64      `json:"coverage"`
	UniqueVerbs        int          `json:"unique_verbs"`
	TopVerbs           []VerbCount  `json:"top_verbs"`
	Units              []UnitResult `json:"units"`
}

func (s *Stats) record(unit UnitType, label string, r Result) {
	s.Units = append(s.Units, UnitResult{Unit: unit, Label: label, Result: r})
	s.KeywordsAdded += len(r.KeywordsAdded)
	for _, n := range r.RepetitionsFixed {
		s.RepetitionsFixed += n
	}
	switch {
	case r.hasTag(TagValidationFailed), r.hasTag(TagOverusedVerb):
		s.Rejected++
	case r.hasTag(TagNoResponse):
		s.NoResponse++
	}
}

// OptimizeResume rewrites the eligible units of data in document order: the
// summary, the bullets of the latest three experiences (oldest of them
// first) and the featured projects in list order. The input is left
// untouched; a fresh State is used for every call.
func (e *Engine) OptimizeResume(ctx context.Context, data *resume.Data, profile keywords.Profile) (*resume.Data, Stats) {
	var stats Stats
	if data == nil {
		return nil, stats
	}

	out := data.Clone()
	state := NewState()

	e.optimizeSummary(ctx, out, profile, state, &stats)
	e.optimizeExperience(ctx, out, profile, state, &stats)
	e.optimizeProjects(ctx, out, profile, state, &stats)

	stats.BulletsTotal = state.BulletsTotal()
	stats.BulletsWithMetrics = state.BulletsWithMetrics()
	stats.Coverage = state.Coverage()
	stats.UniqueVerbs = len(state.VerbCounts())
	stats.TopVerbs = state.TopVerbs(topVerbsLimit)

	e.logger.Info("optimization finished",
		zap.Int("sections_optimized", stats.SectionsOptimized),
		zap.Int("bullets_optimized", stats.BulletsOptimized),
		zap.Int("keywords_added", stats.KeywordsAdded),
		zap.Int("verbs_varied", stats.VerbsVaried),
		zap.Int("metrics_added", stats.MetricsAdded),
		zap.Int("rejected", stats.Rejected),
		zap.Int("bullets_with_metrics", stats.BulletsWithMetrics),
		zap.Int("bullets_total", stats.BulletsTotal),
		zap.Float64("coverage", stats.Coverage),
		zap.Int("unique_verbs", stats.UniqueVerbs),
	)

	return out, stats
}

func (e *Engine) optimizeSummary(ctx context.Context, out *resume.Data, profile keywords.Profile, state *State, stats *Stats) {
	if strings.TrimSpace(out.Summary.Title) == "" && strings.TrimSpace(out.Summary.Text) == "" {
		return
	}

	r := e.OptimizeContent(ctx, out.Summary.Compose(), UnitSummary, profile, UnitContext{Role: out.Summary.Title}, state)
	stats.record(UnitSummary, "summary", r)
	if r.Changed() {
		out.Summary.Text = r.Optimized
		stats.SectionsOptimized++
	}
}

func (e *Engine) optimizeExperience(ctx context.Context, out *resume.Data, profile keywords.Profile, state *State, stats *Stats) {
	selected := len(out.Experience)
	if selected > maxExperiences {
		selected = maxExperiences
	}

	step := Step{Initial: len(out.Experience), Dropped: len(out.Experience) - selected, Left: selected}
	stats.SkippedExperiences = step.Dropped
	e.logger.Info("selected experiences for rewriting",
		zap.Int("initial", step.Initial),
		zap.Int("skipped_older", step.Dropped),
		zap.Int("left", step.Left),
	)

	// The list is newest first; walk the selection backwards so the oldest
	// selected entry sees the emptiest verb table.
	for i := selected - 1; i >= 0; i-- {
		exp := &out.Experience[i]

		var eligible []int
		withMetrics := 0
		for j, bullet := range exp.Achievements {
			if len(strings.TrimSpace(bullet)) < minBulletLength {
				continue
			}
			eligible = append(eligible, j)
			if HasMetric(bullet) {
				withMetrics++
			}
		}
		state.RegisterBullets(len(eligible), withMetrics)

		uctx := UnitContext{Company: exp.Company, Position: exp.Position, Technologies: exp.Technologies}
		optimized := 0
		for _, j := range eligible {
			r := e.OptimizeContent(ctx, exp.Achievements[j], UnitExperience, profile, uctx, state)
			stats.record(UnitExperience, exp.Company, r)
			if !r.Changed() {
				continue
			}

			exp.Achievements[j] = r.Optimized
			optimized++
			if r.hasTag(TagAddedMetrics) {
				stats.MetricsAdded++
			}
			if r.hasTag(TagVariedVerb) {
				stats.VerbsVaried++
			}
		}

		e.logger.Debug("experience processed",
			zap.String("company", exp.Company),
			zap.Int("eligible_bullets", len(eligible)),
			zap.Int("optimized_bullets", optimized),
		)

		stats.BulletsOptimized += optimized
		if optimized > 0 {
			stats.SectionsOptimized++
		}
	}
}

func (e *Engine) optimizeProjects(ctx context.Context, out *resume.Data, profile keywords.Profile, state *State, stats *Stats) {
	for _, i := range out.FeaturedProjects() {
		proj := &out.Projects[i]
		uctx := UnitContext{ProjectName: proj.Name, Technologies: proj.Technologies}

		r := e.OptimizeContent(ctx, proj.Description, UnitProject, profile, uctx, state)
		stats.record(UnitProject, proj.Name, r)
		if r.Changed() {
			proj.Description = r.Optimized
			stats.SectionsOptimized++
		}
	}
}
