package optimizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/resume-tuner/internal/ai"
	"github.com/spigell/resume-tuner/internal/keywords"
	"github.com/spigell/resume-tuner/internal/logger"
	"github.com/spigell/resume-tuner/internal/utils"
	"go.uber.org/zap"
)

const (
	minUnitLength = 10
	previewLimit  = 300

	factualityAccepted = 1.0
	factualityRejected = 0.5
)

// Improvement tags reported in Result.Improvements.
const (
	TagSkippedShort     = "Skipped: too short"
	TagNoResponse       = "No response"
	TagValidationFailed = "Validation failed"
	TagOverusedVerb     = "Overused verb"
	TagAddedMetrics     = "Added metrics"
	TagVariedVerb       = "Varied verb"
	TagEnhanced         = "Enhanced"
)

// Result is the outcome of rewriting one unit.
type Result struct {
	Original         string         `json:"original"`
	Optimized        string         `json:"optimized"`
	KeywordsAdded    []string       `json:"keywords_added"`
	Improvements     []string       `json:"improvements"`
	RepetitionsFixed map[string]int `json:"repetitions_fixed"`
	Factuality       float64        `json:"factuality"`
	HasMetrics       bool           `json:"has_metrics"`
}

// Changed reports whether the rewrite replaced the original text.
func (r Result) Changed() bool {
	return r.Optimized != r.Original
}

func (r Result) hasTag(tag string) bool {
	for _, t := range r.Improvements {
		if t == tag {
			return true
		}
	}
	return false
}

// Engine rewrites résumé text units through a generator while keeping the
// run-wide State consistent.
type Engine struct {
	generator ai.Generator
	logger    *zap.Logger
}

func NewEngine(generator ai.Generator, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{generator: generator, logger: log}
}

// OptimizeContent rewrites one unit. It never fails: generator errors and
// rejected candidates return the original text with a tag explaining why.
//
// Every known power verb in the original is registered in state before the
// generator is called, even if the rewrite is later rejected. Verbs that
// only the candidate introduces are registered after acceptance.
func (e *Engine) OptimizeContent(ctx context.Context, text string, unit UnitType, profile keywords.Profile, uctx UnitContext, state *State) Result {
	if state == nil {
		state = NewState()
	}

	result := Result{
		Original:         text,
		Optimized:        text,
		RepetitionsFixed: map[string]int{},
		Factuality:       factualityAccepted,
	}

	if len(strings.TrimSpace(text)) < minUnitLength {
		result.Improvements = []string{TagSkippedShort}
		return result
	}

	log := e.logger.With(logger.UnitField(string(unit)))
	known := knownVerbs(profile)

	result.HasMetrics = HasMetric(text)
	originalVerbs := verbsIn(text, known)
	for _, verb := range originalVerbs {
		state.RegisterVerb(verb)
	}

	plan := BuildPlan(text, unit, profile, uctx, state)
	log.Debug("rewrite planned",
		zap.String("leading_verb", plan.LeadingVerb),
		zap.Bool("needs_metrics", plan.NeedsMetrics),
		zap.Float64("coverage", plan.Coverage),
		zap.Strings("avoid_verbs", plan.AvoidVerbs),
		zap.String("instruction_preview", utils.TruncateForLog(plan.Instruction, previewLimit)),
	)

	raw, err := e.generate(ctx, unit, plan.Instruction)
	if err != nil || strings.TrimSpace(raw) == "" {
		log.Warn("no usable generator response, keeping original", zap.Error(err))
		result.Improvements = []string{TagNoResponse}
		return result
	}

	candidate := cleanOutput(raw, unit)

	verdict := Validate(text, candidate)
	if !verdict.Accepted {
		log.Warn("rewrite rejected",
			zap.String("reason", verdict.Reason),
			zap.String("candidate_preview", utils.TruncateForLog(candidate, previewLimit)),
		)
		result.Improvements = []string{TagValidationFailed}
		result.Factuality = factualityRejected
		return result
	}

	if verb := leadingVerb(candidate); verb != "" && plan.avoids(verb) && !strings.EqualFold(verb, plan.LeadingVerb) {
		log.Warn("rewrite rejected", zap.String("reason", "leads with overused verb "+verb))
		result.Improvements = []string{TagOverusedVerb}
		result.Factuality = factualityRejected
		return result
	}

	seen := make(map[string]struct{}, len(originalVerbs))
	for _, verb := range originalVerbs {
		seen[verb] = struct{}{}
	}
	for _, verb := range verbsIn(candidate, known) {
		if _, ok := seen[verb]; !ok {
			state.RegisterVerb(verb)
		}
	}

	hasMetricAfter := HasMetric(candidate)
	if unit == UnitExperience && hasMetricAfter && !result.HasMetrics {
		state.addMetricBullet()
	}

	result.KeywordsAdded = addedKeywords(plan.Present, presentKeywords(candidate, profile))
	result.RepetitionsFixed = repetitionsFixed(plan.Repetition, candidate)

	var tags []string
	if n := len(result.KeywordsAdded); n > 0 {
		tags = append(tags, fmt.Sprintf("+%d keywords", n))
	}
	if len(result.RepetitionsFixed) > 0 {
		total := 0
		for _, n := range result.RepetitionsFixed {
			total += n
		}
		tags = append(tags, fmt.Sprintf("Fixed %d reps", total))
	}
	if hasMetricAfter && !result.HasMetrics {
		tags = append(tags, TagAddedMetrics)
	}
	if newVerb := leadingVerb(candidate); newVerb != "" && plan.LeadingVerb != "" && !strings.EqualFold(newVerb, plan.LeadingVerb) {
		tags = append(tags, TagVariedVerb)
	} else if candidate != text {
		tags = append(tags, TagEnhanced)
	}

	result.Optimized = candidate
	result.Improvements = tags
	result.HasMetrics = hasMetricAfter

	log.Debug("rewrite accepted",
		zap.Strings("improvements", tags),
		zap.Float64("length_ratio", verdict.LengthRatio),
		zap.String("optimized_preview", utils.TruncateForLog(candidate, previewLimit)),
	)

	return result
}

func (e *Engine) generate(ctx context.Context, unit UnitType, instruction string) (string, error) {
	if e.generator == nil {
		return "", errors.New("no generator configured")
	}
	return e.generator.Generate(ctx, unit.Section(), instruction, "")
}
