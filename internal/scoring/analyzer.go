package scoring

import (
	"math"
	"regexp"
	"strings"

	"github.com/spigell/resume-tuner/internal/utils"
	"go.uber.org/zap"
)

const (
	maxContent   = 50.0
	maxFormat    = 20.0
	maxVerbScore = 10.0
	maxTierScore = 10.0
)

// Analyzer grades rendered LaTeX résumés. It holds no state between calls,
// so one Analyzer can score any number of documents concurrently.
type Analyzer struct {
	logger *zap.Logger
}

func NewAnalyzer(log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{logger: log}
}

// AnalyzeComprehensive scores document. The same document always yields the
// same report.
func (a *Analyzer) AnalyzeComprehensive(document string) Report {
	an := newAnalysis(document)

	content, contentScore := an.content()
	keywords, keywordScore := an.keywords()
	format, formatScore := an.format()
	technical, technicalScore := an.technical()

	score := Score{
		Content:   round1(contentScore),
		Format:    round1(formatScore),
		Keywords:  round1(keywordScore),
		Technical: round1(technicalScore),
	}
	score.Overall = round1(score.Content + score.Format + score.Keywords + score.Technical)
	score.Grade = gradeFor(score.Overall)

	recommendations := recommend(content, format)

	report := Report{
		Score:           score,
		Content:         content,
		Keywords:        keywords,
		Format:          format,
		Technical:       technical,
		Recommendations: recommendations,
		Compliance:      comply(content, format, recommendations),
	}

	a.logger.Debug("document analyzed",
		zap.Float64("overall", score.Overall),
		zap.Float64("content", score.Content),
		zap.Float64("format", score.Format),
		zap.Float64("keywords", score.Keywords),
		zap.Float64("technical", score.Technical),
		zap.String("grade", score.Grade),
		zap.Int("bullets", content.Bullets),
		zap.Int("metrics", content.TotalMetrics),
		zap.Strings("missing_sections", format.MissingSections),
	)

	return report
}

// analysis carries the intermediate counters of one AnalyzeComprehensive call.
type analysis struct {
	doc      string
	lower    string
	bullets  []string
	sections map[string]int
	found    map[string]bool
}

func newAnalysis(document string) *analysis {
	an := &analysis{
		doc:     document,
		lower:   strings.ToLower(document),
		bullets: resumeItems(document),
	}
	if len(an.bullets) == 0 {
		an.bullets = itemLines(document)
	}
	an.sections, an.found = sectionWords(document)
	return an
}

func (an *analysis) content() (ContentBreakdown, float64) {
	var b ContentBreakdown

	b.Bullets = len(an.bullets)
	for _, bullet := range an.bullets {
		if hasMetric(bullet) {
			b.BulletsWithMetrics++
		}
	}
	b.TotalMetrics = countMetrics(an.doc)
	b.MetricsScore = 5
	if b.Bullets > 0 {
		ratio := float64(b.BulletsWithMetrics) / float64(b.Bullets)
		b.MetricsRatio = round1(ratio * 100)
		b.MetricsScore = metricsScore(ratio)
	}

	for _, category := range verbCategories {
		usage := CategoryUsage{Category: category.Name, Verbs: []string{}, Required: category.Required}
		for _, verb := range category.Verbs {
			if utils.ContainsWord(an.doc, verb) {
				usage.Verbs = append(usage.Verbs, verb)
			}
		}
		usage.Score = categoryScore(len(usage.Verbs), category.Required, category.Weight)
		b.VerbScore += usage.Score
		b.VerbCategories = append(b.VerbCategories, usage)
	}
	b.VerbScore = math.Min(maxVerbScore, b.VerbScore)

	b.BalanceScore = 5
	total := 0
	for _, words := range an.sections {
		total += words
	}
	if total > 0 {
		share := float64(an.sections["experience"]) / float64(total)
		b.ExperienceShare = round1(share * 100)
		b.BalanceScore = balanceScore(share)
	}

	b.Pronouns = len(pronounPattern.FindAllString(an.doc, -1))
	for _, phrase := range passivePhrases {
		b.PassivePhrases += strings.Count(an.lower, phrase)
	}
	b.ToneScore = 10 - math.Min(3, float64(b.Pronouns)/2) - math.Min(2, float64(b.PassivePhrases))

	b.FluffWords = []string{}
	for _, word := range fluffWords {
		if strings.Contains(an.lower, word) {
			b.FluffWords = append(b.FluffWords, word)
		}
	}
	b.FluffScore = math.Max(0, 5-math.Floor(0.5*float64(len(b.FluffWords))))

	sum := b.MetricsScore + b.VerbScore + b.BalanceScore + b.ToneScore + b.FluffScore
	return b, math.Min(maxContent, sum)
}

func (an *analysis) keywords() (KeywordBreakdown, float64) {
	var b KeywordBreakdown
	var ai, rest float64

	for i, tier := range keywordTiers {
		usage := TierUsage{Category: tier.Category, Counts: make(map[string]int, len(tier.Keywords))}
		for _, keyword := range tier.Keywords {
			count := countKeyword(an.lower, keyword)
			usage.Counts[keyword] = count
			if count > 0 {
				b.Unique++
				b.Mentions += count
			}
			usage.Score += tierKeywordScore(count, tier)
		}
		if i == 0 {
			ai = usage.Score
		} else {
			rest += usage.Score
		}
		b.Tiers = append(b.Tiers, usage)
	}

	var aiScore float64
	switch {
	case ai >= 6:
		aiScore = 10
	case ai >= 3:
		aiScore = 6
	default:
		aiScore = 2
	}
	return b, aiScore + math.Min(maxTierScore, rest/2)
}

func countKeyword(lowerDoc, keyword string) int {
	if p, ok := acronymPatterns[keyword]; ok {
		return len(p.FindAllStringIndex(lowerDoc, -1))
	}
	return strings.Count(lowerDoc, strings.ToLower(keyword))
}

func (an *analysis) format() (FormatBreakdown, float64) {
	b := FormatBreakdown{
		ATSIssues:       []string{},
		SectionsFound:   []string{},
		MissingSections: []string{},
	}
	score := maxFormat

	for _, killer := range atsKillers {
		if killer.Pattern.MatchString(an.doc) {
			b.ATSIssues = append(b.ATSIssues, killer.Name)
			score -= 2
		}
	}

	for _, group := range sectionGroups {
		switch {
		case an.found[group.Name]:
			b.SectionsFound = append(b.SectionsFound, group.Name)
		case group.Required:
			b.MissingSections = append(b.MissingSections, group.Name)
			score -= 2
		}
	}

	b.Tables = strings.Count(an.doc, tabularBegin)
	if b.Tables > 1 {
		score -= 0.5 * float64(b.Tables-1)
	}

	return b, math.Max(0, score)
}

func (an *analysis) technical() (TechnicalBreakdown, float64) {
	b := TechnicalBreakdown{Technologies: []string{}, ArchitectureTerms: []string{}}

	for _, tech := range specificTechnologies {
		if utils.ContainsWord(an.doc, tech) {
			b.Technologies = append(b.Technologies, tech)
		}
	}
	for _, term := range architectureTerms {
		if strings.Contains(an.lower, term) {
			b.ArchitectureTerms = append(b.ArchitectureTerms, term)
		}
	}
	b.LargeScale = largeScalePattern.MatchString(an.doc)

	score := math.Min(5, float64(len(b.Technologies))/2) +
		math.Min(2, float64(len(b.ArchitectureTerms))/2)
	if b.LargeScale {
		score += 3
	}
	return b, score
}

func metricsScore(ratio float64) float64 {
	switch {
	case ratio >= 0.9:
		return 15
	case ratio >= 0.7:
		return 12
	case ratio >= 0.5:
		return 8
	default:
		return math.Max(3, math.Floor(ratio*15))
	}
}

func categoryScore(found, required int, weight float64) float64 {
	switch {
	case found >= required:
		return weight
	case float64(found) >= float64(required)*0.5:
		return weight * 0.7
	default:
		return float64(found) / float64(required) * weight * 0.5
	}
}

func balanceScore(share float64) float64 {
	switch {
	case share >= 0.40 && share <= 0.50:
		return 10
	case share >= 0.35 && share <= 0.55:
		return 8
	default:
		return 6
	}
}

func tierKeywordScore(count int, tier keywordTier) float64 {
	switch {
	case count >= tier.Min && count <= tier.Max:
		return tier.Weight
	case count > tier.Max:
		return tier.Weight * 0.5
	case count > 0 && count == tier.Min-1:
		return tier.Weight * 0.7
	default:
		return 0
	}
}

func gradeFor(overall float64) string {
	for _, step := range gradeLadder {
		if overall >= step.Min {
			return step.Grade
		}
	}
	return "F"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

type keywordTier struct {
	Category string
	Keywords []string
	Weight   float64
	Min      int
	Max      int
}

// The first tier is the AI/ML tier and is scored on its own.
var keywordTiers = []keywordTier{
	{
		Category: "AI/ML",
		Keywords: []string{"AI", "ML", "LLM", "GenAI", "RAG", "Vector Database", "Langchain"},
		Weight:   3.0, Min: 2, Max: 3,
	},
	{
		Category: "Real-Time",
		Keywords: []string{"Real-time", "Streaming", "Event-driven", "CDC", "Kafka", "Kinesis"},
		Weight:   2.5, Min: 2, Max: 4,
	},
	{
		Category: "Cloud/Modern Stack",
		Keywords: []string{"AWS", "Cloud-native", "Serverless", "Docker", "Kubernetes", "dbt", "Airflow", "Spark"},
		Weight:   2.0, Min: 2, Max: 3,
	},
	{
		Category: "Core Skills",
		Keywords: []string{"Python", "SQL", "ETL", "Data Pipeline", "Data Warehouse", "Data Lake", "PostgreSQL"},
		Weight:   1.5, Min: 1, Max: 3,
	},
}

type verbCategory struct {
	Name     string
	Verbs    []string
	Required int
	Weight   float64
}

var verbCategories = []verbCategory{
	{Name: "Leadership", Verbs: []string{"Spearheaded", "Directed", "Led", "Drove", "Championed", "Orchestrated"}, Required: 2, Weight: 2.0},
	{Name: "Technical", Verbs: []string{"Architected", "Engineered", "Built", "Designed", "Implemented", "Developed"}, Required: 4, Weight: 2.5},
	{Name: "Optimization", Verbs: []string{"Optimized", "Enhanced", "Streamlined", "Improved", "Accelerated", "Reduced"}, Required: 2, Weight: 2.0},
	{Name: "Scale", Verbs: []string{"Scaled", "Expanded", "Migrated", "Transformed", "Modernized"}, Required: 1, Weight: 1.5},
	{Name: "Delivery", Verbs: []string{"Delivered", "Shipped", "Launched", "Deployed", "Released"}, Required: 1, Weight: 1.5},
}

type atsKiller struct {
	Pattern *regexp.Regexp
	Name    string
}

var atsKillers = []atsKiller{
	{regexp.MustCompile(`\\includegraphics`), "Images/Graphics"},
	{regexp.MustCompile(`\\begin\{figure\}`), "Figure environments"},
	{regexp.MustCompile(`\\begin\{multicols\}`), "Multi-column layout"},
	{regexp.MustCompile(`\\twocolumn`), "Two-column layout"},
	{regexp.MustCompile(`\\fontspec`), "Custom fonts"},
	{regexp.MustCompile(`\\begin\{wrapfigure\}`), "Text wrapping around images"},
}

type sectionGroup struct {
	Name     string
	Headers  []string
	Required bool
}

var sectionGroups = []sectionGroup{
	{Name: "summary", Headers: []string{"summary", "professional summary", "objective"}, Required: true},
	{Name: "skills", Headers: []string{"skills", "technical skills", "core competencies"}, Required: true},
	{Name: "experience", Headers: []string{"experience", "professional experience", "work experience"}, Required: true},
	{Name: "education", Headers: []string{"education"}, Required: true},
	{Name: "projects", Headers: []string{"projects", "key projects"}, Required: true},
	{Name: "certifications", Headers: []string{"certifications"}},
}

var metricPatterns = compileAll(
	`\d+\\%`, `\d+%`, `\d+\+`, `\d+[KMB]\+?`, `\d+[KMB]`,
	`\d+\.\d+\\%`, `\d+\.\d+%`, `\d+,\d+\+?`, `\d+TB`, `\d+GB`,
	`\d+x`, `\d+ hours?`, `\d+ minutes?`, `\d+ seconds?`,
	`\d+ users?`, `\d+ tables?`, `\d+ events?`, `\d+ reports?`,
	`from \d+\\?%`, `to \d+\\?%`,
)

// Short acronyms only count as standalone words, optionally plural, so "ai"
// inside "maintained" is not a mention. Every other keyword is a
// case-insensitive substring: "data pipelines" mentions Data Pipeline and
// "PySpark" mentions Spark.
var acronymPatterns = acronyms("AI", "ML", "LLM", "RAG", "CDC", "ETL", "AWS")

var specificTechnologies = []string{
	"Apache Kafka", "AWS Lambda", "Redshift", "Kinesis", "dbt",
	"PySpark", "Airflow", "PostgreSQL", "Docker", "Kubernetes",
	"Terraform", "CloudFormation", "Pinecone", "Weaviate",
}

var architectureTerms = []string{
	"architecture", "designed", "architected", "scalable",
	"distributed", "microservices", "event-driven",
}

var fluffWords = []string{
	"synergy", "leverage", "paradigm", "utilize", "facilitate",
	"innovative", "cutting-edge", "best-in-class", "world-class",
}

var passivePhrases = []string{"was built", "were created", "is managed"}

var (
	pronounPattern       = regexp.MustCompile(`(?i)\b(I|me|my|we|our)\b`)
	largeScalePattern    = regexp.MustCompile(`\d+M\+|\d+TB|\d+K\+`)
	sectionPattern       = regexp.MustCompile(`(?i)\\section\*?\{([^}]*)\}`)
	headerCommandPattern = regexp.MustCompile(`^\{?\\[A-Za-z]+\*?\{([^{}]*)\}\}?(.*)$`)
	latexCommandPattern  = regexp.MustCompile(`\\[A-Za-z]+\*?`)
	wordPattern          = regexp.MustCompile(`[A-Za-z][A-Za-z'-]*`)
	itemPattern          = regexp.MustCompile(`\\item\b[ \t]*(.*)`)
)

const (
	resumeItemMacro    = `\resumeItem{`
	tabularBegin       = `\begin{tabular}`
	metricsTarget      = 0.9
	minMetricsCount    = 15
	maxRecommendations = 10
)

type gradeStep struct {
	Min   float64
	Grade string
}

var gradeLadder = []gradeStep{
	{95, "A+"}, {90, "A"}, {85, "A-"}, {80, "B+"}, {75, "B"}, {70, "B-"}, {60, "C"},
}

func acronyms(terms ...string) map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(terms))
	for _, term := range terms {
		out[term] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `s?\b`)
	}
	return out
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}
