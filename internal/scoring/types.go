package scoring

// Score is the headline result. Sub-scores are rounded to one decimal and
// always add up to Overall.
type Score struct {
	Overall   float64 `json:"overall"`
	Content   float64 `json:"content"`
	Format    float64 `json:"format"`
	Keywords  float64 `json:"keywords"`
	Technical float64 `json:"technical"`
	Grade     string  `json:"grade"`
}

type Compliance struct {
	Passed          []string `json:"passed"`
	Failed          []string `json:"failed"`
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
}

// CategoryUsage lists the distinct power verbs of one category found in the
// document.
type CategoryUsage struct {
	Category string   `json:"category"`
	Verbs    []string `json:"verbs"`
	Required int      `json:"required"`
	Score    float64  `json:"score"`
}

// Shortfall is how many more distinct verbs the category needs.
func (c CategoryUsage) Shortfall() int {
	if n := c.Required - len(c.Verbs); n > 0 {
		return n
	}
	return 0
}

type ContentBreakdown struct {
	Bullets            int             `json:"bullets"`
	BulletsWithMetrics int             `json:"bullets_with_metrics"`
	MetricsRatio       float64         `json:"metrics_ratio"`
	TotalMetrics       int             `json:"total_metrics"`
	MetricsScore       float64         `json:"metrics_score"`
	VerbCategories     []CategoryUsage `json:"verb_categories"`
	VerbScore          float64         `json:"verb_score"`
	ExperienceShare    float64         `json:"experience_share"`
	BalanceScore       float64         `json:"balance_score"`
	Pronouns           int             `json:"pronouns"`
	PassivePhrases     int             `json:"passive_phrases"`
	ToneScore          float64         `json:"tone_score"`
	FluffWords         []string        `json:"fluff_words"`
	FluffScore         float64         `json:"fluff_score"`
}

type TierUsage struct {
	Category string         `json:"category"`
	Counts   map[string]int `json:"counts"`
	Score    float64        `json:"score"`
}

type KeywordBreakdown struct {
	Tiers []TierUsage `json:"tiers"`
	// Distinct tier keywords present at least once.
	Unique int `json:"unique"`
	// Sum of all tier keyword occurrences.
	Mentions int `json:"mentions"`
}

type FormatBreakdown struct {
	ATSIssues       []string `json:"ats_issues"`
	SectionsFound   []string `json:"sections_found"`
	MissingSections []string `json:"missing_sections"`
	Tables          int      `json:"tables"`
}

type TechnicalBreakdown struct {
	Technologies      []string `json:"technologies"`
	ArchitectureTerms []string `json:"architecture_terms"`
	LargeScale        bool     `json:"large_scale"`
}

// Report is everything AnalyzeComprehensive learned about one document.
type Report struct {
	Score           Score              `json:"score"`
	Content         ContentBreakdown   `json:"content"`
	Keywords        KeywordBreakdown   `json:"keywords"`
	Format          FormatBreakdown    `json:"format"`
	Technical       TechnicalBreakdown `json:"technical"`
	Recommendations []string           `json:"recommendations"`
	Compliance      Compliance         `json:"compliance"`
}
