package keywords

import "sort"

// Profile is the prioritized vocabulary for one target role. It is built once
// per run and must not be mutated afterwards; it is safe to share.
type Profile struct {
	Role string `json:"role"`
	// Primary keywords should appear two or three times in the document.
	Primary []string `json:"primary_keywords" mapstructure:"primary_keywords"`
	// Secondary keywords should appear once or twice.
	Secondary  []string            `json:"secondary_keywords" mapstructure:"secondary_keywords"`
	Technical  []string            `json:"technical_skills" mapstructure:"technical_skills"`
	PowerVerbs map[string][]string `json:"power_verbs" mapstructure:"power_verbs"`
	Buzzwords  []string            `json:"industry_buzzwords" mapstructure:"industry_buzzwords"`
	// Synonyms maps a keyword to variations that avoid stuffing.
	Synonyms map[string][]string `json:"synonyms" mapstructure:"synonyms"`
}

// UserExperience is the authentic vocabulary taken from the candidate's own data.
type UserExperience struct {
	Skills       []string
	Technologies []string
	Achievements []string
}

// Request describes what the profile should target.
type Request struct {
	Role           string
	JobDescription string
	Experience     *UserExperience
	// TargetCompany defaults to FAANG.
	TargetCompany string
}

// Verbs returns every power verb of the profile, categories in name order.
func (p Profile) Verbs() []string {
	categories := make([]string, 0, len(p.PowerVerbs))
	for category := range p.PowerVerbs {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var verbs []string
	for _, category := range categories {
		verbs = append(verbs, p.PowerVerbs[category]...)
	}
	return verbs
}
