package keywords

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/resume-tuner/internal/ai"
	"github.com/spigell/resume-tuner/internal/utils"
	"go.uber.org/zap"
)

const (
	// SectionLabel is sent to the generator with the enrichment request.
	SectionLabel = "keyword_generation"

	defaultTargetCompany = "FAANG"
	promptKeywordLimit   = 20
	previewLimit         = 400
)

// Builder derives keyword profiles. A nil generator yields fallback profiles.
type Builder struct {
	generator ai.Generator
	logger    *zap.Logger
}

func NewBuilder(generator ai.Generator, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{generator: generator, logger: log}
}

// GenerateKeywords never fails: any generator or parse problem results in the
// deterministic fallback for the role's bucket.
func (b *Builder) GenerateKeywords(ctx context.Context, req Request) Profile {
	role := strings.TrimSpace(req.Role)
	company := strings.TrimSpace(req.TargetCompany)
	if company == "" {
		company = defaultTargetCompany
	}

	bucket := NormalizeRole(role)
	log := b.logger.With(zap.String("role", role), zap.String("bucket", bucket))

	jd := ExtractJDKeywords(req.JobDescription)
	experience := ExtractExperienceKeywords(req.Experience)
	log.Debug("collected keyword sources",
		zap.Int("jd_keywords", len(jd)),
		zap.Int("experience_keywords", len(experience)),
	)

	fallback := Fallback(role, bucket)
	profile := fallback

	if b.generator == nil {
		log.Warn("no generator configured, using fallback keywords")
	} else if enriched, err := b.enrich(ctx, log, role, company, baseTiers(bucket).Hot, jd, experience); err != nil {
		log.Warn("keyword enrichment failed, using fallback keywords", zap.Error(err))
	} else {
		profile = backfill(enriched, fallback)
		profile.Role = role
	}

	log.Info("keyword profile ready",
		zap.Int("primary", len(profile.Primary)),
		zap.Int("secondary", len(profile.Secondary)),
		zap.Int("technical", len(profile.Technical)),
		zap.Int("verb_categories", len(profile.PowerVerbs)),
		zap.Int("synonym_groups", len(profile.Synonyms)),
		zap.Strings("top", head(profile.Primary, 5)),
	)

	return profile
}

func (b *Builder) enrich(ctx context.Context, log *zap.Logger, role, company string, hot, jd, experience []string) (Profile, error) {
	prompt := buildPrompt(role, company, hot, jd, experience)
	log.Debug("requesting keyword profile", zap.String("prompt_preview", utils.TruncateForLog(prompt, previewLimit)))

	raw, err := b.generator.Generate(ctx, SectionLabel, prompt, "")
	if err != nil {
		return Profile{}, fmt.Errorf("generate keywords: %w", err)
	}
	log.Debug("keyword response received", zap.String("response_preview", utils.TruncateForLog(raw, previewLimit)))

	profile, err := parseProfile(raw)
	if err != nil {
		return Profile{}, fmt.Errorf("parse keywords: %w", err)
	}
	return profile, nil
}

// ExtractJDKeywords matches the technical vocabulary against a job posting,
// case-insensitively, in vocabulary order.
func ExtractJDKeywords(jobDescription string) []string {
	text := strings.ToLower(jobDescription)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var found []string
	for _, term := range jdVocabulary {
		if strings.Contains(text, strings.ToLower(term)) {
			found = append(found, term)
		}
	}
	return found
}

// ExtractExperienceKeywords collects skills, technologies and capitalized
// achievement tokens longer than three characters, in first-seen order.
func ExtractExperienceKeywords(exp *UserExperience) []string {
	if exp == nil {
		return nil
	}

	var found []string
	seen := make(map[string]struct{})
	add := func(term string) {
		term = strings.TrimSpace(term)
		if term == "" {
			return
		}
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		found = append(found, term)
	}

	for _, skill := range exp.Skills {
		add(skill)
	}
	for _, tech := range exp.Technologies {
		add(tech)
	}
	for _, achievement := range exp.Achievements {
		for _, word := range strings.Fields(achievement) {
			word = strings.TrimRightFunc(word, unicode.IsPunct)
			first, _ := utf8.DecodeRuneInString(word)
			if utf8.RuneCountInString(word) > 3 && unicode.IsUpper(first) {
				add(word)
			}
		}
	}

	return found
}

func buildPrompt(role, company string, hot, jd, experience []string) string {
	var b strings.Builder
	b.WriteString("You optimize resume keywords for applicant tracking systems.\n\n")
	fmt.Fprintf(&b, "Job role: %s\n", role)
	fmt.Fprintf(&b, "Target company: %s\n", company)
	fmt.Fprintf(&b, "Base keywords: %s\n", strings.Join(hot, ", "))
	fmt.Fprintf(&b, "Job description keywords: %s\n", strings.Join(head(jd, promptKeywordLimit), ", "))
	fmt.Fprintf(&b, "Candidate experience keywords: %s\n\n", strings.Join(head(experience, promptKeywordLimit), ", "))
	b.WriteString(`Build a keyword list for this role that balances trending terms with foundational skills,
matches the job description when one is given, stays true to the candidate's real experience
and lists synonyms so no keyword has to be repeated.

Respond with a single JSON object of this shape:
{
  "primary_keywords": ["..."],
  "secondary_keywords": ["..."],
  "technical_skills": ["..."],
  "power_verbs": {"Leadership": ["..."], "Technical": ["..."], "Optimization": ["..."]},
  "industry_buzzwords": ["..."],
  "synonyms": {"keyword": ["variation", "..."]}
}
Primary keywords should appear 2-3 times in a resume, secondary ones 1-2 times.
Output valid JSON only.`)
	return b.String()
}

const (
	BucketDataEngineer     = "data_engineer"
	BucketMLEngineer       = "machine_learning_engineer"
	BucketSoftwareEngineer = "software_engineer"

	// DefaultBucket is used when the role matches no heuristic.
	DefaultBucket = BucketDataEngineer
)

type tiers struct {
	Hot      []string
	CoreTech []string
	Cloud    []string
}

var industryKeywords = map[string]tiers{
	BucketDataEngineer: {
		Hot: []string{"AI", "ML", "LLM", "GenAI", "RAG", "Vector Database",
			"Real-time", "Streaming", "Event-driven", "Cloud-native"},
		CoreTech: []string{"Spark", "Kafka", "Airflow", "dbt", "Redshift", "Snowflake"},
		Cloud:    []string{"AWS", "Azure", "GCP", "Kubernetes", "Docker", "Terraform"},
	},
	BucketSoftwareEngineer: {
		Hot:      []string{"AI", "ML", "Microservices", "Cloud-native", "DevOps", "CI/CD"},
		CoreTech: []string{"Python", "Java", "React", "Node.js", "GraphQL", "REST APIs"},
		Cloud:    []string{"AWS", "Kubernetes", "Docker", "Serverless"},
	},
	BucketMLEngineer: {
		Hot:      []string{"LLM", "GenAI", "Transformers", "RAG", "Fine-tuning", "MLOps"},
		CoreTech: []string{"PyTorch", "TensorFlow", "Scikit-learn", "MLflow", "Kubeflow"},
		Cloud:    []string{"AWS SageMaker", "Azure ML", "GCP Vertex AI"},
	},
}

// jdVocabulary is matched literally against job postings.
var jdVocabulary = []string{
	"Python", "Java", "SQL", "AWS", "Azure", "GCP", "Kubernetes", "Docker",
	"Kafka", "Spark", "Airflow", "dbt", "Redshift", "Snowflake", "BigQuery",
	"Machine Learning", "AI", "ML", "LLM", "GenAI", "RAG", "Vector Database",
	"Real-time", "Streaming", "ETL", "Data Pipeline", "Data Warehouse",
}

var starterPowerVerbs = map[string][]string{
	"Leadership":   {"Led", "Spearheaded", "Drove"},
	"Technical":    {"Architected", "Engineered", "Built", "Designed"},
	"Optimization": {"Optimized", "Enhanced", "Streamlined"},
}

var starterBuzzwords = []string{"AI", "ML", "Cloud-native", "Real-time"}

var starterSynonyms = map[string][]string{
	"real-time": {"streaming", "low-latency", "instant"},
	"cloud":     {"cloud-native", "serverless", "distributed"},
}

// NormalizeRole maps a free-text role onto one of the keyword buckets.
func NormalizeRole(role string) string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(role)), " ", "_")

	switch {
	case strings.Contains(key, "data") && strings.Contains(key, "engineer"):
		return BucketDataEngineer
	case strings.Contains(key, "machine") || strings.Contains(key, "ml"):
		return BucketMLEngineer
	case strings.Contains(key, "software") || strings.Contains(key, "backend") || strings.Contains(key, "fullstack"):
		return BucketSoftwareEngineer
	default:
		return DefaultBucket
	}
}

func baseTiers(bucket string) tiers {
	if t, ok := industryKeywords[bucket]; ok {
		return t
	}
	return industryKeywords[DefaultBucket]
}

// Fallback returns the deterministic profile for a bucket. It never has empty
// primary, secondary or technical lists.
func Fallback(role, bucket string) Profile {
	t := baseTiers(bucket)

	return Profile{
		Role:       role,
		Primary:    head(t.Hot, 8),
		Secondary:  head(t.CoreTech, 10),
		Technical:  head(t.Cloud, 8),
		PowerVerbs: copyGroups(starterPowerVerbs),
		Buzzwords:  append([]string(nil), starterBuzzwords...),
		Synonyms:   copyGroups(starterSynonyms),
	}
}

func head(values []string, n int) []string {
	if len(values) > n {
		values = values[:n]
	}
	return append([]string(nil), values...)
}

func copyGroups(groups map[string][]string) map[string][]string {
	out := make(map[string][]string, len(groups))
	for k, v := range groups {
		out[k] = append([]string(nil), v...)
	}
	return out
}
