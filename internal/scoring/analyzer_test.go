package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const wellFormed = `\documentclass{article}
\begin{document}
\begin{tabular}{l r} Jane Doe & jane@example.com \end{tabular}
\section{Summary}
Data engineer.
\section{Technical Skills}
Go
\section{Experience}
\resumeItem{Wrote things}
\section{Education}
BSc
\section{Projects}
Toolkit
\end{document}
`

const richDocument = `\section{Summary}
Data Engineer building real-time pipelines.
\section{Skills}
Python, SQL, Kafka
\section{Experience}
\resumeItem{Led migration of 40 tables to \textbf{Redshift}, cutting cost by 30\%}
\resumeItem{Built streaming ingestion for 5M+ events per day}
\resumeItem{Designed the team wiki}
\resumeItem{Optimized Airflow DAGs to run 3x faster}
\section{Education}
BSc Computer Science
\section{Projects}
Pipeline toolkit
`

func TestFormatFullMarksForCleanLayout(t *testing.T) {
	report := NewAnalyzer(nil).AnalyzeComprehensive(wellFormed)

	assert.Equal(t, 20.0, report.Score.Format)
	assert.Empty(t, report.Format.ATSIssues)
	assert.Empty(t, report.Format.MissingSections)
	assert.Equal(t, 1, report.Format.Tables)
	assert.Equal(t, []string{"summary", "skills", "experience", "education", "projects"}, report.Format.SectionsFound)
}

func TestKeywordsFloorWithoutTierKeywords(t *testing.T) {
	report := NewAnalyzer(nil).AnalyzeComprehensive("A plain text résumé about gardening and bees.")

	assert.Equal(t, 2.0, report.Score.Keywords)
	assert.Zero(t, report.Keywords.Unique)
	assert.Zero(t, report.Keywords.Mentions)
	require.Len(t, report.Keywords.Tiers, len(keywordTiers))
}

func TestEmptyDocument(t *testing.T) {
	report := NewAnalyzer(nil).AnalyzeComprehensive("")

	assert.Equal(t, 25.0, report.Score.Content)
	assert.Equal(t, 10.0, report.Score.Format)
	assert.Equal(t, 2.0, report.Score.Keywords)
	assert.Equal(t, 0.0, report.Score.Technical)
	assert.Equal(t, 37.0, report.Score.Overall)
	assert.Equal(t, "F", report.Score.Grade)
	assert.Len(t, report.Format.MissingSections, 5)
	assert.Contains(t, report.Compliance.Failed, "Insufficient metrics (0/15)")
}

func TestRichDocumentBreakdown(t *testing.T) {
	report := NewAnalyzer(nil).AnalyzeComprehensive(richDocument)

	content := report.Content
	assert.Equal(t, 4, content.Bullets)
	assert.Equal(t, 3, content.BulletsWithMetrics)
	assert.Equal(t, 75.0, content.MetricsRatio)
	assert.Equal(t, 12.0, content.MetricsScore)
	assert.InDelta(t, 4.55, content.VerbScore, 1e-9)
	assert.Equal(t, 68.3, content.ExperienceShare)
	assert.Equal(t, 6.0, content.BalanceScore)
	assert.Equal(t, 10.0, content.ToneScore)
	assert.Equal(t, 5.0, content.FluffScore)
	assert.Equal(t, 5, content.TotalMetrics)

	assert.Equal(t, 20.0, report.Score.Format)
	assert.Equal(t, 6.8, report.Score.Keywords)
	assert.Equal(t, 4.5, report.Score.Technical)
	assert.Equal(t, []string{"Redshift", "Airflow"}, report.Technical.Technologies)
	assert.True(t, report.Technical.LargeScale)

	assert.Equal(t, []string{
		"Add metrics to 1 more bullet points",
		"Add 1 more Leadership power verbs",
		"Add 2 more Technical power verbs",
		"Add 1 more Optimization power verbs",
		"Add 1 more Scale power verbs",
		"Add 1 more Delivery power verbs",
	}, report.Recommendations)

	assert.Equal(t, []string{"ATS-friendly format", "All required sections present"}, report.Compliance.Passed)
	assert.Equal(t, []string{"Insufficient metrics (5/15)"}, report.Compliance.Failed)
	assert.Empty(t, report.Compliance.Warnings)
	assert.Equal(t, report.Recommendations, report.Compliance.Recommendations)
}

func TestSubScoresSumToOverall(t *testing.T) {
	docs := []string{"", wellFormed, richDocument, "I was built by synergy and leverage.\n\\includegraphics{me.png}"}
	analyzer := NewAnalyzer(nil)

	for _, doc := range docs {
		s := analyzer.AnalyzeComprehensive(doc).Score
		assert.InDelta(t, s.Overall, s.Content+s.Format+s.Keywords+s.Technical, 0.1)
		assert.GreaterOrEqual(t, s.Overall, 0.0)
		assert.LessOrEqual(t, s.Overall, 100.0)
		assert.LessOrEqual(t, s.Content, 50.0)
		assert.LessOrEqual(t, s.Format, 20.0)
		assert.LessOrEqual(t, s.Keywords, 20.0)
		assert.LessOrEqual(t, s.Technical, 10.0)
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	first := analyzer.AnalyzeComprehensive(richDocument)
	second := analyzer.AnalyzeComprehensive(richDocument)

	assert.Equal(t, first, second)
}

func TestGradeLadder(t *testing.T) {
	tests := []struct {
		overall float64
		want    string
	}{
		{100, "A+"},
		{95, "A+"},
		{94.9, "A"},
		{90.0, "A"},
		{89.9, "A-"},
		{85, "A-"},
		{84.9, "B+"},
		{80, "B+"},
		{75, "B"},
		{70, "B-"},
		{69.9, "C"},
		{60, "C"},
		{59.9, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, gradeFor(tt.overall), "overall %.1f", tt.overall)
	}
}

func TestATSKillersAndTables(t *testing.T) {
	doc := wellFormed + "\\includegraphics{photo.png}\n\\twocolumn\n" +
		"\\begin{tabular}{l}x\\end{tabular}\n\\begin{tabular}{l}y\\end{tabular}\n"

	report := NewAnalyzer(nil).AnalyzeComprehensive(doc)

	assert.Equal(t, []string{"Images/Graphics", "Two-column layout"}, report.Format.ATSIssues)
	assert.Equal(t, 3, report.Format.Tables)
	assert.Equal(t, 15.0, report.Score.Format)
	assert.Contains(t, report.Compliance.Failed, "ATS killer: Images/Graphics")
	assert.Contains(t, report.Compliance.Warnings, "3 tabular environments; keep the layout to a single table")
}

func TestToneAndFluff(t *testing.T) {
	doc := "I was built to leverage synergy. My team used a cutting-edge stack."

	report := NewAnalyzer(nil).AnalyzeComprehensive(doc)

	assert.Equal(t, 2, report.Content.Pronouns)
	assert.Equal(t, 1, report.Content.PassivePhrases)
	assert.Equal(t, 8.0, report.Content.ToneScore)
	assert.Equal(t, []string{"synergy", "leverage", "cutting-edge"}, report.Content.FluffWords)
	assert.Equal(t, 4.0, report.Content.FluffScore)
	assert.Contains(t, report.Compliance.Warnings, "First-person pronouns used 2 times")
}

func TestItemBulletsAndBareHeaders(t *testing.T) {
	doc := strings.Join([]string{
		"SUMMARY",
		"Engineer",
		"Experience:",
		`\begin{itemize}`,
		`\item Reduced latency by 40\%`,
		`\item Shipped the billing service`,
		`\end{itemize}`,
	}, "\n")

	report := NewAnalyzer(nil).AnalyzeComprehensive(doc)

	assert.Equal(t, 2, report.Content.Bullets)
	assert.Equal(t, 1, report.Content.BulletsWithMetrics)
	assert.Equal(t, 8.0, report.Content.MetricsScore)
	assert.Equal(t, []string{"summary", "experience"}, report.Format.SectionsFound)
	assert.Equal(t, []string{"skills", "education", "projects"}, report.Format.MissingSections)
}

func TestResumeItemsMatchNestedBraces(t *testing.T) {
	items := resumeItems(`\resumeItem{Cut \textbf{cost} by 10\} units}\resumeItem{second`)

	assert.Equal(t, []string{`Cut \textbf{cost} by 10\} units`, "second"}, items)
}

func TestAnalyzerLogsSummary(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	NewAnalyzer(zap.New(core)).AnalyzeComprehensive(wellFormed)

	entries := logs.FilterMessage("document analyzed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, 20.0, entries[0].ContextMap()["format"])
}

func TestKeywordTiersCountInflectedAndCompoundForms(t *testing.T) {
	report := NewAnalyzer(nil).AnalyzeComprehensive("Built data pipelines with PySpark and PostgreSQL on AWS. Maintained LLMs.")

	counts := make(map[string]int)
	for _, tier := range report.Keywords.Tiers {
		for keyword, n := range tier.Counts {
			counts[keyword] = n
		}
	}

	assert.Equal(t, 1, counts["Data Pipeline"])
	assert.Equal(t, 1, counts["Spark"])
	assert.Equal(t, 1, counts["SQL"])
	assert.Equal(t, 1, counts["PostgreSQL"])
	assert.Equal(t, 1, counts["AWS"])
	assert.Equal(t, 1, counts["LLM"])
	assert.Zero(t, counts["AI"], "ai inside maintained is not a mention")
	assert.Zero(t, counts["ETL"])
}

func TestHeadersWrappedInCommands(t *testing.T) {
	doc := strings.Join([]string{
		`\textbf{Summary}`,
		"Data engineer",
		`\cvsection{Skills} Python, Go`,
		`EXPERIENCE \hrule`,
		`\resumeItem{Built 12 pipelines}`,
		`{\large \textbf{Education}}`,
		"BSc",
		`\textbf{Projects}:`,
		"Toolkit",
	}, "\n")

	report := NewAnalyzer(nil).AnalyzeComprehensive(doc)

	assert.Equal(t, 20.0, report.Score.Format)
	assert.Empty(t, report.Format.MissingSections)
	assert.Equal(t, []string{"summary", "skills", "experience", "education", "projects"}, report.Format.SectionsFound)

	counts, _ := sectionWords(doc)
	assert.Equal(t, 2, counts["skills"])
	assert.Equal(t, 2, counts["experience"])
}

func TestBulletMentioningSectionNameIsNotAHeader(t *testing.T) {
	_, found := sectionWords("\\section{Experience}\n\\item Education\n\\resumeItem{\\textbf{Projects}}")

	assert.Equal(t, map[string]bool{"experience": true}, found)
}

func TestRecommendRoundsMetricsTargetUp(t *testing.T) {
	recs := recommend(ContentBreakdown{Bullets: 7, BulletsWithMetrics: 3}, FormatBreakdown{})

	require.NotEmpty(t, recs)
	assert.Equal(t, "Add metrics to 4 more bullet points", recs[0])
}
