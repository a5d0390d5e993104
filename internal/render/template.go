package render

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/spigell/resume-tuner/internal/resume"
)

//go:embed templates/*.tex.tmpl
var templateFiles embed.FS

// Template turns portfolio sections into LaTeX. Every Format method returns
// an empty string when there is nothing to render, so the section is left
// out of the document.
type Template interface {
	Name() string
	Description() string
	Preamble() (string, error)
	FormatHeader(contact resume.Contact) (string, error)
	FormatSummary(summary resume.Summary) (string, error)
	FormatSkills(skills []resume.SkillCategory) (string, error)
	FormatExperience(experience []resume.Experience) (string, error)
	FormatProjects(projects []resume.Project) (string, error)
	FormatEducation(education []resume.Education) (string, error)
	FormatCertifications(certs []resume.Certification, pubs []resume.Publication) (string, error)
}

type limits struct {
	skillCategories int
	skills          int
	experiences     int
	bullets         int
	projects        int
	technologies    int
	certifications  int
	publications    int
}

// latexTemplate renders sections through named blocks of one embedded
// text/template file. Delimiters are << >> so LaTeX braces need no quoting.
type latexTemplate struct {
	name        string
	description string
	tmpl        *template.Template
	limits      limits
}

func parseTemplate(name string) (*template.Template, error) {
	file := "templates/" + name + ".tex.tmpl"
	tmpl, err := template.New(name).
		Delims("<<", ">>").
		Funcs(template.FuncMap{
			"escape": EscapeLaTeX,
			"join":   escapeJoin,
		}).
		ParseFS(templateFiles, file)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", file, err)
	}
	return tmpl, nil
}

func (t *latexTemplate) Name() string        { return t.name }
func (t *latexTemplate) Description() string { return t.description }

func (t *latexTemplate) execute(block string, data any) (string, error) {
	var b strings.Builder
	if err := t.tmpl.ExecuteTemplate(&b, block, data); err != nil {
		return "", fmt.Errorf("render %s %s: %w", t.name, block, err)
	}
	return strings.TrimSpace(b.String()), nil
}

func (t *latexTemplate) Preamble() (string, error) {
	return t.execute("preamble", nil)
}

type link struct {
	URL     string
	Display string
}

type headerView struct {
	Name    string
	Details []string
	Links   []link
}

func (t *latexTemplate) FormatHeader(contact resume.Contact) (string, error) {
	view := headerView{
		Name:    contact.Name,
		Details: []string{contact.Phone, contact.Email, contact.Location},
	}
	for _, url := range []string{contact.LinkedIn, contact.GitHub, contact.Website} {
		if url = strings.TrimSpace(url); url != "" {
			view.Links = append(view.Links, link{URL: url, Display: displayURL(url)})
		}
	}
	return t.execute("header", view)
}

func (t *latexTemplate) FormatSummary(summary resume.Summary) (string, error) {
	if strings.TrimSpace(summary.Title) == "" && strings.TrimSpace(summary.Text) == "" {
		return "", nil
	}
	return t.execute("summary", summary.Compose())
}

func (t *latexTemplate) FormatSkills(skills []resume.SkillCategory) (string, error) {
	skills = head(resume.ByPriority(skills), t.limits.skillCategories)
	if len(skills) == 0 {
		return "", nil
	}
	view := make([]resume.SkillCategory, len(skills))
	for i, category := range skills {
		category.Skills = head(category.Skills, t.limits.skills)
		view[i] = category
	}
	return t.execute("skills", view)
}

type experienceView struct {
	Company  string
	Position string
	Location string
	Dates    string
	Bullets  []string
}

func (t *latexTemplate) FormatExperience(experience []resume.Experience) (string, error) {
	experience = head(experience, t.limits.experiences)
	if len(experience) == 0 {
		return "", nil
	}
	view := make([]experienceView, 0, len(experience))
	for _, e := range experience {
		view = append(view, experienceView{
			Company:  e.Company,
			Position: e.Position,
			Location: e.Location,
			Dates:    dates(e),
			Bullets:  nonBlank(head(e.Achievements, t.limits.bullets)),
		})
	}
	return t.execute("experience", view)
}

type projectView struct {
	Name         string
	Description  string
	Technologies []string
	Link         string
}

func (t *latexTemplate) FormatProjects(projects []resume.Project) (string, error) {
	var view []projectView
	for _, p := range projects {
		if !p.Featured {
			continue
		}
		view = append(view, projectView{
			Name:         p.Name,
			Description:  strings.TrimSpace(p.Description),
			Technologies: head(p.Technologies, t.limits.technologies),
			Link:         displayURL(p.URL),
		})
		if len(view) == t.limits.projects {
			break
		}
	}
	if len(view) == 0 {
		return "", nil
	}
	return t.execute("projects", view)
}

type educationView struct {
	Institution string
	Location    string
	Degree      string
	Year        string
	GPA         string
}

func (t *latexTemplate) FormatEducation(education []resume.Education) (string, error) {
	if len(education) == 0 {
		return "", nil
	}
	view := make([]educationView, 0, len(education))
	for _, e := range education {
		degree := e.Degree
		if e.Field != "" {
			degree = strings.TrimSpace(degree + " in " + e.Field)
		}
		view = append(view, educationView{
			Institution: e.Institution,
			Location:    e.Location,
			Degree:      degree,
			Year:        e.GraduationYear,
			GPA:         e.GPA,
		})
	}
	return t.execute("education", view)
}

type creditView struct {
	Title  string
	Source string
	Date   string
}

func (t *latexTemplate) FormatCertifications(certs []resume.Certification, pubs []resume.Publication) (string, error) {
	var view []creditView
	for _, c := range head(certs, t.limits.certifications) {
		view = append(view, creditView{Title: c.Name, Source: c.Issuer, Date: c.DateIssued})
	}
	for _, p := range head(pubs, t.limits.publications) {
		view = append(view, creditView{Title: p.Title, Source: p.Venue, Date: p.Date})
	}
	if len(view) == 0 {
		return "", nil
	}
	return t.execute("certifications", view)
}

func dates(e resume.Experience) string {
	end := strings.TrimSpace(e.EndDate)
	if end == "" && e.Current {
		end = "Present"
	}
	start := strings.TrimSpace(e.StartDate)
	switch {
	case start != "" && end != "":
		return start + " -- " + end
	case start != "":
		return start
	default:
		return end
	}
}

func displayURL(url string) string {
	url = strings.TrimSpace(url)
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "www.")
	return strings.TrimSuffix(url, "/")
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func head[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
