package render

import (
	"errors"
	"strings"

	"github.com/spigell/resume-tuner/internal/resume"
)

// Document renders the complete LaTeX source for data. Sections are emitted
// in a fixed order: header, summary, skills, experience, projects,
// education, certifications. Empty sections are omitted.
func Document(t Template, data *resume.Data) (string, error) {
	if t == nil {
		return "", errors.New("template is nil")
	}
	if data == nil {
		return "", errors.New("portfolio data is nil")
	}

	preamble, err := t.Preamble()
	if err != nil {
		return "", err
	}

	sections := []func() (string, error){
		func() (string, error) { return t.FormatHeader(data.Contact) },
		func() (string, error) { return t.FormatSummary(data.Summary) },
		func() (string, error) { return t.FormatSkills(data.Skills) },
		func() (string, error) { return t.FormatExperience(data.Experience) },
		func() (string, error) { return t.FormatProjects(data.Projects) },
		func() (string, error) { return t.FormatEducation(data.Education) },
		func() (string, error) { return t.FormatCertifications(data.Certifications, data.Publications) },
	}

	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\n\\begin{document}\n")
	for _, section := range sections {
		text, err := section()
		if err != nil {
			return "", err
		}
		if text == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(text)
		b.WriteString("\n")
	}
	b.WriteString("\n\\end{document}\n")

	return b.String(), nil
}
