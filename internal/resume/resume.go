package resume

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/spigell/resume-tuner/internal/keywords"
)

// Data is the complete portfolio. Experience is ordered newest first.
type Data struct {
	Contact        Contact         `yaml:"contact" validate:"required"`
	Summary        Summary         `yaml:"summary" validate:"required"`
	Skills         []SkillCategory `yaml:"skills" validate:"dive"`
	Experience     []Experience    `yaml:"experience" validate:"dive"`
	Projects       []Project       `yaml:"projects" validate:"dive"`
	Education      []Education     `yaml:"education" validate:"dive"`
	Certifications []Certification `yaml:"certifications" validate:"dive"`
	Publications   []Publication   `yaml:"publications" validate:"dive"`
}

type Contact struct {
	Name     string `yaml:"name" validate:"required"`
	Email    string `yaml:"email" validate:"omitempty,email"`
	Phone    string `yaml:"phone"`
	Location string `yaml:"location"`
	LinkedIn string `yaml:"linkedin" validate:"omitempty,url"`
	GitHub   string `yaml:"github" validate:"omitempty,url"`
	Website  string `yaml:"website" validate:"omitempty,url"`
}

// Summary is the professional headline. When Text is set it is used verbatim
// instead of being composed from the other fields.
type Summary struct {
	Title             string   `yaml:"title" validate:"required"`
	YearsOfExperience int      `yaml:"years_of_experience" validate:"gte=0"`
	Specializations   []string `yaml:"specializations"`
	KeyAchievement    string   `yaml:"key_achievement"`
	Text              string   `yaml:"text"`
}

// SkillCategory groups skills under a heading. Higher Priority categories
// are listed first.
type SkillCategory struct {
	Name     string   `yaml:"category" validate:"required"`
	Skills   []string `yaml:"skills"`
	Priority int      `yaml:"priority"`
}

// ByPriority returns a copy of skills ordered by descending Priority. Equal
// priorities keep their portfolio order.
func ByPriority(skills []SkillCategory) []SkillCategory {
	sorted := slices.Clone(skills)
	slices.SortStableFunc(sorted, func(a, b SkillCategory) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	return sorted
}

type Experience struct {
	Position     string   `yaml:"position" validate:"required"`
	Company      string   `yaml:"company" validate:"required"`
	Location     string   `yaml:"location"`
	StartDate    string   `yaml:"start_date"`
	EndDate      string   `yaml:"end_date"`
	Achievements []string `yaml:"achievements"`
	Technologies []string `yaml:"technologies"`
	Current      bool     `yaml:"current"`
}

type Project struct {
	Name         string            `yaml:"name" validate:"required"`
	Description  string            `yaml:"description"`
	Technologies []string          `yaml:"technologies"`
	Metrics      map[string]string `yaml:"metrics"`
	URL          string            `yaml:"url" validate:"omitempty,url"`
	Featured     bool              `yaml:"featured"`
}

type Education struct {
	Degree         string   `yaml:"degree"`
	Field          string   `yaml:"field"`
	Institution    string   `yaml:"institution" validate:"required"`
	Location       string   `yaml:"location"`
	GraduationYear string   `yaml:"graduation_year"`
	GPA            string   `yaml:"gpa"`
	Coursework     []string `yaml:"coursework"`
}

type Certification struct {
	Name         string `yaml:"name" validate:"required"`
	Issuer       string `yaml:"issuer"`
	DateIssued   string `yaml:"date_issued"`
	CredentialID string `yaml:"credential_id"`
	URL          string `yaml:"url" validate:"omitempty,url"`
}

type Publication struct {
	Title   string   `yaml:"title" validate:"required"`
	Venue   string   `yaml:"venue"`
	Date    string   `yaml:"date"`
	Authors []string `yaml:"authors"`
	URL     string   `yaml:"url" validate:"omitempty,url"`
}

// Compose returns the summary text used for rewriting and rendering.
func (s Summary) Compose() string {
	if text := strings.TrimSpace(s.Text); text != "" {
		return text
	}

	specializations := "various technologies"
	if len(s.Specializations) > 0 {
		specializations = strings.Join(s.Specializations, ", ")
	}

	text := fmt.Sprintf("%s with %d+ years specializing in %s.", strings.TrimSpace(s.Title), s.YearsOfExperience, specializations)
	if achievement := strings.TrimSpace(s.KeyAchievement); achievement != "" {
		text += " " + achievement
	}
	return text
}

// FeaturedProjects returns the indexes of projects flagged as featured, in list order.
func (d *Data) FeaturedProjects() []int {
	var idx []int
	for i, p := range d.Projects {
		if p.Featured {
			idx = append(idx, i)
		}
	}
	return idx
}

// UserExperience collects the candidate's own vocabulary for keyword profiling.
func (d *Data) UserExperience() *keywords.UserExperience {
	exp := &keywords.UserExperience{}
	for _, category := range d.Skills {
		exp.Skills = append(exp.Skills, category.Skills...)
	}
	for _, e := range d.Experience {
		exp.Technologies = append(exp.Technologies, e.Technologies...)
		exp.Achievements = append(exp.Achievements, e.Achievements...)
	}
	for _, p := range d.Projects {
		exp.Technologies = append(exp.Technologies, p.Technologies...)
	}
	return exp
}

// Clone returns a deep copy so rewrites never touch the caller's data.
func (d *Data) Clone() *Data {
	if d == nil {
		return nil
	}

	out := *d
	out.Summary.Specializations = cloneStrings(d.Summary.Specializations)

	out.Skills = make([]SkillCategory, len(d.Skills))
	for i, s := range d.Skills {
		s.Skills = cloneStrings(s.Skills)
		out.Skills[i] = s
	}

	out.Experience = make([]Experience, len(d.Experience))
	for i, e := range d.Experience {
		e.Achievements = cloneStrings(e.Achievements)
		e.Technologies = cloneStrings(e.Technologies)
		out.Experience[i] = e
	}

	out.Projects = make([]Project, len(d.Projects))
	for i, p := range d.Projects {
		p.Technologies = cloneStrings(p.Technologies)
		if p.Metrics != nil {
			metrics := make(map[string]string, len(p.Metrics))
			for k, v := range p.Metrics {
				metrics[k] = v
			}
			p.Metrics = metrics
		}
		out.Projects[i] = p
	}

	out.Education = make([]Education, len(d.Education))
	for i, e := range d.Education {
		e.Coursework = cloneStrings(e.Coursework)
		out.Education[i] = e
	}

	out.Certifications = append([]Certification(nil), d.Certifications...)

	out.Publications = make([]Publication, len(d.Publications))
	for i, p := range d.Publications {
		p.Authors = cloneStrings(p.Authors)
		out.Publications[i] = p
	}

	return &out
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}
