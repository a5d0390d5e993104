package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultTemplate is used when a requested template is not registered.
const DefaultTemplate = "jake"

const (
	jakeDescription    = "Single-column ATS-friendly layout based on Jake's résumé"
	classicDescription = "Clean professional layout with a tabular skills block"
)

// Factory builds a fresh Template.
type Factory func() (Template, error)

// Info describes a registered template.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type entry struct {
	factory     Factory
	description string
}

// Registry maps template names to factories. Templates are registered
// explicitly at start-up; NewRegistry already holds the built-in ones.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]entry)}
	r.mustRegister("jake", jakeDescription, newJake)
	r.mustRegister("classic", classicDescription, newClassic)
	return r
}

func (r *Registry) mustRegister(name, description string, factory Factory) {
	if err := r.Register(name, description, factory); err != nil {
		panic(err)
	}
}

// Register adds a template under a case-insensitive name.
func (r *Registry) Register(name, description string, factory Factory) error {
	name = normalizeName(name)
	if name == "" {
		return errors.New("template name must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("template %q: factory is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("template %q is already registered", name)
	}
	r.entries[name] = entry{factory: factory, description: description}
	return nil
}

// Get returns the named template. Unknown names fall back to
// DefaultTemplate and report false.
func (r *Registry) Get(name string) (Template, bool, error) {
	r.mu.RLock()
	e, ok := r.entries[normalizeName(name)]
	if !ok {
		e, ok = r.entries[DefaultTemplate], false
	}
	r.mu.RUnlock()

	if e.factory == nil {
		return nil, false, fmt.Errorf("template %q is not registered and no default is available", name)
	}

	t, err := e.factory()
	if err != nil {
		return nil, false, err
	}
	return t, ok, nil
}

// List returns registered templates sorted by name.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Info, 0, len(r.entries))
	for name, e := range r.entries {
		out = append(out, Info{Name: name, Description: e.description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the registered template names, sorted.
func (r *Registry) Names() []string {
	infos := r.List()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func newJake() (Template, error) {
	tmpl, err := parseTemplate("jake")
	if err != nil {
		return nil, err
	}
	return &latexTemplate{
		name:        "jake",
		description: jakeDescription,
		tmpl:        tmpl,
		limits: limits{
			skillCategories: 6,
			skills:          10,
			experiences:     3,
			bullets:         7,
			projects:        3,
			technologies:    5,
			certifications:  5,
			publications:    3,
		},
	}, nil
}

func newClassic() (Template, error) {
	tmpl, err := parseTemplate("classic")
	if err != nil {
		return nil, err
	}
	return &latexTemplate{
		name:        "classic",
		description: classicDescription,
		tmpl:        tmpl,
		limits: limits{
			skillCategories: 6,
			skills:          10,
			experiences:     3,
			bullets:         6,
			projects:        3,
			technologies:    5,
			certifications:  5,
			publications:    3,
		},
	}, nil
}
