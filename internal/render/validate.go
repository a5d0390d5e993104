package render

import (
	"errors"
	"fmt"
	"strings"
)

const minDocumentLength = 100

var (
	requiredMarkers      = []string{`\documentclass`, `\begin{document}`, `\end{document}`}
	balancedEnvironments = []string{"itemize", "enumerate", "tabular", "center"}
)

// Validate checks that doc is a complete LaTeX document: the class,
// begin and end document markers are present, list, table and centering
// environments are balanced, and the text is not trivially short. Every
// problem found is joined into the returned error.
func Validate(doc string) error {
	var problems []error

	if n := len(strings.TrimSpace(doc)); n < minDocumentLength {
		problems = append(problems, fmt.Errorf("document too short: %d characters", n))
	}

	for _, marker := range requiredMarkers {
		if !strings.Contains(doc, marker) {
			problems = append(problems, fmt.Errorf("missing %s", marker))
		}
	}

	for _, env := range balancedEnvironments {
		begins := strings.Count(doc, `\begin{`+env+`}`)
		ends := strings.Count(doc, `\end{`+env+`}`)
		if begins != ends {
			problems = append(problems, fmt.Errorf("unbalanced %s environment: %d begin, %d end", env, begins, ends))
		}
	}

	return errors.Join(problems...)
}
