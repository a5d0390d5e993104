package render

import "strings"

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// EscapeLaTeX escapes the characters LaTeX treats specially. Replacement is
// done in a single pass, so the braces of \textbackslash{} stay intact.
func EscapeLaTeX(text string) string {
	return strings.TrimSpace(latexReplacer.Replace(text))
}

func escapeJoin(values []string, sep string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = EscapeLaTeX(v); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}
