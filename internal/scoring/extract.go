package scoring

import "strings"

// resumeItems returns the bodies of every \resumeItem{...} call, matching
// braces so nested \textbf{} and friends stay inside the bullet.
func resumeItems(doc string) []string {
	var items []string
	rest := doc
	for {
		i := strings.Index(rest, resumeItemMacro)
		if i < 0 {
			return items
		}
		rest = rest[i+len(resumeItemMacro):]

		end := closingBrace(rest)
		if end < 0 {
			return append(items, rest)
		}
		items = append(items, rest[:end])
		rest = rest[end+1:]
	}
}

// closingBrace returns the index of the brace closing an already opened
// group, or -1. Escaped characters such as \{ and \} are skipped.
func closingBrace(s string) int {
	depth := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func itemLines(doc string) []string {
	var items []string
	for _, m := range itemPattern.FindAllStringSubmatch(doc, -1) {
		items = append(items, m[1])
	}
	return items
}

// sectionWords walks the document line by line and counts the words under
// each recognised section. A header is \section{...}, a line that names a
// section once LaTeX commands are stripped (\textbf{Experience}, EXPERIENCE
// followed by \hrule), or a line opening with a command whose argument names
// a section; text after that argument belongs to the new section.
func sectionWords(doc string) (map[string]int, map[string]bool) {
	counts := make(map[string]int)
	found := make(map[string]bool)

	current := ""
	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "%") {
			continue
		}

		if m := sectionPattern.FindStringSubmatch(trimmed); m != nil {
			current = canonicalSection(m[1])
			if current != "" {
				found[current] = true
			}
			continue
		}

		if !isBullet(trimmed) {
			if name := canonicalSection(stripCommands(trimmed)); name != "" {
				current = name
				found[current] = true
				continue
			}
			if m := headerCommandPattern.FindStringSubmatch(trimmed); m != nil {
				if name := canonicalSection(m[1]); name != "" {
					current = name
					found[current] = true
					trimmed = m[2]
				}
			}
		}

		if current != "" {
			counts[current] += countWords(trimmed)
		}
	}
	return counts, found
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, resumeItemMacro) || itemPattern.MatchString(line)
}

func stripCommands(line string) string {
	line = latexCommandPattern.ReplaceAllString(line, " ")
	return strings.Map(func(r rune) rune {
		if r == '{' || r == '}' {
			return -1
		}
		return r
	}, line)
}

func canonicalSection(header string) string {
	header = strings.ToLower(strings.TrimSpace(header))
	header = strings.TrimSpace(strings.TrimSuffix(header, ":"))
	for _, group := range sectionGroups {
		for _, h := range group.Headers {
			if header == h {
				return group.Name
			}
		}
	}
	return ""
}

func countWords(line string) int {
	line = latexCommandPattern.ReplaceAllString(line, " ")
	return len(wordPattern.FindAllString(line, -1))
}

func hasMetric(text string) bool {
	for _, p := range metricPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// countMetrics counts distinct metric strings in the whole document.
func countMetrics(doc string) int {
	seen := make(map[string]struct{})
	for _, p := range metricPatterns {
		for _, m := range p.FindAllString(doc, -1) {
			seen[m] = struct{}{}
		}
	}
	return len(seen)
}
