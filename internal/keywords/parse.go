package keywords

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// objectSpans returns every balanced {...} span of raw in order of its
// opening brace. A brace that never closes yields nothing.
func objectSpans(raw string) []string {
	var spans []string
	for start := strings.IndexByte(raw, '{'); start >= 0; start = nextBrace(raw, start) {
		if object, ok := balancedObject(raw[start:]); ok {
			spans = append(spans, object)
		}
	}
	return spans
}

func nextBrace(raw string, after int) int {
	i := strings.IndexByte(raw[after+1:], '{')
	if i < 0 {
		return -1
	}
	return after + 1 + i
}

// balancedObject returns the prefix of s, which starts with '{', up to its
// matching brace. Braces inside JSON string literals are ignored.
func balancedObject(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}

	return "", false
}

// decodeObject decodes the first {...} span of raw that is valid JSON, so
// prose such as "use {braces}" before the answer does not hide it.
func decodeObject(raw string) (map[string]any, error) {
	err := errors.New("no JSON object found in response")
	for _, object := range objectSpans(raw) {
		var fields map[string]any
		if decodeErr := json.Unmarshal([]byte(object), &fields); decodeErr != nil {
			err = fmt.Errorf("decode keyword object: %w", decodeErr)
			continue
		}
		return fields, nil
	}
	return nil, err
}

// parseProfile decodes a generator answer leniently: scalars are lifted to
// lists and numbers become strings.
func parseProfile(raw string) (Profile, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return Profile{}, err
	}

	var profile Profile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &profile,
	})
	if err != nil {
		return Profile{}, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(fields); err != nil {
		return Profile{}, fmt.Errorf("map keyword object: %w", err)
	}

	profile.Primary = cleanList(profile.Primary)
	profile.Secondary = cleanList(profile.Secondary)
	profile.Technical = cleanList(profile.Technical)
	profile.Buzzwords = cleanList(profile.Buzzwords)
	profile.PowerVerbs = cleanGroups(profile.PowerVerbs)
	profile.Synonyms = cleanGroups(profile.Synonyms)

	return profile, nil
}

// backfill replaces every empty part of p with the fallback's.
func backfill(p, fallback Profile) Profile {
	if len(p.Primary) == 0 {
		p.Primary = fallback.Primary
	}
	if len(p.Secondary) == 0 {
		p.Secondary = fallback.Secondary
	}
	if len(p.Technical) == 0 {
		p.Technical = fallback.Technical
	}
	if len(p.PowerVerbs) == 0 {
		p.PowerVerbs = fallback.PowerVerbs
	}
	if len(p.Buzzwords) == 0 {
		p.Buzzwords = fallback.Buzzwords
	}
	if len(p.Synonyms) == 0 {
		p.Synonyms = fallback.Synonyms
	}
	return p
}

func cleanList(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cleanGroups(groups map[string][]string) map[string][]string {
	out := make(map[string][]string, len(groups))
	for k, v := range groups {
		k = strings.TrimSpace(k)
		v = cleanList(v)
		if k == "" || len(v) == 0 {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
