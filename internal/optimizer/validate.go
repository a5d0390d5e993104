package optimizer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	minNumbersPreserved = 0.8
	minLengthRatio      = 0.4
	maxLengthRatio      = 3.0
)

// Verdict is the outcome of Validate.
type Verdict struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
	// NumbersPreserved is the share of the original's number tokens found in
	// the candidate; 1 when the original has none.
	NumbersPreserved float64 `json:"numbers_preserved"`
	LengthRatio      float64 `json:"length_ratio"`
}

// Validate decides whether candidate may replace original. At least 80% of
// the original's number tokens must survive verbatim and the candidate's
// length must stay within 0.4x..3.0x of the original.
func Validate(original, candidate string) Verdict {
	v := Verdict{NumbersPreserved: 1}

	if numbers := numberPattern.FindAllString(original, -1); len(numbers) > 0 {
		preserved := 0
		for _, n := range numbers {
			if strings.Contains(candidate, n) {
				preserved++
			}
		}
		v.NumbersPreserved = float64(preserved) / float64(len(numbers))
	}

	origLen := utf8.RuneCountInString(original)
	candLen := utf8.RuneCountInString(candidate)
	switch {
	case origLen > 0:
		v.LengthRatio = float64(candLen) / float64(origLen)
	case candLen == 0:
		v.LengthRatio = 1
	}

	switch {
	case v.NumbersPreserved < minNumbersPreserved:
		v.Reason = fmt.Sprintf("only %.0f%% of original numbers preserved", v.NumbersPreserved*100)
	case origLen == 0 && candLen > 0:
		v.Reason = "original is empty"
	case v.LengthRatio < minLengthRatio:
		v.Reason = fmt.Sprintf("candidate too short (%.2fx of original)", v.LengthRatio)
	case v.LengthRatio > maxLengthRatio:
		v.Reason = fmt.Sprintf("candidate too long (%.2fx of original)", v.LengthRatio)
	default:
		v.Accepted = true
	}

	return v
}
