package optimizer

import (
	"sort"
	"strings"
)

// State is the cross-document bookkeeping of one optimization run: how often
// every power verb has been used and how many eligible bullets carry a
// metric. Counters never decrease. A State belongs to exactly one run and is
// not safe for concurrent use; rewrites sharing it must be issued in document
// order from a single goroutine.
type State struct {
	verbs              map[string]int
	order              []string
	bulletsTotal       int
	bulletsWithMetrics int
}

// VerbCount is one entry of State.TopVerbs.
type VerbCount struct {
	Verb  string `json:"verb"`
	Count int    `json:"count"`
}

func NewState() *State {
	return &State{verbs: make(map[string]int)}
}

// RegisterVerb records one more use of verb (case-insensitive).
func (s *State) RegisterVerb(verb string) {
	verb = strings.ToLower(strings.TrimSpace(verb))
	if verb == "" {
		return
	}
	if _, ok := s.verbs[verb]; !ok {
		s.order = append(s.order, verb)
	}
	s.verbs[verb]++
}

func (s *State) VerbCount(verb string) int {
	return s.verbs[strings.ToLower(strings.TrimSpace(verb))]
}

// VerbCounts returns a copy of the verb usage table.
func (s *State) VerbCounts() map[string]int {
	out := make(map[string]int, len(s.verbs))
	for verb, count := range s.verbs {
		out[verb] = count
	}
	return out
}

// Overused lists verbs used at least threshold times, in first-use order.
func (s *State) Overused(threshold int) []string {
	var out []string
	for _, verb := range s.order {
		if s.verbs[verb] >= threshold {
			out = append(out, verb)
		}
	}
	return out
}

// RegisterBullets adds eligible bullets to the coverage totals. Negative
// values are ignored.
func (s *State) RegisterBullets(total, withMetrics int) {
	if total > 0 {
		s.bulletsTotal += total
	}
	if withMetrics > 0 {
		s.bulletsWithMetrics += withMetrics
	}
}

func (s *State) addMetricBullet() {
	s.bulletsWithMetrics++
}

func (s *State) BulletsTotal() int       { return s.bulletsTotal }
func (s *State) BulletsWithMetrics() int { return s.bulletsWithMetrics }

// Coverage is the share of eligible bullets carrying a metric, 0 when no
// bullet was registered yet.
func (s *State) Coverage() float64 {
	if s.bulletsTotal == 0 {
		return 0
	}
	return float64(s.bulletsWithMetrics) / float64(s.bulletsTotal)
}

// TopVerbs returns the n most used verbs; ties keep first-use order.
func (s *State) TopVerbs(n int) []VerbCount {
	out := make([]VerbCount, 0, len(s.order))
	for _, verb := range s.order {
		out = append(out, VerbCount{Verb: verb, Count: s.verbs[verb]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
