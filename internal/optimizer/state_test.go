package optimizer

import (
	"reflect"
	"testing"
)

func TestStateCounters(t *testing.T) {
	t.Parallel()

	s := NewState()
	if s.Coverage() != 0 {
		t.Fatalf("expected zero coverage for empty state, got %v", s.Coverage())
	}

	s.RegisterVerb("Built")
	s.RegisterVerb(" built ")
	s.RegisterVerb("Led")
	s.RegisterVerb("")
	s.RegisterBullets(4, 1)
	s.RegisterBullets(-3, -1)
	s.addMetricBullet()

	if s.VerbCount("BUILT") != 2 || s.VerbCount("led") != 1 {
		t.Fatalf("unexpected counts %v", s.VerbCounts())
	}
	if s.BulletsTotal() != 4 || s.BulletsWithMetrics() != 2 || s.Coverage() != 0.5 {
		t.Fatalf("unexpected coverage %d/%d", s.BulletsWithMetrics(), s.BulletsTotal())
	}

	counts := s.VerbCounts()
	counts["built"] = 0
	if s.VerbCount("built") != 2 {
		t.Fatal("VerbCounts must return a copy")
	}
}

func TestStateOverusedAndTopVerbs(t *testing.T) {
	t.Parallel()

	s := NewState()
	for _, verb := range []string{"led", "built", "built", "built", "scaled", "led", "led", "shipped"} {
		s.RegisterVerb(verb)
	}

	if got := s.Overused(3); !reflect.DeepEqual(got, []string{"led", "built"}) {
		t.Fatalf("unexpected overused verbs %v", got)
	}

	want := []VerbCount{{Verb: "led", Count: 3}, {Verb: "built", Count: 3}, {Verb: "scaled", Count: 1}}
	if got := s.TopVerbs(3); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
