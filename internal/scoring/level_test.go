package scoring

import "testing"

func TestResolveLevel(t *testing.T) {
	r := NewLevelResolver(DefaultLevelTable())

	cases := []struct {
		title string
		want  Level
	}{
		{"Senior Software Engineer", Senior},
		{"  junior   developer ", Junior},
		{"TECH LEAD", Lead},
		{"software engineer", Mid},
		{"Staff Wizard", Mid},
		{"", Mid},
		{"senior software engineering manager", Mid},
	}
	for _, tc := range cases {
		if got := r.ResolveLevel(tc.title); got != tc.want {
			t.Fatalf("ResolveLevel(%q) = %s, want %s", tc.title, got, tc.want)
		}
	}
}

func TestBaseTargetsMonotonic(t *testing.T) {
	r := NewLevelResolver(DefaultLevelTable())

	for i := 0; i < len(Levels); i++ {
		for j := i + 1; j < len(Levels); j++ {
			lo := r.BaseTargets(Levels[i])
			hi := r.BaseTargets(Levels[j])
			for _, m := range Metrics() {
				if lo[m] > hi[m] {
					t.Fatalf("%s %s=%d exceeds %s %s=%d", Levels[i], m, lo[m], Levels[j], m, hi[m])
				}
			}
		}
	}
}

func TestBaseTargetsComplete(t *testing.T) {
	r := NewLevelResolver(DefaultLevelTable())

	for _, l := range Levels {
		targets := r.BaseTargets(l)
		if !targets.Complete() {
			t.Fatalf("%s targets incomplete: %v", l, targets)
		}
		for m, v := range targets {
			if v < 0 || v > MaxMetricScore {
				t.Fatalf("%s %s=%d out of range", l, m, v)
			}
		}
	}

	lead := r.BaseTargets(Lead)
	for _, m := range Metrics() {
		if lead[m] != 9 {
			t.Fatalf("lead %s=%d, want 9", m, lead[m])
		}
	}
	if got := r.BaseTargets(Mid).Total(); got != 59 {
		t.Fatalf("mid total = %d, want 59", got)
	}
}

func TestBaseTargetsReturnsCopy(t *testing.T) {
	r := NewLevelResolver(DefaultLevelTable())

	first := r.BaseTargets(Junior)
	first[Optimization] = 0
	if again := r.BaseTargets(Junior); again[Optimization] != 5 {
		t.Fatalf("table mutated through returned scores: %d", again[Optimization])
	}
}
