package scoring

import (
	"reflect"
	"strings"
	"testing"
)

func seniorTargets() Scores {
	return NewLevelResolver(DefaultLevelTable()).BaseTargets(Senior)
}

func TestMetricsNeedingImprovement(t *testing.T) {
	c := NewComparator()
	target := seniorTargets()

	got := c.MetricsNeedingImprovement(Scores{ProblemUnderstanding: 5}, target)
	if !reflect.DeepEqual(got, []string{"Problem Understanding"}) {
		t.Fatalf("got %q", got)
	}

	if got := c.MetricsNeedingImprovement(Scores{ProblemUnderstanding: 9}, target); len(got) != 0 {
		t.Fatalf("above target must be excluded, got %q", got)
	}

	got = c.MetricsNeedingImprovement(Scores{Optimization: 1, Communication: 9, EdgeCases: 2}, target)
	if !reflect.DeepEqual(got, []string{"Edge Cases", "Optimization"}) {
		t.Fatalf("got %q", got)
	}

	if got := c.MetricsNeedingImprovement(Scores{}, target); len(got) != 0 {
		t.Fatalf("unreported metrics must be skipped, got %q", got)
	}
}

func fullScores(v int) Scores {
	s := Scores{}
	for _, m := range Metrics() {
		s[m] = v
	}
	return s
}

func TestComposeFeedbackReady(t *testing.T) {
	target := seniorTargets()
	current := fullScores(10)
	current[EdgeCases] = 1
	current[Optimization] = 1

	for i := range EncouragingQuotes {
		c := NewComparatorWithPicker(func(n int) int { return i })
		if got := c.Achieved(current, target); got != 6 {
			t.Fatalf("achieved = %d", got)
		}
		msg := c.ComposeFeedback(current, target)
		if !strings.Contains(msg, "6 out of 8") {
			t.Fatalf("missing count: %q", msg)
		}
		if !strings.Contains(msg, "ready") {
			t.Fatalf("missing readiness: %q", msg)
		}
		if !strings.Contains(msg, EncouragingQuotes[i]) {
			t.Fatalf("missing quote %d: %q", i, msg)
		}
	}
}

func TestComposeFeedbackRandomQuote(t *testing.T) {
	c := NewComparator()
	msg := c.ComposeFeedback(fullScores(10), seniorTargets())

	found := 0
	for _, q := range EncouragingQuotes {
		if strings.Contains(msg, q) {
			found++
		}
	}
	if found != 1 || !strings.Contains(msg, "8 out of 8") {
		t.Fatalf("unexpected feedback %q", msg)
	}
}

func TestComposeFeedbackNotReady(t *testing.T) {
	c := NewComparator()
	target := seniorTargets()
	current := Scores{ProblemUnderstanding: 10, DataStructureChoice: 10, TimeComplexity: 10, EdgeCases: 2}

	if c.IsReady(current, target) {
		t.Fatal("3 of 8 must not be ready")
	}
	msg := c.ComposeFeedback(current, target)
	if !strings.Contains(msg, "3 out of 8") {
		t.Fatalf("missing count: %q", msg)
	}
	if strings.Contains(strings.ToLower(msg), "ready") {
		t.Fatalf("must not claim readiness: %q", msg)
	}
	for _, q := range EncouragingQuotes {
		if strings.Contains(msg, q) {
			t.Fatalf("quote in non-ready feedback: %q", msg)
		}
	}
	if !strings.Contains(msg, "Edge Cases") {
		t.Fatalf("missing focus areas: %q", msg)
	}
}
