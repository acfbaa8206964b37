package scoring

import "testing"

func TestExtractTitle(t *testing.T) {
	e := NewTitleExtractor(DefaultTitlePatterns())

	cases := []struct {
		name string
		text string
		want string
	}{
		{"role context with seniority", "I want to prepare for a Senior Software Engineer role", "Senior Software Engineer"},
		{"comma short circuit", "a, b, c", ""},
		{"comma with title", "senior developer, python, 4 weeks", ""},
		{"help phrase", "Can you help me get ready for lead developer interviews?", "Lead Developer"},
		{"engineering normalized", "I am applying as a software engineering intern", "Software Engineer"},
		{"bare seniority role", "junior programmer", "Junior Programmer"},
		{"bare role", "Engineer", "Engineer"},
		{"no title", "I like trains", ""},
		{"empty", "   ", ""},
		{"position keyword", "the position is principal engineer at a startup", "Principal Engineer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.ExtractTitle(tc.text); got != tc.want {
				t.Fatalf("ExtractTitle(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestExtractTitleIsDeterministic(t *testing.T) {
	e := NewTitleExtractor(DefaultTitlePatterns())
	text := "please help me become a senior software engineer"
	first := e.ExtractTitle(text)
	for i := 0; i < 5; i++ {
		if got := e.ExtractTitle(text); got != first {
			t.Fatalf("run %d: %q != %q", i, got, first)
		}
	}
	if first != "Senior Software Engineer" {
		t.Fatalf("got %q", first)
	}
}

func TestTitlePatternOrder(t *testing.T) {
	patterns := DefaultTitlePatterns()
	want := []string{"help", "role-context", "seniority-role", "role"}
	if len(patterns) != len(want) {
		t.Fatalf("got %d patterns, want %d", len(patterns), len(want))
	}
	for i, p := range patterns {
		if p.Name != want[i] {
			t.Fatalf("pattern %d = %s, want %s", i, p.Name, want[i])
		}
	}

	// 只有第 4 条规则能命中的输入
	if m := patterns[3].Expr.FindStringSubmatch("programmer"); m == nil || m[1] != "programmer" {
		t.Fatalf("bare role pattern: %v", m)
	}
}

func TestExtractTitleFromHistory(t *testing.T) {
	e := NewTitleExtractor(DefaultTitlePatterns())

	t.Run("assistant confirmation short circuits", func(t *testing.T) {
		history := []Turn{
			{Role: RoleUser, Content: "I want a junior developer job"},
			{Role: RoleAssistant, Content: "Great! Here is a problem for a Senior Software Engineer role.\n\nProblem Title: Two Sum"},
		}
		if got := e.ExtractTitleFromHistory(history, "next please"); got != "Senior Software Engineer" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("onboarding question is ignored", func(t *testing.T) {
		history := []Turn{
			{Role: RoleAssistant, Content: "To provide you with the most relevant interview questions, could you please let me know what job title you're targeting? (e.g., Software Engineer, Senior Software Engineer, Lead Software Engineer, etc.) This is for a Lead Software Engineer role example."},
		}
		if got := e.ExtractTitleFromHistory(history, "tech stuff"); got != "" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("latest user message wins over older ones", func(t *testing.T) {
		history := []Turn{
			{Role: RoleUser, Content: "I was a junior developer"},
			{Role: RoleAssistant, Content: "Tell me more."},
		}
		if got := e.ExtractTitleFromHistory(history, "now I target a lead engineer position"); got != "Lead Engineer" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("falls back to older user messages", func(t *testing.T) {
		history := []Turn{
			{Role: RoleUser, Content: "I want to be a senior developer"},
			{Role: RoleAssistant, Content: "Which languages do you use?"},
			{Role: RoleUser, Content: "python, go"},
		}
		if got := e.ExtractTitleFromHistory(history, "4 weeks"); got != "Senior Developer" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		if got := e.ExtractTitleFromHistory(nil, "hello"); got != "" {
			t.Fatalf("got %q", got)
		}
	})
}
