package scoring

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultJobTitle 部分调用方在没有识别出岗位时使用的默认值
const DefaultJobTitle = "Software Engineer"

// OnboardingQuestion 系统提示词中询问目标岗位的原句，包含它的助手消息不参与岗位识别
const OnboardingQuestion = "could you please let me know what job title you're targeting"

// Turn 对话中的一条消息
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TitlePattern 岗位识别规则，按顺序尝试，第一个匹配的生效。Expr 的第 1 个分组是岗位短语。
type TitlePattern struct {
	Name string
	Expr *regexp.Regexp
}

const (
	seniorityExpr = `(?:junior|senior|lead|principal|staff)`
	roleNounExpr  = `(?:software engineer(?:ing)?|developer|engineer|programmer)`
	titleExpr     = `((?:` + seniorityExpr + `\s+)?` + roleNounExpr + `)`
)

// DefaultTitlePatterns 从具体到宽泛的规则表
func DefaultTitlePatterns() []TitlePattern {
	return []TitlePattern{
		{Name: "help", Expr: regexp.MustCompile(`\bhelp\b.*?\b` + titleExpr + `\b`)},
		{Name: "role-context", Expr: regexp.MustCompile(`\b(?:for|as|position|role|job|title)\b.*?\b` + titleExpr + `\b`)},
		{Name: "seniority-role", Expr: regexp.MustCompile(`\b` + titleExpr + `\b`)},
		{Name: "role", Expr: regexp.MustCompile(`\b(` + roleNounExpr + `)\b`)},
	}
}

var (
	connectorWords = map[string]bool{
		"for": true, "as": true, "a": true, "an": true, "the": true,
		"position": true, "role": true, "job": true, "title": true, "of": true,
	}
	engineeringRe      = regexp.MustCompile(`\bengineering\b`)
	softwareEngineerRe = regexp.MustCompile(`(?i)\bsoftware engineer\b`)
	assistantRoleRe    = regexp.MustCompile(`(?i)\bfor (?:a|the)\s+([a-z\s-]*?(?:engineer|developer)[a-z\s-]*?)\s+role\b`)
)

// TitleExtractor 从用户消息或整段对话中识别目标岗位
type TitleExtractor struct {
	patterns []TitlePattern
}

func NewTitleExtractor(patterns []TitlePattern) *TitleExtractor {
	return &TitleExtractor{patterns: patterns}
}

// ExtractTitle 返回空串表示没有识别到岗位。
// 含逗号的输入视为问卷式回答（例如 "python, 4 weeks, big tech"），直接放弃。
func (e *TitleExtractor) ExtractTitle(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" || strings.Contains(normalized, ",") {
		return ""
	}

	for _, p := range e.patterns {
		match := p.Expr.FindStringSubmatch(normalized)
		if match == nil {
			continue
		}
		raw := match[0]
		if len(match) > 1 && match[1] != "" {
			raw = match[1]
		}
		return normalizeTitle(raw)
	}
	return ""
}

// ExtractTitleFromHistory 先看最后一条提到 software engineer 的助手消息，
// 再从最近的用户消息往前逐条识别。latest 视为最新的一条用户消息。
func (e *TitleExtractor) ExtractTitleFromHistory(history []Turn, latest string) string {
	for i := len(history) - 1; i >= 0; i-- {
		turn := history[i]
		if turn.Role != RoleAssistant {
			continue
		}
		lower := strings.ToLower(turn.Content)
		if !strings.Contains(lower, "software engineer") || strings.Contains(lower, OnboardingQuestion) {
			continue
		}
		if m := assistantRoleRe.FindStringSubmatch(turn.Content); m != nil {
			if title := normalizeTitle(m[1]); title != "" {
				return title
			}
		}
		break
	}

	if title := e.ExtractTitle(latest); title != "" {
		return title
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != RoleUser {
			continue
		}
		if title := e.ExtractTitle(history[i].Content); title != "" {
			return title
		}
	}
	return ""
}

func normalizeTitle(raw string) string {
	words := strings.Fields(strings.ToLower(raw))
	for len(words) > 0 && connectorWords[words[0]] {
		words = words[1:]
	}
	if len(words) > 0 && words[len(words)-1] == "role" {
		words = words[:len(words)-1]
	}
	if len(words) == 0 {
		return ""
	}

	title := engineeringRe.ReplaceAllString(strings.Join(words, " "), "engineer")
	// cases.Caser 有状态，不能跨 goroutine 共享
	title = cases.Title(language.English).String(title)
	return softwareEngineerRe.ReplaceAllString(title, "Software Engineer")
}
