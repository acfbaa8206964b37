package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultAreasLimit 默认只看最近 3 条评估
const DefaultAreasLimit = 3

var (
	improvementHeaderRe = headingLine(`areas needing improvement`)
	sectionEndRe        = headingLine(`areas of strength|correct solution`)
	bulletMarkers       = []string{"-", "*", "•", "+"}
	metricScoreExprs    = buildMetricScoreExprs()
)

// headingLine 匹配独占一行的小标题，可带 markdown 的 # 或 ** 以及结尾冒号
func headingLine(names string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*(?:#+[ \t]*)?(?:\d+\.[ \t]*)?(?:\*\*)?(?:` + names + `)(?:\*\*)?[ \t]*:?(?:\*\*)?[ \t]*$`)
}

func buildMetricScoreExprs() map[Metric]*regexp.Regexp {
	exprs := make(map[Metric]*regexp.Regexp, MetricCount)
	for _, m := range allMetrics {
		exprs[m] = regexp.MustCompile(regexp.QuoteMeta(m.DisplayName()) + ` \((\d+)/10\)`)
	}
	return exprs
}

// ParseScores 在评估文本中查找 "<Metric Name> (<n>/10)"。
// 没出现或超出 0-10 的维度不会出现在结果里；found 表示至少解析到一项。
func ParseScores(text string) (Scores, bool) {
	scores := Scores{}
	for _, m := range allMetrics {
		match := metricScoreExprs[m].FindStringSubmatch(text)
		if match == nil {
			continue
		}
		v, err := strconv.Atoi(match[1])
		if err != nil || v < 0 || v > MaxMetricScore {
			continue
		}
		scores[m] = v
	}
	return scores, len(scores) > 0
}

// ExtractAreasNeedingImprovement 从最近 limit 条评估（新的在前）中提取
// "Areas Needing Improvement" 小标题到下一个 "Areas of Strength" / "Correct Solution" 小标题之间的条目，
// 去重并保持首次出现的顺序。小标题必须独占一行，正文里顺带提到的同名短语不算。
// 以 ** 开头的行是加粗小标题而不是 * 条目，会被跳过。
// messages 按时间正序排列。
func ExtractAreasNeedingImprovement(messages []string, limit int) []string {
	if limit <= 0 {
		limit = DefaultAreasLimit
	}

	areas := []string{}
	seen := map[string]bool{}
	scanned := 0
	for i := len(messages) - 1; i >= 0 && scanned < limit; i-- {
		scanned++
		for _, area := range improvementBullets(messages[i]) {
			if seen[area] {
				continue
			}
			seen[area] = true
			areas = append(areas, area)
		}
	}
	return areas
}

func improvementBullets(text string) []string {
	loc := improvementHeaderRe.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	section := text[loc[1]:]
	if end := sectionEndRe.FindStringIndex(section); end != nil {
		section = section[:end[0]]
	}

	var bullets []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		// **加粗** 是小标题不是条目
		if strings.HasPrefix(line, "**") {
			continue
		}
		for _, marker := range bulletMarkers {
			if !strings.HasPrefix(line, marker) {
				continue
			}
			if item := strings.TrimSpace(strings.TrimPrefix(line, marker)); item != "" {
				bullets = append(bullets, item)
			}
			break
		}
	}
	return bullets
}
