package scoring

import "strings"

// Level 岗位级别
type Level string

const (
	Junior Level = "Junior"
	Mid    Level = "Mid"
	Senior Level = "Senior"
	Lead   Level = "Lead"
)

// Levels 从低到高
var Levels = []Level{Junior, Mid, Senior, Lead}

// LevelTable 岗位名称到级别、级别到基础目标分的静态配置
type LevelTable struct {
	Titles  map[string]Level
	Targets map[Level]Scores
}

// DefaultLevelTable 默认配置，进程启动时构造一次后注入 LevelResolver
func DefaultLevelTable() LevelTable {
	return LevelTable{
		Titles: map[string]Level{
			"junior software engineer":    Junior,
			"junior engineer":             Junior,
			"junior developer":            Junior,
			"junior programmer":           Junior,
			"software engineer":           Mid,
			"engineer":                    Mid,
			"developer":                   Mid,
			"programmer":                  Mid,
			"senior software engineer":    Senior,
			"senior engineer":             Senior,
			"senior developer":            Senior,
			"senior programmer":           Senior,
			"lead software engineer":      Lead,
			"lead engineer":               Lead,
			"lead developer":              Lead,
			"principal software engineer": Lead,
			"principal engineer":          Lead,
			"tech lead":                   Lead,
		},
		Targets: map[Level]Scores{
			Junior: {
				ProblemUnderstanding: 6,
				DataStructureChoice:  6,
				TimeComplexity:       5,
				CodingStyle:          7,
				EdgeCases:            6,
				LanguageUsage:        7,
				Communication:        7,
				Optimization:         5,
			},
			Mid: {
				ProblemUnderstanding: 7,
				DataStructureChoice:  7,
				TimeComplexity:       7,
				CodingStyle:          8,
				EdgeCases:            7,
				LanguageUsage:        8,
				Communication:        8,
				Optimization:         7,
			},
			Senior: {
				ProblemUnderstanding: 8,
				DataStructureChoice:  8,
				TimeComplexity:       8,
				CodingStyle:          9,
				EdgeCases:            8,
				LanguageUsage:        9,
				Communication:        9,
				Optimization:         8,
			},
			Lead: {
				ProblemUnderstanding: 9,
				DataStructureChoice:  9,
				TimeComplexity:       9,
				CodingStyle:          9,
				EdgeCases:            9,
				LanguageUsage:        9,
				Communication:        9,
				Optimization:         9,
			},
		},
	}
}

// LevelResolver 岗位名称 -> 级别 -> 基础目标分
type LevelResolver struct {
	table LevelTable
}

func NewLevelResolver(table LevelTable) *LevelResolver {
	return &LevelResolver{table: table}
}

// ResolveLevel 只做大小写无关的精确匹配，未知岗位默认 Mid
func (r *LevelResolver) ResolveLevel(title string) Level {
	normalized := strings.Join(strings.Fields(strings.ToLower(title)), " ")
	if level, ok := r.table.Titles[normalized]; ok {
		return level
	}
	return Mid
}

// BaseTargets 返回级别对应的 8 项目标分副本
func (r *LevelResolver) BaseTargets(level Level) Scores {
	base, ok := r.table.Targets[level]
	if !ok {
		base = r.table.Targets[Mid]
	}
	out := make(Scores, len(base))
	for m, v := range base {
		out[m] = v
	}
	return out
}
