// Package scoring 面试准备的评分核心：岗位级别、目标分数、评估文本解析以及进度对比。
// 包内均为纯函数或不可变配置，不依赖存储与网络。
package scoring

// Metric 评估维度
type Metric string

const (
	ProblemUnderstanding Metric = "problemUnderstanding"
	DataStructureChoice  Metric = "dataStructureChoice"
	TimeComplexity       Metric = "timeComplexity"
	CodingStyle          Metric = "codingStyle"
	EdgeCases            Metric = "edgeCases"
	LanguageUsage        Metric = "languageUsage"
	Communication        Metric = "communication"
	Optimization         Metric = "optimization"
)

// MetricCount 固定的评估维度数量
const MetricCount = 8

// MaxMetricScore 单项满分
const MaxMetricScore = 10

var allMetrics = [MetricCount]Metric{
	ProblemUnderstanding,
	DataStructureChoice,
	TimeComplexity,
	CodingStyle,
	EdgeCases,
	LanguageUsage,
	Communication,
	Optimization,
}

var displayNames = map[Metric]string{
	ProblemUnderstanding: "Problem Understanding",
	DataStructureChoice:  "Data Structure Choice",
	TimeComplexity:       "Time and Space Complexity",
	CodingStyle:          "Coding Style",
	EdgeCases:            "Edge Cases",
	LanguageUsage:        "Language Usage",
	Communication:        "Communication",
	Optimization:         "Optimization",
}

// Metrics 返回固定顺序的全部维度
func Metrics() []Metric {
	out := make([]Metric, len(allMetrics))
	copy(out, allMetrics[:])
	return out
}

// DisplayName 评估文本中使用的维度名称（区分大小写）
func (m Metric) DisplayName() string {
	return displayNames[m]
}

// Scores 部分维度的分数集合。缺失的 key 表示"未报告"，与 0 分不同。
type Scores map[Metric]int

// Has 是否报告了该维度
func (s Scores) Has(m Metric) bool {
	_, ok := s[m]
	return ok
}

// Total 已报告维度之和
func (s Scores) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// Complete 是否 8 个维度都有分数
func (s Scores) Complete() bool {
	for _, m := range allMetrics {
		if !s.Has(m) {
			return false
		}
	}
	return true
}
