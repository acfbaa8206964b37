package scoring

import (
	"fmt"
	"math/rand"
	"strings"
)

// ReadinessThreshold 达标维度数 >= 6 视为可以参加面试
const ReadinessThreshold = 6

// EncouragingQuotes 达标时随机附带的一句
var EncouragingQuotes = [5]string{
	"The expert in anything was once a beginner. - Helen Hayes",
	"Success is the sum of small efforts, repeated day in and day out. - Robert Collier",
	"It always seems impossible until it's done. - Nelson Mandela",
	"Believe you can and you're halfway there. - Theodore Roosevelt",
	"The only way to do great work is to love what you do. - Steve Jobs",
}

// Comparator 对比当前分数与目标分数
type Comparator struct {
	// pick 返回 [0, n) 的随机下标，测试中可替换
	pick func(n int) int
}

func NewComparator() *Comparator {
	return &Comparator{pick: rand.Intn}
}

// NewComparatorWithPicker 使用指定的随机源
func NewComparatorWithPicker(pick func(n int) int) *Comparator {
	if pick == nil {
		pick = rand.Intn
	}
	return &Comparator{pick: pick}
}

// MetricsNeedingImprovement 已报告且低于目标的维度名称；未报告的维度跳过
func (c *Comparator) MetricsNeedingImprovement(current, target Scores) []string {
	names := []string{}
	for _, m := range allMetrics {
		cur, ok := current[m]
		if !ok {
			continue
		}
		if cur < target[m] {
			names = append(names, m.DisplayName())
		}
	}
	return names
}

// Achieved 达到或超过目标的维度数，未报告的维度不计入
func (c *Comparator) Achieved(current, target Scores) int {
	achieved := 0
	for _, m := range allMetrics {
		cur, ok := current[m]
		if ok && cur >= target[m] {
			achieved++
		}
	}
	return achieved
}

// IsReady 是否达到面试准备就绪的门槛
func (c *Comparator) IsReady(current, target Scores) bool {
	return c.Achieved(current, target) >= ReadinessThreshold
}

// ComposeFeedback 生成进度反馈文本
func (c *Comparator) ComposeFeedback(current, target Scores) string {
	achieved := c.Achieved(current, target)
	if achieved >= ReadinessThreshold {
		quote := EncouragingQuotes[c.pick(len(EncouragingQuotes))]
		return fmt.Sprintf(
			"Congratulations! You have met or exceeded your target in %d out of %d areas. "+
				"You are ready for your interviews.\n\n\"%s\"",
			achieved, MetricCount, quote)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have met your target in %d out of %d areas so far. Keep practicing, every problem moves you closer to your goal.",
		achieved, MetricCount)
	if weak := c.MetricsNeedingImprovement(current, target); len(weak) > 0 {
		fmt.Fprintf(&b, "\n\nFocus next on: %s.", strings.Join(weak, ", "))
	}
	return b.String()
}
