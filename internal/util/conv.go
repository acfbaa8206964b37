package util

import (
	"strconv"
)

// ParseLimit 解析分页大小，非法或超出上限时使用默认值
func ParseLimit(s string, def, max int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
