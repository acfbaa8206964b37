package util

import (
	"fmt"
	"path"
	"strings"
)

// NormalizeLanguage 统一语言名的大小写和常见别名
func NormalizeLanguage(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	switch lang {
	case "golang":
		return "go"
	case "py", "python3":
		return "python"
	case "js", "node":
		return "javascript"
	case "ts":
		return "typescript"
	case "c++":
		return "cpp"
	case "c#", "cs":
		return "csharp"
	}
	return lang
}

// SourceExtension 语言对应的扩展名，未知语言用 .txt
func SourceExtension(language string) string {
	if ext, ok := SourceExtensions[NormalizeLanguage(language)]; ok {
		return ext
	}
	return ".txt"
}

// SubmissionObjectName 代码归档在存储中的路径：submissions/<session>/<id>.<ext>
func SubmissionObjectName(sessionID string, submissionID uint, language string) string {
	return path.Join(SubmissionsRoot, sessionID, fmt.Sprintf("%d%s", submissionID, SourceExtension(language)))
}
