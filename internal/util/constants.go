package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 代码归档相关常量
const (
	MimePlainText   = "text/plain; charset=utf-8"
	SubmissionsRoot = "submissions"
)

// SourceExtensions 语言到源文件扩展名
var SourceExtensions = map[string]string{
	"python":     ".py",
	"javascript": ".js",
	"typescript": ".ts",
	"java":       ".java",
	"cpp":        ".cpp",
	"c":          ".c",
	"go":         ".go",
	"ruby":       ".rb",
	"rust":       ".rs",
	"csharp":     ".cs",
}
