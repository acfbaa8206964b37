package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"interview_prep_backend/internal/config"
	"interview_prep_backend/internal/util"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Judge0 语言 ID
var judge0Languages = map[string]int{
	"python":     71,
	"javascript": 63,
	"java":       62,
	"cpp":        54,
	"c":          50,
	"go":         60,
	"typescript": 74,
	"ruby":       72,
	"rust":       73,
	"csharp":     51,
}

// Judge0 status.id 3 表示 Accepted
const judge0Accepted = 3

// ExecutionResult 代码运行结果
type ExecutionResult struct {
	Output   string `json:"output"`
	Error    string `json:"error,omitempty"`
	Status   string `json:"status"`
	Time     string `json:"time,omitempty"`
	Memory   int    `json:"memory,omitempty"`
	Language string `json:"language"`
}

// CodeRunner 代码执行服务，对业务不透明
type CodeRunner interface {
	Execute(ctx context.Context, language, code, stdin string) (*ExecutionResult, error)
}

// Judge0Runner 通过 Judge0 HTTP API 同步执行代码
type Judge0Runner struct {
	mu     sync.RWMutex
	config config.Judge0Config
	client *http.Client
}

func NewJudge0Runner(cfg config.Judge0Config) *Judge0Runner {
	return &Judge0Runner{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// UpdateConfig 配置热更新
func (r *Judge0Runner) UpdateConfig(cfg config.Judge0Config) {
	r.mu.Lock()
	r.config = cfg
	r.mu.Unlock()
}

func (r *Judge0Runner) currentConfig() config.Judge0Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}

type judge0Submission struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin,omitempty"`
}

type judge0Response struct {
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Message       *string `json:"message"`
	Time          string  `json:"time"`
	Memory        int     `json:"memory"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *Judge0Runner) Execute(ctx context.Context, language, code, stdin string) (*ExecutionResult, error) {
	cfg := r.currentConfig()

	lang := util.NormalizeLanguage(language)
	if lang == "" {
		lang = util.NormalizeLanguage(cfg.DefaultLanguage)
	}
	languageID, ok := judge0Languages[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedLanguage, language)
	}

	body, err := json.Marshal(judge0Submission{SourceCode: code, LanguageID: languageID, Stdin: stdin})
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(cfg.URL, "/") + "/submissions?base64_encoded=false&wait=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.APIKey != "" {
		req.Header.Set("X-RapidAPI-Key", cfg.APIKey)
	}
	if cfg.Host != "" {
		req.Header.Set("X-RapidAPI-Host", cfg.Host)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrCodeRunnerFailed, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: status %d: %s", util.ErrCodeRunnerFailed, resp.StatusCode, string(raw))
	}

	var result judge0Response
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrCodeRunnerFailed, err)
	}

	out := &ExecutionResult{
		Output:   deref(result.Stdout),
		Status:   result.Status.Description,
		Time:     result.Time,
		Memory:   result.Memory,
		Language: lang,
	}
	if result.Status.ID != judge0Accepted {
		for _, candidate := range []*string{result.CompileOutput, result.Stderr, result.Message} {
			if msg := strings.TrimSpace(deref(candidate)); msg != "" {
				out.Error = msg
				break
			}
		}
		if out.Error == "" {
			out.Error = result.Status.Description
		}
	}
	return out, nil
}
