package service

import (
	"bufio"
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

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionClient 文本补全接口，模型本身对业务不透明
type CompletionClient interface {
	Complete(ctx context.Context, messages []AIChatMessage) (string, error)
	CompleteStream(ctx context.Context, messages []AIChatMessage) (<-chan string, <-chan error)
}

// AIService OpenAI 兼容的 /chat/completions 客户端
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{config: cfg, client: &http.Client{}}
}

// UpdateConfig 配置热更新
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

func (s *AIService) currentConfig() config.AIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Stream      bool            `json:"stream,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
		Delta   AIChatMessage `json:"delta"` // 流式响应
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *AIService) newRequest(ctx context.Context, cfg config.AIConfig, messages []AIChatMessage, stream bool) (*http.Request, error) {
	reqBody := ChatCompletionRequest{
		Model:       cfg.Model,
		Messages:    messages,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Stream:      stream,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(cfg.BaseURL, "/")+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	return req, nil
}

func withTimeout(ctx context.Context, seconds int) (context.Context, context.CancelFunc) {
	if seconds <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
}

// Complete 非流式补全，返回第一个候选的内容
func (s *AIService) Complete(ctx context.Context, messages []AIChatMessage) (string, error) {
	cfg := s.currentConfig()
	ctx, cancel := withTimeout(ctx, cfg.TimeoutSeconds)
	defer cancel()

	req, err := s.newRequest(ctx, cfg, messages, false)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrAIUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", util.ErrAIUnavailable, resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("%w: %s", util.ErrAIUnavailable, result.Error.Message)
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("%w: no choices returned", util.ErrAIUnavailable)
}

// CompleteStream 流式补全，按 SSE 的 data 行逐块输出。
// 两个通道都会被关闭；错误通道最多有一个值。
func (s *AIService) CompleteStream(ctx context.Context, messages []AIChatMessage) (<-chan string, <-chan error) {
	out := make(chan string)
	errChan := make(chan error, 1)

	cfg := s.currentConfig()

	go func() {
		defer close(out)
		defer close(errChan)

		ctx, cancel := withTimeout(ctx, cfg.TimeoutSeconds)
		defer cancel()

		req, err := s.newRequest(ctx, cfg, messages, true)
		if err != nil {
			errChan <- err
			return
		}

		resp, err := s.client.Do(req)
		if err != nil {
			errChan <- fmt.Errorf("%w: %v", util.ErrAIUnavailable, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			errChan <- fmt.Errorf("%w: status %d: %s", util.ErrAIUnavailable, resp.StatusCode, string(body))
			return
		}

		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				if err != io.EOF {
					errChan <- err
				}
				return
			}

			line = strings.TrimSpace(line)
			if line == "" || !strings.HasPrefix(line, "data:") {
				continue
			}

			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}

			var streamResp ChatCompletionResponse
			if err := json.Unmarshal([]byte(data), &streamResp); err != nil {
				continue
			}

			if len(streamResp.Choices) > 0 {
				content := streamResp.Choices[0].Delta.Content
				if content == "" {
					continue
				}
				select {
				case out <- content:
				case <-ctx.Done():
					errChan <- ctx.Err()
					return
				}
			}
		}
	}()

	return out, errChan
}
