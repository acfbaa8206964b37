package service

import (
	"context"
	"interview_prep_backend/internal/util"
	"sync"
)

// fakeCompletion 按顺序返回预设回复，并记录收到的消息
type fakeCompletion struct {
	mu       sync.Mutex
	replies  []string
	err      error
	requests [][]AIChatMessage
}

func (f *fakeCompletion) next(messages []AIChatMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, messages)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", util.ErrAIUnavailable
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func (f *fakeCompletion) Complete(ctx context.Context, messages []AIChatMessage) (string, error) {
	return f.next(messages)
}

func (f *fakeCompletion) CompleteStream(ctx context.Context, messages []AIChatMessage) (<-chan string, <-chan error) {
	out := make(chan string)
	errChan := make(chan error, 1)
	reply, err := f.next(messages)
	go func() {
		defer close(out)
		defer close(errChan)
		if err != nil {
			errChan <- err
			return
		}
		for _, r := range reply {
			out <- string(r)
		}
	}()
	return out, errChan
}

func (f *fakeCompletion) lastRequest() []AIChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeCompletion) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeRunner struct {
	result *ExecutionResult
	err    error
	code   string
}

func (f *fakeRunner) Execute(ctx context.Context, language, code, stdin string) (*ExecutionResult, error) {
	f.code = code
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}
