package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"interview_prep_backend/internal/config"
	"interview_prep_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAIServiceComplete(t *testing.T) {
	var got ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`)
	}))
	defer srv.Close()

	s := NewAIService(config.AIConfig{BaseURL: srv.URL + "/", APIKey: "sk-test", Model: "m", MaxTokens: 10})
	reply, err := s.Complete(context.Background(), []AIChatMessage{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "hello" {
		t.Fatalf("reply = %q", reply)
	}
	if got.Model != "m" || got.Stream || len(got.Messages) != 1 {
		t.Fatalf("request = %+v", got)
	}
}

func TestAIServiceCompleteErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`},
		{"api error", http.StatusOK, `{"error":{"message":"quota"}}`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			s := NewAIService(config.AIConfig{BaseURL: srv.URL})
			if _, err := s.Complete(context.Background(), nil); !errors.Is(err, util.ErrAIUnavailable) {
				t.Fatalf("error = %v", err)
			}
		})
	}
}

func TestAIServiceCompleteStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, part := range []string{"Hel", "lo", ""} {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", part)
		}
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	s := NewAIService(config.AIConfig{BaseURL: srv.URL})
	chunks, errChan := s.CompleteStream(context.Background(), []AIChatMessage{{Role: RoleUser, Content: "hi"}})

	var b strings.Builder
	for c := range chunks {
		b.WriteString(c)
	}
	if err := <-errChan; err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if b.String() != "Hello" {
		t.Fatalf("streamed %q", b.String())
	}
}

func TestAIServiceUpdateConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"content":"new"}}]}`)
	}))
	defer srv.Close()

	s := NewAIService(config.AIConfig{BaseURL: "http://127.0.0.1:0"})
	s.UpdateConfig(config.AIConfig{BaseURL: srv.URL})

	reply, err := s.Complete(context.Background(), nil)
	if err != nil || reply != "new" {
		t.Fatalf("reply=%q err=%v", reply, err)
	}
}
