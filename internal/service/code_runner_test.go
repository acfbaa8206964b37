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
	"testing"
)

func judge0Server(t *testing.T, body string, seen *judge0Submission) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/submissions" || r.URL.Query().Get("wait") != "true" {
			t.Errorf("unexpected url %s", r.URL.String())
		}
		if r.Header.Get("X-RapidAPI-Key") != "key" {
			t.Errorf("missing api key header")
		}
		if seen != nil {
			if err := json.NewDecoder(r.Body).Decode(seen); err != nil {
				t.Errorf("decode: %v", err)
			}
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestJudge0RunnerAccepted(t *testing.T) {
	var seen judge0Submission
	srv := judge0Server(t, `{"stdout":"3\n","time":"0.01","memory":1024,"status":{"id":3,"description":"Accepted"}}`, &seen)

	r := NewJudge0Runner(config.Judge0Config{URL: srv.URL, APIKey: "key", DefaultLanguage: "go"})
	result, err := r.Execute(context.Background(), "Python3", "print(1+2)", "")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if seen.LanguageID != judge0Languages["python"] || seen.SourceCode != "print(1+2)" {
		t.Fatalf("submission = %+v", seen)
	}
	if result.Output != "3\n" || result.Error != "" || result.Status != "Accepted" || result.Language != "python" {
		t.Fatalf("result = %+v", result)
	}
}

func TestJudge0RunnerErrorOutput(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"compile error", `{"compile_output":"syntax error","stderr":"x","status":{"id":6,"description":"Compilation Error"}}`, "syntax error"},
		{"runtime error", `{"stderr":"panic: boom","status":{"id":11,"description":"Runtime Error (NZEC)"}}`, "panic: boom"},
		{"status only", `{"status":{"id":5,"description":"Time Limit Exceeded"}}`, "Time Limit Exceeded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := judge0Server(t, tc.body, nil)
			r := NewJudge0Runner(config.Judge0Config{URL: srv.URL, APIKey: "key"})
			result, err := r.Execute(context.Background(), "go", "package main", "")
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if result.Error != tc.want {
				t.Fatalf("error output = %q, want %q", result.Error, tc.want)
			}
		})
	}
}

func TestJudge0RunnerDefaultAndUnsupportedLanguage(t *testing.T) {
	var seen judge0Submission
	srv := judge0Server(t, `{"stdout":"","status":{"id":3,"description":"Accepted"}}`, &seen)
	r := NewJudge0Runner(config.Judge0Config{URL: srv.URL, APIKey: "key", DefaultLanguage: "golang"})

	if _, err := r.Execute(context.Background(), "", "package main", ""); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if seen.LanguageID != judge0Languages["go"] {
		t.Fatalf("language id = %d", seen.LanguageID)
	}

	if _, err := r.Execute(context.Background(), "cobol", "", ""); !errors.Is(err, util.ErrUnsupportedLanguage) {
		t.Fatalf("unsupported language error = %v", err)
	}
}

func TestJudge0RunnerUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r := NewJudge0Runner(config.Judge0Config{URL: srv.URL})
	if _, err := r.Execute(context.Background(), "go", "package main", ""); !errors.Is(err, util.ErrCodeRunnerFailed) {
		t.Fatalf("error = %v", err)
	}
}
