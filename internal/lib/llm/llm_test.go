package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/netanomics/internal/config"
)

func completionServer(t *testing.T, content string, gotPrompt *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s, want .../chat/completions", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Model != "gemini-2.0-flash" {
			t.Errorf("model = %q", req.Model)
		}
		if gotPrompt != nil && len(req.Messages) > 0 {
			*gotPrompt = req.Messages[0].Content
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 3, "completion_tokens": 4, "total_tokens": 7},
		})
	}))
}

func newTestClient(url string) *Client {
	logger := zerolog.Nop()
	return NewClient(config.LLMConfig{
		APIKey:  "test-key",
		BaseURL: url + "/",
		Model:   "gemini-2.0-flash",
		Timeout: 5 * time.Second,
	}, &logger)
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	var prompt string
	srv := completionServer(t, "1. Who built the road?", &prompt)
	defer srv.Close()

	got, err := newTestClient(srv.URL).Complete(context.Background(), "generate questions")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "1. Who built the road?" {
		t.Errorf("Complete() = %q", got)
	}
	if prompt != "generate questions" {
		t.Errorf("prompt sent = %q", prompt)
	}
}

func TestCompleteEmptyContent(t *testing.T) {
	srv := completionServer(t, "   ", nil)
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), "x")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("Complete() error = %v, want ErrEmptyResponse", err)
	}
}

func TestCompleteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Complete(context.Background(), "x"); err == nil {
		t.Fatal("Complete() error = nil, want upstream error")
	}
}

func TestDecodeJSON(t *testing.T) {
	type reply struct {
		Projects []struct {
			Description string `json:"project_description"`
		} `json:"projects"`
	}

	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{name: "plain", in: `{"projects":[{"project_description":"Road"}]}`, want: 1},
		{name: "fenced", in: "```json\n{\"projects\":[{\"project_description\":\"Road\"},{\"project_description\":\"School\"}]}\n```", want: 2},
		{name: "prose around", in: "Here you go:\n{\"projects\":[]}\nThanks", want: 0},
		{name: "garbage", in: "no json here", wantErr: true},
		{name: "empty", in: "```json```", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r reply
			err := DecodeJSON(tt.in, &r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(r.Projects) != tt.want {
				t.Errorf("len(projects) = %d, want %d", len(r.Projects), tt.want)
			}
		})
	}
}
