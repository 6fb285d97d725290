package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/notegenius/internal/apperr"
	"github.com/starford/notegenius/internal/tasks"
)

func TestBuildPrompt(t *testing.T) {
	cases := []struct {
		name    string
		feature Feature
		req     Request
		want    string
		wantErr bool
	}{
		{"summarize", FeatureSummarize, Request{NoteContent: "body"}, "comprehensive summary", false},
		{"summarize needs note", FeatureSummarize, Request{Input: "x"}, "", true},
		{"todo asks for checklist lines", FeatureTodo, Request{NoteContent: "plan"}, tasks.Line("<task>", false), false},
		{"expand prefers input", FeatureExpand, Request{NoteContent: "note", Input: "idea"}, "concepts:\n\nidea", false},
		{"expand falls back to note", FeatureExpand, Request{NoteContent: "note"}, "concepts:\n\nnote", false},
		{"brainstorm needs something", FeatureBrainstorm, Request{}, "", true},
		{"translate default language", FeatureTranslate, Request{NoteContent: "hola"}, "to Spanish", false},
		{"translate chosen language", FeatureTranslate, Request{NoteContent: "hi", Input: "French"}, "to French", false},
		{"chat needs input", FeatureChat, Request{NoteContent: "x"}, "", true},
		{"chat", FeatureChat, Request{Input: "how do I focus?"}, "how do I focus?", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := BuildPrompt(tc.feature, tc.req)
			if tc.wantErr {
				if !errors.Is(err, apperr.ErrInvalidInput) {
					t.Fatalf("err = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildPrompt: %v", err)
			}
			if !strings.Contains(p.User, tc.want) {
				t.Errorf("prompt = %q, want it to contain %q", p.User, tc.want)
			}
			if p.System == "" {
				t.Error("missing system prompt")
			}
		})
	}
}

func TestParseFeature(t *testing.T) {
	if f, err := ParseFeature(" Summarize "); err != nil || f != FeatureSummarize {
		t.Errorf("ParseFeature = %q, %v", f, err)
	}
	if _, err := ParseFeature("poetry"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v", err)
	}
	if len(Features) != 11 {
		t.Errorf("features = %d, want 11", len(Features))
	}
}

func TestAccept(t *testing.T) {
	n, err := Accept(FeatureSummarize, "short summary")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if n.Title != "AI Generated: Summarize" || n.Folder != Folder || !n.AIGenerated {
		t.Errorf("note = %+v", n)
	}
	if len(n.Tags) != 2 || n.Tags[0] != Tag || n.Tags[1] != "summarize" {
		t.Errorf("tags = %v", n.Tags)
	}
	if n.ID == "" || n.Content != "short summary" {
		t.Errorf("note = %+v", n)
	}
	if _, err := Accept(FeatureSummarize, "  "); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("empty response err = %v", err)
	}
}

func newCompletionServer(t *testing.T, status int, body string, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientGenerate(t *testing.T) {
	var seen chatRequest
	srv := newCompletionServer(t, http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":"- [ ] Draft plan"}}]}`, &seen)

	c := NewClient(ClientConfig{Endpoint: srv.URL + "/v1/", APIKey: "secret", Model: "test-model"})
	a := New(c, DefaultOptions)

	out, err := a.Run(context.Background(), FeatureTodo, Request{NoteContent: "plan the launch"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "- [ ] Draft plan" {
		t.Errorf("out = %q", out)
	}
	if seen.Model != "test-model" || len(seen.Messages) != 2 || seen.Messages[0].Role != "system" {
		t.Errorf("request = %+v", seen)
	}
	if seen.MaxTokens != 1000 || seen.Temperature != 0.7 {
		t.Errorf("options = %d %v", seen.MaxTokens, seen.Temperature)
	}
	if got := tasks.Parse(out); len(got) != 1 || got[0].Text != "Draft plan" {
		t.Errorf("generated tasks = %+v", got)
	}
}

func TestClientErrorStatus(t *testing.T) {
	srv := newCompletionServer(t, http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, nil)
	c := NewClient(ClientConfig{Endpoint: srv.URL + "/v1", APIKey: "secret"})
	_, err := c.Generate(context.Background(), Prompt{User: "x"}, DefaultOptions)
	if err == nil || !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "slow down") {
		t.Errorf("err = %v", err)
	}
}

func TestClientNoChoices(t *testing.T) {
	srv := newCompletionServer(t, http.StatusOK, `{"choices":[]}`, nil)
	c := NewClient(ClientConfig{Endpoint: srv.URL + "/v1", APIKey: "secret"})
	if _, err := c.Generate(context.Background(), Prompt{User: "x"}, DefaultOptions); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestRunWithoutGenerator(t *testing.T) {
	a := New(nil, Options{})
	if a.Enabled() {
		t.Error("expected disabled assistant")
	}
	_, err := a.Run(context.Background(), FeatureSummarize, Request{NoteContent: "x"})
	if !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
