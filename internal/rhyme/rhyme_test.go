package rhyme

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/freestyle/internal/llm"
	"codeberg.org/snonux/freestyle/internal/remote"
)

type stubCompleter struct {
	reply  string
	err    error
	prompt llm.Prompt
}

func (s *stubCompleter) Complete(ctx context.Context, prompt llm.Prompt) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func (s *stubCompleter) Name() string { return "stub" }

func TestParseRhymes(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{"plain", "flow, go, show", []string{"flow", "go", "show"}},
		{"capped at five", "a,b,c,d,e,f,g", []string{"a", "b", "c", "d", "e"}},
		{"normalizes", " Glow., SNOW!,  ", []string{"glow", "snow"}},
		{"dedupes", "flow, Flow, go", []string{"flow", "go"}},
		{"empty", "", []string{}},
		{"numbered list", "1. slow, 2. grow", []string{"slow", "grow"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRhymes(tt.reply)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseRhymes(%q) = %v, want %v", tt.reply, got, tt.want)
			}
		})
	}
}

func TestLLMRhymer_Rhymes(t *testing.T) {
	stub := &stubCompleter{reply: "show, glow, flow, snow, grow, throw"}
	r := NewLLMRhymer(stub)

	got, err := r.Rhymes(context.Background(), "Flow")
	if err != nil {
		t.Fatalf("Rhymes failed: %v", err)
	}

	// the word itself is removed after capping
	want := []string{"show", "glow", "snow", "grow"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rhymes() = %v, want %v", got, want)
	}
	if !strings.Contains(stub.prompt.User, `"flow"`) {
		t.Errorf("prompt does not quote the word: %q", stub.prompt.User)
	}
	if stub.prompt.MaxTokens != 50 {
		t.Errorf("MaxTokens = %d, want 50", stub.prompt.MaxTokens)
	}
}

func TestLLMRhymer_Errors(t *testing.T) {
	r := NewLLMRhymer(&stubCompleter{err: errors.New("provider down")})

	if _, err := r.Rhymes(context.Background(), "flow"); err == nil {
		t.Error("Expected provider error")
	}
	if _, err := r.Rhymes(context.Background(), "!!"); err == nil {
		t.Error("Expected error for empty word")
	}
}

func TestRemoteRhymer_Rhymes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rhymes" {
			http.NotFound(w, r)
			return
		}
		var req Request
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Word != "beat" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(Response{Rhymes: []string{"Heat", "street", "", "feet"}})
	}))
	defer srv.Close()

	r := NewRemoteRhymer(remote.NewClient(srv.URL, time.Second))
	got, err := r.Rhymes(context.Background(), "beat")
	if err != nil {
		t.Fatalf("Rhymes failed: %v", err)
	}
	want := []string{"heat", "street", "feet"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rhymes() = %v, want %v", got, want)
	}

	if _, err := r.Rhymes(context.Background(), "other"); err == nil {
		t.Error("Expected error for bad request")
	}
}
