package testutil

import (
	"context"
	"errors"
	"sync"

	"codeberg.org/snonux/freestyle/internal/llm"
	"codeberg.org/snonux/freestyle/internal/wordgen"
)

// ErrScriptExhausted is returned by mocks that ran out of scripted replies
var ErrScriptExhausted = errors.New("mock script exhausted")

// MockCompleter mocks an llm.Completer. Replies are returned in order;
// afterwards Err (or ErrScriptExhausted) is returned.
type MockCompleter struct {
	mu      sync.Mutex
	Replies []string
	Err     error
	Prompts []llm.Prompt
}

// Complete records the prompt and returns the next reply
func (m *MockCompleter) Complete(ctx context.Context, prompt llm.Prompt) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	if len(m.Replies) == 0 {
		if m.Err != nil {
			return "", m.Err
		}
		return "", ErrScriptExhausted
	}
	reply := m.Replies[0]
	m.Replies = m.Replies[1:]
	return reply, nil
}

// Name returns the provider name
func (m *MockCompleter) Name() string {
	return "mock"
}

// Calls returns how many prompts were sent
func (m *MockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// MockGenerator mocks a wordgen.Generator. Func, when set, decides every
// call; otherwise Words are returned in order and then Err.
type MockGenerator struct {
	mu       sync.Mutex
	Words    []string
	Err      error
	Func     func(ctx context.Context, req wordgen.Request) (string, error)
	requests []wordgen.Request
}

// Generate records the request and returns the scripted word
func (m *MockGenerator) Generate(ctx context.Context, req wordgen.Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	fn := m.Func
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Words) == 0 {
		if m.Err != nil {
			return "", m.Err
		}
		return "", ErrScriptExhausted
	}
	word := m.Words[0]
	m.Words = m.Words[1:]
	return word, nil
}

// Name returns the generator name
func (m *MockGenerator) Name() string {
	return "mock"
}

// Requests returns a copy of the recorded requests
func (m *MockGenerator) Requests() []wordgen.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]wordgen.Request(nil), m.requests...)
}

// MockRhymer mocks a rhyme.Rhymer
type MockRhymer struct {
	mu    sync.Mutex
	Table map[string][]string
	Err   error
	calls []string
}

// Rhymes returns the table entry for word
func (m *MockRhymer) Rhymes(ctx context.Context, word string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, word)
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]string(nil), m.Table[word]...), nil
}

// Calls returns the words rhymes were requested for
func (m *MockRhymer) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
