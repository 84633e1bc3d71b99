package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"codeberg.org/snonux/freestyle/internal/supply"
)

// fakeClock hands out tickers that only fire when the test calls Tick
type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

type fakeTicker struct {
	d       time.Duration
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (f *fakeClock) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{d: d, c: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Tick fires every running ticker of period d and reports how many
// tickers received the tick
func (f *fakeClock) Tick(t *testing.T, d time.Duration) int {
	t.Helper()

	f.mu.Lock()
	tickers := append([]*fakeTicker(nil), f.tickers...)
	f.mu.Unlock()

	fired := 0
	for _, tk := range tickers {
		if tk.d != d || tk.isStopped() {
			continue
		}
		select {
		case tk.c <- time.Now():
			fired++
		case <-time.After(100 * time.Millisecond):
			// the loop exited between the check and the send
		}
	}
	return fired
}

// running returns the number of tickers not yet stopped
func (f *fakeClock) running() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, tk := range f.tickers {
		if !tk.isStopped() {
			n++
		}
	}
	return n
}

// fakeSupplier records requests and answers through fn
type fakeSupplier struct {
	mu       sync.Mutex
	requests []supply.Request
	fn       func(ctx context.Context, req supply.Request, call int) supply.Result
}

func (f *fakeSupplier) Next(ctx context.Context, req supply.Request) supply.Result {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	call := len(f.requests)
	f.mu.Unlock()
	return f.fn(ctx, req, call)
}

func (f *fakeSupplier) Requests() []supply.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]supply.Request(nil), f.requests...)
}

func (f *fakeSupplier) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// sequence answers call n with words[n-1] and keeps repeating the last one
func sequence(words ...string) func(context.Context, supply.Request, int) supply.Result {
	return func(ctx context.Context, req supply.Request, call int) supply.Result {
		i := min(call, len(words)) - 1
		return supply.Result{Outcome: supply.Remote, Word: words[i]}
	}
}
