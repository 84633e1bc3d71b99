package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"codeberg.org/snonux/freestyle/internal/remote"
	"codeberg.org/snonux/freestyle/internal/rhyme"
	"codeberg.org/snonux/freestyle/internal/scheduler"
	"codeberg.org/snonux/freestyle/internal/supply"
	"codeberg.org/snonux/freestyle/internal/testutil"
	"codeberg.org/snonux/freestyle/internal/wordgen"
	"codeberg.org/snonux/freestyle/internal/wordpool"
)

const (
	waitFor = 2 * time.Second
	poll    = 5 * time.Millisecond
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m,
		// keep-alive connections of http clients close asynchronously
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

// stillClock never ticks, so only explicit actions change a session
type stillClock struct{}

func (stillClock) NewTicker(time.Duration) scheduler.Ticker { return stillTicker{} }

type stillTicker struct{}

func (stillTicker) C() <-chan time.Time { return nil }
func (stillTicker) Stop()               {}

func newTestServer(t *testing.T, cfg Config, deps Deps) *Server {
	t.Helper()

	if deps.Supplier == nil {
		deps.Supplier = supply.New(wordpool.Default())
	}
	if deps.Clock == nil {
		deps.Clock = stillClock{}
	}
	deps.Logger = zaptest.NewLogger(t)

	srv, err := New(cfg, deps)
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) view {
	t.Helper()
	var v view
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}

func TestNew_RequiresSupplier(t *testing.T) {
	_, err := New(DefaultConfig(), Deps{})
	assert.Error(t, err)
}

func TestNew_RejectsUnknownBeat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultBeat = "polka"
	_, err := New(cfg, Deps{Supplier: supply.New(wordpool.Default())})
	assert.Error(t, err)
}

func TestGenerateWords(t *testing.T) {
	gen := &testutil.MockGenerator{Words: []string{"hustle"}}
	srv := newTestServer(t, DefaultConfig(), Deps{Generator: gen})

	w := do(t, srv, http.MethodPost, "/api/generate-words",
		`{"difficulty":"intermediate","theme":"street","excludeWords":["Flow!","flow",""]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"words":["hustle"]}`, w.Body.String())

	reqs := gen.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, wordpool.ThemeStreet, reqs[0].Theme)
	assert.Equal(t, wordpool.Intermediate, reqs[0].Difficulty)
	assert.Equal(t, []string{"flow"}, reqs[0].Exclude)
}

func TestGenerateWords_BadRequests(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{Generator: &testutil.MockGenerator{}})

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"malformed body", `{"difficulty":`, "Invalid request body"},
		{"unknown difficulty", `{"difficulty":"expert","theme":"street"}`, "Invalid difficulty level"},
		{"missing difficulty", `{"theme":"street"}`, "Invalid difficulty level"},
		{"unknown theme", `{"difficulty":"beginner","theme":"jazz"}`, "Invalid theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/api/generate-words", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantErr, decodeMap(t, w)["error"])
		})
	}
}

func TestGenerateWords_GeneratorFailure(t *testing.T) {
	gen := &testutil.MockGenerator{Err: errors.New("quota exceeded")}
	srv := newTestServer(t, DefaultConfig(), Deps{Generator: gen})

	w := do(t, srv, http.MethodPost, "/api/generate-words", `{"difficulty":"beginner","theme":"love"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeMap(t, w)
	assert.Equal(t, "Failed to generate word", body["error"])
	assert.Equal(t, "quota exceeded", body["details"])
}

func TestGenerateWords_NotConfigured(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{})

	w := do(t, srv, http.MethodPost, "/api/generate-words", `{"difficulty":"beginner","theme":"love"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{})

	for _, path := range []string{"/api/generate-words", "/api/rhymes", "/api/analyze-speech", "/api/session/start"} {
		t.Run(path, func(t *testing.T) {
			w := do(t, srv, http.MethodGet, path, "")
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Equal(t, "Method not allowed", decodeMap(t, w)["message"])
		})
	}
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{})
	w := do(t, srv, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRhymes(t *testing.T) {
	rhymer := &testutil.MockRhymer{Table: map[string][]string{"flow": {"go", "show"}}}
	srv := newTestServer(t, DefaultConfig(), Deps{Rhymer: rhymer})

	w := do(t, srv, http.MethodPost, "/api/rhymes", `{"word":"flow"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rhymes":["go","show"]}`, w.Body.String())

	w = do(t, srv, http.MethodPost, "/api/rhymes", `{"word":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Word is required", decodeMap(t, w)["error"])

	rhymer.Err = errors.New("boom")
	w = do(t, srv, http.MethodPost, "/api/rhymes", `{"word":"flow"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to generate rhyming words", decodeMap(t, w)["error"])
}

func TestRhymes_NotConfigured(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{})
	w := do(t, srv, http.MethodPost, "/api/rhymes", `{"word":"flow"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAnalyzeSpeech(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	srv := newTestServer(t, DefaultConfig(), Deps{Now: func() time.Time { return now }})

	w := do(t, srv, http.MethodPost, "/api/analyze-speech",
		`{"duration":30,"transcript":"I flow, I grind, I flow","prompts":["Flow","hustle"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeMap(t, w)
	assert.EqualValues(t, 12, body["wordsPerMinute"])
	assert.EqualValues(t, 6, body["totalWords"])
	assert.EqualValues(t, 3, body["uniqueWords"])
	assert.Equal(t, []any{"flow"}, body["promptsUsed"])

	w = do(t, srv, http.MethodPost, "/api/analyze-speech", `{"duration":-1,"transcript":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalog(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{})

	w := do(t, srv, http.MethodGet, "/api/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	var body struct {
		Themes       []catalogEntry   `json:"themes"`
		Difficulties []catalogEntry   `json:"difficulties"`
		Beats        []map[string]any `json:"beats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Themes, len(wordpool.Themes()))
	assert.Len(t, body.Difficulties, len(wordpool.Difficulties()))
	assert.Len(t, body.Beats, 3)
	for _, d := range body.Difficulties {
		assert.NotEmpty(t, d.Rule, d.ID)
	}
}

func TestCatalog_CachedInProduction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Production = true
	srv := newTestServer(t, cfg, Deps{})

	w := do(t, srv, http.MethodGet, "/api/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "public")

	w = do(t, srv, http.MethodGet, "/api/session", "")
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{})

	w := do(t, srv, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeMap(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "development", body["env"])
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
}

func TestRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimitRPS = 1
	cfg.RateLimitBurst = 2
	srv := newTestServer(t, cfg, Deps{Rhymer: &testutil.MockRhymer{}})

	for range 2 {
		w := do(t, srv, http.MethodPost, "/api/rhymes", `{"word":"flow"}`)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := do(t, srv, http.MethodPost, "/api/rhymes", `{"word":"flow"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many requests. Please slow down.", decodeMap(t, w)["error"])
}

func TestSession_CookieIsReused(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{})

	w := do(t, srv, http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	v := decodeView(t, w)
	assert.Equal(t, scheduler.Idle, v.State)
	assert.Equal(t, 10, v.Countdown)
	assert.Equal(t, "hiphop", v.Deck.Beat.ID)
	assert.False(t, v.Deck.Playing)

	w = do(t, srv, http.MethodGet, "/api/session", "", cookie)
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, 1, srv.sessions.len())
}

func TestSession_ShortCookieIsReplaced(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{})

	w := do(t, srv, http.MethodGet, "/api/session", "", &http.Cookie{Name: sessionCookieName, Value: "short"})
	assert.NotEqual(t, "short", sessionCookie(t, w).Value)
}

func TestSession_StartAndStop(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{})

	w := do(t, srv, http.MethodPost, "/api/session/start", "")
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	v := decodeView(t, w)
	assert.Equal(t, scheduler.Generating, v.State)
	assert.True(t, v.Deck.Playing)

	require.Eventually(t, func() bool {
		return decodeView(t, do(t, srv, http.MethodGet, "/api/session", "", cookie)).Word != ""
	}, waitFor, poll)

	v = decodeView(t, do(t, srv, http.MethodGet, "/api/session", "", cookie))
	assert.Equal(t, "fallback", v.Source)
	assert.Contains(t, wordpool.Default().Words(wordpool.ThemeStreet, wordpool.Intermediate), v.Word)
	assert.Equal(t, 1, v.UsedWords)

	w = do(t, srv, http.MethodPost, "/api/session/stop", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	v = decodeView(t, w)
	assert.Equal(t, scheduler.Idle, v.State)
	assert.False(t, v.Deck.Playing)
}

func TestSession_Settings(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{})

	w := do(t, srv, http.MethodPut, "/api/session/settings", `{"theme":"love"}`)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	v := decodeView(t, w)
	assert.Equal(t, wordpool.ThemeLove, v.Theme)
	assert.Equal(t, wordpool.Intermediate, v.Difficulty)

	w = do(t, srv, http.MethodPut, "/api/session/settings", `{"difficulty":"advanced"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	v = decodeView(t, w)
	assert.Equal(t, wordpool.ThemeLove, v.Theme)
	assert.Equal(t, wordpool.Advanced, v.Difficulty)

	w = do(t, srv, http.MethodPut, "/api/session/settings", `{"theme":"jazz"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPut, "/api/session/settings", `not json`, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSession_Beat(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{})

	w := do(t, srv, http.MethodPut, "/api/session/beat", `{"beat":"trap","volume":1.5}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookie := sessionCookie(t, w)

	var resp struct {
		Deck      map[string]any `json:"deck"`
		Crossfade map[string]any `json:"crossfade"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Crossfade, "no cross-fade while paused")
	assert.EqualValues(t, 140, resp.Deck["bpm"])
	assert.EqualValues(t, 1, resp.Deck["volume"])

	w = do(t, srv, http.MethodPut, "/api/session/beat", `{"bpm":500}`, cookie)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 200, resp.Deck["bpm"])

	w = do(t, srv, http.MethodPut, "/api/session/beat", `{"beat":"polka"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSession_BeatCrossfadeWhilePlaying(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{})

	cookie := sessionCookie(t, do(t, srv, http.MethodPost, "/api/session/start", ""))
	w := do(t, srv, http.MethodPut, "/api/session/beat", `{"beat":"lofi"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Crossfade map[string]any `json:"crossfade"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Crossfade)
	assert.Equal(t, "hiphop", resp.Crossfade["from"])
	assert.Equal(t, "lofi", resp.Crossfade["to"])
	assert.EqualValues(t, 500, resp.Crossfade["durationMs"])
}

func TestSweepClosesIdleSessions(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	srv := newTestServer(t, DefaultConfig(), Deps{Now: clock})

	do(t, srv, http.MethodPost, "/api/session/start", "")
	require.Equal(t, 1, srv.sessions.len())

	assert.Zero(t, srv.sessions.sweep(time.Minute))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, srv.sessions.sweep(time.Minute))
	assert.Zero(t, srv.sessions.len())
}

func TestClosedServerRefusesSessions(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{})
	srv.Close()

	w := do(t, srv, http.MethodGet, "/api/session", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestEvents_StreamSnapshots(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cookie := &http.Cookie{Name: sessionCookieName, Value: "stream-session-0001"}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+eventsPath, nil)
	require.NoError(t, err)
	req.AddCookie(cookie)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	events := make(chan view, 16)
	go func() {
		defer close(events)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			data, ok := strings.CutPrefix(scanner.Text(), "data:")
			if !ok {
				continue
			}
			var v view
			if json.Unmarshal([]byte(data), &v) == nil {
				events <- v
			}
		}
	}()

	next := func() view {
		t.Helper()
		select {
		case v, ok := <-events:
			require.True(t, ok, "stream ended")
			return v
		case <-ctx.Done():
			t.Fatal("timed out waiting for event")
		}
		return view{}
	}

	first := next()
	assert.Equal(t, scheduler.Idle, first.State)

	startReq, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.URL+"/api/session/start", nil)
	require.NoError(t, err)
	startReq.AddCookie(cookie)
	startResp, err := client.Do(startReq)
	require.NoError(t, err)
	startResp.Body.Close()

	for {
		v := next()
		if v.Word != "" {
			assert.Equal(t, scheduler.Generating, v.State)
			assert.True(t, v.Deck.Playing)
			break
		}
	}

	// closing the server ends the stream
	srv.Close()
	for range events {
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	srv := newTestServer(t, DefaultConfig(), Deps{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, waitFor, poll)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRemoteClientsAgainstServer(t *testing.T) {
	gen := &testutil.MockGenerator{Words: []string{"grind", "toolongforbeginners"}}
	rhymer := &testutil.MockRhymer{Table: map[string][]string{"grind": {"mind", "find"}}}
	srv := newTestServer(t, DefaultConfig(), Deps{Generator: gen, Rhymer: rhymer})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client := remote.NewClient(ts.URL, 2*time.Second)
	remoteGen := wordgen.NewRemoteGenerator(client)
	ctx := context.Background()

	word, err := remoteGen.Generate(ctx, wordgen.Request{
		Theme:      wordpool.ThemeStreet,
		Difficulty: wordpool.Beginner,
		Exclude:    []string{"flow"},
	})
	require.NoError(t, err)
	assert.Equal(t, "grind", word)
	assert.Equal(t, []string{"flow"}, gen.Requests()[0].Exclude)

	_, err = remoteGen.Generate(ctx, wordgen.Request{Theme: wordpool.ThemeStreet, Difficulty: wordpool.Beginner})
	assert.ErrorIs(t, err, wordgen.ErrTooLong)

	rhymes, err := rhyme.NewRemoteRhymer(client).Rhymes(ctx, "grind")
	require.NoError(t, err)
	assert.Equal(t, []string{"mind", "find"}, rhymes)
}
