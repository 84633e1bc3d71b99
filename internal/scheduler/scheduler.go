package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"codeberg.org/snonux/freestyle/internal/supply"
	"codeberg.org/snonux/freestyle/internal/wordpool"
)

// ErrClosed is returned when starting a closed scheduler
var ErrClosed = errors.New("scheduler is closed")

// Supplier produces the next word
type Supplier interface {
	Next(ctx context.Context, req supply.Request) supply.Result
}

// Scheduler owns one practice session
type Scheduler struct {
	cfg      Config
	supplier Supplier
	clock    Clock
	logger   *zap.Logger

	mu         sync.Mutex
	state      State
	theme      wordpool.Theme
	difficulty wordpool.Difficulty
	used       wordpool.WordSet
	word       string
	rhymes     []string
	source     supply.Outcome
	countdown  int
	errMsg     string
	failures   int

	// session changes on every start and stop, epoch on every start and
	// settings change. A result is applied only if both still match.
	session uint64
	epoch   uint64
	version uint64

	ctx      context.Context
	cancel   context.CancelFunc
	loopDone chan struct{}
	loops    sync.WaitGroup
	inflight sync.WaitGroup

	subs    map[int]chan Snapshot
	nextSub int
	closed  bool
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock replaces the real clock
func WithClock(clock Clock) Option {
	return func(s *Scheduler) { s.clock = clock }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an idle scheduler
func New(supplier Supplier, cfg Config, opts ...Option) *Scheduler {
	cfg = cfg.withDefaults()
	s := &Scheduler{
		cfg:        cfg,
		supplier:   supplier,
		clock:      RealClock(),
		logger:     zap.NewNop(),
		theme:      cfg.Theme,
		difficulty: cfg.Difficulty,
		used:       wordpool.NewWordSet(),
		countdown:  cfg.CountdownStart,
		subs:       make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins generating. The first word is requested immediately.
// Starting while already generating does nothing.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.state == Generating {
		return nil
	}

	s.state = Generating
	s.used.Clear()
	s.failures = 0
	s.errMsg = ""
	s.word = ""
	s.rhymes = nil
	s.countdown = s.cfg.CountdownStart
	s.session++
	s.epoch++

	s.ctx, s.cancel = context.WithCancel(context.Background())
	wordTicker := s.clock.NewTicker(s.cfg.WordInterval)
	countdownTicker := s.clock.NewTicker(s.cfg.CountdownTick)
	s.loopDone = make(chan struct{})

	s.loops.Add(1)
	go s.run(s.ctx, s.session, wordTicker, countdownTicker, s.loopDone)

	s.logger.Info("Session started",
		zap.Uint64("session", s.session),
		zap.String("theme", string(s.theme)),
		zap.String("difficulty", string(s.difficulty)))

	s.dispatchLocked()
	s.publishLocked()
	return nil
}

// Stop stops generating and clears the displayed word. It returns after
// the timer loop has exited, so no update follows.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.state != Generating {
		s.mu.Unlock()
		return
	}
	done := s.loopDone
	s.stopLocked()
	s.publishLocked()
	s.mu.Unlock()

	<-done
}

// Toggle starts an idle scheduler and stops a generating one
func (s *Scheduler) Toggle() error {
	if s.Snapshot().Generating() {
		s.Stop()
		return nil
	}
	return s.Start()
}

// SetSettings changes theme and difficulty. A change clears the used words
// and, while generating, requests a new word right away.
func (s *Scheduler) SetSettings(theme wordpool.Theme, difficulty wordpool.Difficulty) error {
	if !theme.Valid() {
		return fmt.Errorf("unknown theme: %q", theme)
	}
	if !difficulty.Valid() {
		return fmt.Errorf("unknown difficulty: %q", difficulty)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if theme == s.theme && difficulty == s.difficulty {
		return nil
	}

	s.theme = theme
	s.difficulty = difficulty
	s.used.Clear()
	s.epoch++

	s.logger.Debug("Settings changed",
		zap.String("theme", string(theme)),
		zap.String("difficulty", string(difficulty)))

	if s.state == Generating && !s.closed {
		s.dispatchLocked()
	}
	s.publishLocked()
	return nil
}

// SetTheme changes the theme only
func (s *Scheduler) SetTheme(theme wordpool.Theme) error {
	return s.SetSettings(theme, s.Snapshot().Difficulty)
}

// SetDifficulty changes the difficulty only
func (s *Scheduler) SetDifficulty(difficulty wordpool.Difficulty) error {
	return s.SetSettings(s.Snapshot().Theme, difficulty)
}

// Snapshot returns the current state
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel that always holds the latest snapshot. Slow
// readers skip intermediate snapshots. The channel is closed by cancel or
// Close.
func (s *Scheduler) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.snapshotLocked()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Close stops the scheduler, waits for pending word requests and closes
// all subscriptions
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true

	var done chan struct{}
	if s.state == Generating {
		done = s.loopDone
		s.stopLocked()
		s.publishLocked()
	}
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	if done != nil {
		<-done
	}
	s.loops.Wait()
	s.inflight.Wait()
}

// run drives both tickers until ctx is cancelled
func (s *Scheduler) run(ctx context.Context, session uint64, wordTicker, countdownTicker Ticker, done chan struct{}) {
	defer s.loops.Done()
	defer close(done)
	defer wordTicker.Stop()
	defer countdownTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-wordTicker.C():
			s.mu.Lock()
			if s.activeLocked(session) {
				s.dispatchLocked()
			}
			s.mu.Unlock()
		case <-countdownTicker.C():
			s.mu.Lock()
			if s.activeLocked(session) {
				full := s.cfg.CountdownStart
				s.countdown = (s.countdown - 1 + full) % full
				s.publishLocked()
			}
			s.mu.Unlock()
		}
	}
}

func (s *Scheduler) activeLocked(session uint64) bool {
	return s.state == Generating && s.session == session
}

// dispatchLocked requests a word in the background
func (s *Scheduler) dispatchLocked() {
	ctx := s.ctx
	session, epoch := s.session, s.epoch
	req := supply.Request{
		Theme:      s.theme,
		Difficulty: s.difficulty,
		Excluded:   s.used.Clone(),
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		res := s.supplier.Next(ctx, req)
		s.apply(session, epoch, res)
	}()
}

// apply records a word result unless it went stale
func (s *Scheduler) apply(session, epoch uint64, res supply.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.activeLocked(session) || s.epoch != epoch {
		s.logger.Debug("Discarding stale word result",
			zap.String("word", res.Word),
			zap.Stringer("outcome", res.Outcome))
		return
	}

	if res.Outcome == supply.Failed {
		s.failures++
		s.logger.Warn("No word available",
			zap.Int("failures", s.failures),
			zap.Error(res.Err))

		if s.failures >= s.cfg.MaxFailures {
			s.stopLocked()
			s.errMsg = MsgTooManyFailures
			s.logger.Error("Stopping session after repeated failures", zap.Int("failures", s.failures))
		} else {
			s.errMsg = MsgNoWords
			s.countdown = s.cfg.CountdownStart
		}
		s.publishLocked()
		return
	}

	if res.ExclusionReset {
		s.used.Clear()
	} else if s.used.Has(res.Word) {
		// a concurrent request already delivered this word
		s.logger.Debug("Discarding duplicate word", zap.String("word", res.Word))
		return
	}

	s.used.Add(res.Word)
	s.word = res.Word
	s.rhymes = lo.Filter(res.Rhymes, func(r string, _ int) bool {
		return !s.used.Has(r)
	})
	s.source = res.Outcome
	s.errMsg = ""
	s.failures = 0
	s.countdown = s.cfg.CountdownStart
	s.publishLocked()
}

// stopLocked returns to idle. The timer loop exits on its own.
func (s *Scheduler) stopLocked() {
	s.state = Idle
	s.session++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.word = ""
	s.rhymes = nil
	s.source = supply.Failed
	s.errMsg = ""
	s.countdown = s.cfg.CountdownStart

	s.logger.Info("Session stopped", zap.Uint64("session", s.session))
}

func (s *Scheduler) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:      s.state,
		Word:       s.word,
		Rhymes:     append([]string{}, s.rhymes...),
		Countdown:  s.countdown,
		Error:      s.errMsg,
		Theme:      s.theme,
		Difficulty: s.difficulty,
		UsedWords:  s.used.Len(),
		Failures:   s.failures,
		Session:    s.session,
		Version:    s.version,
	}
	if s.word != "" {
		snap.Source = s.source.String()
	}
	return snap
}

// publishLocked bumps the version and hands the snapshot to every
// subscriber, replacing any unread one
func (s *Scheduler) publishLocked() {
	s.version++
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
