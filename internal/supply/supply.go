package supply

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"codeberg.org/snonux/freestyle/internal/rhyme"
	"codeberg.org/snonux/freestyle/internal/wordgen"
	"codeberg.org/snonux/freestyle/internal/wordpool"
)

// Outcome tells where a word came from
type Outcome int

const (
	// Failed means neither the generator nor the pool produced a word
	Failed Outcome = iota
	// Remote means the generator produced the word
	Remote
	// Fallback means the word was sampled from the static pool
	Fallback
)

func (o Outcome) String() string {
	switch o {
	case Remote:
		return "remote"
	case Fallback:
		return "fallback"
	default:
		return "failed"
	}
}

// Request asks for the next word
type Request struct {
	Theme      wordpool.Theme
	Difficulty wordpool.Difficulty
	Excluded   wordpool.WordSet
}

// Result is the outcome of one Next call
type Result struct {
	Outcome Outcome
	Word    string
	Rhymes  []string
	// ExclusionReset is set when every pool word was excluded; callers must
	// clear their excluded set before recording Word.
	ExclusionReset bool
	// Err is the last failure seen, also set for Fallback results
	Err error
}

// Supplier produces words from a generator with a static pool fallback
type Supplier struct {
	generator    wordgen.Generator
	rhymer       rhyme.Rhymer
	pool         *wordpool.Pool
	rhymeTimeout time.Duration
	logger       *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Supplier
type Option func(*Supplier)

// WithGenerator sets the remote word generator
func WithGenerator(g wordgen.Generator) Option {
	return func(s *Supplier) { s.generator = g }
}

// WithRhymer sets the rhyme source
func WithRhymer(r rhyme.Rhymer) Option {
	return func(s *Supplier) { s.rhymer = r }
}

// WithRand sets the random source used for pool sampling
func WithRand(rng *rand.Rand) Option {
	return func(s *Supplier) { s.rng = rng }
}

// WithRhymeTimeout bounds each rhyme lookup
func WithRhymeTimeout(d time.Duration) Option {
	return func(s *Supplier) { s.rhymeTimeout = d }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Supplier) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a supplier drawing fallback words from pool
func New(pool *wordpool.Pool, opts ...Option) *Supplier {
	s := &Supplier{
		pool:         pool,
		rhymeTimeout: 10 * time.Second,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// Next returns the next word for the request
func (s *Supplier) Next(ctx context.Context, req Request) Result {
	excluded := req.Excluded.Slice()

	res, remoteErr := s.fromGenerator(ctx, req, excluded)
	if res.Outcome != Remote {
		res = s.fromPool(req, remoteErr)
		if res.Outcome == Failed {
			s.logger.Warn("No word available",
				zap.String("theme", string(req.Theme)),
				zap.String("difficulty", string(req.Difficulty)),
				zap.Error(res.Err))
			return res
		}
	}

	exclude := req.Excluded
	if res.ExclusionReset {
		exclude = nil
	}
	res.Rhymes = s.rhymesFor(ctx, res.Word, exclude)
	return res
}

func (s *Supplier) fromGenerator(ctx context.Context, req Request, excluded []string) (Result, error) {
	if s.generator == nil {
		return Result{}, nil
	}

	word, err := s.generator.Generate(ctx, wordgen.Request{
		Theme:      req.Theme,
		Difficulty: req.Difficulty,
		Exclude:    excluded,
	})
	if err == nil {
		word = wordgen.Normalize(word)
		err = wordgen.Validate(word, req.Difficulty, excluded)
	}
	if err != nil {
		level := s.logger.Warn
		if wordgen.IsRejection(err) || errors.Is(err, context.Canceled) {
			level = s.logger.Debug
		}
		level("Word generator failed, using fallback pool",
			zap.String("generator", s.generator.Name()),
			zap.String("theme", string(req.Theme)),
			zap.String("difficulty", string(req.Difficulty)),
			zap.Error(err))
		return Result{}, err
	}

	return Result{Outcome: Remote, Word: word}, nil
}

func (s *Supplier) fromPool(req Request, remoteErr error) Result {
	s.mu.Lock()
	pick, err := s.pool.Pick(req.Theme, req.Difficulty, req.Excluded, s.rng)
	s.mu.Unlock()

	if err != nil {
		return Result{
			Outcome: Failed,
			Err:     errors.Join(remoteErr, fmt.Errorf("fallback pool: %w", err)),
		}
	}

	if pick.Reset {
		s.logger.Info("Word pool exhausted, resetting used words",
			zap.String("theme", string(req.Theme)),
			zap.String("difficulty", string(req.Difficulty)))
	}

	return Result{
		Outcome:        Fallback,
		Word:           pick.Word,
		ExclusionReset: pick.Reset,
		Err:            remoteErr,
	}
}

// rhymesFor fetches at most rhyme.MaxRhymes suggestions that are neither
// the word itself nor excluded. Failures yield an empty list.
func (s *Supplier) rhymesFor(ctx context.Context, word string, excluded wordpool.WordSet) []string {
	if s.rhymer == nil || ctx.Err() != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.rhymeTimeout)
	defer cancel()

	suggestions, err := s.rhymer.Rhymes(ctx, word)
	if err != nil {
		s.logger.Debug("Rhyme lookup failed", zap.String("word", word), zap.Error(err))
		return nil
	}

	rhymes := lo.Filter(lo.Uniq(suggestions), func(r string, _ int) bool {
		return r != "" && r != word && !excluded.Has(r)
	})
	if len(rhymes) > rhyme.MaxRhymes {
		rhymes = rhymes[:rhyme.MaxRhymes]
	}
	return rhymes
}
