package practice

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"codeberg.org/snonux/freestyle/internal/beats"
	"codeberg.org/snonux/freestyle/internal/scheduler"
	"codeberg.org/snonux/freestyle/internal/wordpool"
)

// Player plays a beat in the background
type Player interface {
	Play(beat beats.Beat, rate, volume float64) error
	Stop()
}

// Config holds the runner's inputs and outputs
type Config struct {
	In     io.Reader
	Out    io.Writer
	Player Player // nil runs without sound
	Beat   string
	Logger *zap.Logger
}

// Runner is a terminal practice session
type Runner struct {
	sched  *scheduler.Scheduler
	deck   *beats.Deck
	player Player
	in     io.Reader
	out    io.Writer
	logger *zap.Logger
}

// New creates a runner for sched. The caller keeps ownership of sched.
func New(sched *scheduler.Scheduler, cfg Config) (*Runner, error) {
	if cfg.Beat == "" {
		cfg.Beat = beats.DefaultBeat
	}
	deck, err := beats.NewDeck(cfg.Beat)
	if err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Runner{
		sched:  sched,
		deck:   deck,
		player: cfg.Player,
		in:     cfg.In,
		out:    cfg.Out,
		logger: cfg.Logger,
	}, nil
}

// Run processes commands until the user quits, the input ends or ctx is
// cancelled. The session is stopped on return.
func (r *Runner) Run(ctx context.Context) error {
	updates, cancel := r.sched.Subscribe()
	defer cancel()
	defer r.shutdown()

	done := make(chan struct{})
	defer close(done)
	lines := r.readLines(done)

	r.printHelp()

	var prev scheduler.Snapshot
	for {
		select {
		case <-ctx.Done():
			return nil

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := r.handle(line); quit {
				return nil
			}

		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			r.render(prev, snap)
			prev = snap
		}
	}
}

func (r *Runner) readLines(done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

func (r *Runner) shutdown() {
	r.sched.Stop()
	r.deck.SetPlaying(false)
	if r.player != nil {
		r.player.Stop()
	}
}

// handle runs one command line and reports whether to quit
func (r *Runner) handle(line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
	case "q", "quit":
		fmt.Fprintln(r.out, "\nBye!")
		return true
	case "s", "start", "stop":
		if err := r.sched.Toggle(); err != nil {
			fmt.Fprintf(r.out, "\nCannot start: %v\n", err)
		}
	case "t", "theme":
		theme, err := wordpool.ParseTheme(arg)
		if err != nil {
			fmt.Fprintf(r.out, "\n%v (one of %s)\n", err, joinThemes())
			return false
		}
		_ = r.sched.SetTheme(theme)
	case "d", "difficulty":
		difficulty, err := wordpool.ParseDifficulty(arg)
		if err != nil {
			fmt.Fprintf(r.out, "\n%v (one of %s)\n", err, joinDifficulties())
			return false
		}
		_ = r.sched.SetDifficulty(difficulty)
	case "b", "beat":
		r.selectBeat(arg)
	case "bpm":
		bpm, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(r.out, "\nInvalid BPM: %q\n", arg)
			return false
		}
		applied := r.deck.SetBPM(bpm)
		fmt.Fprintf(r.out, "\nTempo: %d BPM\n", applied)
		r.restartBeat()
	case "+", "-":
		step := 1
		if cmd == "-" {
			step = -1
		}
		v := r.deck.AdjustVolume(step)
		fmt.Fprintf(r.out, "\nVolume: %.0f%%\n", v*100)
		r.restartBeat()
	case "h", "help", "?":
		r.printHelp()
	default:
		fmt.Fprintf(r.out, "\nUnknown command: %q (h for help)\n", cmd)
	}
	return false
}

func (r *Runner) selectBeat(id string) {
	if _, err := r.deck.Select(id); err != nil {
		fmt.Fprintf(r.out, "\n%v\n", err)
		return
	}
	state := r.deck.State()
	fmt.Fprintf(r.out, "\nBeat: %s (%s, %d BPM)\n", state.Beat.Name, state.Beat.Subtitle, state.BPM)
	r.restartBeat()
}

// restartBeat applies deck changes to the player while playing
func (r *Runner) restartBeat() {
	if r.deck.State().Playing {
		r.startBeat()
	}
}

func (r *Runner) startBeat() {
	r.deck.SetPlaying(true)
	if r.player == nil {
		return
	}
	state := r.deck.State()
	if err := r.player.Play(state.Beat, state.Rate, state.Volume); err != nil {
		r.logger.Warn("Beat playback unavailable", zap.String("beat", state.Beat.ID), zap.Error(err))
		fmt.Fprintf(r.out, "\nBeat playback unavailable: %v\n", err)
	}
}

func (r *Runner) stopBeat() {
	r.deck.SetPlaying(false)
	if r.player != nil {
		r.player.Stop()
	}
}

// render prints what changed between two snapshots
func (r *Runner) render(prev, snap scheduler.Snapshot) {
	if snap.Theme != prev.Theme || snap.Difficulty != prev.Difficulty {
		fmt.Fprintf(r.out, "\nTheme: %s, Difficulty: %s (%s)\n",
			snap.Theme.Label(), snap.Difficulty, snap.Difficulty.Label())
	}

	if snap.State != prev.State {
		if snap.Generating() {
			fmt.Fprintln(r.out, "\nStarted")
			r.startBeat()
		} else {
			fmt.Fprintln(r.out, "\nStopped")
			r.stopBeat()
		}
	}

	if snap.Word != "" && snap.Word != prev.Word {
		fmt.Fprintf(r.out, "\n\n    %s\n", strings.ToUpper(snap.Word))
		if len(snap.Rhymes) > 0 {
			fmt.Fprintf(r.out, "    rhymes: %s\n", strings.Join(snap.Rhymes, ", "))
		}
	}

	if snap.Error != "" && snap.Error != prev.Error {
		fmt.Fprintf(r.out, "\n! %s\n", snap.Error)
	}

	if snap.Generating() && (snap.Countdown != prev.Countdown || snap.Word != prev.Word || !prev.Generating()) {
		fmt.Fprintf(r.out, "\r    next word in %2ds", snap.Countdown)
	}
}

func (r *Runner) printHelp() {
	fmt.Fprintln(r.out, "Commands:")
	fmt.Fprintln(r.out, "  s               start/stop")
	fmt.Fprintf(r.out, "  t <theme>       %s\n", joinThemes())
	fmt.Fprintf(r.out, "  d <difficulty>  %s\n", joinDifficulties())
	fmt.Fprintf(r.out, "  b <beat>        %s\n", joinBeats())
	fmt.Fprintln(r.out, "  bpm <n>         tempo")
	fmt.Fprintln(r.out, "  + / -           volume")
	fmt.Fprintln(r.out, "  q               quit")
}

func joinThemes() string {
	return strings.Join(lo.Map(wordpool.Themes(), func(t wordpool.Theme, _ int) string {
		return string(t)
	}), ", ")
}

func joinDifficulties() string {
	return strings.Join(lo.Map(wordpool.Difficulties(), func(d wordpool.Difficulty, _ int) string {
		return string(d)
	}), ", ")
}

func joinBeats() string {
	return strings.Join(lo.Map(beats.Catalog(), func(b beats.Beat, _ int) string {
		return b.ID
	}), ", ")
}
