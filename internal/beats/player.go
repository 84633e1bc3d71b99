package beats

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ExecPlayer loops a beat file through an external audio player
type ExecPlayer struct {
	dir    string
	logger *zap.Logger

	goos     string
	lookPath func(file string) (string, error)
	command  func(ctx context.Context, name string, args ...string) *exec.Cmd

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	current string
}

// NewExecPlayer creates a player for beat files stored in dir
func NewExecPlayer(dir string, logger *zap.Logger) *ExecPlayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecPlayer{
		dir:      dir,
		logger:   logger,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		command:  exec.CommandContext,
	}
}

// Play stops whatever is playing and loops beat at the given rate and volume
func (p *ExecPlayer) Play(beat Beat, rate, volume float64) error {
	path := filepath.Join(p.dir, beat.File)
	name, args, err := p.commandLine(path, rate, volume)
	if err != nil {
		return err
	}

	p.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.current = beat.ID
	p.mu.Unlock()

	go p.loop(ctx, done, name, args)

	p.logger.Debug("Playing beat",
		zap.String("beat", beat.ID),
		zap.String("player", name),
		zap.Float64("rate", rate),
		zap.Float64("volume", volume))
	return nil
}

// Stop kills the player process and waits for it to exit
func (p *ExecPlayer) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.current = ""
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Playing returns the ID of the beat being played, or ""
func (p *ExecPlayer) Playing() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// loop restarts the player every time the track ends until ctx is done
func (p *ExecPlayer) loop(ctx context.Context, done chan struct{}, name string, args []string) {
	defer close(done)

	for ctx.Err() == nil {
		cmd := p.command(ctx, name, args...)
		started := time.Now()
		err := cmd.Run()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			p.logger.Warn("Audio player failed", zap.String("player", name), zap.Error(err))
			return
		}
		// a player that exits immediately would spin
		if time.Since(started) < 100*time.Millisecond {
			p.logger.Warn("Audio player exited immediately, giving up", zap.String("player", name))
			return
		}
	}
}

// commandLine picks a player available on this platform
func (p *ExecPlayer) commandLine(path string, rate, volume float64) (string, []string, error) {
	switch p.goos {
	case "darwin":
		return "afplay", []string{"-v", fmt.Sprintf("%.2f", volume), "-r", fmt.Sprintf("%.2f", rate), path}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		// Try players in order of preference
		candidates := []struct {
			name string
			args []string
		}{
			{"mpg123", []string{"-q", "-f", fmt.Sprintf("%d", int(volume*32768)), path}},
			{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet",
				"-af", fmt.Sprintf("atempo=%.2f,volume=%.2f", rate, volume), path}},
			{"play", []string{"-q", path, "vol", fmt.Sprintf("%.2f", volume), "tempo", fmt.Sprintf("%.2f", rate)}},
			{"paplay", []string{fmt.Sprintf("--volume=%d", int(volume*65536)), path}},
		}
		for _, c := range candidates {
			if _, err := p.lookPath(c.name); err == nil {
				return c.name, c.args, nil
			}
		}
		return "", nil, errors.New("no audio player found. Install mpg123, ffplay, sox or paplay")
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", p.goos)
	}
}
