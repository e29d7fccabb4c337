// Package media plays entries with an external player and opens links in
// the browser.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/exec"
	"time"

	"github.com/google/shlex"

	"github.com/pders01/mpsh/internal/config"
	"github.com/pders01/mpsh/internal/debuglog"
	"github.com/pders01/mpsh/internal/storage"
)

var (
	// ErrAborted is returned when playback is interrupted.
	ErrAborted = errors.New("playback aborted")
	// ErrNoPlayer is returned when none of the configured players is installed.
	ErrNoPlayer = errors.New("no player found")
)

// Options change how one play command behaves.
type Options struct {
	Shuffle    bool
	Repeat     bool
	Audio      bool
	Video      bool
	Fullscreen bool
	Window     bool
}

// Player plays entries in the foreground until they finish or ctx is done.
type Player interface {
	Play(ctx context.Context, entries []storage.Entry, opts Options) error
}

type Launcher struct {
	cfg      config.PlayerConfig
	extra    []string
	registry *PlayerRegistry
	detector *TypeDetector
	cache    *StreamCache

	// OnStart is called as each entry starts playing.
	OnStart func(storage.Entry)

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func NewLauncher(cfg config.PlayerConfig, cache *StreamCache) (*Launcher, error) {
	registry, err := NewPlayerRegistry()
	if err != nil {
		// keep going with bare player invocations
		debuglog.Warnf("player definitions: %v", err)
		registry = &PlayerRegistry{players: make(map[string]PlayerDefinition)}
	}

	detector, err := NewTypeDetector()
	if err != nil {
		debuglog.Warnf("media types: %v", err)
		detector = &TypeDetector{config: &TypesConfig{}}
	}

	extra, err := shlex.Split(cfg.Args)
	if err != nil {
		return nil, fmt.Errorf("parsing player args %q: %w", cfg.Args, err)
	}

	return &Launcher{
		cfg:      cfg,
		extra:    extra,
		registry: registry,
		detector: detector,
		cache:    cache,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}, nil
}

// Play runs the player once per entry in order, or shuffled. With Repeat
// it starts over until interrupted.
func (l *Launcher) Play(ctx context.Context, entries []storage.Entry, opts Options) error {
	if len(entries) == 0 {
		return nil
	}
	player := FindAvailablePlayer(l.cfg.Candidates())
	if player == "" {
		return fmt.Errorf("%w (tried %v)", ErrNoPlayer, l.cfg.Candidates())
	}
	if !opts.Fullscreen && !opts.Window && l.cfg.Fullscreen {
		opts.Fullscreen = true
	}

	queue := append([]storage.Entry(nil), entries...)
	for {
		if opts.Shuffle {
			rand.Shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })
		}
		for _, e := range queue {
			if err := l.playOne(ctx, player, e, opts); err != nil {
				return err
			}
		}
		if !opts.Repeat {
			return nil
		}
	}
}

func (l *Launcher) playOne(ctx context.Context, player string, e storage.Entry, opts Options) error {
	if ctx.Err() != nil {
		return ErrAborted
	}

	link := e.Link()
	if l.cache != nil {
		resolved, err := l.cache.Resolve(ctx, e)
		if err != nil {
			debuglog.Warnf("resolving %s: %v", e.ID, err)
		} else {
			link = resolved
		}
	}

	args, err := l.registry.Args(player, l.typeFor(link, opts), opts)
	if err != nil {
		return err
	}
	args = append(args, l.extra...)
	args = append(args, link)

	if l.OnStart != nil {
		l.OnStart(e)
	}
	debuglog.WithFields(map[string]interface{}{
		"player": player,
		"id":     e.ID,
	}).Infof("playing %s", link)

	cmd := exec.CommandContext(ctx, player, args...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	cmd.WaitDelay = time.Second
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ErrAborted
		}
		return fmt.Errorf("%s: %w", player, err)
	}
	if ctx.Err() != nil {
		return ErrAborted
	}
	return nil
}

func (l *Launcher) typeFor(link string, opts Options) Type {
	switch {
	case opts.Video:
		return TypeVideo
	case opts.Audio || l.cfg.AudioOnly:
		return TypeAudio
	}
	if l.detector.DetectType(link) == TypeAudio {
		return TypeAudio
	}
	return TypeVideo
}

// Open hands link to the platform opener, usually the web browser, without
// waiting for it.
func (l *Launcher) Open(link string) error {
	opener := l.cfg.DefaultOpener
	if opener == "" {
		opener = l.detector.DefaultOpener()
	}
	if opener == "" {
		return fmt.Errorf("no application found to open %s", link)
	}

	cmd := exec.Command(opener, link)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", opener, err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
