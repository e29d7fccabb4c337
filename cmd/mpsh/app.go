package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/pders01/mpsh/internal/backend"
	"github.com/pders01/mpsh/internal/browse"
	"github.com/pders01/mpsh/internal/config"
	"github.com/pders01/mpsh/internal/debuglog"
	"github.com/pders01/mpsh/internal/feed"
	"github.com/pders01/mpsh/internal/media"
	"github.com/pders01/mpsh/internal/search"
	"github.com/pders01/mpsh/internal/shell"
	"github.com/pders01/mpsh/internal/storage"
	"github.com/pders01/mpsh/internal/tui"
)

// isBatch reports whether the shell should run without a prompt.
func isBatch(forced bool, fd uintptr) bool {
	return forced || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

func loadConfig(f rootFlags) (*config.Config, string, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, "", err
	}
	if f.dbPath != "" {
		cfg.Database.Path = f.dbPath
	}
	path := f.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	return cfg, path, nil
}

// openSearcher prefers the bleve index and falls back to scoring the
// store directly when the index cannot be opened.
func openSearcher(cfg *config.Config, store *storage.Store) (search.Searcher, io.Closer) {
	if cfg.Database.SearchIndex != "" {
		s, err := search.NewBleveEngine(store, cfg.Database.SearchIndex)
		if err == nil {
			if stats, ok := s.(search.DebugStatser); ok {
				if n, err := stats.DocCount(); err == nil {
					debuglog.Debugf("search index %s holds %d entries", cfg.Database.SearchIndex, n)
				}
			}
			closer, _ := s.(io.Closer)
			return s, closer
		}
		debuglog.Warnf("opening search index %s: %v; using the simple engine", cfg.Database.SearchIndex, err)
	}
	return search.NewEngine(store), nil
}

func runShell(ctx context.Context, f rootFlags, startup string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, cfgPath, err := loadConfig(f)
	if err != nil {
		return err
	}

	level := debuglog.ParseLogLevel(cfg.Log.Level)
	if f.debug {
		level = debuglog.LevelDebug
	}
	if err := debuglog.Setup(level, cfg.Log.File); err != nil {
		return err
	}
	defer debuglog.Close()
	log := debuglog.WithFields(map[string]interface{}{"session": uuid.NewString()})
	log.Infof("starting mpsh %s", Version)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	store, err := storage.NewStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	searcher, closer := openSearcher(cfg, store)
	if closer != nil {
		defer closer.Close()
	}

	streams := media.NewStreamCache(cfg.Backend)
	env := &shell.Env{
		Session:    browse.NewSession[storage.Entry](cfg.UI.PageSize),
		Store:      store,
		Backend:    backend.NewClient(cfg.Backend),
		Feeds:      feed.NewLister(cfg.Backend),
		Albums:     backend.NewAlbumClient(cfg.Backend),
		Search:     searcher,
		Streams:    streams,
		Clipboard:  shell.SystemClipboard{},
		Config:     cfg,
		ConfigPath: cfgPath,
	}
	if err := wirePlayer(env); err != nil {
		return err
	}
	env.OnSettingChanged = func(name string) {
		switch name {
		case "player", "player_args", "audio_only", "fullscreen":
			if err := wirePlayer(env); err != nil {
				log.Warnf("rebuilding player: %v", err)
			}
		case "max_results", "region", "api_key":
			env.Backend = backend.NewClient(cfg.Backend)
		}
	}

	batch := isBatch(f.batch, os.Stdin.Fd())
	var reader tui.LineReader
	if batch {
		reader = tui.NewPlainReader(os.Stdin)
	} else {
		reader = tui.NewPrompt(os.Stdin, os.Stdout)
		if !f.quiet {
			tui.ShowBanner(os.Stdout, Version)
		}
	}

	renderer := tui.NewRenderer(cfg.UI)
	env.Renderer = renderer
	d := shell.New(shell.Options{
		Env:      env,
		Reader:   reader,
		Renderer: renderer,
		Out:      os.Stdout,
		Queue:    shell.ParseQueue(startup),
		Batch:    batch,
		Log:      log,
	})
	err = d.Run(ctx)
	log.Infof("shell finished: %v", err)
	return err
}

// wirePlayer builds the launcher from the current player settings.
func wirePlayer(env *shell.Env) error {
	launcher, err := media.NewLauncher(env.Config.Player, env.Streams)
	if err != nil {
		return err
	}
	launcher.OnStart = env.RecordPlay
	env.Player = launcher
	env.Opener = launcher
	return nil
}
