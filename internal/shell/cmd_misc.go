package shell

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/pders01/mpsh/internal/browse"
	"github.com/pders01/mpsh/internal/config"
	"github.com/pders01/mpsh/internal/debuglog"
	"github.com/pders01/mpsh/internal/storage"
	"github.com/pders01/mpsh/internal/tui"
)

func showConfig(_ context.Context, env *Env, _ []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%-14s %-24s %s\n", "Setting", "Value", "")
	for _, s := range config.Settings() {
		value := s.Get(env.Config)
		if s.Name == "api_key" && value != "" {
			value = "********"
		}
		fmt.Fprintf(&b, "%-14s %-24s %s\n", s.Name, value, s.Description)
	}
	if env.ConfigPath != "" {
		fmt.Fprintf(&b, "\nSaved to %s\n", env.ConfigPath)
	}
	env.Session.SetPayload(b.String())
	env.Session.SetStatus("Enter set <setting> <value> to change, or set <setting> default")
	return nil
}

func setConfig(_ context.Context, env *Env, args []string) error {
	key, value := strings.ToLower(args[0]), strings.TrimSpace(args[1])
	if key == "all" && value == "default" {
		config.ResetAll(env.Config)
		for _, s := range config.Settings() {
			applySetting(env, s.Name)
		}
		persistConfig(env)
		env.Session.SetStatus("Default configuration reinstated")
		return nil
	}

	s, ok := config.LookupSetting(key)
	if !ok {
		return userErrorf("Unknown setting (%s)", key)
	}
	if value == "" {
		return userErrorf("%s is %s", s.Name, s.Get(env.Config))
	}
	var err error
	if value == "default" {
		err = config.ResetSetting(env.Config, s.Name)
	} else {
		err = s.Set(env.Config, value)
	}
	if err != nil {
		return userErrorf("Can't set %s: %v", s.Name, err)
	}
	applySetting(env, s.Name)
	persistConfig(env)
	shown := s.Get(env.Config)
	if s.Name == "api_key" {
		shown = "(hidden)"
	}
	env.Session.SetStatus(fmt.Sprintf("%s set to %s", s.Name, shown))
	return nil
}

// applySetting pushes a changed setting into the objects built from it.
func applySetting(env *Env, name string) {
	switch name {
	case "page_size":
		env.Session.SetPageSize(env.Config.UI.PageSize)
	case "columns", "show_status":
		if env.Renderer != nil {
			env.Renderer.Configure(env.Config.UI)
		}
	case "log_level":
		if err := debuglog.Setup(debuglog.ParseLogLevel(env.Config.Log.Level), env.Config.Log.File); err != nil {
			debuglog.Warnf("reopening log: %v", err)
		}
	}
	if env.OnSettingChanged != nil {
		env.OnSettingChanged(name)
	}
}

func persistConfig(env *Env) {
	if env.ConfigPath == "" {
		return
	}
	if err := config.Save(env.Config, env.ConfigPath); err != nil {
		debuglog.Errorf("saving config: %v", err)
	}
}

func showHelp(_ context.Context, env *Env, args []string) error {
	text, err := tui.Help(args[0], env.width())
	if err != nil {
		return userErrorf("%v", err)
	}
	env.Session.SetPayload(text)
	if args[0] == "" {
		env.Session.SetStatus("Enter h <topic> for more, e.g. h " + strings.Join(tui.HelpTopics(), ", h "))
	}
	return nil
}

func quit(context.Context, *Env, []string) error {
	return ErrQuit
}

func reorderable(env *Env) error {
	if env.Session.Mode() == browse.ModeRaw || env.Session.Len() == 0 {
		return userErrorf("%s", MsgNoTracks)
	}
	return nil
}

func shuffle(_ context.Context, env *Env, _ []string) error {
	if err := reorderable(env); err != nil {
		return err
	}
	env.Session.Update(func(r []storage.Entry) []storage.Entry {
		rand.Shuffle(len(r), func(i, j int) { r[i], r[j] = r[j], r[i] })
		return r
	})
	env.Session.SetStatus("Items shuffled")
	return nil
}

func reverse(_ context.Context, env *Env, _ []string) error {
	if err := reorderable(env); err != nil {
		return err
	}
	env.Session.Update(func(r []storage.Entry) []storage.Entry {
		slices.Reverse(r)
		return r
	})
	env.Session.SetStatus("Reversed displayed songs")
	return nil
}

func reverseRange(_ context.Context, env *Env, args []string) error {
	if err := reorderable(env); err != nil {
		return err
	}
	a, _ := strconv.Atoi(args[0])
	b, _ := strconv.Atoi(args[1])
	if a < 1 || b > env.Session.Len() || a >= b {
		return fmt.Errorf("%w: %d-%d", browse.ErrOutOfRange, a, b)
	}
	env.Session.Update(func(r []storage.Entry) []storage.Entry {
		slices.Reverse(r[a-1 : b])
		return r
	})
	env.Session.SetStatus(fmt.Sprintf("Reversed range: %d-%d", a, b))
	return nil
}

// reverseAll reverses the whole working playlist, not just the page shown.
func reverseAll(ctx context.Context, env *Env, _ []string) error {
	if len(env.Working.Entries) == 0 {
		return userErrorf("No playlist loaded")
	}
	slices.Reverse(env.Working.Entries)
	if err := viewWorking(ctx, env, nil); err != nil {
		return err
	}
	env.Session.SetStatus("Reversed entire playlist")
	return nil
}

func clearCache(_ context.Context, env *Env, _ []string) error {
	if env.Streams != nil {
		env.Streams.Clear()
	}
	env.Session.SetStatus(MsgCacheCleared)
	return nil
}
