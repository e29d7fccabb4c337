package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/mpsh/internal/debuglog"
)

//go:embed players.toml
var playersTOML []byte

// PlayerDefinition defines how a media player should be invoked
type PlayerDefinition struct {
	Description string         `toml:"description"`
	Platforms   []string       `toml:"platforms"`
	Video       *TypeArguments `toml:"video,omitempty"`
	Audio       *TypeArguments `toml:"audio,omitempty"`
	Fullscreen  []string       `toml:"fullscreen,omitempty"`
	Window      []string       `toml:"window,omitempty"`
}

// TypeArguments holds the arguments for one media type
type TypeArguments struct {
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

// PlayersConfig holds all player definitions
type PlayersConfig struct {
	Players map[string]PlayerDefinition `toml:"players"`
}

// PlayerRegistry manages player definitions
type PlayerRegistry struct {
	players map[string]PlayerDefinition
}

// NewPlayerRegistry creates a registry from the embedded TOML, overlaid
// with ~/.config/mpsh/players.toml when present.
func NewPlayerRegistry() (*PlayerRegistry, error) {
	var cfg PlayersConfig
	if err := toml.Unmarshal(playersTOML, &cfg); err != nil {
		return nil, fmt.Errorf("parsing players.toml: %w", err)
	}
	registry := &PlayerRegistry{players: cfg.Players}
	if home, err := os.UserHomeDir(); err == nil {
		registry.loadUserConfig(filepath.Join(home, ".config", "mpsh", "players.toml"))
	}
	return registry, nil
}

func (r *PlayerRegistry) loadUserConfig(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var userConfig PlayersConfig
	if err := toml.Unmarshal(data, &userConfig); err != nil {
		debuglog.Warnf("ignoring %s: %v", path, err)
		return
	}
	for name, def := range userConfig.Players {
		r.players[name] = def
	}
}

// Args builds the arguments placed before the stream links for player.
// A player without a definition gets none.
func (r *PlayerRegistry) Args(player string, t Type, opts Options) ([]string, error) {
	def, ok := r.players[player]
	if !ok {
		return nil, nil
	}
	if !contains(def.Platforms, runtime.GOOS) {
		return nil, fmt.Errorf("%s not supported on %s", player, runtime.GOOS)
	}

	typeArgs := def.Video
	if t == TypeAudio {
		typeArgs = def.Audio
	}
	if typeArgs == nil {
		return nil, fmt.Errorf("%s cannot play %s", player, t)
	}

	args := append([]string(nil), platformArgs(typeArgs)...)
	switch {
	case opts.Fullscreen:
		args = append(args, def.Fullscreen...)
	case opts.Window:
		args = append(args, def.Window...)
	}
	return args, nil
}

func platformArgs(ta *TypeArguments) []string {
	switch runtime.GOOS {
	case "darwin":
		if len(ta.ArgsDarwin) > 0 {
			return ta.ArgsDarwin
		}
	case "linux":
		if len(ta.ArgsLinux) > 0 {
			return ta.ArgsLinux
		}
	case "windows":
		if len(ta.ArgsWindows) > 0 {
			return ta.ArgsWindows
		}
	}
	return ta.Args
}

// FindAvailablePlayer finds the first installed player from a list
func FindAvailablePlayer(players []string) string {
	for _, player := range players {
		if _, err := exec.LookPath(player); err == nil {
			return player
		}
	}
	return ""
}
