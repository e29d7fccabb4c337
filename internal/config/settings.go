package config

import (
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

// Setting is one user-editable configuration value exposed to the shell's
// `set` command.
type Setting struct {
	Name        string
	Description string
	Get         func(*Config) string
	Set         func(*Config, string) error
}

var settings = []Setting{
	{
		Name:        "page_size",
		Description: "results shown per page",
		Get:         func(c *Config) string { return strconv.Itoa(c.UI.PageSize) },
		Set: func(c *Config, v string) error {
			n, err := parseIntRange(v, 1, 200)
			if err != nil {
				return err
			}
			c.UI.PageSize = n
			return nil
		},
	},
	{
		Name:        "max_results",
		Description: "cap on results fetched per search",
		Get:         func(c *Config) string { return strconv.Itoa(c.Backend.MaxTotal) },
		Set: func(c *Config, v string) error {
			n, err := parseIntRange(v, 1, 5000)
			if err != nil {
				return err
			}
			c.Backend.MaxTotal = n
			return nil
		},
	},
	{
		Name:        "region",
		Description: "two-letter region code for searches",
		Get:         func(c *Config) string { return c.Backend.Region },
		Set: func(c *Config, v string) error {
			v = strings.ToUpper(strings.TrimSpace(v))
			if v != "" && len(v) != 2 {
				return fmt.Errorf("region must be a two-letter code")
			}
			c.Backend.Region = v
			return nil
		},
	},
	{
		Name:        "api_key",
		Description: "backend API key",
		Get: func(c *Config) string {
			if c.Backend.APIKey == "" {
				return ""
			}
			return "********"
		},
		Set: func(c *Config, v string) error {
			c.Backend.APIKey = strings.TrimSpace(v)
			return nil
		},
	},
	{
		Name:        "player",
		Description: "preferred player executable",
		Get: func(c *Config) string {
			if cands := c.Player.Candidates(); len(cands) > 0 {
				return cands[0]
			}
			return ""
		},
		Set: func(c *Config, v string) error {
			v = strings.TrimSpace(v)
			if v == "" {
				return fmt.Errorf("player cannot be empty")
			}
			list := []string{v}
			for _, p := range c.Player.Candidates() {
				if p != v {
					list = append(list, p)
				}
			}
			switch runtime.GOOS {
			case "darwin":
				c.Player.Darwin = list
			case "windows":
				c.Player.Windows = list
			default:
				c.Player.Linux = list
			}
			return nil
		},
	},
	{
		Name:        "player_args",
		Description: "extra arguments passed to the player",
		Get:         func(c *Config) string { return c.Player.Args },
		Set: func(c *Config, v string) error {
			c.Player.Args = v
			return nil
		},
	},
	{
		Name:        "audio_only",
		Description: "play audio streams by default",
		Get:         func(c *Config) string { return strconv.FormatBool(c.Player.AudioOnly) },
		Set:         boolSetter(func(c *Config, b bool) { c.Player.AudioOnly = b }),
	},
	{
		Name:        "fullscreen",
		Description: "start video fullscreen",
		Get:         func(c *Config) string { return strconv.FormatBool(c.Player.Fullscreen) },
		Set:         boolSetter(func(c *Config, b bool) { c.Player.Fullscreen = b }),
	},
	{
		Name:        "show_status",
		Description: "show the status line",
		Get:         func(c *Config) string { return strconv.FormatBool(c.UI.ShowStatus) },
		Set:         boolSetter(func(c *Config, b bool) { c.UI.ShowStatus = b }),
	},
	{
		Name:        "columns",
		Description: "render width, 0 to detect",
		Get:         func(c *Config) string { return strconv.Itoa(c.UI.Columns) },
		Set: func(c *Config, v string) error {
			n, err := parseIntRange(v, 0, 1000)
			if err != nil {
				return err
			}
			c.UI.Columns = n
			return nil
		},
	},
	{
		Name:        "log_level",
		Description: "debug log level (off, error, warn, info, debug)",
		Get:         func(c *Config) string { return c.Log.Level },
		Set: func(c *Config, v string) error {
			v = strings.ToLower(strings.TrimSpace(v))
			switch v {
			case "off", "error", "warn", "info", "debug":
				c.Log.Level = v
				return nil
			}
			return fmt.Errorf("unknown log level %q", v)
		},
	},
}

// Settings returns the editable settings sorted by name.
func Settings() []Setting {
	out := append([]Setting(nil), settings...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupSetting finds a setting by name or unique prefix.
func LookupSetting(name string) (Setting, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	var match []Setting
	for _, s := range settings {
		if s.Name == name {
			return s, true
		}
		if strings.HasPrefix(s.Name, name) {
			match = append(match, s)
		}
	}
	if name != "" && len(match) == 1 {
		return match[0], true
	}
	return Setting{}, false
}

// ResetSetting puts a single setting back to its built-in value.
func ResetSetting(cfg *Config, name string) error {
	s, ok := LookupSetting(name)
	if !ok {
		return fmt.Errorf("unknown setting %q", name)
	}
	return s.Set(cfg, s.Get(defaultConfig()))
}

// ResetAll restores every editable setting, leaving paths and keys alone.
func ResetAll(cfg *Config) {
	def := defaultConfig()
	for _, s := range settings {
		if s.Name == "api_key" {
			continue
		}
		_ = s.Set(cfg, s.Get(def))
	}
}

func parseIntRange(v string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", v)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("value must be between %d and %d", lo, hi)
	}
	return n, nil
}

func boolSetter(apply func(*Config, bool)) func(*Config, string) error {
	return func(c *Config, v string) error {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "yes", "1":
			apply(c, true)
		case "false", "off", "no", "0":
			apply(c, false)
		default:
			return fmt.Errorf("%q is not true or false", v)
		}
		return nil
	}
}
