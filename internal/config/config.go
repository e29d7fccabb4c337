package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Backend  BackendConfig  `mapstructure:"backend"`
	UI       UIConfig       `mapstructure:"ui"`
	Player   PlayerConfig   `mapstructure:"player"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

type BackendConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	MaxTotal    int           `mapstructure:"max_total"`
	Region      string        `mapstructure:"region"`
	// AlbumURL is the MusicBrainz web service root used by album search.
	AlbumURL    string        `mapstructure:"album_url"`
}

type UIConfig struct {
	PageSize   int      `mapstructure:"page_size"`
	ShowStatus bool     `mapstructure:"show_status"`
	Columns    int      `mapstructure:"columns"`
	Colors     UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type PlayerConfig struct {
	Darwin        []string `mapstructure:"darwin"`
	Linux         []string `mapstructure:"linux"`
	Windows       []string `mapstructure:"windows"`
	Args          string   `mapstructure:"args"`
	AudioOnly     bool     `mapstructure:"audio_only"`
	Fullscreen    bool     `mapstructure:"fullscreen"`
	DefaultOpener string   `mapstructure:"default_opener"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Candidates returns the player candidates for the running OS.
func (p PlayerConfig) Candidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return p.Darwin
	case "windows":
		return p.Windows
	default:
		return p.Linux
	}
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".mpsh")

	return &Config{
		Database: DatabaseConfig{
			Path:        filepath.Join(dataDir, "mpsh.db"),
			Timeout:     1 * time.Second,
			SearchIndex: filepath.Join(dataDir, "index.bleve"),
		},
		Backend: BackendConfig{
			BaseURL:     "https://www.googleapis.com/youtube/v3",
			HTTPTimeout: 30 * time.Second,
			UserAgent:   "mpsh/1.0 (https://github.com/pders01/mpsh)",
			MaxTotal:    500,
			Region:      "",
			AlbumURL:    "https://musicbrainz.org/ws/2",
		},
		UI: UIConfig{
			PageSize:   20,
			ShowStatus: true,
			Columns:    0,
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
				Success:   "#4ADE80",
			},
		},
		Player: PlayerConfig{
			Darwin:        []string{"mpv", "iina", "vlc"},
			Linux:         []string{"mpv", "vlc", "mplayer"},
			Windows:       []string{"mpv", "vlc"},
			DefaultOpener: getDefaultOpener(),
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(dataDir, "mpsh.log"),
		},
	}
}

// Default returns a fresh copy of the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// DefaultPath is where Load looks when no explicit file is given.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "mpsh", "config.toml")
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MPSH")
	v.AutomaticEnv()
	// nested keys are not picked up by AutomaticEnv unless bound
	_ = v.BindEnv("backend.api_key", "MPSH_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// setDefaults registers every leaf key so a file that sets part of a
// section keeps the defaults for the rest of it.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.timeout", cfg.Database.Timeout)
	v.SetDefault("database.search_index", cfg.Database.SearchIndex)

	v.SetDefault("backend.base_url", cfg.Backend.BaseURL)
	v.SetDefault("backend.api_key", cfg.Backend.APIKey)
	v.SetDefault("backend.http_timeout", cfg.Backend.HTTPTimeout)
	v.SetDefault("backend.user_agent", cfg.Backend.UserAgent)
	v.SetDefault("backend.max_total", cfg.Backend.MaxTotal)
	v.SetDefault("backend.region", cfg.Backend.Region)
	v.SetDefault("backend.album_url", cfg.Backend.AlbumURL)

	v.SetDefault("ui.page_size", cfg.UI.PageSize)
	v.SetDefault("ui.show_status", cfg.UI.ShowStatus)
	v.SetDefault("ui.columns", cfg.UI.Columns)
	v.SetDefault("ui.colors.primary", cfg.UI.Colors.Primary)
	v.SetDefault("ui.colors.secondary", cfg.UI.Colors.Secondary)
	v.SetDefault("ui.colors.accent", cfg.UI.Colors.Accent)
	v.SetDefault("ui.colors.text", cfg.UI.Colors.Text)
	v.SetDefault("ui.colors.muted", cfg.UI.Colors.Muted)
	v.SetDefault("ui.colors.error", cfg.UI.Colors.Error)
	v.SetDefault("ui.colors.success", cfg.UI.Colors.Success)

	v.SetDefault("player.darwin", cfg.Player.Darwin)
	v.SetDefault("player.linux", cfg.Player.Linux)
	v.SetDefault("player.windows", cfg.Player.Windows)
	v.SetDefault("player.args", cfg.Player.Args)
	v.SetDefault("player.audio_only", cfg.Player.AudioOnly)
	v.SetDefault("player.fullscreen", cfg.Player.Fullscreen)
	v.SetDefault("player.default_opener", cfg.Player.DefaultOpener)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// durations as strings for TOML readability
	dbCfg := map[string]interface{}{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
	}

	backendCfg := map[string]interface{}{
		"base_url":     config.Backend.BaseURL,
		"api_key":      config.Backend.APIKey,
		"http_timeout": config.Backend.HTTPTimeout.String(),
		"user_agent":   config.Backend.UserAgent,
		"max_total":    config.Backend.MaxTotal,
		"region":       config.Backend.Region,
		"album_url":    config.Backend.AlbumURL,
	}

	uiCfg := map[string]interface{}{
		"page_size":   config.UI.PageSize,
		"show_status": config.UI.ShowStatus,
		"columns":     config.UI.Columns,
		"colors": map[string]interface{}{
			"primary":   config.UI.Colors.Primary,
			"secondary": config.UI.Colors.Secondary,
			"accent":    config.UI.Colors.Accent,
			"text":      config.UI.Colors.Text,
			"muted":     config.UI.Colors.Muted,
			"error":     config.UI.Colors.Error,
			"success":   config.UI.Colors.Success,
		},
	}

	playerCfg := map[string]interface{}{
		"darwin":         config.Player.Darwin,
		"linux":          config.Player.Linux,
		"windows":        config.Player.Windows,
		"args":           config.Player.Args,
		"audio_only":     config.Player.AudioOnly,
		"fullscreen":     config.Player.Fullscreen,
		"default_opener": config.Player.DefaultOpener,
	}

	v.Set("database", dbCfg)
	v.Set("backend", backendCfg)
	v.Set("ui", uiCfg)
	v.Set("player", playerCfg)
	v.Set("log", map[string]interface{}{
		"level": config.Log.Level,
		"file":  config.Log.File,
	})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
