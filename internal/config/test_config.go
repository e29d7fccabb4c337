package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:    ":memory:",
			Timeout: 1 * time.Second,
		},
		Backend: BackendConfig{
			BaseURL:     "http://127.0.0.1:0",
			APIKey:      "test-key",
			HTTPTimeout: 5 * time.Second,
			UserAgent:   "mpsh-test/1.0",
			MaxTotal:    500,
			AlbumURL:    "http://127.0.0.1:0",
		},
		UI:     defaultConfig().UI,
		Player: defaultConfig().Player,
		Log:    LogConfig{Level: "off"},
	}
}
