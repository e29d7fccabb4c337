package media

import (
	_ "embed"
	"net/url"
	"path"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed media_types.toml
var mediaTypesTOML []byte

// Type is how a stream is played.
type Type int

const (
	TypeUnknown Type = iota
	TypeVideo
	TypeAudio
)

func (t Type) String() string {
	switch t {
	case TypeVideo:
		return "video"
	case TypeAudio:
		return "audio"
	default:
		return "unknown"
	}
}

type TypeConfig struct {
	Extensions  []string `toml:"extensions"`
	URLPatterns []string `toml:"url_patterns"`
}

type TypesConfig struct {
	Video     TypeConfig                `toml:"video"`
	Audio     TypeConfig                `toml:"audio"`
	Platforms map[string]PlatformConfig `toml:"platforms"`
}

type PlatformConfig struct {
	DefaultOpener string `toml:"default_opener"`
}

type TypeDetector struct {
	config *TypesConfig
}

func NewTypeDetector() (*TypeDetector, error) {
	var cfg TypesConfig
	if err := toml.Unmarshal(mediaTypesTOML, &cfg); err != nil {
		return nil, err
	}
	return &TypeDetector{config: &cfg}, nil
}

// DetectType classifies link by file extension first, then by known site
// patterns.
func (d *TypeDetector) DetectType(link string) Type {
	lower := strings.ToLower(link)

	p := lower
	if u, err := url.Parse(lower); err == nil && u.Path != "" {
		p = u.Path
	}
	if ext := strings.TrimPrefix(path.Ext(p), "."); ext != "" {
		if contains(d.config.Video.Extensions, ext) {
			return TypeVideo
		}
		if contains(d.config.Audio.Extensions, ext) {
			return TypeAudio
		}
	}

	if d.matchesPattern(lower, d.config.Video.URLPatterns) {
		return TypeVideo
	}
	if d.matchesPattern(lower, d.config.Audio.URLPatterns) {
		return TypeAudio
	}
	return TypeUnknown
}

func (d *TypeDetector) DefaultOpener() string {
	if pc, ok := d.config.Platforms[runtime.GOOS]; ok {
		return pc.DefaultOpener
	}
	if fallback, ok := d.config.Platforms["fallback"]; ok {
		return fallback.DefaultOpener
	}
	return "xdg-open"
}

func (d *TypeDetector) matchesPattern(link string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(link, pattern) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
