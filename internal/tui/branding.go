package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/mpsh/internal/config"
)

const AppName = "mpsh"

// LogoLines is the ASCII art logo.
var LogoLines = []string{
	"█▀▄▀█ █▀█ █▀ █ █",
	"█ ▀ █ █▀▀ ▄█ █▀█",
}

// BannerColors cycle over the banner lines.
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#4ECDC4"),
	lipgloss.Color("#95E1D3"),
}

// Theme holds the styles every view is drawn with.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color

	Header     lipgloss.Style
	Number     lipgloss.Style
	Title      lipgloss.Style
	Author     lipgloss.Style
	Time       lipgloss.Style
	Separator  lipgloss.Style
	Help       lipgloss.Style
	StatusInfo lipgloss.Style
	StatusOK   lipgloss.Style
	StatusWarn lipgloss.Style
	StatusErr  lipgloss.Style
}

// NewTheme builds the styles from configured colors.
func NewTheme(c config.UIColors) Theme {
	t := Theme{
		Primary:   lipgloss.Color(c.Primary),
		Secondary: lipgloss.Color(c.Secondary),
		Accent:    lipgloss.Color(c.Accent),
		Text:      lipgloss.Color(c.Text),
		Muted:     lipgloss.Color(c.Muted),
		Error:     lipgloss.Color(c.Error),
		Success:   lipgloss.Color(c.Success),
	}

	t.Header = lipgloss.NewStyle().
		Foreground(t.Secondary).
		Bold(true)

	t.Number = lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	t.Title = lipgloss.NewStyle().
		Foreground(t.Text)

	t.Author = lipgloss.NewStyle().
		Foreground(t.Accent)

	t.Time = lipgloss.NewStyle().
		Foreground(t.Muted).
		Faint(true)

	t.Separator = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.Help = lipgloss.NewStyle().
		Foreground(t.Muted).
		Italic(true)

	t.StatusInfo = lipgloss.NewStyle().Foreground(t.Muted)
	t.StatusOK = lipgloss.NewStyle().Foreground(t.Success)
	t.StatusWarn = lipgloss.NewStyle().Foreground(t.Primary)
	t.StatusErr = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)
	return t
}

func (t Theme) statusStyle(kind StatusKind) lipgloss.Style {
	switch kind {
	case StatusSuccess:
		return t.StatusOK
	case StatusWarn:
		return t.StatusWarn
	case StatusError:
		return t.StatusErr
	default:
		return t.StatusInfo
	}
}

// Banner renders the startup banner.
func Banner(version string) string {
	lines := make([]string, 0, len(LogoLines)+2)
	lines = append(lines, LogoLines...)
	lines = append(lines, "")

	tagline := "    media player shell"
	if version != "" && version != "dev" {
		if version[0] != 'v' && version[0] != 'V' {
			version = "v" + version
		}
		tagline += " " + version
	}
	lines = append(lines, tagline)

	var colored []string
	for i, line := range lines {
		if line == "" {
			colored = append(colored, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		colored = append(colored, style.Render(line))
	}

	border := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("#4ECDC4")).
		Padding(1, 3)

	return border.Render(lipgloss.JoinVertical(lipgloss.Center, colored...)) + "\n" +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1D3")).Render("Enter h for help, q to quit") + "\n"
}

// ShowBanner writes the banner to w.
func ShowBanner(w io.Writer, version string) {
	fmt.Fprintln(w, Banner(version))
}
