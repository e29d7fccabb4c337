package tui

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
)

// truncateEnd shortens s to at most limit terminal cells, appending an
// ellipsis if truncation occurs.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	return runewidth.Truncate(s, limit, "…")
}

// TruncateMiddle shortens s to at most limit runes by preserving the
// start and end of the string with a single ellipsis in the middle.
// Useful for URLs where both ends carry meaning.
func TruncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	n := len(r)
	if n <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	keep := limit - 1
	left := keep / 2
	right := keep - left
	if left <= 0 {
		return "…" + string(r[n-right:])
	}
	return string(r[:left]) + "…" + string(r[n-right:])
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	return runewidth.FillRight(truncateEnd(s, width), width)
}

// FormatDuration renders a length as M:SS or H:MM:SS; zero is blank.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	s := int(d.Round(time.Second).Seconds())
	h, m, sec := s/3600, (s%3600)/60, s%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}
