// Package tui draws the shell's views and reads its input.
package tui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/pders01/mpsh/internal/browse"
	"github.com/pders01/mpsh/internal/config"
	"github.com/pders01/mpsh/internal/storage"
)

const defaultWidth = 80

// Frame is everything one render shows.
type Frame struct {
	Mode    browse.Mode
	Records []storage.Entry
	// Text is shown instead of records in raw mode and for payloads.
	Text   string
	Status string
	Kind   StatusKind
	// Page is zero-based. Pages is the page count, or -1 when unknown.
	Page   int
	Pages  int
	Dumped bool
	// Offset is the index of the first record within the whole result set.
	Offset int
}

// FrameFor captures the current state of s.
func FrameFor(s *browse.Session[storage.Entry]) Frame {
	c := s.Cursor()
	pages := -1
	if n, ok := c.PageCount(); ok {
		pages = n
	}
	offset, _ := c.Bounds(c.Page())
	if s.Dumped() {
		offset = 0
	}
	return Frame{
		Mode:    s.Mode(),
		Records: s.CurrentPageRecords(),
		Text:    s.Text(),
		Status:  s.Status(),
		Page:    c.Page(),
		Pages:   pages,
		Dumped:  s.Dumped(),
		Offset:  offset,
	}
}

type Renderer struct {
	theme      Theme
	columns    int
	showStatus bool
}

func NewRenderer(cfg config.UIConfig) *Renderer {
	return &Renderer{
		theme:      NewTheme(cfg.Colors),
		columns:    cfg.Columns,
		showStatus: cfg.ShowStatus,
	}
}

// SetColumns fixes the width; zero means follow the terminal.
func (r *Renderer) SetColumns(n int) { r.columns = n }

// Configure picks up changed UI settings.
func (r *Renderer) Configure(cfg config.UIConfig) {
	r.theme = NewTheme(cfg.Colors)
	r.columns = cfg.Columns
	r.showStatus = cfg.ShowStatus
}

// Width is the number of columns views are laid out for.
func (r *Renderer) Width() int {
	if r.columns > 0 {
		return r.columns
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return w
	}
	return defaultWidth
}

// Render writes f to w.
func (r *Renderer) Render(w io.Writer, f Frame) error {
	_, err := io.WriteString(w, r.View(f))
	return err
}

// View lays f out for the current width.
func (r *Renderer) View(f Frame) string {
	width := r.Width()
	var b strings.Builder

	switch {
	case f.Mode == browse.ModeRaw && f.Text == "" && len(f.Records) > 0:
		b.WriteString(r.comments(f.Records, f.Offset, width))
	case f.Mode == browse.ModeRaw:
		b.WriteString(strings.TrimRight(f.Text, "\n"))
		b.WriteString("\n")
	case f.Mode == browse.ModePlaylists:
		b.WriteString(r.playlists(f.Records, width))
	default:
		b.WriteString(r.videos(f.Records, width))
	}

	if footer := r.pager(f); footer != "" {
		b.WriteString(r.theme.Separator.Render(footer))
		b.WriteString("\n")
	}
	if r.showStatus && f.Status != "" {
		b.WriteString(r.theme.statusStyle(f.Kind).Render(truncateEnd(f.Status, width)))
		b.WriteString("\n")
	}
	return b.String()
}

// Payload renders one-off content such as help or item info.
func (r *Renderer) Payload(w io.Writer, text string, status string, kind StatusKind) error {
	return r.Render(w, Frame{Mode: browse.ModeRaw, Text: text, Status: status, Kind: kind})
}

func (r *Renderer) videos(records []storage.Entry, width int) string {
	if len(records) == 0 {
		return ""
	}
	const numW, lenW, dateW = 4, 8, 10
	authorW := 0
	if width >= 70 {
		authorW = 18
	}
	titleW := width - numW - lenW - dateW - authorW - 4
	if authorW > 0 {
		titleW--
	}
	if titleW < 10 {
		titleW = 10
	}

	var rows []string
	rows = append(rows, r.theme.Header.Render(r.columnsRow(
		[]string{"Num", "Title", "Author", "Date", "Length"},
		[]int{numW, titleW, authorW, dateW, lenW},
	)))
	for i, e := range records {
		date := ""
		if !e.Published.IsZero() {
			date = e.Published.Format("2006-01-02")
		}
		cells := []string{
			r.theme.Number.Render(fit(strconv.Itoa(i+1), numW)),
			r.theme.Title.Render(fit(e.Title, titleW)),
		}
		if authorW > 0 {
			cells = append(cells, r.theme.Author.Render(fit(e.Author, authorW)))
		}
		cells = append(cells,
			r.theme.Time.Render(fit(date, dateW)),
			r.theme.Time.Render(fmt.Sprintf("%*s", lenW, FormatDuration(e.Duration))),
		)
		rows = append(rows, strings.Join(cells, " "))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n"
}

func (r *Renderer) playlists(records []storage.Entry, width int) string {
	if len(records) == 0 {
		return ""
	}
	const numW, countW = 4, 6
	authorW := 0
	if width >= 60 {
		authorW = 20
	}
	titleW := width - numW - countW - authorW - 3
	if authorW > 0 {
		titleW--
	}
	if titleW < 10 {
		titleW = 10
	}

	var rows []string
	rows = append(rows, r.theme.Header.Render(r.columnsRow(
		[]string{"Num", "Playlist", "Author", "Items"},
		[]int{numW, titleW, authorW, countW},
	)))
	for i, e := range records {
		cells := []string{
			r.theme.Number.Render(fit(strconv.Itoa(i+1), numW)),
			r.theme.Title.Render(fit(e.Title, titleW)),
		}
		if authorW > 0 {
			cells = append(cells, r.theme.Author.Render(fit(e.Author, authorW)))
		}
		count := ""
		if e.Count > 0 {
			count = strconv.Itoa(e.Count)
		}
		cells = append(cells, r.theme.Time.Render(fmt.Sprintf("%*s", countW, count)))
		rows = append(rows, strings.Join(cells, " "))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n"
}

// comments lays out text records one block each: a numbered header line
// with author and date, then the wrapped text.
func (r *Renderer) comments(records []storage.Entry, offset, width int) string {
	body := lipgloss.NewStyle().PaddingLeft(2).Width(width)
	var blocks []string
	for i, e := range records {
		header := r.theme.Number.Render(strconv.Itoa(offset+i+1)) + " " + r.theme.Author.Render(truncateEnd(e.Author, 35))
		if !e.Published.IsZero() {
			header += " " + r.theme.Time.Render(e.Published.Format("2006-01-02"))
		}
		blocks = append(blocks, header+"\n"+body.Render(e.Description)+"\n")
	}
	return strings.Join(blocks, "\n")
}

// columnsRow lays out header labels; a zero width drops the column.
func (r *Renderer) columnsRow(labels []string, widths []int) string {
	var cells []string
	for i, l := range labels {
		if widths[i] <= 0 {
			continue
		}
		if i == len(labels)-1 {
			cells = append(cells, fmt.Sprintf("%*s", widths[i], l))
			continue
		}
		cells = append(cells, fit(l, widths[i]))
	}
	return strings.Join(cells, " ")
}

func (r *Renderer) pager(f Frame) string {
	if len(f.Records) == 0 {
		return ""
	}
	if f.Dumped {
		return fmt.Sprintf("All %d items (undump to page)", len(f.Records))
	}
	switch {
	case f.Pages < 0:
		return fmt.Sprintf("Page %d", f.Page+1)
	case f.Pages > 1:
		return fmt.Sprintf("Page %d of %d", f.Page+1, f.Pages)
	}
	return ""
}
