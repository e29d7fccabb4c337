package tui

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// LineReader is where the shell gets its next command from.
type LineReader interface {
	// ReadLine returns one line without its newline. It returns
	// ErrInterrupted on ctrl-c and io.EOF when input is finished.
	ReadLine(ctx context.Context, prompt string) (string, error)
}

type promptModel struct {
	input   textinput.Model
	history []string
	pos     int

	value       string
	done        bool
	interrupted bool
	eof         bool
}

func newPromptModel(prompt string, history []string) promptModel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = "h for help"
	ti.CharLimit = 1024
	ti.Focus()
	return promptModel{input: ti, history: history, pos: len(history)}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.Type {
	case tea.KeyEnter:
		m.value = m.input.Value()
		m.done = true
		return m, tea.Quit
	case tea.KeyCtrlC:
		m.interrupted = true
		return m, tea.Quit
	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.eof = true
			return m, tea.Quit
		}
	case tea.KeyUp:
		if m.pos > 0 {
			m.pos--
			m.input.SetValue(m.history[m.pos])
			m.input.CursorEnd()
		}
		return m, nil
	case tea.KeyDown:
		if m.pos < len(m.history) {
			m.pos++
			if m.pos == len(m.history) {
				m.input.SetValue("")
			} else {
				m.input.SetValue(m.history[m.pos])
			}
			m.input.CursorEnd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done {
		return m.input.Prompt + m.value + "\n"
	}
	if m.interrupted || m.eof {
		return m.input.Prompt + "\n"
	}
	return m.input.View()
}

// Prompt reads lines interactively, with history on the arrow keys.
type Prompt struct {
	in      io.Reader
	out     io.Writer
	history []string
}

func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: in, out: out}
}

func (p *Prompt) ReadLine(ctx context.Context, prompt string) (string, error) {
	program := tea.NewProgram(
		newPromptModel(prompt, p.history),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithContext(ctx),
	)
	final, err := program.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, tea.ErrInterrupted) {
			return "", ErrInterrupted
		}
		return "", wrapErr("reading input", err)
	}

	m := final.(promptModel)
	switch {
	case m.interrupted:
		return "", ErrInterrupted
	case m.eof:
		return "", io.EOF
	}
	if line := strings.TrimSpace(m.value); line != "" {
		p.history = append(p.history, line)
	}
	return m.value, nil
}

// PlainReader reads lines from a non-terminal input, such as a pipe.
type PlainReader struct {
	scanner *bufio.Scanner
}

func NewPlainReader(in io.Reader) *PlainReader {
	return &PlainReader{scanner: bufio.NewScanner(in)}
}

func (r *PlainReader) ReadLine(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.scanner.Scan() {
		return strings.TrimRight(r.scanner.Text(), "\r"), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", wrapErr("reading input", err)
	}
	return "", io.EOF
}
