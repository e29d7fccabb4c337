package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/pders01/mpsh/internal/command"
	"github.com/pders01/mpsh/internal/debuglog"
	"github.com/pders01/mpsh/internal/tui"
)

const defaultPrompt = "> "

type Options struct {
	Env *Env
	// Commands defaults to Commands().
	Commands *command.Registry[*Env]
	Reader   tui.LineReader
	Renderer *tui.Renderer
	Out      io.Writer
	// Queue runs before anything is read from Reader.
	Queue []string
	// Batch makes the first failing line end Run with ErrBatchFailed.
	Batch  bool
	Prompt string
	Log    *debuglog.FieldLogger
}

// Outcome is what handling one line amounted to.
type Outcome struct {
	Matched bool
	Command string
	Err     error
	Quit    bool
}

// Failed reports whether the line did not match or its handler failed.
func (o Outcome) Failed() bool { return o.Err != nil }

// Dispatcher is the read, handle, render loop. It runs on one goroutine.
type Dispatcher struct {
	env      *Env
	commands *command.Registry[*Env]
	reader   tui.LineReader
	renderer *tui.Renderer
	out      io.Writer
	queue    []string
	batch    bool
	prompt   string
	log      *debuglog.FieldLogger

	kind tui.StatusKind
}

func New(opts Options) *Dispatcher {
	d := &Dispatcher{
		env:      opts.Env,
		commands: opts.Commands,
		reader:   opts.Reader,
		renderer: opts.Renderer,
		out:      opts.Out,
		queue:    append([]string(nil), opts.Queue...),
		batch:    opts.Batch,
		prompt:   opts.Prompt,
		log:      opts.Log,
	}
	if d.commands == nil {
		d.commands = Commands()
	}
	if d.prompt == "" {
		d.prompt = defaultPrompt
	}
	if d.log == nil {
		d.log = debuglog.WithFields(nil)
	}
	if d.env.Renderer == nil {
		d.env.Renderer = d.renderer
	}
	return d
}

// Run handles the queued lines, then lines from the reader, until quit,
// end of input in batch mode, or a failure in batch mode.
func (d *Dispatcher) Run(ctx context.Context) error {
	if !d.batch {
		if d.env.Session.Status() == "" {
			d.env.Session.SetStatus(MsgWelcome)
		}
		d.render()
	}
	for {
		line, err := d.next(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if !errors.Is(err, tui.ErrInterrupted) && !errors.Is(err, io.EOF) {
				return err
			}
			if d.batch {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
			var quit bool
			line, quit, err = d.confirmExit(ctx)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}

		out := d.Handle(ctx, line)
		if out.Quit {
			return nil
		}
		d.render()
		if d.batch && out.Failed() {
			return fmt.Errorf("%w: %q: %v", ErrBatchFailed, strings.TrimSpace(line), out.Err)
		}
	}
}

func (d *Dispatcher) next(ctx context.Context) (string, error) {
	if len(d.queue) > 0 {
		line := d.queue[0]
		d.queue = d.queue[1:]
		return line, nil
	}
	return d.reader.ReadLine(ctx, d.prompt)
}

// confirmExit asks for a second interrupt. Any line typed instead is
// handed back to be run.
func (d *Dispatcher) confirmExit(ctx context.Context) (line string, quit bool, err error) {
	d.env.Session.SetStatus(MsgConfirmExit)
	d.kind = tui.StatusWarn
	d.render()
	line, err = d.reader.ReadLine(ctx, d.prompt)
	switch {
	case errors.Is(err, tui.ErrInterrupted), errors.Is(err, io.EOF):
		return "", true, nil
	case err != nil:
		return "", false, err
	}
	return line, false, nil
}

// Handle resolves and runs one input line. It never panics: a handler
// that does is reported as invalid input.
func (d *Dispatcher) Handle(ctx context.Context, line string) Outcome {
	line = strings.TrimSpace(line)
	d.kind = tui.StatusInfo
	if line == "" {
		return Outcome{Matched: true}
	}

	m, ok := d.commands.Resolve(line)
	if !ok {
		d.log.Debugf("no command matches %q", line)
		d.env.Session.SetStatus(MsgBadSyntax)
		d.kind = tui.StatusError
		return Outcome{Err: ErrBadSyntax}
	}

	out := Outcome{Matched: true, Command: m.Binding.Name}
	err := d.invoke(ctx, m)
	switch {
	case err == nil:
	case errors.Is(err, ErrQuit):
		out.Quit = true
	default:
		d.log.With("command", m.Binding.Name).Warnf("%q failed: %v", line, err)
		out.Err = err
		msg, kind, keep := statusFor(err)
		if !keep {
			d.env.Session.SetStatus(msg)
		}
		d.kind = kind
	}
	return out
}

func (d *Dispatcher) invoke(ctx context.Context, m command.Match[*Env]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.With("command", m.Binding.Name).Errorf("panic: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("%w: %v", ErrInvalidInput, r)
		}
	}()
	d.log.Debugf("running %s %q", m.Binding.Name, m.Args)
	return m.Binding.Handler(ctx, d.env, m.Args)
}

// render shows the pending payload if there is one, else the current page.
// The status is shown once.
func (d *Dispatcher) render() {
	if d.renderer == nil || d.out == nil {
		return
	}
	s := d.env.Session
	var err error
	if text, ok := s.TakePayload(); ok {
		err = d.renderer.Payload(d.out, text, s.Status(), d.kind)
	} else {
		f := tui.FrameFor(s)
		f.Kind = d.kind
		err = d.renderer.Render(d.out, f)
	}
	if err != nil {
		d.log.Warnf("render: %v", err)
	}
	s.SetStatus("")
}

// ParseQueue splits startup arguments into commands. Commas separate
// commands; ",," stands for a literal comma.
func ParseQueue(args string) []string {
	const comma = "\x00"
	escaped := strings.ReplaceAll(args, ",,", comma)
	var out []string
	for _, part := range strings.Split(escaped, ",") {
		part = strings.TrimSpace(strings.ReplaceAll(part, comma, ","))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
