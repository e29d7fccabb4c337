package shell

import (
	"errors"
	"fmt"

	"github.com/pders01/mpsh/internal/backend"
	"github.com/pders01/mpsh/internal/browse"
	"github.com/pders01/mpsh/internal/media"
	"github.com/pders01/mpsh/internal/tui"
)

var (
	// ErrQuit is returned by the quit command and ends Run cleanly.
	ErrQuit = errors.New("quit")
	// ErrBatchFailed ends a batch run after a command failed to match or
	// its handler failed.
	ErrBatchFailed = errors.New("batch command failed")
	// ErrBadSyntax is what a line that matched no command amounts to.
	ErrBadSyntax = errors.New("bad syntax")
	// ErrInvalidInput is reported for a handler that panicked.
	ErrInvalidInput = errors.New("invalid input")

	errPlayback = errors.New("playback failed")
)

// userError is a handler failure whose message is already fit for the
// status line.
type userError struct {
	msg string
}

func (e *userError) Error() string { return e.msg }

func userErrorf(format string, args ...any) error {
	return &userError{msg: fmt.Sprintf(format, args...)}
}

// statusFor turns a handler error into the status line text and severity.
// keep reports that the handler already left a better status in place.
func statusFor(err error) (msg string, kind tui.StatusKind, keep bool) {
	var ue *userError
	switch {
	case errors.As(err, &ue):
		return ue.msg, tui.StatusWarn, false
	case errors.Is(err, browse.ErrNoSuchPage), errors.Is(err, browse.ErrNoQuery):
		return "", tui.StatusWarn, true
	case errors.Is(err, browse.ErrOutOfRange):
		return MsgInvalidRange, tui.StatusError, false
	case errors.Is(err, browse.ErrWrongMode):
		return fmt.Sprintf("Not available here (%v)", err), tui.StatusWarn, false
	case errors.Is(err, backend.ErrUpstream):
		return fmt.Sprintf(MsgNoData, err), tui.StatusError, false
	case errors.Is(err, backend.ErrMalformed):
		return fmt.Sprintf(MsgBadData, err), tui.StatusError, false
	case errors.Is(err, media.ErrNoPlayer), errors.Is(err, errPlayback):
		return fmt.Sprintf(MsgCantPlay, err), tui.StatusError, false
	case errors.Is(err, ErrInvalidInput):
		return MsgInvalidInput, tui.StatusError, false
	default:
		return fmt.Sprintf("Error: %v", err), tui.StatusError, false
	}
}
