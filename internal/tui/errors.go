package tui

import (
	"errors"
	"fmt"
)

// ErrInterrupted is returned by ReadLine when the user presses ctrl-c.
var ErrInterrupted = errors.New("interrupted")

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}
