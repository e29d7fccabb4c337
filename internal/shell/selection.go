package shell

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pders01/mpsh/internal/browse"
	"github.com/pders01/mpsh/internal/media"
)

var (
	errClipboardUnsupported = errors.New("clipboard not supported on this system")
	errConflictingOptions   = errors.New("conflicting override options specified")
)

var (
	selectionSplit = regexp.MustCompile(`[\s,]+`)
	playOption     = regexp.MustCompile(`repeat|shuffle|-[avfw]`)
)

// ParseSelection expands an item selection such as "1-3,5 7", "-3" (one to
// three) or "4-" (four to max) into 1-based item numbers, in the order
// given. Every number must lie within 1..max.
func ParseSelection(spec string, max int) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("%w: empty selection", browse.ErrOutOfRange)
	}
	var out []int
	for _, tok := range selectionSplit.Split(spec, -1) {
		if tok == "" {
			continue
		}
		lo, hi, err := parseSpan(tok, max)
		if err != nil {
			return nil, err
		}
		step := 1
		if lo > hi {
			step = -1
		}
		for n := lo; ; n += step {
			out = append(out, n)
			if n == hi {
				break
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty selection", browse.ErrOutOfRange)
	}
	return out, nil
}

func parseSpan(tok string, max int) (lo, hi int, err error) {
	first, last, isRange := strings.Cut(tok, "-")
	if !isRange {
		n, err := itemNumber(tok, max)
		return n, n, err
	}
	switch {
	case first == "" && last == "":
		return 0, 0, fmt.Errorf("%w: %q", browse.ErrOutOfRange, tok)
	case first == "":
		lo = 1
	default:
		if lo, err = itemNumber(first, max); err != nil {
			return 0, 0, err
		}
	}
	if last == "" {
		hi = max
		if hi < 1 {
			return 0, 0, fmt.Errorf("%w: %q", browse.ErrOutOfRange, tok)
		}
	} else if hi, err = itemNumber(last, max); err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

func itemNumber(s string, max int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", browse.ErrOutOfRange, s)
	}
	if n < 1 || n > max {
		return 0, fmt.Errorf("%w: %d not in 1-%d", browse.ErrOutOfRange, n, max)
	}
	return n, nil
}

// ParsePlayOptions reads the override words around a play selection.
func ParsePlayOptions(words ...string) (media.Options, error) {
	var o media.Options
	for _, group := range words {
		for _, w := range playOption.FindAllString(group, -1) {
			switch w {
			case "shuffle":
				o.Shuffle = true
			case "repeat":
				o.Repeat = true
			case "-a":
				o.Audio = true
			case "-v":
				o.Video = true
			case "-f":
				o.Fullscreen = true
			case "-w":
				o.Window = true
			}
		}
	}
	if (o.Audio && (o.Fullscreen || o.Window || o.Video)) || (o.Window && o.Fullscreen) {
		return media.Options{}, errConflictingOptions
	}
	return o, nil
}
