package browse

import "errors"

var (
	// ErrNoSuchPage is returned when a page move falls outside the result set.
	ErrNoSuchPage = errors.New("no such page")
	// ErrOutOfRange is returned when an item number is not on the current page.
	ErrOutOfRange = errors.New("invalid range")
	// ErrWrongMode is returned by commands that need a different display mode.
	ErrWrongMode = errors.New("not valid in this mode")
	// ErrNoQuery is returned by page moves when nothing has been browsed yet.
	ErrNoQuery = errors.New("nothing to page through")
)
