package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/pders01/mpsh/internal/browse"
	"github.com/pders01/mpsh/internal/debuglog"
	"github.com/pders01/mpsh/internal/media"
	"github.com/pders01/mpsh/internal/storage"
	"github.com/pders01/mpsh/internal/tui"
)

// play runs the player in the foreground. An interrupt while it runs stops
// playback and returns to the prompt instead of reaching the prompt's own
// interrupt handling.
func play(ctx context.Context, env *Env, entries []storage.Entry, opts media.Options) error {
	if env.Player == nil {
		return media.ErrNoPlayer
	}
	pctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	err := env.Player.Play(pctx, entries, opts)
	if errors.Is(err, media.ErrAborted) {
		env.Session.SetStatus(MsgPlaybackAbort)
		return nil
	}
	if errors.Is(err, media.ErrNoPlayer) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errPlayback, err)
	}
	if len(entries) == 1 {
		env.Session.SetStatus(fmt.Sprintf("Played %s", entries[0].Title))
	} else {
		env.Session.SetStatus(fmt.Sprintf("Played %d items", len(entries)))
	}
	return nil
}

func playOptions(pre, post string) (media.Options, error) {
	opts, err := ParsePlayOptions(pre, post)
	if err != nil {
		return media.Options{}, userErrorf("Conflicting override options specified")
	}
	return opts, nil
}

func playSelection(ctx context.Context, env *Env, args []string) error {
	pre, sel, post := args[0], strings.TrimSpace(args[1]), args[2]
	if sel == "" {
		return userErrorf("%s", MsgNoTracks)
	}
	if env.Session.Mode() == browse.ModePlaylists {
		return openListedPlaylist(ctx, env, sel)
	}
	opts, err := playOptions(pre, post)
	if err != nil {
		return err
	}
	if err := env.Session.Require(browse.ModeNormal); err != nil {
		return err
	}
	if env.Session.Len() == 0 {
		return fmt.Errorf("%w: %s", browse.ErrOutOfRange, MsgNoTracks)
	}
	nums, err := ParseSelection(sel, env.Session.Len())
	if err != nil {
		return err
	}
	entries, err := env.Session.Select(nums)
	if err != nil {
		return err
	}
	if len(entries) == 1 {
		if next, ok := env.Session.Record(nums[0] + 1); ok {
			env.preload(next)
		}
	}
	return play(ctx, env, entries, opts)
}

// openListedPlaylist shows the items of the playlist numbered sel in a
// playlists listing.
func openListedPlaylist(ctx context.Context, env *Env, sel string) error {
	n, err := strconv.Atoi(sel)
	if err != nil {
		return userErrorf("Invalid playlist selection: %s", sel)
	}
	e, ok := env.Session.Record(n)
	if !ok {
		return fmt.Errorf("%w: playlist %d", browse.ErrOutOfRange, n)
	}
	if q, ok := env.Session.Query(); ok && q.Name == localPlaylistsQuery {
		p, found, err := env.Store.GetPlaylist(e.ID)
		if err != nil {
			return err
		}
		if !found {
			return userErrorf("Playlist %s not found", e.ID)
		}
		return openOrView(ctx, env, "view", p)
	}
	return showRemotePlaylist(ctx, env, e.ID, e.Title)
}

// playURL lists the video behind a link and plays it when the link named
// exactly one.
func playURL(ctx context.Context, env *Env, args []string) error {
	opts, err := playOptions(args[1], "")
	if err != nil {
		return err
	}
	if err := showURLs(ctx, env, []string{args[0]}); err != nil {
		return err
	}
	if env.Session.Len() != 1 {
		return nil
	}
	return play(ctx, env, env.Session.CurrentPageRecords(), opts)
}

func playAll(ctx context.Context, env *Env, args []string) error {
	opts, err := playOptions(args[0], args[1])
	if err != nil {
		return err
	}
	if env.Session.Mode() != browse.ModeNormal || env.Session.Len() == 0 {
		return userErrorf("%s", MsgNoTracks)
	}
	return play(ctx, env, env.Session.CurrentPageRecords(), opts)
}

func playSaved(ctx context.Context, env *Env, args []string) error {
	var (
		p   storage.Playlist
		err error
	)
	ref := strings.TrimSpace(args[0])
	if _, numErr := strconv.Atoi(ref); numErr == nil {
		p, err = playlistByNumber(env, ref)
	} else {
		var found bool
		p, found, err = findPlaylist(env, playlistName(ref))
		if err == nil && !found {
			return userErrorf("Playlist %s not found", ref)
		}
	}
	if err != nil {
		return err
	}
	if len(p.Entries) == 0 {
		return userErrorf("Playlist %s is empty", p.Name)
	}
	return play(ctx, env, p.Entries, media.Options{})
}

// record returns item n of whatever listing is shown.
func record(env *Env, n string) (storage.Entry, error) {
	num, _ := strconv.Atoi(n)
	e, ok := env.Session.Record(num)
	if !ok {
		return storage.Entry{}, fmt.Errorf("%w: item %d", browse.ErrOutOfRange, num)
	}
	return e, nil
}

func browserPlay(_ context.Context, env *Env, args []string) error {
	e, err := record(env, args[0])
	if err != nil {
		return err
	}
	if env.Opener == nil {
		return userErrorf("No opener configured")
	}
	if err := env.Opener.Open(e.Link()); err != nil {
		return userErrorf("Can't open %s: %v", e.Link(), err)
	}
	env.Session.SetStatus(fmt.Sprintf("Opened %s in browser", e.Title))
	return nil
}

func copyLink(_ context.Context, env *Env, args []string) error {
	e, err := record(env, args[0])
	if err != nil {
		return err
	}
	if env.Clipboard == nil {
		return userErrorf("Error - couldn't copy to clipboard")
	}
	if err := env.Clipboard.WriteAll(e.Link()); err != nil {
		debuglog.Warnf("clipboard: %v", err)
		return userErrorf("Error - couldn't copy to clipboard: %v", err)
	}
	env.Session.SetStatus(fmt.Sprintf("%s copied to clipboard", e.Link()))
	return nil
}

func itemInfo(_ context.Context, env *Env, args []string) error {
	e, err := videoRecord(env, args[0], "Info must refer to a specific video item")
	if err != nil {
		return err
	}
	env.Session.SetPayload(infoText(e))
	env.Session.SetStatus(fmt.Sprintf("Details for item %s", args[0]))
	return nil
}

func infoText(e storage.Entry) string {
	var b strings.Builder
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%-11s %s\n", label+":", value)
		}
	}
	line("Title", e.Title)
	line("Author", e.Author)
	if !e.Published.IsZero() {
		line("Published", e.Published.Format("2006-01-02"))
	}
	if e.Duration > 0 {
		line("Length", tui.FormatDuration(e.Duration))
	}
	line("Link", e.Link())
	if desc := strings.TrimSpace(e.Description); desc != "" {
		b.WriteString("\n")
		b.WriteString(desc)
		b.WriteString("\n")
	}
	return b.String()
}
