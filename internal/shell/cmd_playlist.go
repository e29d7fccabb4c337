package shell

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pders01/mpsh/internal/browse"
	"github.com/pders01/mpsh/internal/storage"
	"github.com/pders01/mpsh/internal/tui"
)

// localPlaylistsQuery is the query name of the saved playlist listing.
const localPlaylistsQuery = "ls"

var unsafeNameChars = regexp.MustCompile(`[^-\w]`)

func playlistName(s string) string {
	return strings.Join(strings.Fields(s), "-")
}

func playlistEntry(p storage.Playlist) storage.Entry {
	return storage.Entry{
		Kind:      storage.KindPlaylist,
		ID:        p.Name,
		Title:     p.Name,
		Count:     len(p.Entries),
		Duration:  p.Duration(),
		Published: p.UpdatedAt,
	}
}

// findPlaylist looks name up exactly, then as a unique case-insensitive
// prefix of a saved name.
func findPlaylist(env *Env, name string) (storage.Playlist, bool, error) {
	p, found, err := env.Store.GetPlaylist(name)
	if err != nil || found {
		return p, found, err
	}
	all, err := env.Store.AllPlaylists()
	if err != nil {
		return storage.Playlist{}, false, err
	}
	var near []storage.Playlist
	lower := strings.ToLower(name)
	for _, p := range all {
		if strings.HasPrefix(strings.ToLower(p.Name), lower) {
			near = append(near, p)
		}
	}
	if len(near) == 1 {
		return near[0], true, nil
	}
	return storage.Playlist{}, false, nil
}

// playlistByNumber returns the n-th saved playlist, as numbered by ls.
func playlistByNumber(env *Env, n string) (storage.Playlist, error) {
	num, _ := strconv.Atoi(n)
	all, err := env.Store.AllPlaylists()
	if err != nil {
		return storage.Playlist{}, err
	}
	if num < 1 || num > len(all) {
		return storage.Playlist{}, fmt.Errorf("%w: playlist %d", browse.ErrOutOfRange, num)
	}
	return all[num-1], nil
}

func listPlaylists(ctx context.Context, env *Env, _ []string) error {
	all, err := env.Store.AllPlaylists()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		env.Session.Clear()
		env.Session.SetStatus(MsgNoPlaylists)
		return nil
	}
	entries := make([]storage.Entry, len(all))
	for i, p := range all {
		entries[i] = playlistEntry(p)
	}
	return show(ctx, env, listQuery(localPlaylistsQuery, entries, browse.ModePlaylists, MsgPlaylistHelp, MsgNoPlaylists))
}

func viewWorking(ctx context.Context, env *Env, _ []string) error {
	if len(env.Working.Entries) == 0 {
		env.Session.Clear()
		env.Session.SetStatus("Current playlist is empty. Use add 1-3 to add items")
		return nil
	}
	msg := "Current playlist"
	if env.LastOpened != "" {
		msg = fmt.Sprintf("Current playlist (loaded from %s)", env.LastOpened)
	}
	return show(ctx, env, listQuery("vp", env.Working.Entries, browse.ModeNormal, msg, ""))
}

// saveLast saves the displayed items under the playlist they were opened
// from, or under a name made up from the first title.
func saveLast(ctx context.Context, env *Env, _ []string) error {
	if env.LastOpened != "" {
		return savePlaylist(env, env.LastOpened)
	}
	if env.Session.Mode() != browse.ModeNormal || env.Session.Len() == 0 {
		return userErrorf("Nothing to save. %s", MsgAdviseSearch)
	}
	first, _ := env.Session.Record(1)
	base := []rune(first.Title)
	if len(base) > 18 {
		base = base[:18]
	}
	stem := unsafeNameChars.ReplaceAllString(strings.TrimSpace(string(base)), "-")
	stem = strings.TrimLeft(stem, "0123456789")
	if stem == "" {
		stem = "playlist"
	}
	name := stem
	for post := 1; ; post++ {
		_, found, err := env.Store.GetPlaylist(name)
		if err != nil {
			return err
		}
		if !found {
			break
		}
		name = stem + "-" + strconv.Itoa(post)
	}
	return savePlaylist(env, name)
}

func savePlaylist(env *Env, name string) error {
	if env.Session.Mode() != browse.ModeNormal || env.Session.Len() == 0 {
		return userErrorf("Nothing to save. %s", MsgAdviseSearch)
	}
	p := storage.Playlist{Name: playlistName(name), Entries: env.Session.CurrentPageRecords()}
	if err := env.Store.SavePlaylist(&p); err != nil {
		return err
	}
	env.index(p.Entries)
	env.Session.SetStatus(fmt.Sprintf("Playlist saved as %s. Use ls to list playlists", p.Name))
	return nil
}

func openSaveView(ctx context.Context, env *Env, args []string) error {
	action, name := args[0], strings.TrimSpace(args[1])
	if action == "save" {
		return savePlaylist(env, name)
	}
	p, found, err := findPlaylist(env, playlistName(name))
	if err != nil {
		return err
	}
	if !found {
		return userErrorf("Playlist %s not found", name)
	}
	return openOrView(ctx, env, action, p)
}

func openViewNumber(ctx context.Context, env *Env, args []string) error {
	p, err := playlistByNumber(env, args[1])
	if err != nil {
		return err
	}
	return openOrView(ctx, env, args[0], p)
}

func openOrView(ctx context.Context, env *Env, action string, p storage.Playlist) error {
	if action == "open" {
		env.Working = storage.Playlist{Name: p.Name, Entries: append([]storage.Entry(nil), p.Entries...)}
		env.LastOpened = p.Name
		return show(ctx, env, listQuery("open", env.Working.Entries, browse.ModeNormal,
			fmt.Sprintf("Loaded playlist %s as current playlist", p.Name),
			fmt.Sprintf("Playlist %s is empty", p.Name)))
	}
	return show(ctx, env, listQuery("view", p.Entries, browse.ModeNormal,
		fmt.Sprintf("Showing playlist %s", p.Name),
		fmt.Sprintf("Playlist %s is empty", p.Name)))
}

func removePlaylist(ctx context.Context, env *Env, args []string) error {
	var (
		p   storage.Playlist
		err error
	)
	if n := strings.TrimSpace(args[0]); n != "" && n[0] >= '0' && n[0] <= '9' {
		p, err = playlistByNumber(env, n)
	} else {
		var found bool
		p, found, err = env.Store.GetPlaylist(playlistName(n))
		if err == nil && !found {
			return userErrorf("Playlist %s not found", n)
		}
	}
	if err != nil {
		return err
	}
	if err := env.Store.DeletePlaylist(p.Name); err != nil {
		return err
	}
	if env.LastOpened == p.Name {
		env.LastOpened = ""
	}
	if q, ok := env.Session.Query(); ok && q.Name == localPlaylistsQuery {
		if err := listPlaylists(ctx, env, nil); err != nil {
			return err
		}
	}
	env.Session.SetStatus(fmt.Sprintf("Deleted playlist %s", p.Name))
	return nil
}

func renamePlaylistNumber(_ context.Context, env *Env, args []string) error {
	p, err := playlistByNumber(env, args[0])
	if err != nil {
		return err
	}
	return rename(env, p.Name, playlistName(args[1]))
}

func renamePlaylist(_ context.Context, env *Env, args []string) error {
	fields := strings.Fields(args[0])
	return rename(env, fields[0], playlistName(strings.Join(fields[1:], " ")))
}

func rename(env *Env, from, to string) error {
	if err := env.Store.RenamePlaylist(from, to); err != nil {
		return userErrorf("Can't rename: %v", err)
	}
	if env.LastOpened == from {
		env.LastOpened = to
	}
	env.Session.SetStatus(fmt.Sprintf("Renamed playlist %s to %s", from, to))
	return nil
}

// selected expands sel against the current page of a video listing.
func selected(env *Env, sel string) ([]int, []storage.Entry, error) {
	if err := env.Session.Require(browse.ModeNormal); err != nil {
		return nil, nil, err
	}
	nums, err := ParseSelection(sel, env.Session.Len())
	if err != nil {
		return nil, nil, err
	}
	entries, err := env.Session.Select(nums)
	return nums, entries, err
}

func rmAdd(_ context.Context, env *Env, args []string) error {
	nums, entries, err := selected(env, args[1])
	if err != nil {
		return err
	}
	if args[0] == "add" {
		addToWorking(env, entries)
		return nil
	}
	drop := make(map[int]bool, len(nums))
	for _, n := range nums {
		drop[n] = true
	}
	env.Session.Update(func(records []storage.Entry) []storage.Entry {
		kept := records[:0]
		for i, r := range records {
			if !drop[i+1] {
				kept = append(kept, r)
			}
		}
		return kept
	})
	env.Session.SetStatus(fmt.Sprintf("Removed %d items", len(drop)))
	return nil
}

func addToWorking(env *Env, entries []storage.Entry) {
	added, dupes := 0, 0
	for _, e := range entries {
		if env.Working.Contains(e) {
			dupes++
			continue
		}
		env.Working.Entries = append(env.Working.Entries, e)
		added++
	}
	msg := fmt.Sprintf("Added %d tracks to current playlist (%d items, %s)",
		added, len(env.Working.Entries), tui.FormatDuration(env.Working.Duration()))
	if dupes > 0 {
		msg += fmt.Sprintf(", skipped %d already present", dupes)
	}
	env.Session.SetStatus(msg)
}

func addToNamed(_ context.Context, env *Env, args []string) error {
	_, entries, err := selected(env, args[0])
	if err != nil {
		return err
	}
	name := playlistName(args[1])
	p, found, err := env.Store.GetPlaylist(name)
	if err != nil {
		return err
	}
	if !found {
		p = storage.Playlist{Name: name}
	}
	p.Entries = append(p.Entries, entries...)
	if err := env.Store.SavePlaylist(&p); err != nil {
		return err
	}
	env.index(entries)
	if found {
		env.Session.SetStatus(fmt.Sprintf("Added %d tracks to %s (%d items)", len(entries), name, len(p.Entries)))
	} else {
		env.Session.SetStatus(fmt.Sprintf("Created playlist %s with %d tracks", name, len(entries)))
	}
	return nil
}

func rmAddAll(_ context.Context, env *Env, args []string) error {
	if err := env.Session.Require(browse.ModeNormal); err != nil {
		return err
	}
	if args[0] == "add" {
		addToWorking(env, env.Session.CurrentPageRecords())
		return nil
	}
	env.Session.Update(func([]storage.Entry) []storage.Entry { return []storage.Entry{} })
	env.Session.SetStatus("Cleared all songs")
	return nil
}

func moveSwap(_ context.Context, env *Env, args []string) error {
	a, _ := strconv.Atoi(args[1])
	b, _ := strconv.Atoi(args[2])
	n := env.Session.Len()
	if a < 1 || a > n || b < 1 || b > n {
		return fmt.Errorf("%w: %d and %d", browse.ErrOutOfRange, a, b)
	}
	if args[0] == "sw" {
		env.Session.Update(func(r []storage.Entry) []storage.Entry {
			r[a-1], r[b-1] = r[b-1], r[a-1]
			return r
		})
		env.Session.SetStatus(fmt.Sprintf("Swapped item %d with item %d", a, b))
		return nil
	}
	env.Session.Update(func(r []storage.Entry) []storage.Entry {
		item := r[a-1]
		r = append(r[:a-1], r[a:]...)
		out := make([]storage.Entry, 0, len(r)+1)
		out = append(out, r[:b-1]...)
		out = append(out, item)
		return append(out, r[b-1:]...)
	})
	env.Session.SetStatus(fmt.Sprintf("Moved item %d to position %d", a, b))
	return nil
}
