package shell

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/pders01/mpsh/internal/backend"
	"github.com/pders01/mpsh/internal/browse"
	"github.com/pders01/mpsh/internal/debuglog"
	"github.com/pders01/mpsh/internal/lazyseq"
	"github.com/pders01/mpsh/internal/search"
	"github.com/pders01/mpsh/internal/storage"
	"github.com/pders01/mpsh/internal/tui"
	"github.com/pders01/mpsh/internal/validation"
)

type query = browse.Query[storage.Entry]

// pagedQuery wraps a backend call. The sequence is opened once, so moving
// between pages reuses everything already pulled.
func pagedQuery(name string, args map[string]string, produce lazyseq.PageFunc[storage.Entry], limit int, mode browse.Mode, msg, empty string) query {
	seq := lazyseq.New[storage.Entry](lazyseq.GeneratorBacked[storage.Entry]{Produce: produce, Limit: limit})
	q := browse.StaticQuery(name, browse.Listing[storage.Entry]{
		Seq:          seq,
		Mode:         mode,
		Message:      msg,
		EmptyMessage: empty,
	})
	q.Args = args
	return q
}

// listQuery pages through records already in memory.
func listQuery(name string, records []storage.Entry, mode browse.Mode, msg, empty string) query {
	return browse.StaticQuery(name, browse.Listing[storage.Entry]{
		Seq:          lazyseq.New[storage.Entry](lazyseq.FiniteList[storage.Entry]{Records: records}),
		Mode:         mode,
		Message:      msg,
		EmptyMessage: empty,
	})
}

// show makes q the current query at its first page and starts resolving
// the first item, which is the likeliest to be played next.
func show(ctx context.Context, env *Env, q query) error {
	if err := env.Session.ApplyQuery(ctx, q, 0); err != nil {
		return err
	}
	if env.Session.Mode() == browse.ModeNormal {
		if first, ok := env.Session.Record(1); ok {
			env.preload(first)
		}
	}
	return nil
}

func searchVideos(ctx context.Context, env *Env, args []string) error {
	term := strings.TrimSpace(args[0])
	if len(term) < 2 {
		env.Session.SetStatus(MsgNotEnough)
		return nil
	}
	q := pagedQuery("search", map[string]string{"term": term}, env.Backend.SearchVideos(term), env.Backend.MaxTotal(),
		browse.ModeNormal,
		fmt.Sprintf("Search results for %s", term),
		fmt.Sprintf("Found nothing for %s", term))
	return show(ctx, env, q)
}

func searchPlaylists(ctx context.Context, env *Env, args []string) error {
	term := strings.TrimSpace(args[0])
	if len(term) < 2 {
		env.Session.SetStatus(MsgNotEnough)
		return nil
	}
	q := pagedQuery("pls", map[string]string{"term": term}, env.Backend.SearchPlaylists(term), env.Backend.MaxTotal(),
		browse.ModePlaylists,
		fmt.Sprintf("Playlist results for %s", term),
		fmt.Sprintf("No playlists found for: %s", term))
	return show(ctx, env, q)
}

// userUploads lists a channel's uploads. "name/term" searches within them.
func userUploads(ctx context.Context, env *Env, args []string) error {
	name, term, _ := strings.Cut(args[0], "/")
	name, term = strings.TrimSpace(name), strings.TrimSpace(term)
	ch, found, err := env.lookupChannel(ctx, name)
	if err != nil {
		return err
	}
	if !found {
		return userErrorf("User %s not found", name)
	}
	msg := fmt.Sprintf("Video uploads by %s", ch.Title)
	empty := fmt.Sprintf("No uploads found for %s", name)
	if term != "" {
		msg = fmt.Sprintf("Results for %s by %s", term, ch.Title)
		empty = fmt.Sprintf("Found nothing for %s by %s", term, ch.Title)
	}
	q := pagedQuery("user", map[string]string{"user": name, "term": term}, env.Backend.ChannelVideos(ch.ID, term),
		env.Backend.MaxTotal(), browse.ModeNormal, msg, empty)
	return show(ctx, env, q)
}

func userPlaylists(ctx context.Context, env *Env, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		env.Session.SetStatus(MsgNotEnough)
		return nil
	}
	ch, found, err := env.lookupChannel(ctx, name)
	if err != nil {
		return err
	}
	if !found {
		return userErrorf("User %s not found", name)
	}
	q := pagedQuery("userpl", map[string]string{"user": name}, env.Backend.ChannelPlaylists(ch.ID),
		env.Backend.MaxTotal(), browse.ModePlaylists,
		fmt.Sprintf("Playlists by %s", ch.Title),
		fmt.Sprintf("No playlists found for: %s", name))
	return show(ctx, env, q)
}

func openRemotePlaylist(ctx context.Context, env *Env, args []string) error {
	return showRemotePlaylist(ctx, env, args[0], args[0])
}

func showRemotePlaylist(ctx context.Context, env *Env, id, title string) error {
	q := pagedQuery("pl", map[string]string{"id": id}, env.Backend.PlaylistItems(id),
		env.Backend.MaxTotal(), browse.ModeNormal,
		fmt.Sprintf("Showing YouTube playlist %s", title),
		fmt.Sprintf("Playlist %s is empty", title))
	return show(ctx, env, q)
}

func showFeed(ctx context.Context, env *Env, args []string) error {
	if env.Feeds == nil {
		return userErrorf("Feeds are not available")
	}
	if !validation.LooksLikeURL(args[0]) {
		return userErrorf("Not a feed link: %s", args[0])
	}
	listing, err := env.Feeds.List(ctx, args[0])
	if err != nil {
		return userErrorf("Can't read feed: %v", err)
	}
	env.index(listing.Entries)
	title := listing.Title
	if title == "" {
		title = tui.TruncateMiddle(listing.URL, 60)
	}
	q := listQuery("feed", listing.Entries, browse.ModeNormal,
		fmt.Sprintf("Showing feed %s", title),
		fmt.Sprintf("No playable items in %s", title))
	q.Args = map[string]string{"url": listing.URL}
	return show(ctx, env, q)
}

func localSearch(ctx context.Context, env *Env, args []string) error {
	term := strings.TrimSpace(args[0])
	if len([]rune(term)) < search.MinTermLength {
		env.Session.SetStatus(MsgNotEnough)
		return nil
	}
	q := pagedQuery("lsearch", map[string]string{"term": term}, env.Search.Search(term), 0,
		browse.ModeNormal,
		fmt.Sprintf("Local results for %s", term),
		fmt.Sprintf("Found nothing for %s", term))
	return show(ctx, env, q)
}

var videoID = regexp.MustCompile(`(?:^|v=|youtu\.be/|/shorts/|/embed/)([-_0-9a-zA-Z]{11})(?:$|[&?#/])`)

// showURLs lists the videos behind pasted links or bare ids.
func showURLs(ctx context.Context, env *Env, args []string) error {
	var ids []string
	for _, f := range strings.Fields(args[0]) {
		m := videoID.FindStringSubmatch(f)
		if m == nil {
			debuglog.Debugf("url: no video id in %q", f)
			continue
		}
		ids = append(ids, m[1])
	}
	if len(ids) == 0 {
		return userErrorf("No video ids found in %s", args[0])
	}
	if limit := env.Backend.MaxTotal(); len(ids) > limit {
		ids = ids[:limit]
	}
	var entries []storage.Entry
	for chunk := range slices.Chunk(ids, videosPerLookup) {
		got, err := env.Backend.Videos(ctx, chunk)
		if err != nil {
			return err
		}
		entries = append(entries, got...)
	}
	return show(ctx, env, listQuery("url", entries, browse.ModeNormal,
		fmt.Sprintf("Showing %d videos", len(entries)), "No videos found"))
}

// videosPerLookup is how many ids one details request may carry.
const videosPerLookup = 50

// urlFile lists the videos linked from a text file, one or more links per
// line.
func urlFile(ctx context.Context, env *Env, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		debuglog.Warnf("url_file: %v", err)
		return userErrorf("Error while opening the file, check the validity of the path")
	}
	links := strings.Join(strings.Fields(string(data)), " ")
	if links == "" {
		return userErrorf("No links in %s", args[0])
	}
	return showURLs(ctx, env, []string{links})
}

func itemComments(ctx context.Context, env *Env, args []string) error {
	e, err := videoRecord(env, args[0], "Comments only available for video items")
	if err != nil {
		return err
	}
	q := pagedQuery("comments", map[string]string{"id": e.ID}, env.Backend.Comments(e.ID),
		env.Backend.MaxTotal(), browse.ModeRaw,
		fmt.Sprintf("Comments for %s", e.Title),
		fmt.Sprintf("No comments for %s", e.Title))
	return show(ctx, env, q)
}

// albumSearch finds an album's track listing and matches every track to
// the closest video hit.
func albumSearch(ctx context.Context, env *Env, args []string) error {
	term := strings.TrimSpace(args[0])
	if len([]rune(term)) < 2 {
		env.Session.SetStatus(MsgNotEnough)
		return nil
	}
	if env.Albums == nil {
		return userErrorf("Album search is not available")
	}
	album, found, err := env.Albums.FindAlbum(ctx, term)
	if err != nil {
		return err
	}
	if !found {
		return userErrorf("Album '%s' not found!", term)
	}
	if len(album.Tracks) == 0 {
		return userErrorf("Album '%s' by '%s' has 0 tracks!", album.Title, album.Artist)
	}

	songs := make([]storage.Entry, 0, len(album.Tracks))
	for _, track := range album.Tracks {
		wanted := album.Artist + " " + track.Title
		term := wanted
		if album.Artist == "Various Artists" {
			term = track.Title
		}
		page, err := env.Backend.SearchVideos(term)(ctx, "")
		if err != nil {
			return err
		}
		if len(page.Records) == 0 {
			debuglog.Infof("album %s: nothing matched %q", album.Title, track.Title)
			continue
		}
		best, score := backend.BestMatch(page.Records, wanted, track.Length)
		debuglog.Debugf("album %s: %q matched %q (confidence %d)", album.Title, track.Title, best.Title, score)
		songs = append(songs, best)
	}

	q := listQuery("album", songs, browse.ModeNormal,
		fmt.Sprintf("%d / %d songs matched for %s by %s", len(songs), len(album.Tracks), album.Title, album.Artist),
		fmt.Sprintf("No songs matched for %s by %s", album.Title, album.Artist))
	q.Args = map[string]string{"album": album.ID}
	return show(ctx, env, q)
}

func nextPrev(ctx context.Context, env *Env, args []string) error {
	if args[1] != "" {
		n, _ := strconv.Atoi(args[1])
		return env.Session.GotoPage(ctx, n-1)
	}
	if args[0] == "n" {
		return env.Session.NextPage(ctx)
	}
	return env.Session.PreviousPage(ctx)
}

func dump(ctx context.Context, env *Env, args []string) error {
	on := args[0] == ""
	if err := env.Session.Dump(ctx, on); err != nil {
		return err
	}
	if on {
		env.Session.SetStatus(fmt.Sprintf("Showing all %d items", env.Session.Len()))
	}
	return nil
}

func showHistory(ctx context.Context, env *Env, _ []string) error {
	hist, err := env.Store.History()
	if err != nil {
		return err
	}
	if len(hist) == 0 {
		env.Session.Clear()
		env.Session.SetStatus(MsgHistoryEmpty)
		return nil
	}
	entries := make([]storage.Entry, len(hist))
	for i, h := range hist {
		entries[i] = h.Entry
	}
	return show(ctx, env, listQuery("history", entries, browse.ModeNormal, "Viewing play history", MsgHistoryEmpty))
}

func clearHistory(_ context.Context, env *Env, _ []string) error {
	if err := env.Store.ClearHistory(); err != nil {
		return err
	}
	env.Session.Clear()
	env.Session.SetStatus("History cleared")
	return nil
}

// videoRecord returns item n of a video listing.
func videoRecord(env *Env, n string, wrongMode string) (storage.Entry, error) {
	if err := env.Session.Require(browse.ModeNormal); err != nil {
		return storage.Entry{}, userErrorf("%s", wrongMode)
	}
	num, _ := strconv.Atoi(n)
	e, ok := env.Session.Record(num)
	if !ok {
		return storage.Entry{}, fmt.Errorf("%w: item %d", browse.ErrOutOfRange, num)
	}
	return e, nil
}

func itemUploads(ctx context.Context, env *Env, args []string) error {
	e, err := videoRecord(env, args[0], "User uploads must refer to a specific video item")
	if err != nil {
		return err
	}
	if e.AuthorID == "" {
		return userErrorf("No uploader known for %s", e.Title)
	}
	q := pagedQuery("user", map[string]string{"channel": e.AuthorID}, env.Backend.ChannelVideos(e.AuthorID, ""),
		env.Backend.MaxTotal(), browse.ModeNormal,
		fmt.Sprintf("Video uploads by %s", e.Author),
		fmt.Sprintf("No uploads found for %s", e.Author))
	return show(ctx, env, q)
}

func itemRelated(ctx context.Context, env *Env, args []string) error {
	e, err := videoRecord(env, args[0], "Related items must refer to a specific video item")
	if err != nil {
		return err
	}
	q := pagedQuery("related", map[string]string{"id": e.ID}, env.Backend.Related(e.ID),
		env.Backend.MaxTotal(), browse.ModeNormal,
		fmt.Sprintf("Videos related to %s", e.Title),
		fmt.Sprintf("Nothing related to %s", e.Title))
	return show(ctx, env, q)
}

// itemMix shows the generated mix playlist seeded by a video.
func itemMix(ctx context.Context, env *Env, args []string) error {
	e, err := videoRecord(env, args[0], "Mixes must refer to a specific video item")
	if err != nil {
		return err
	}
	q := pagedQuery("mix", map[string]string{"id": e.ID}, env.Backend.PlaylistItems("RD"+e.ID),
		env.Backend.MaxTotal(), browse.ModeNormal,
		fmt.Sprintf("Showing mix for %s", e.Title),
		fmt.Sprintf("No mix available for %s", e.Title))
	return show(ctx, env, q)
}
