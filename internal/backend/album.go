package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pders01/mpsh/internal/config"
	"github.com/pders01/mpsh/internal/debuglog"
)

// Album is a release found on MusicBrainz with its track listing.
type Album struct {
	ID     string
	Title  string
	Artist string
	Tracks []Track
}

type Track struct {
	Title  string
	Length time.Duration
}

// AlbumClient looks albums up on the MusicBrainz web service.
type AlbumClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewAlbumClient(cfg config.BackendConfig) *AlbumClient {
	return &AlbumClient{
		baseURL:   strings.TrimSuffix(cfg.AlbumURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

type mbReleaseList struct {
	Count    int         `json:"count"`
	Releases []mbRelease `json:"releases"`
}

type mbRelease struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ArtistCredit []struct {
		Name   string `json:"name"`
		Artist struct {
			Name string `json:"name"`
		} `json:"artist"`
	} `json:"artist-credit"`
	Media []struct {
		Tracks []struct {
			Title     string `json:"title"`
			Length    int    `json:"length"`
			Recording struct {
				Title  string `json:"title"`
				Length int    `json:"length"`
			} `json:"recording"`
		} `json:"tracks"`
	} `json:"media"`
}

func (r *mbRelease) artist() string {
	if len(r.ArtistCredit) == 0 {
		return ""
	}
	if name := r.ArtistCredit[0].Artist.Name; name != "" {
		return name
	}
	return r.ArtistCredit[0].Name
}

// FindAlbum returns the best official album release named title, with its
// tracks. An album that does not exist is reported through found.
func (a *AlbumClient) FindAlbum(ctx context.Context, title string) (album Album, found bool, err error) {
	query := fmt.Sprintf("release:%q AND primarytype:album AND status:official", title)
	var list mbReleaseList
	if err := a.get(ctx, "release/", url.Values{"query": {query}, "limit": {"1"}}, &list); err != nil {
		return Album{}, false, err
	}
	if list.Count == 0 || len(list.Releases) == 0 {
		return Album{}, false, nil
	}
	hit := list.Releases[0]

	var release mbRelease
	if err := a.get(ctx, "release/"+url.PathEscape(hit.ID), url.Values{"inc": {"recordings artist-credits"}}, &release); err != nil {
		return Album{}, false, err
	}

	album = Album{ID: hit.ID, Title: hit.Title, Artist: hit.artist()}
	if release.Title != "" {
		album.Title = release.Title
	}
	if artist := release.artist(); artist != "" {
		album.Artist = artist
	}
	for _, medium := range release.Media {
		for _, t := range medium.Tracks {
			tr := Track{Title: t.Title, Length: time.Duration(t.Length) * time.Millisecond}
			if tr.Title == "" {
				tr.Title = t.Recording.Title
			}
			if tr.Length == 0 {
				tr.Length = time.Duration(t.Recording.Length) * time.Millisecond
			}
			if tr.Title == "" {
				tr.Title = "unknown"
			}
			album.Tracks = append(album.Tracks, tr)
		}
	}
	return album, true, nil
}

func (a *AlbumClient) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := "musicbrainz " + strings.TrimSuffix(path, "/")
	params.Set("fmt", "json")
	reqURL := a.baseURL + "/" + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "application/json")

	debuglog.Debugf("album GET %s", reqURL)

	resp, err := a.client.Do(req)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: %w: %v", endpoint, ErrMalformed, err)
	}
	return nil
}
