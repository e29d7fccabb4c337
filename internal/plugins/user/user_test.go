package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/mpsh/internal/plugins"
)

func TestYouTubeResolver(t *testing.T) {
	p := NewYouTubeResolver()

	tests := []struct {
		name    string
		url     string
		target  plugins.Target
		id      string
		feed    string
		handle  string
		wantErr bool
	}{
		{
			name:   "playlist",
			url:    "https://www.youtube.com/playlist?list=PLabc",
			target: plugins.TargetPlaylist,
			id:     "PLabc",
			feed:   "https://www.youtube.com/feeds/videos.xml?playlist_id=PLabc",
		},
		{
			name:   "watch inside playlist",
			url:    "https://youtube.com/watch?v=xyz&list=PLdef",
			target: plugins.TargetPlaylist,
			id:     "PLdef",
			feed:   "https://www.youtube.com/feeds/videos.xml?playlist_id=PLdef",
		},
		{
			name:   "channel id",
			url:    "https://www.youtube.com/channel/UC123/videos",
			target: plugins.TargetChannel,
			id:     "UC123",
			feed:   "https://www.youtube.com/feeds/videos.xml?channel_id=UC123",
		},
		{
			name:   "handle",
			url:    "https://www.youtube.com/@someone",
			target: plugins.TargetChannel,
			handle: "someone",
		},
		{
			name:   "legacy user",
			url:    "https://www.youtube.com/user/oldname",
			target: plugins.TargetChannel,
			handle: "oldname",
			feed:   "https://www.youtube.com/feeds/videos.xml?user=oldname",
		},
		{
			name:    "single video",
			url:     "https://www.youtube.com/watch?v=xyz",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, p.CanHandle(tt.url))
			res, err := p.Resolve(context.Background(), tt.url, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, res.Target)
			assert.Equal(t, tt.id, res.ID)
			assert.Equal(t, tt.feed, res.FeedURL)
			assert.Equal(t, tt.handle, res.Metadata["handle"])
		})
	}
}

func TestYouTubeResolverCanHandle(t *testing.T) {
	p := NewYouTubeResolver()
	assert.True(t, p.CanHandle("https://m.youtube.com/playlist?list=PL1"))
	assert.True(t, p.CanHandle("https://youtu.be/abc"))
	assert.False(t, p.CanHandle("https://notyoutube.com/playlist?list=PL1"))
	assert.False(t, p.CanHandle("https://www.reddit.com/r/golang"))
}

func TestRedditResolver(t *testing.T) {
	p := NewRedditResolver()

	assert.True(t, p.CanHandle("https://www.reddit.com/r/golang"))
	assert.True(t, p.CanHandle("https://old.reddit.com/r/golang/"))
	assert.False(t, p.CanHandle("https://www.reddit.com/user/someone"))

	res, err := p.Resolve(context.Background(), "https://www.reddit.com/r/golang/?sort=new", nil)
	require.NoError(t, err)
	assert.Equal(t, plugins.TargetFeed, res.Target)
	assert.Equal(t, "https://www.reddit.com/r/golang.rss", res.FeedURL)
	assert.Equal(t, "r/golang", res.Title)
	assert.Equal(t, "golang", res.Metadata["subreddit"])

	res, err = p.Resolve(context.Background(), "https://reddit.com/r/music.rss", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://reddit.com/r/music.rss", res.FeedURL)
}

func TestResolversInRegistry(t *testing.T) {
	r := plugins.NewRegistry(0)
	r.Register(NewRedditResolver())
	r.Register(NewYouTubeResolver())
	assert.Equal(t, []string{"youtube", "reddit"}, r.Names())
}
