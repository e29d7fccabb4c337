package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const podcastFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
	<channel>
		<title>Test Podcast</title>
		<link>https://podcast.example.org</link>
		<item>
			<title>Episode 1</title>
			<guid>ep-1</guid>
			<pubDate>Wed, 01 Jan 2025 12:00:00 GMT</pubDate>
			<itunes:duration>01:02:03</itunes:duration>
			<enclosure url="https://cdn.example.org/ep1.mp3" type="audio/mpeg" length="1"/>
		</item>
		<item>
			<title>Cover art only</title>
			<guid>ep-art</guid>
			<enclosure url="https://cdn.example.org/cover.jpg" type="image/jpeg" length="1"/>
		</item>
		<item>
			<title>Episode 2</title>
			<itunes:duration>95</itunes:duration>
			<description><![CDATA[<video src="https://cdn.example.org/ep2.mp4"></video>]]></description>
		</item>
		<item>
			<title>Nothing playable</title>
		</item>
	</channel>
</rss>`

const youtubeFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
	<title>Some Channel</title>
	<entry>
		<id>yt:video:abc123</id>
		<yt:videoId>abc123</yt:videoId>
		<yt:channelId>UCxyz</yt:channelId>
		<title>A video</title>
		<link rel="alternate" href="https://www.youtube.com/watch?v=abc123"/>
		<author><name>Some Channel</name></author>
		<published>2025-01-02T10:00:00+00:00</published>
	</entry>
</feed>`

func TestParser_Podcast(t *testing.T) {
	title, entries, err := NewParser().Parse(strings.NewReader(podcastFeed))
	require.NoError(t, err)
	assert.Equal(t, "Test Podcast", title)

	// image enclosures and bare items are dropped
	require.Len(t, entries, 2)

	ep1 := entries[0]
	assert.Equal(t, "ep-1", ep1.ID)
	assert.Equal(t, "https://cdn.example.org/ep1.mp3", ep1.URL)
	assert.Equal(t, time.Hour+2*time.Minute+3*time.Second, ep1.Duration)
	assert.Equal(t, "Test Podcast", ep1.Author)
	assert.False(t, ep1.Published.IsZero())

	ep2 := entries[1]
	assert.Equal(t, "https://cdn.example.org/ep2.mp4", ep2.URL)
	assert.Equal(t, ep2.URL, ep2.ID, "items without a guid are keyed by their media URL")
	assert.Equal(t, 95*time.Second, ep2.Duration)
}

func TestParser_YouTubeChannelFeed(t *testing.T) {
	title, entries, err := NewParser().Parse(strings.NewReader(youtubeFeed))
	require.NoError(t, err)
	assert.Equal(t, "Some Channel", title)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "abc123", e.ID)
	assert.Equal(t, "UCxyz", e.AuthorID)
	assert.Empty(t, e.URL, "video ids are opened through their watch link")
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", e.Link())
}

func TestParser_Invalid(t *testing.T) {
	_, _, err := NewParser().Parse(strings.NewReader("definitely not a feed"))
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	tests := map[string]time.Duration{
		"":         0,
		"42":       42 * time.Second,
		"3:05":     3*time.Minute + 5*time.Second,
		"1:00:00":  time.Hour,
		"1:xx":     0,
		" 10:00 ":  10 * time.Minute,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseClock(in), in)
	}
}
