package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
  <channel>
    <title>Sample Cast</title>
    <image>
      <url>https://x/artwork.png</url>
    </image>
    <item>
      <title>Ep 1</title>
      <enclosure url="https://x/ep1.mp3" length="1024" type="audio/mpeg"/>
      <itunes:duration>00:30:00</itunes:duration>
    </item>
    <item>
      <title>Ep 0</title>
      <enclosure url="https://x/ep0.mp3" length="1024" type="audio/mpeg"/>
      <itunes:duration>01:00:00</itunes:duration>
    </item>
  </channel>
</rss>`

// Same feed but without the itunes namespace declaration: the duration
// element no longer resolves to the itunes namespace and must be ignored.
const sampleFeedNoNamespace = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Sample Cast</title>
    <item>
      <title>Ep 1</title>
      <enclosure url="https://x/ep1.mp3" length="1024" type="audio/mpeg"/>
      <itunes:duration>00:30:00</itunes:duration>
    </item>
  </channel>
</rss>`

const emptyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Sample Cast</title>
  </channel>
</rss>`

const bareFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <item>
      <description>nothing useful here</description>
    </item>
  </channel>
</rss>`

func serveXML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolveSampleFeed(t *testing.T) {
	srv := serveXML(t, sampleFeed)

	result, err := NewResolver(0).Resolve(context.Background(), srv.URL)
	assert.NoError(t, err)
	assert.Equal(t, "Sample Cast", result.PodcastTitle)
	assert.Equal(t, "https://x/artwork.png", result.PodcastArtworkURL)
	assert.Equal(t, "Ep 1", result.EpisodeTitle)
	assert.Equal(t, "https://x/ep1.mp3", result.EpisodeMediaURL)
	assert.Equal(t, "00:30:00", result.EpisodeDurationRaw)
}

func TestResolveSelectsFirstItem(t *testing.T) {
	srv := serveXML(t, sampleFeed)

	result, err := NewResolver(0).Resolve(context.Background(), srv.URL)
	assert.NoError(t, err)
	// Feeds list newest first, so item 0 is the latest episode.
	assert.Equal(t, "Ep 1", result.EpisodeTitle)
	assert.NotEqual(t, "Ep 0", result.EpisodeTitle)
}

func TestResolveWithoutItunesNamespace(t *testing.T) {
	srv := serveXML(t, sampleFeedNoNamespace)

	result, err := NewResolver(0).Resolve(context.Background(), srv.URL)
	assert.NoError(t, err)
	assert.Equal(t, "00:00:00", result.EpisodeDurationRaw)
}

func TestResolveDefaults(t *testing.T) {
	srv := serveXML(t, bareFeed)

	result, err := NewResolver(0).Resolve(context.Background(), srv.URL)
	assert.NoError(t, err)
	assert.Equal(t, "Unknown Podcast", result.PodcastTitle)
	assert.Equal(t, "", result.PodcastArtworkURL)
	assert.Equal(t, "Untitled Episode", result.EpisodeTitle)
	assert.Equal(t, "", result.EpisodeMediaURL)
	assert.Equal(t, "00:00:00", result.EpisodeDurationRaw)
}

func TestResolveEmptyChannel(t *testing.T) {
	srv := serveXML(t, emptyFeed)

	_, err := NewResolver(0).Resolve(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrNoEpisodes)
}

func TestResolveNotXML(t *testing.T) {
	srv := serveXML(t, "<html><body>definitely not a feed</body></html>")

	_, err := NewResolver(0).Resolve(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrFeedParse)
}

func TestResolveHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	_, err := NewResolver(0).Resolve(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrFeedUnreachable)
}

func TestResolveUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewResolver(time.Second).Resolve(context.Background(), url)
	assert.ErrorIs(t, err, ErrFeedUnreachable)
}
