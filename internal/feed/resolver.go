package feed

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrFeedUnreachable means the feed URL could not be fetched.
	ErrFeedUnreachable = errors.New("feed unreachable")
	// ErrFeedParse means the response body was not a valid RSS document.
	ErrFeedParse = errors.New("feed is not valid RSS")
	// ErrNoEpisodes means the feed parsed but its channel has no items.
	ErrNoEpisodes = errors.New("no episodes found in feed")
)

const itunesNamespace = "http://www.itunes.com/dtds/podcast-1.0.dtd"

const (
	defaultPodcastTitle = "Unknown Podcast"
	defaultEpisodeTitle = "Untitled Episode"
	defaultDurationRaw  = "00:00:00"
)

// DefaultFetchTimeout bounds the feed fetch so an unreachable host cannot
// hang a worker.
const DefaultFetchTimeout = 30 * time.Second

// Result carries everything the ingestion task needs from a feed: podcast
// metadata plus the latest episode's media URL and raw duration string.
type Result struct {
	PodcastTitle       string
	PodcastArtworkURL  string
	EpisodeTitle       string
	EpisodeMediaURL    string
	EpisodeDurationRaw string
}

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Image rssImage  `xml:"image"`
	Items []rssItem `xml:"item"`
}

type rssImage struct {
	URL string `xml:"url"`
}

type rssItem struct {
	Title     string       `xml:"title"`
	Enclosure rssEnclosure `xml:"enclosure"`
	// Matches itunes:duration only when the itunes namespace is declared on
	// the document; with the namespace undeclared the element resolves to a
	// different space and the field stays empty, which is what we want.
	Duration string `xml:"http://www.itunes.com/dtds/podcast-1.0.dtd duration"`
}

type rssEnclosure struct {
	URL string `xml:"url,attr"`
}

// Resolver fetches and parses podcast RSS feeds.
type Resolver struct {
	client *http.Client
}

// NewResolver returns a Resolver whose fetches time out after timeout.
// A non-positive timeout falls back to DefaultFetchTimeout.
func NewResolver(timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Resolver{client: &http.Client{Timeout: timeout}}
}

// Resolve fetches feedURL and extracts podcast metadata and the latest
// episode. The first item in channel order is the latest episode. Missing
// titles, artwork, enclosures and durations all default gracefully; only an
// unreachable URL, an unparsable document, or an empty channel are errors.
func (r *Resolver) Resolve(ctx context.Context, feedURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnreachable, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", ErrFeedUnreachable, resp.StatusCode, feedURL)
	}

	var doc rssDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedParse, err)
	}

	if len(doc.Channel.Items) == 0 {
		return nil, ErrNoEpisodes
	}
	latest := doc.Channel.Items[0]

	result := &Result{
		PodcastTitle:       strings.TrimSpace(doc.Channel.Title),
		PodcastArtworkURL:  strings.TrimSpace(doc.Channel.Image.URL),
		EpisodeTitle:       strings.TrimSpace(latest.Title),
		EpisodeMediaURL:    strings.TrimSpace(latest.Enclosure.URL),
		EpisodeDurationRaw: strings.TrimSpace(latest.Duration),
	}
	if result.PodcastTitle == "" {
		result.PodcastTitle = defaultPodcastTitle
	}
	if result.EpisodeTitle == "" {
		result.EpisodeTitle = defaultEpisodeTitle
	}
	if result.EpisodeDurationRaw == "" {
		result.EpisodeDurationRaw = defaultDurationRaw
	}

	return result, nil
}
