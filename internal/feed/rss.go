package feed

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/eduncan911/podcast"
	"podparty/internal/models"
)

func getBaseURL(r *http.Request) string {
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		return baseURL
	}

	scheme := r.URL.Scheme
	if scheme == "" {
		scheme = "https"
		if r.Header.Get("X-Forwarded-Proto") != "" {
			scheme = r.Header.Get("X-Forwarded-Proto")
		}
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GenerateUpcomingRSS renders the ongoing and upcoming listening parties as
// an RSS feed, so users can subscribe to scheduled parties in a podcast app.
func GenerateUpcomingRSS(parties []models.PartyDetail, r *http.Request) (string, error) {
	baseURL := getBaseURL(r)
	now := time.Now()

	p := podcast.New(
		"Listening Parties",
		fmt.Sprintf("%s/parties.rss", baseURL),
		"Scheduled listening parties. Join one and listen in sync with everyone else.",
		&now, &now,
	)

	for _, party := range parties {
		title := party.Name
		if party.EpisodeTitle != nil {
			title = fmt.Sprintf("%s - %s", party.Name, *party.EpisodeTitle)
		}
		item := podcast.Item{
			Title:       title,
			Description: fmt.Sprintf("Starts at %s", party.StartTime.UTC().Format(time.RFC1123)),
			Link:        fmt.Sprintf("%s/parties/%s", baseURL, party.PublicID),
			PubDate:     &party.StartTime,
		}
		if party.EpisodeMediaURL != nil && *party.EpisodeMediaURL != "" {
			item.AddEnclosure(*party.EpisodeMediaURL, podcast.MP3, 0)
		}
		if _, err := p.AddItem(item); err != nil {
			return "", err
		}
	}

	return p.String(), nil
}
