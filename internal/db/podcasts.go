package db

import (
	"podparty/internal/models"
)

// UpsertPodcast inserts a podcast keyed by its feed URL, or refreshes the
// title and artwork of the existing row. ON CONFLICT keeps the feed URL
// unique even when two ingestions of the same feed race; last writer wins on
// title and artwork.
func UpsertPodcast(feedURL, title string, artworkURL *string) (models.Podcast, error) {
	podcast := models.Podcast{}
	query := `
		INSERT INTO podcasts (feed_url, title, artwork_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (feed_url) DO UPDATE
		SET title = EXCLUDED.title, artwork_url = EXCLUDED.artwork_url, updated_at = now()
		RETURNING *
	`
	err := DB.Get(&podcast, query, feedURL, title, artworkURL)
	return podcast, err
}

func GetPodcastByFeedURL(feedURL string) (models.Podcast, error) {
	podcast := models.Podcast{}
	err := DB.Get(&podcast, "SELECT * FROM podcasts WHERE feed_url = $1", feedURL)
	return podcast, err
}
