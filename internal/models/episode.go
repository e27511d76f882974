package models

import "time"

// Episode is created empty when a party is scheduled and filled in by the
// ingestion task. Title, media URL and podcast reference stay null until the
// feed has been resolved; a client must not start playback before then.
type Episode struct {
	ID        int64     `db:"id"`
	PodcastID *int64    `db:"podcast_id"`
	Title     *string   `db:"title"`
	MediaURL  *string   `db:"media_url"`
	CreatedAt time.Time `db:"created_at"`
}
