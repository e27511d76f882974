package models

import "time"

// Podcast is a feed-level record, keyed by its RSS feed URL. The same
// podcast row is shared by every episode and party created from that feed.
type Podcast struct {
	ID         int64     `db:"id"`
	FeedURL    string    `db:"feed_url"`
	Title      string    `db:"title"`
	ArtworkURL *string   `db:"artwork_url"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
