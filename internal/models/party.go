package models

import "time"

// ListeningParty is a scheduled shared playback of one episode. EndTime is
// null until ingestion computes it from the episode duration; once set it
// never changes. IsActive is cleared when the party finishes.
type ListeningParty struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	EpisodeID int64      `db:"episode_id"`
	Name      string     `db:"name"`
	StartTime time.Time  `db:"start_time"`
	EndTime   *time.Time `db:"end_time"`
	IsActive  bool       `db:"is_active"`
	CreatedAt time.Time  `db:"created_at"`
}

// PartyDetail is the joined read model consumed by the web layer: the party
// row plus whatever episode/podcast data ingestion has populated so far.
type PartyDetail struct {
	ListeningParty
	EpisodeTitle      *string `db:"episode_title"`
	EpisodeMediaURL   *string `db:"episode_media_url"`
	PodcastTitle      *string `db:"podcast_title"`
	PodcastArtworkURL *string `db:"podcast_artwork_url"`
}
