package db

import (
	"podparty/internal/models"
)

// CreateEpisode inserts an empty episode row. Title, media URL and podcast
// reference are filled in later by the ingestion task.
func CreateEpisode() (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "INSERT INTO episodes DEFAULT VALUES RETURNING *")
	return episode, err
}

func GetEpisodeByID(id int64) (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "SELECT * FROM episodes WHERE id = $1", id)
	return episode, err
}

// CompleteEpisode attaches the episode to its podcast and records the
// resolved title and media URL. Overwriting with the same values on task
// redelivery is harmless.
func CompleteEpisode(id int64, podcastID int64, title string, mediaURL string) error {
	_, err := DB.Exec(`
		UPDATE episodes
		SET podcast_id = $1, title = $2, media_url = $3
		WHERE id = $4`,
		podcastID, title, mediaURL, id)
	return err
}
