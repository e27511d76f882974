package db

import (
	"log"
	"time"

	"podparty/internal/models"
)

func CreateParty(publicID string, episodeID int64, name string, startTime time.Time) (models.ListeningParty, error) {
	query := `
		INSERT INTO listening_parties (public_id, episode_id, name, start_time)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`
	party := models.ListeningParty{}
	err := DB.Get(&party, query, publicID, episodeID, name, startTime)
	if err != nil {
		log.Printf("Error creating listening party %q: %v", name, err)
		return party, err
	}
	return party, nil
}

func GetPartyByID(id int64) (models.ListeningParty, error) {
	party := models.ListeningParty{}
	err := DB.Get(&party, "SELECT * FROM listening_parties WHERE id = $1", id)
	return party, err
}

func GetPartyByPublicID(publicID string) (models.ListeningParty, error) {
	party := models.ListeningParty{}
	err := DB.Get(&party, "SELECT * FROM listening_parties WHERE public_id = $1", publicID)
	return party, err
}

// SetPartyEndTime records the computed end of the party. It is written after
// the episode has been completed, so a client never observes an end time on a
// party whose episode still lacks a media URL.
func SetPartyEndTime(id int64, endTime time.Time) error {
	_, err := DB.Exec("UPDATE listening_parties SET end_time = $1 WHERE id = $2", endTime, id)
	return err
}

// GetPartyDetail loads the party together with its episode and podcast data.
// Episode and podcast columns are null while ingestion is still pending.
func GetPartyDetail(publicID string) (models.PartyDetail, error) {
	query := `
		SELECT lp.*,
		       e.title AS episode_title,
		       e.media_url AS episode_media_url,
		       p.title AS podcast_title,
		       p.artwork_url AS podcast_artwork_url
		FROM listening_parties lp
		JOIN episodes e ON e.id = lp.episode_id
		LEFT JOIN podcasts p ON p.id = e.podcast_id
		WHERE lp.public_id = $1
	`
	detail := models.PartyDetail{}
	err := DB.Get(&detail, query, publicID)
	return detail, err
}

// ListOngoingParties returns active parties whose ingestion has completed,
// soonest first. Parties still waiting on ingestion are excluded.
func ListOngoingParties() ([]models.PartyDetail, error) {
	query := `
		SELECT lp.*,
		       e.title AS episode_title,
		       e.media_url AS episode_media_url,
		       p.title AS podcast_title,
		       p.artwork_url AS podcast_artwork_url
		FROM listening_parties lp
		JOIN episodes e ON e.id = lp.episode_id
		LEFT JOIN podcasts p ON p.id = e.podcast_id
		WHERE lp.is_active = TRUE AND lp.end_time IS NOT NULL
		ORDER BY lp.start_time ASC
	`
	var parties []models.PartyDetail
	err := DB.Select(&parties, query)
	if err != nil {
		log.Printf("Error listing ongoing parties: %v", err)
		return nil, err
	}
	return parties, nil
}

// FinishParty clears the active flag. Used when a participant's player
// reaches the end of the episode ahead of the wall clock.
func FinishParty(publicID string) error {
	_, err := DB.Exec("UPDATE listening_parties SET is_active = FALSE WHERE public_id = $1", publicID)
	return err
}

// DeactivateFinishedParties clears the active flag on every party whose end
// time has passed. Returns the number of parties swept.
func DeactivateFinishedParties(now time.Time) (int64, error) {
	res, err := DB.Exec(`
		UPDATE listening_parties
		SET is_active = FALSE
		WHERE is_active = TRUE AND end_time IS NOT NULL AND end_time <= $1`,
		now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
