package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeProcessFeed   = "feed:process"
	TypeSweepFinished = "parties:sweep"
)

// ProcessFeedTaskPayload carries identifiers only. The worker re-fetches the
// party and episode rows at execution time, so it always acts on current
// state rather than a snapshot serialized at enqueue time.
type ProcessFeedTaskPayload struct {
	FeedURL   string
	PartyID   int64
	EpisodeID int64
}

func NewProcessFeedTask(feedURL string, partyID, episodeID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(ProcessFeedTaskPayload{
		FeedURL:   feedURL,
		PartyID:   partyID,
		EpisodeID: episodeID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeProcessFeed, payload), nil
}

func NewSweepFinishedTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeSweepFinished, nil), nil
}
