package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"podparty/internal/db"
	"podparty/internal/feed"
	"podparty/internal/metrics"
	"podparty/pkg/tasks"
)

// FeedResolver resolves a feed URL to podcast metadata and the latest
// episode. Implemented by feed.Resolver, mocked in tests.
type FeedResolver interface {
	Resolve(ctx context.Context, feedURL string) (*feed.Result, error)
}

type TaskHandler struct {
	resolver FeedResolver
	metrics  *metrics.Metrics
}

func NewTaskHandler(resolver FeedResolver, m *metrics.Metrics) *TaskHandler {
	return &TaskHandler{resolver: resolver, metrics: m}
}

// HandleProcessFeedTask resolves the party's feed and completes the party:
// podcast upsert, then episode, then the party end time, in that order so a
// client can never observe an end time next to an episode with no media URL.
//
// Every failure past payload decoding is logged and swallowed: the task runs
// detached from the request that created the party, so there is no caller to
// propagate to, and a failed resolution leaves the party pending. The queue
// may redeliver; all writes are idempotent, and a party that already has an
// end time is left untouched so the end time is only ever set once.
func (h *TaskHandler) HandleProcessFeedTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.ProcessFeedTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	log.Printf("Processing feed %s for party %d", p.FeedURL, p.PartyID)

	party, err := db.GetPartyByID(p.PartyID)
	if err != nil {
		log.Printf("Failed to load party %d: %v", p.PartyID, err)
		return nil
	}
	if party.EndTime != nil {
		log.Printf("Party %d already ingested, skipping", party.ID)
		return nil
	}

	episode, err := db.GetEpisodeByID(p.EpisodeID)
	if err != nil {
		log.Printf("Failed to load episode %d: %v", p.EpisodeID, err)
		return nil
	}

	result, err := h.resolver.Resolve(ctx, p.FeedURL)
	if err != nil {
		log.Printf("Failed to resolve feed %s: %v", p.FeedURL, err)
		h.metrics.IncIngestFailed()
		return nil
	}

	duration, err := feed.ParseHMS(result.EpisodeDurationRaw)
	if err != nil {
		log.Printf("Warning: could not parse episode duration for feed %s: %v. Using 00:00:00", p.FeedURL, err)
		duration = 0
	}

	endTime := party.StartTime.Add(duration)

	var artworkURL *string
	if result.PodcastArtworkURL != "" {
		artworkURL = &result.PodcastArtworkURL
	}
	podcast, err := db.UpsertPodcast(p.FeedURL, result.PodcastTitle, artworkURL)
	if err != nil {
		log.Printf("Failed to upsert podcast for feed %s: %v", p.FeedURL, err)
		h.metrics.IncIngestFailed()
		return nil
	}

	if err := db.CompleteEpisode(episode.ID, podcast.ID, result.EpisodeTitle, result.EpisodeMediaURL); err != nil {
		log.Printf("Failed to complete episode %d: %v", episode.ID, err)
		h.metrics.IncIngestFailed()
		return nil
	}

	if err := db.SetPartyEndTime(party.ID, endTime); err != nil {
		log.Printf("Failed to set end time for party %d: %v", party.ID, err)
		h.metrics.IncIngestFailed()
		return nil
	}

	h.metrics.IncIngestSucceeded()
	log.Printf("Party %d ready: episode %q, ends at %s", party.ID, result.EpisodeTitle, endTime.UTC().Format(time.RFC3339))
	return nil
}

// HandleSweepFinishedTask deactivates parties whose end time has passed.
// Enqueued periodically by the scheduler.
func (h *TaskHandler) HandleSweepFinishedTask(ctx context.Context, t *asynq.Task) error {
	swept, err := db.DeactivateFinishedParties(time.Now())
	if err != nil {
		return fmt.Errorf("failed to deactivate finished parties: %w", err)
	}
	if swept > 0 {
		h.metrics.AddPartiesSwept(swept)
		log.Printf("Swept %d finished parties", swept)
	}
	return nil
}
