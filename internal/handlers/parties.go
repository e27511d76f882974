package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"podparty/internal/clock"
	"podparty/internal/db"
	"podparty/internal/models"
	"podparty/pkg/tasks"
)

// startTimeLayouts are the accepted start time formats: RFC 3339 from API
// clients and the datetime-local format browsers submit.
var startTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04"}

func parseStartTime(s string) (time.Time, error) {
	var err error
	for _, layout := range startTimeLayouts {
		var ts time.Time
		ts, err = time.Parse(layout, s)
		if err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, err
}

// CreateParty creates an empty episode and a pending party, then hands the
// feed URL off to the worker. The request returns as soon as the rows exist;
// resolution happens out of band.
func (h *Handlers) CreateParty(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	if name == "" || len(name) > 255 {
		http.Error(w, "Name is required and must be at most 255 characters", http.StatusBadRequest)
		return
	}

	feedURL := r.FormValue("feed_url")
	parsed, err := url.ParseRequestURI(feedURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		http.Error(w, "A valid feed URL is required", http.StatusBadRequest)
		return
	}

	startTime, err := parseStartTime(r.FormValue("start_time"))
	if err != nil {
		http.Error(w, "A valid start time is required", http.StatusBadRequest)
		return
	}

	episode, err := db.CreateEpisode()
	if err != nil {
		log.Printf("Error creating episode: %v", err)
		http.Error(w, "Failed to create listening party", http.StatusInternalServerError)
		return
	}

	party, err := db.CreateParty(uuid.NewString(), episode.ID, name, startTime)
	if err != nil {
		http.Error(w, "Failed to create listening party", http.StatusInternalServerError)
		return
	}

	task, err := tasks.NewProcessFeedTask(feedURL, party.ID, episode.ID)
	if err != nil {
		log.Printf("Error creating process feed task: %v", err)
		http.Error(w, "Failed to create listening party", http.StatusInternalServerError)
		return
	}
	if _, err := h.asynqClient.Enqueue(task); err != nil {
		log.Printf("Error enqueuing process feed task: %v", err)
		http.Error(w, "Failed to create listening party", http.StatusInternalServerError)
		return
	}

	h.metrics.IncPartiesCreated()
	http.Redirect(w, r, "/parties/"+party.PublicID, http.StatusSeeOther)
}

// ShowParty renders the party page. The page itself polls the JSON endpoint
// once per second to drive the countdown and the player.
func (h *Handlers) ShowParty(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	detail, err := db.GetPartyDetail(vars["id"])
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Listening party not found", http.StatusNotFound)
			return
		}
		log.Printf("Error loading party %s: %v", vars["id"], err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.templates.ExecuteTemplate(w, "party.html", detail); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

type podcastResponse struct {
	Title      string `json:"title"`
	ArtworkURL string `json:"artwork_url,omitempty"`
}

type episodeResponse struct {
	Title    string           `json:"title"`
	MediaURL string           `json:"media_url"`
	Podcast  *podcastResponse `json:"podcast,omitempty"`
}

type partyResponse struct {
	Name      string           `json:"name"`
	StartTime time.Time        `json:"start_time"`
	EndTime   *time.Time       `json:"end_time,omitempty"`
	IsActive  bool             `json:"is_active"`
	Episode   *episodeResponse `json:"episode,omitempty"`
	Clock     clock.Snapshot   `json:"clock"`
}

func newPartyResponse(detail models.PartyDetail, now time.Time) partyResponse {
	resp := partyResponse{
		Name:      detail.Name,
		StartTime: detail.StartTime,
		EndTime:   detail.EndTime,
		IsActive:  detail.IsActive,
		Clock:     clock.Evaluate(now, detail.StartTime, detail.EndTime, !detail.IsActive),
	}
	if detail.EpisodeMediaURL != nil {
		episode := &episodeResponse{MediaURL: *detail.EpisodeMediaURL}
		if detail.EpisodeTitle != nil {
			episode.Title = *detail.EpisodeTitle
		}
		if detail.PodcastTitle != nil {
			episode.Podcast = &podcastResponse{Title: *detail.PodcastTitle}
			if detail.PodcastArtworkURL != nil {
				episode.Podcast.ArtworkURL = *detail.PodcastArtworkURL
			}
		}
		resp.Episode = episode
	}
	return resp
}

// GetPartyJSON returns the party read model plus a clock evaluation at the
// server's current time. Clients poll this to stay in sync.
func (h *Handlers) GetPartyJSON(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	detail, err := db.GetPartyDetail(vars["id"])
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, `{"error": "not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("Error loading party %s: %v", vars["id"], err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(newPartyResponse(detail, time.Now())); err != nil {
		log.Printf("Error encoding party %s: %v", vars["id"], err)
	}
}

// FinishParty clears the active flag. A participant calls this when local
// playback reaches the end of the episode, which may land slightly before
// the wall-clock end time.
func (h *Handlers) FinishParty(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := db.FinishParty(vars["id"]); err != nil {
		log.Printf("Error finishing party %s: %v", vars["id"], err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
