package handlers

import (
	"log"
	"net/http"

	"podparty/internal/db"
	"podparty/internal/feed"
)

// GetPartiesRSS serves the ongoing and upcoming parties as an RSS feed.
func (h *Handlers) GetPartiesRSS(w http.ResponseWriter, r *http.Request) {
	parties, err := db.ListOngoingParties()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	rss, err := feed.GenerateUpcomingRSS(parties, r)
	if err != nil {
		log.Printf("Error generating parties RSS: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	w.Write([]byte(rss))
}
