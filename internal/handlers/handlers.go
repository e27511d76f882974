package handlers

import (
	"html/template"
	"net/http"

	"podparty/internal/db"
	"podparty/internal/metrics"
	"podparty/pkg/tasks"
)

type Handlers struct {
	templates   *template.Template
	asynqClient tasks.TaskEnqueuer
	metrics     *metrics.Metrics
}

func New(templates *template.Template, asynqClient tasks.TaskEnqueuer, m *metrics.Metrics) *Handlers {
	return &Handlers{
		templates:   templates,
		asynqClient: asynqClient,
		metrics:     m,
	}
}

// Dashboard serves the create form and the list of ongoing parties.
// Parties whose ingestion is still pending are not listed.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	parties, err := db.ListOngoingParties()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	err = h.templates.ExecuteTemplate(w, "index.html", map[string]interface{}{
		"Parties": parties,
	})
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
