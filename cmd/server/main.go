package main

import (
	"html/template"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
	"podparty/internal/db"
	"podparty/internal/handlers"
	"podparty/internal/metrics"
	"podparty/internal/middleware"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer client.Close()

	templates := template.Must(template.ParseGlob(filepath.Join("web", "templates", "*.html")))

	m := metrics.New()
	h := handlers.New(templates, client, m)

	// One party creation per 12 seconds with a burst of 5, per client IP.
	createLimiter := middleware.NewRateLimiterMiddleware(rate.Every(12*time.Second), 5)

	r := mux.NewRouter()
	r.HandleFunc("/", h.Dashboard).Methods(http.MethodGet)
	r.Handle("/parties", createLimiter.Middleware(http.HandlerFunc(h.CreateParty))).Methods(http.MethodPost)
	r.HandleFunc("/parties.rss", h.GetPartiesRSS).Methods(http.MethodGet)
	r.HandleFunc("/parties/{id}", h.ShowParty).Methods(http.MethodGet)
	r.HandleFunc("/api/parties/{id}", h.GetPartyJSON).Methods(http.MethodGet)
	r.HandleFunc("/api/parties/{id}/finish", h.FinishParty).Methods(http.MethodPost)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	log.Printf("Starting server on :%s (commit: %s)", port, CommitSHA)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
