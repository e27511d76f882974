package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"podparty/internal/db"
	"podparty/internal/feed"
	"podparty/internal/metrics"
	"podparty/internal/worker"
	"podparty/pkg/tasks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func fetchTimeout() time.Duration {
	if s := os.Getenv("FEED_FETCH_TIMEOUT"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
		log.Printf("Invalid FEED_FETCH_TIMEOUT %q, using default", s)
	}
	return feed.DefaultFetchTimeout
}

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	m := metrics.New()
	if metricsAddr := os.Getenv("METRICS_ADDR"); metricsAddr != "" {
		go func() {
			metricsMux := http.NewServeMux()
			metricsMux.Handle("/metrics", m.Handler())
			if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
				log.Printf("Metrics listener stopped: %v", err)
			}
		}()
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"high":    2,
				"default": 1,
			},
		},
	)

	resolver := feed.NewResolver(fetchTimeout())
	taskHandler := worker.NewTaskHandler(resolver, m)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeProcessFeed, taskHandler.HandleProcessFeedTask)
	mux.HandleFunc(tasks.TypeSweepFinished, taskHandler.HandleSweepFinishedTask)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
