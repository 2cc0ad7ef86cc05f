package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/spendlens/spendlens/internal/analysis"
	"github.com/spendlens/spendlens/internal/api/handlers"
	"github.com/spendlens/spendlens/internal/api/middleware"
	"github.com/spendlens/spendlens/internal/dataset"
	"github.com/spendlens/spendlens/internal/jobs"
	"github.com/spendlens/spendlens/internal/jobs/inmemory"
	"github.com/spendlens/spendlens/internal/logger"
	"github.com/spendlens/spendlens/internal/store"
)

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	var (
		port = flag.String("port", envOr("PORT", "8080"), "HTTP server port")
	)
	flag.Parse()

	log := logger.New()

	ctx := context.Background()

	repo := store.NewMemory()
	cache := dataset.NewCache()

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		analyzeJob, ok := job.(*jobs.AnalyzeDatasetJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", analyzeJob.JobID).
			Str("dataset_id", analyzeJob.DatasetID).
			Msg("Processing analysis job")

		raw, err := repo.GetDataset(analyzeJob.DatasetID)
		if err != nil {
			return err
		}

		state := &analysis.State{Raw: raw}
		if err := analysis.Run(logger.WithContext(ctx, log), cache, state); err != nil {
			return err
		}
		analyzeJob.RunID = state.RunID

		return repo.SaveResult(&store.AnalysisResult{
			DatasetID:               analyzeJob.DatasetID,
			RunID:                   state.RunID,
			TransactionCount:        len(state.Transactions),
			Report:                  state.Report,
			Scores:                  state.Scores,
			Summary:                 state.Summary,
			SegmentationUnavailable: state.SegmentationUnavailable,
			CompletedAt:             time.Now(),
		})
	}

	if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job workers")
	}

	mux := http.NewServeMux()
	handlers.NewDatasetsHandler(repo, jobQueue, jobStore, log).Register(mux)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	handler := middleware.Chain(mux,
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.Logger(log),
		middleware.CORS,
	)

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("API server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Queue shutdown failed")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
