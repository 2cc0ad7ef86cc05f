package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/spendlens/spendlens/internal/analytics"
	"github.com/spendlens/spendlens/internal/api/middleware"
	"github.com/spendlens/spendlens/internal/dataset"
	"github.com/spendlens/spendlens/internal/jobs"
	"github.com/spendlens/spendlens/internal/store"
)

// maxUploadBytes caps dataset uploads.
const maxUploadBytes = 64 << 20

// DatasetsHandler handles dataset upload and result endpoints.
type DatasetsHandler struct {
	repo      *store.Memory
	publisher jobs.Publisher
	jobStore  jobs.JobStore
	log       zerolog.Logger
}

// NewDatasetsHandler creates a new datasets handler.
func NewDatasetsHandler(repo *store.Memory, publisher jobs.Publisher, jobStore jobs.JobStore, log zerolog.Logger) *DatasetsHandler {
	return &DatasetsHandler{
		repo:      repo,
		publisher: publisher,
		jobStore:  jobStore,
		log:       log,
	}
}

// Register wires the handler's routes onto the mux.
func (h *DatasetsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/datasets", h.CreateDataset)
	mux.HandleFunc("GET /api/datasets", h.ListDatasets)
	mux.HandleFunc("GET /api/datasets/{id}/report", h.GetReport)
	mux.HandleFunc("GET /api/datasets/{id}/rfm", h.GetRFM)
	mux.HandleFunc("GET /api/datasets/{id}/summary", h.GetSummary)
	mux.HandleFunc("GET /api/jobs/{id}", h.GetJob)
}

// CreateDataset handles POST /api/datasets. The body is the raw CSV; the
// dataset is validated, stored by content fingerprint and queued for
// analysis.
func (h *DatasetsHandler) CreateDataset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(raw) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Empty dataset")
		return
	}

	// Validate up front so a fatal load error surfaces immediately instead
	// of inside the job.
	if _, err := dataset.Parse(raw); err != nil {
		if errors.Is(err, dataset.ErrMissingColumn) {
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		middleware.WriteError(w, http.StatusBadRequest, "Unreadable dataset: "+err.Error())
		return
	}

	datasetID := dataset.Fingerprint(raw)
	if err := h.repo.SaveDataset(datasetID, raw); err != nil {
		h.log.Error().Err(err).Msg("Failed to store dataset")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store dataset")
		return
	}

	job := &jobs.AnalyzeDatasetJob{DatasetID: datasetID}
	if err := h.publisher.PublishAnalyzeDataset(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to queue analysis job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to queue analysis")
		return
	}

	h.log.Info().
		Str("dataset_id", datasetID).
		Str("job_id", job.JobID).
		Int("bytes", len(raw)).
		Msg("Dataset accepted")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"dataset_id": datasetID,
		"job_id":     job.JobID,
	})
}

// ListDatasets handles GET /api/datasets.
func (h *DatasetsHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	ids := h.repo.ListDatasets()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"datasets": ids,
		"count":    len(ids),
	})
}

// GetJob handles GET /api/jobs/{id}.
func (h *DatasetsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobStore.GetJob(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, job)
}

// GetReport handles GET /api/datasets/{id}/report. Queries that failed are
// simply absent from the response; their names are listed separately.
func (h *DatasetsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	result, ok := h.result(w, r)
	if !ok {
		return
	}

	unavailable := make([]string, 0, len(result.Report.Failures))
	for name := range result.Report.Failures {
		unavailable = append(unavailable, name)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"dataset_id":          result.DatasetID,
		"transaction_count":   result.TransactionCount,
		"report":              result.Report,
		"unavailable_queries": unavailable,
	})
}

// GetRFM handles GET /api/datasets/{id}/rfm.
func (h *DatasetsHandler) GetRFM(w http.ResponseWriter, r *http.Request) {
	result, ok := h.result(w, r)
	if !ok {
		return
	}

	if result.Scores == nil {
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"dataset_id":  result.DatasetID,
			"unavailable": result.SegmentationUnavailable,
		})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"dataset_id": result.DatasetID,
		"rfm":        result.Scores,
	})
}

// GetSummary handles GET /api/datasets/{id}/summary. With ?format=csv the
// summary is served as the downloadable two-column export.
func (h *DatasetsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	result, ok := h.result(w, r)
	if !ok {
		return
	}

	if result.Summary == nil {
		middleware.WriteError(w, http.StatusNotFound, "Summary unavailable")
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="analysis_summary.csv"`)
		if err := analytics.WriteSummaryCSV(w, result.Summary); err != nil {
			h.log.Error().Err(err).Msg("Failed to write summary CSV")
		}
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"dataset_id": result.DatasetID,
		"summary":    result.Summary,
	})
}

// result fetches the analysis result for the dataset in the path, writing
// the error response when it is not ready.
func (h *DatasetsHandler) result(w http.ResponseWriter, r *http.Request) (*store.AnalysisResult, bool) {
	datasetID := r.PathValue("id")

	result, err := h.repo.GetResult(datasetID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "No analysis result for dataset (still running or unknown)")
		return nil, false
	}
	return result, true
}
