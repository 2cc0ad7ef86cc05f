// Package store keeps uploaded datasets and their analysis results in
// memory for the API server. Results live only for the process lifetime;
// re-analyzing is cheap and deterministic, so nothing is persisted.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/spendlens/spendlens/internal/analytics"
	"github.com/spendlens/spendlens/internal/rfm"
)

// AnalysisResult is the complete outcome of one analysis run over a dataset.
type AnalysisResult struct {
	DatasetID        string                 `json:"dataset_id"`
	RunID            string                 `json:"run_id"`
	TransactionCount int                    `json:"transaction_count"`
	Report           *analytics.Report      `json:"report"`
	Scores           []rfm.Score            `json:"rfm,omitempty"`
	Summary          []analytics.SummaryRow `json:"summary,omitempty"`
	CompletedAt      time.Time              `json:"completed_at"`

	// SegmentationUnavailable carries the reason when Scores is absent.
	SegmentationUnavailable string `json:"segmentation_unavailable,omitempty"`
}

// Memory is a concurrency-safe in-memory repository of raw dataset bytes and
// analysis results, both keyed by the dataset's content fingerprint.
type Memory struct {
	mu       sync.RWMutex
	datasets map[string][]byte
	results  map[string]*AnalysisResult
}

// NewMemory creates an empty repository.
func NewMemory() *Memory {
	return &Memory{
		datasets: make(map[string][]byte),
		results:  make(map[string]*AnalysisResult),
	}
}

// SaveDataset stores the raw bytes of an uploaded dataset.
func (m *Memory) SaveDataset(datasetID string, raw []byte) error {
	if datasetID == "" {
		return fmt.Errorf("store: dataset ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.datasets[datasetID] = raw
	return nil
}

// GetDataset returns the raw bytes of a stored dataset.
func (m *Memory) GetDataset(datasetID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.datasets[datasetID]
	if !ok {
		return nil, fmt.Errorf("store: dataset not found: %s", datasetID)
	}
	return raw, nil
}

// SaveResult stores the analysis result for a dataset, replacing any
// previous run's result.
func (m *Memory) SaveResult(result *AnalysisResult) error {
	if result.DatasetID == "" {
		return fmt.Errorf("store: dataset ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[result.DatasetID] = result
	return nil
}

// GetResult returns the analysis result for a dataset, if one completed.
func (m *Memory) GetResult(datasetID string) (*AnalysisResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result, ok := m.results[datasetID]
	if !ok {
		return nil, fmt.Errorf("store: no result for dataset: %s", datasetID)
	}
	return result, nil
}

// ListDatasets returns the IDs of all stored datasets.
func (m *Memory) ListDatasets() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.datasets))
	for id := range m.datasets {
		ids = append(ids, id)
	}
	return ids
}
