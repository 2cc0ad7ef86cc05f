// Package analysis orchestrates a full analytics run as a sequence of
// steps sharing one state: load → normalize → derive → filter → aggregate →
// segment → summarize. Load failures abort the run; query-level and
// segmentation failures are absorbed at the step boundary and reported as
// unavailable results.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/spendlens/spendlens/internal/analytics"
	"github.com/spendlens/spendlens/internal/dataset"
	"github.com/spendlens/spendlens/internal/logger"
	"github.com/spendlens/spendlens/internal/pipeline"
	"github.com/spendlens/spendlens/internal/rfm"
)

// Step is a single stage of an analysis run.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State is the shared state across all steps. Exactly one of Path or Raw
// identifies the source; everything else is filled as the run progresses.
type State struct {
	RunID  string
	Path   string // CSV file on disk
	Raw    []byte // CSV bytes, e.g. an API upload
	Filter analytics.Filter

	Dataset      *dataset.Dataset
	Transactions []pipeline.Transaction

	Report  *analytics.Report
	Scores  []rfm.Score
	Summary []analytics.SummaryRow

	// SegmentationUnavailable explains a skipped segmentation; empty when
	// Scores is valid.
	SegmentationUnavailable string
}

// LoadStep parses the source through the fingerprint cache.
type LoadStep struct {
	Cache *dataset.Cache
}

func (s *LoadStep) Execute(ctx context.Context, state *State) error {
	if state.Dataset != nil {
		return nil
	}

	var (
		ds  *dataset.Dataset
		err error
	)
	if state.Raw != nil {
		ds, err = s.Cache.Parse(state.Raw)
	} else {
		ds, err = s.Cache.Load(state.Path)
	}
	if err != nil {
		return err
	}

	state.Dataset = ds
	log := logger.FromContext(ctx)
	log.Info().
		Str("fingerprint", ds.Fingerprint).
		Int("rows", len(ds.Rows)).
		Msg("Dataset loaded")
	return nil
}

// NormalizeStep coerces raw rows into canonical transactions, dropping
// malformed ones silently.
type NormalizeStep struct{}

func (s *NormalizeStep) Execute(ctx context.Context, state *State) error {
	state.Transactions = pipeline.Normalize(state.Dataset.Rows)

	if dropped := len(state.Dataset.Rows) - len(state.Transactions); dropped > 0 {
		log := logger.FromContext(ctx)
		log.Info().
			Int("dropped", dropped).
			Int("kept", len(state.Transactions)).
			Msg("Rows dropped during normalization")
	}
	return nil
}

// DeriveStep enriches every transaction with its derived attributes.
type DeriveStep struct{}

func (s *DeriveStep) Execute(ctx context.Context, state *State) error {
	state.Transactions = pipeline.DeriveAll(state.Transactions)
	return nil
}

// FilterStep narrows the enriched set per the run's filter.
type FilterStep struct{}

func (s *FilterStep) Execute(ctx context.Context, state *State) error {
	if state.Filter.IsZero() {
		return nil
	}

	before := len(state.Transactions)
	state.Transactions = state.Filter.Apply(state.Transactions)
	log := logger.FromContext(ctx)
	log.Info().
		Int("before", before).
		Int("after", len(state.Transactions)).
		Msg("Filter applied")
	return nil
}

// AggregateStep runs the fixed query catalogue. Individual query failures
// stay inside the report; the step itself never fails.
type AggregateStep struct{}

func (s *AggregateStep) Execute(ctx context.Context, state *State) error {
	state.Report = analytics.Run(state.Transactions)

	log := logger.FromContext(ctx)
	for name, err := range state.Report.Failures {
		log.Warn().Str("query", name).Err(err).Msg("Query unavailable")
	}
	return nil
}

// SegmentStep computes the RFM table. Degenerate input makes segmentation
// unavailable, not a run failure.
type SegmentStep struct{}

func (s *SegmentStep) Execute(ctx context.Context, state *State) error {
	scores, err := rfm.Segment(state.Transactions)
	if err != nil {
		if errors.Is(err, rfm.ErrInsufficientGroups) {
			state.SegmentationUnavailable = err.Error()
			log := logger.FromContext(ctx)
			log.Warn().Err(err).Msg("Segmentation unavailable")
			return nil
		}
		return err
	}
	state.Scores = scores
	return nil
}

// SummaryStep builds the two-column summary export. An empty set leaves the
// summary absent.
type SummaryStep struct{}

func (s *SummaryStep) Execute(ctx context.Context, state *State) error {
	rows, err := analytics.BuildSummary(state.Transactions)
	if err != nil {
		if errors.Is(err, analytics.ErrEmptyInput) {
			log := logger.FromContext(ctx)
			log.Warn().Err(err).Msg("Summary unavailable")
			return nil
		}
		return err
	}
	state.Summary = rows
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially against the shared state.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("analysis step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewAnalysisPipeline creates the standard 7-step analysis run.
func NewAnalysisPipeline(cache *dataset.Cache) *Pipeline {
	return NewPipeline(
		&LoadStep{Cache: cache},
		&NormalizeStep{},
		&DeriveStep{},
		&FilterStep{},
		&AggregateStep{},
		&SegmentStep{},
		&SummaryStep{},
	)
}

// Run executes the standard pipeline, assigning a run ID and a run-scoped
// logger when the caller did not.
func Run(ctx context.Context, cache *dataset.Cache, state *State) error {
	if state.RunID == "" {
		state.RunID = uuid.NewString()
	}
	log := logger.WithRun(logger.FromContext(ctx), state.RunID)
	ctx = logger.WithContext(ctx, log)

	return NewAnalysisPipeline(cache).Execute(ctx, state)
}
