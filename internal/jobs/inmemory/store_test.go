package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/spendlens/spendlens/internal/jobs"
)

func TestStore_SaveAndGetJob(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	job := &jobs.AnalyzeDatasetJob{
		JobID:     "job-1",
		DatasetID: "ds-1",
		Status:    jobs.JobStatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	got, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.DatasetID != "ds-1" || got.Status != jobs.JobStatusPending {
		t.Errorf("GetJob = %+v, want dataset ds-1 pending", got)
	}

	// Mutating the returned copy must not touch the stored job.
	got.Status = jobs.JobStatusFailed
	again, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if again.Status != jobs.JobStatusPending {
		t.Errorf("stored job mutated through a returned copy: %v", again.Status)
	}
}

func TestStore_SaveJobRequiresID(t *testing.T) {
	s := NewStore()
	if err := s.SaveJob(context.Background(), &jobs.AnalyzeDatasetJob{}); err == nil {
		t.Error("SaveJob without an ID should fail")
	}
}

func TestStore_GetJobNotFound(t *testing.T) {
	s := NewStore()
	if _, err := s.GetJob(context.Background(), "missing"); err == nil {
		t.Error("GetJob for an unknown ID should fail")
	}
}

func TestStore_UpdateJobStatus(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	job := &jobs.AnalyzeDatasetJob{JobID: "job-1", Status: jobs.JobStatusPending}
	if err := s.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	if err := s.UpdateJobStatus(ctx, "job-1", jobs.JobStatusFailed, "boom"); err != nil {
		t.Fatalf("UpdateJobStatus failed: %v", err)
	}

	got, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.Status != jobs.JobStatusFailed || got.Error != "boom" {
		t.Errorf("job = %+v, want failed with error boom", got)
	}

	if err := s.UpdateJobStatus(ctx, "missing", jobs.JobStatusFailed, ""); err == nil {
		t.Error("UpdateJobStatus for an unknown ID should fail")
	}
}

func TestStore_ListJobs(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	seed := []*jobs.AnalyzeDatasetJob{
		{JobID: "a", DatasetID: "ds-1", Status: jobs.JobStatusPending},
		{JobID: "b", DatasetID: "ds-1", Status: jobs.JobStatusCompleted},
		{JobID: "c", DatasetID: "ds-2", Status: jobs.JobStatusPending},
	}
	for _, j := range seed {
		if err := s.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter jobs.JobFilter
		want   int
	}{
		{"all", jobs.JobFilter{}, 3},
		{"by dataset", jobs.JobFilter{DatasetID: "ds-1"}, 2},
		{"by status", jobs.JobFilter{Status: jobs.JobStatusPending}, 2},
		{"dataset and status", jobs.JobFilter{DatasetID: "ds-1", Status: jobs.JobStatusPending}, 1},
		{"limit", jobs.JobFilter{Limit: 2}, 2},
		{"offset past end", jobs.JobFilter{Offset: 10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListJobs(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListJobs failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("ListJobs returned %d jobs, want %d", len(got), tt.want)
			}
		})
	}
}
