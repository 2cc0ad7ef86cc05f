package store

import (
	"testing"
	"time"
)

func TestMemory_Datasets(t *testing.T) {
	m := NewMemory()
	raw := []byte("date,amount\n2024-01-05,500\n")

	if err := m.SaveDataset("abc", raw); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	got, err := m.GetDataset("abc")
	if err != nil {
		t.Fatalf("GetDataset failed: %v", err)
	}
	if string(got) != string(raw) {
		t.Errorf("GetDataset = %q, want %q", got, raw)
	}

	if _, err := m.GetDataset("missing"); err == nil {
		t.Error("GetDataset for an unknown ID should fail")
	}
	if err := m.SaveDataset("", raw); err == nil {
		t.Error("SaveDataset with empty ID should fail")
	}

	ids := m.ListDatasets()
	if len(ids) != 1 || ids[0] != "abc" {
		t.Errorf("ListDatasets = %v, want [abc]", ids)
	}
}

func TestMemory_Results(t *testing.T) {
	m := NewMemory()

	if _, err := m.GetResult("abc"); err == nil {
		t.Error("GetResult before any run should fail")
	}

	first := &AnalysisResult{DatasetID: "abc", RunID: "run-1", CompletedAt: time.Now()}
	if err := m.SaveResult(first); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	// A re-run replaces the previous result.
	second := &AnalysisResult{DatasetID: "abc", RunID: "run-2", CompletedAt: time.Now()}
	if err := m.SaveResult(second); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	got, err := m.GetResult("abc")
	if err != nil {
		t.Fatalf("GetResult failed: %v", err)
	}
	if got.RunID != "run-2" {
		t.Errorf("RunID = %q, want run-2", got.RunID)
	}

	if err := m.SaveResult(&AnalysisResult{}); err == nil {
		t.Error("SaveResult without dataset ID should fail")
	}
}
