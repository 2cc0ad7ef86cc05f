package pipeline

import (
	"testing"
	"time"

	"github.com/spendlens/spendlens/internal/dataset"
)

func TestNormalize_DropsInvalidRows(t *testing.T) {
	tests := []struct {
		name string
		row  dataset.RawRow
		keep bool
	}{
		{"valid row", dataset.RawRow{"date": "2024-01-05", "amount": "500"}, true},
		{"missing date", dataset.RawRow{"amount": "500"}, false},
		{"unparseable date", dataset.RawRow{"date": "not-a-date", "amount": "500"}, false},
		{"missing amount", dataset.RawRow{"date": "2024-01-05"}, false},
		{"unparseable amount", dataset.RawRow{"date": "2024-01-05", "amount": "abc"}, false},
		{"zero amount", dataset.RawRow{"date": "2024-01-05", "amount": "0"}, false},
		{"negative amount", dataset.RawRow{"date": "2024-01-05", "amount": "-10"}, false},
		{"NaN amount", dataset.RawRow{"date": "2024-01-05", "amount": "NaN"}, false},
		{"positive infinity amount", dataset.RawRow{"date": "2024-01-05", "amount": "+Inf"}, false},
		{"negative infinity amount", dataset.RawRow{"date": "2024-01-05", "amount": "-Inf"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize([]dataset.RawRow{tt.row})
			if kept := len(got) == 1; kept != tt.keep {
				t.Errorf("kept = %v, want %v", kept, tt.keep)
			}
		})
	}
}

func TestNormalize_DateFormats(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-01-05", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-01-05 13:45:00", time.Date(2024, 1, 5, 13, 45, 0, 0, time.UTC)},
		{"05/01/2024", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"2024/01/05", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"05-Jan-2024", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Normalize([]dataset.RawRow{{"date": tt.raw, "amount": "100"}})
			if len(got) != 1 {
				t.Fatalf("row with date %q was dropped", tt.raw)
			}
			if !got[0].Date.Equal(tt.want) {
				t.Errorf("Date = %v, want %v", got[0].Date, tt.want)
			}
		})
	}
}

func TestNormalize_TitleCasesCategoricals(t *testing.T) {
	rows := []dataset.RawRow{{
		"date":      "2024-01-05",
		"amount":    "500",
		"city":      "delhi, india",
		"gender":    "MALE",
		"card_type": "gold",
		"exp_type":  "food",
	}}

	got := Normalize(rows)
	if len(got) != 1 {
		t.Fatalf("Normalize returned %d rows, want 1", len(got))
	}

	tx := got[0]
	if tx.City == nil || *tx.City != "Delhi, India" {
		t.Errorf("City = %v, want Delhi, India", tx.City)
	}
	if tx.Gender == nil || *tx.Gender != "Male" {
		t.Errorf("Gender = %v, want Male", tx.Gender)
	}
	if tx.CardType == nil || *tx.CardType != "Gold" {
		t.Errorf("CardType = %v, want Gold", tx.CardType)
	}
	if tx.ExpType == nil || *tx.ExpType != "Food" {
		t.Errorf("ExpType = %v, want Food", tx.ExpType)
	}
}

func TestNormalize_CategoryColumnFallback(t *testing.T) {
	tests := []struct {
		name string
		row  dataset.RawRow
		want *string
	}{
		{
			"category column stands in for exp_type",
			dataset.RawRow{"date": "2024-01-05", "amount": "500", "category": "food"},
			strptr("Food"),
		},
		{
			"exp_type wins when both are present",
			dataset.RawRow{"date": "2024-01-05", "amount": "500", "exp_type": "travel", "category": "food"},
			strptr("Travel"),
		},
		{
			"neither column leaves exp type nil",
			dataset.RawRow{"date": "2024-01-05", "amount": "500"},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize([]dataset.RawRow{tt.row})
			if len(got) != 1 {
				t.Fatalf("Normalize returned %d rows, want 1", len(got))
			}
			switch {
			case tt.want == nil && got[0].ExpType != nil:
				t.Errorf("ExpType = %q, want nil", *got[0].ExpType)
			case tt.want != nil && (got[0].ExpType == nil || *got[0].ExpType != *tt.want):
				t.Errorf("ExpType = %v, want %q", got[0].ExpType, *tt.want)
			}
		})
	}
}

func TestNormalize_MissingCategoricalsAreNil(t *testing.T) {
	rows := []dataset.RawRow{
		{"date": "2024-01-05", "amount": "500"},
		{"date": "2024-01-05", "amount": "500", "city": "   "},
	}

	got := Normalize(rows)
	if len(got) != 2 {
		t.Fatalf("Normalize returned %d rows, want 2", len(got))
	}
	for i, tx := range got {
		if tx.City != nil {
			t.Errorf("row %d: City = %q, want nil", i, *tx.City)
		}
	}
}

func TestNormalize_PreservesOrder(t *testing.T) {
	rows := []dataset.RawRow{
		{"date": "2024-03-01", "amount": "1"},
		{"date": "2024-01-01", "amount": "2"},
		{"date": "bad", "amount": "3"},
		{"date": "2024-02-01", "amount": "4"},
	}

	got := Normalize(rows)
	if len(got) != 3 {
		t.Fatalf("Normalize returned %d rows, want 3", len(got))
	}
	wantAmounts := []float64{1, 2, 4}
	for i, want := range wantAmounts {
		if got[i].Amount != want {
			t.Errorf("row %d: Amount = %v, want %v", i, got[i].Amount, want)
		}
	}
}
