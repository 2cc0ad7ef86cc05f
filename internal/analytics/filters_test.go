package analytics

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFilter_Apply(t *testing.T) {
	txs := sampleTxs()

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"zero filter keeps all", Filter{}, 3},
		{"city match", Filter{City: "Delhi, India"}, 2},
		{"gender match", Filter{Gender: "Female"}, 1},
		{"card type match", Filter{CardType: "Gold"}, 2},
		{"from inclusive", Filter{From: date("2024-01-10")}, 2},
		{"to inclusive", Filter{To: date("2024-01-10")}, 2},
		{"range", Filter{From: date("2024-01-06"), To: date("2024-01-16")}, 1},
		{"combined", Filter{City: "Delhi, India", From: date("2024-01-06")}, 1},
		{"no match", Filter{City: "Agra, India"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(txs)
			if len(got) != tt.want {
				t.Errorf("Apply kept %d transactions, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFilter_Idempotent(t *testing.T) {
	f := Filter{City: "Delhi, India"}
	once := f.Apply(sampleTxs())
	twice := f.Apply(once)

	if len(once) != len(twice) {
		t.Fatalf("second application changed the set: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if !once[i].Date.Equal(twice[i].Date) || once[i].Amount != twice[i].Amount {
			t.Errorf("row %d differs after second application", i)
		}
	}
}

func TestFilter_PercentagesWithinSubset(t *testing.T) {
	subset := Filter{City: "Delhi, India"}.Apply(sampleTxs())

	rows, err := CityAnalysis(subset)
	if err != nil {
		t.Fatalf("CityAnalysis failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if got := rows[0].SpendPercentage.String(); got != "100" {
		t.Errorf("SpendPercentage = %s, want 100 within the filtered subset", got)
	}
}

func TestFilter_IsZero(t *testing.T) {
	if !(Filter{}).IsZero() {
		t.Error("empty filter must report IsZero")
	}
	if (Filter{City: "Delhi, India"}).IsZero() {
		t.Error("city filter must not report IsZero")
	}
	if (Filter{From: date("2024-01-01")}).IsZero() {
		t.Error("dated filter must not report IsZero")
	}
}
