package pipeline

import (
	"testing"
	"time"
)

func strptr(s string) *string { return &s }

func TestDerive_TemporalFields(t *testing.T) {
	tests := []struct {
		name      string
		date      time.Time
		year      int
		month     int
		quarter   int
		dayOfWeek string
		weekend   bool
		monthName string
	}{
		{
			name: "friday in Q1",
			date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			year: 2024, month: 1, quarter: 1,
			dayOfWeek: "Friday", weekend: false, monthName: "January",
		},
		{
			name: "saturday is weekend",
			date: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
			year: 2024, month: 1, quarter: 1,
			dayOfWeek: "Saturday", weekend: true, monthName: "January",
		},
		{
			name: "sunday is weekend",
			date: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
			year: 2024, month: 6, quarter: 2,
			dayOfWeek: "Sunday", weekend: true, monthName: "June",
		},
		{
			name: "december is Q4",
			date: time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC),
			year: 2023, month: 12, quarter: 4,
			dayOfWeek: "Monday", weekend: false, monthName: "December",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(Transaction{Date: tt.date, Amount: 100})
			if got.Year != tt.year {
				t.Errorf("Year = %d, want %d", got.Year, tt.year)
			}
			if got.Month != tt.month {
				t.Errorf("Month = %d, want %d", got.Month, tt.month)
			}
			if got.Quarter != tt.quarter {
				t.Errorf("Quarter = %d, want %d", got.Quarter, tt.quarter)
			}
			if got.DayOfWeek != tt.dayOfWeek {
				t.Errorf("DayOfWeek = %q, want %q", got.DayOfWeek, tt.dayOfWeek)
			}
			if got.IsWeekend != tt.weekend {
				t.Errorf("IsWeekend = %v, want %v", got.IsWeekend, tt.weekend)
			}
			if got.MonthName != tt.monthName {
				t.Errorf("MonthName = %q, want %q", got.MonthName, tt.monthName)
			}
		})
	}
}

func TestDerive_SpendingTier(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0.01, TierLow},
		{500, TierLow},
		{999.99, TierLow},
		{1000, TierMedium},
		{2000, TierMedium},
		{4999.99, TierMedium},
		{5000, TierHigh},
		{14999.99, TierHigh},
		{15000, TierPremium},
		{20000, TierPremium},
	}

	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		got := Derive(Transaction{Date: date, Amount: tt.amount})
		if got.SpendingTier != tt.want {
			t.Errorf("amount %v: SpendingTier = %q, want %q", tt.amount, got.SpendingTier, tt.want)
		}
	}
}

func TestDerive_CityTier(t *testing.T) {
	tests := []struct {
		name string
		city *string
		want string
	}{
		{"delhi is tier 1", strptr("Delhi, India"), CityTier1},
		{"mumbai is tier 1", strptr("Greater Mumbai, India"), CityTier1},
		{"bengaluru is tier 1", strptr("Bengaluru, India"), CityTier1},
		{"ahmedabad is tier 1", strptr("Ahmedabad, India"), CityTier1},
		{"pune is tier 2/3", strptr("Pune, India"), CityTier2},
		{"missing city is tier 2/3", nil, CityTier2},
	}

	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(Transaction{Date: date, Amount: 100, City: tt.city})
			if got.CityTier != tt.want {
				t.Errorf("CityTier = %q, want %q", got.CityTier, tt.want)
			}
		})
	}
}

func TestDerive_CategoryAliasesExpType(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	got := Derive(Transaction{Date: date, Amount: 100, ExpType: strptr("Food")})
	if got.Category == nil || *got.Category != "Food" {
		t.Fatalf("Category = %v, want Food", got.Category)
	}
	if got.Category == got.ExpType {
		t.Error("Category shares storage with ExpType, want an independent copy")
	}

	got = Derive(Transaction{Date: date, Amount: 100})
	if got.Category != nil {
		t.Errorf("Category = %q, want nil when exp type is absent", *got.Category)
	}
}

func TestDeriveAll_PreservesOrder(t *testing.T) {
	txs := []Transaction{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Amount: 1},
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Amount: 2},
	}

	got := DeriveAll(txs)
	if len(got) != 2 {
		t.Fatalf("DeriveAll returned %d rows, want 2", len(got))
	}
	if got[0].Amount != 1 || got[1].Amount != 2 {
		t.Errorf("order changed: got amounts %v, %v", got[0].Amount, got[1].Amount)
	}
	if got[0].Month != 3 || got[1].Month != 1 {
		t.Errorf("derived months = %d, %d, want 3, 1", got[0].Month, got[1].Month)
	}
}
