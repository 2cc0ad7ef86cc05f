package pipeline

import (
	"time"
)

// Derive fills the derived attributes of a canonical transaction. It is a
// total function: every input produces exactly one output and no record is
// ever dropped here.
func Derive(t Transaction) Transaction {
	t.Year = t.Date.Year()
	t.Month = int(t.Date.Month())
	t.Quarter = (t.Month + 2) / 3
	t.DayOfWeek = t.Date.Weekday().String()
	t.IsWeekend = t.Date.Weekday() == time.Saturday || t.Date.Weekday() == time.Sunday
	t.MonthName = t.Date.Month().String()
	t.CityTier = classifyCityTier(t.City)
	t.SpendingTier = classifySpendingTier(t.Amount)

	if t.ExpType != nil {
		category := *t.ExpType
		t.Category = &category
	}

	return t
}

// DeriveAll enriches a whole transaction set in input order.
func DeriveAll(txs []Transaction) []Transaction {
	enriched := make([]Transaction, len(txs))
	for i, t := range txs {
		enriched[i] = Derive(t)
	}
	return enriched
}

func classifyCityTier(city *string) string {
	if city != nil && tier1Cities[*city] {
		return CityTier1
	}
	return CityTier2
}

// classifySpendingTier buckets the amount into one of the four fixed bands.
// Lower bounds are inclusive: exactly 1000 is Medium, 5000 High, 15000 Premium.
func classifySpendingTier(amount float64) string {
	switch {
	case amount < mediumBound:
		return TierLow
	case amount < highBound:
		return TierMedium
	case amount < premiumBound:
		return TierHigh
	default:
		return TierPremium
	}
}
