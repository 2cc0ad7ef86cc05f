package pipeline

import (
	"time"
)

// Transaction is one canonical transaction record. The normalizer fills the
// base fields; Derive fills the rest. Optional categoricals are nil when the
// source column was absent, never empty strings.
//
// Invariant: every Transaction the normalizer emits has Amount > 0 and a
// valid Date. Derived fields are pure functions of the base fields.
type Transaction struct {
	Date   time.Time // required, row dropped if unparseable
	Amount float64   // required, > 0, row dropped otherwise

	City     *string // title-cased, trimmed, or nil
	CardType *string
	ExpType  *string
	Gender   *string

	// Derived by Derive, never by the normalizer.
	Year         int
	Month        int // 1-12
	Quarter      int // 1-4
	DayOfWeek    string
	IsWeekend    bool
	MonthName    string
	CityTier     string  // CityTier1 or CityTier2
	SpendingTier string  // TierLow .. TierPremium
	Category     *string // aliases ExpType when present
}

// CityOrUnknown returns the city value with the stable placeholder for nil.
func (t *Transaction) CityOrUnknown() string {
	if t.City == nil {
		return Unknown
	}
	return *t.City
}

// GenderOrUnknown returns the gender value with the stable placeholder for nil.
func (t *Transaction) GenderOrUnknown() string {
	if t.Gender == nil {
		return Unknown
	}
	return *t.Gender
}

// CardTypeOrUnknown returns the card type with the stable placeholder for nil.
func (t *Transaction) CardTypeOrUnknown() string {
	if t.CardType == nil {
		return Unknown
	}
	return *t.CardType
}
