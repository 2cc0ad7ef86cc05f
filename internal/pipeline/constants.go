package pipeline

// Unknown is the stable placeholder for an absent categorical value, so
// grouping stays deterministic across runs.
const Unknown = "Unknown"

// Spending tier labels, lower-bound inclusive bands over the amount.
const (
	TierLow     = "Low"     // [0, 1000)
	TierMedium  = "Medium"  // [1000, 5000)
	TierHigh    = "High"    // [5000, 15000)
	TierPremium = "Premium" // [15000, inf)
)

// Spending band boundaries.
const (
	mediumBound  = 1000
	highBound    = 5000
	premiumBound = 15000
)

// City tier labels.
const (
	CityTier1 = "Tier-1"
	CityTier2 = "Tier-2/3"
)

// tier1Cities is the fixed reference set of major metros. Classification is
// an exact match after normalization; the list is deliberately a constant,
// not configuration.
var tier1Cities = map[string]bool{
	"Greater Mumbai, India": true,
	"Delhi, India":          true,
	"Bengaluru, India":      true,
	"Ahmedabad, India":      true,
}

// dateLayouts are tried in order when coercing the date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2006/01/02",
	"02-Jan-2006",
}
