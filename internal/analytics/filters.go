package analytics

import (
	"time"

	"github.com/spendlens/spendlens/internal/pipeline"
)

// Filter narrows a transaction set before analysis. Zero values mean "no
// constraint". Categorical matches are exact against the normalized
// (title-cased) values the pipeline stores.
type Filter struct {
	From     time.Time // inclusive; zero = unbounded
	To       time.Time // inclusive; zero = unbounded
	City     string
	Gender   string
	CardType string
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero() && f.City == "" && f.Gender == "" && f.CardType == ""
}

// Apply returns the transactions matching the filter, preserving input
// order. Filtering is pure, so repeated runs over the same set are
// idempotent; aggregates over the result report shares within the subset.
func (f Filter) Apply(txs []pipeline.Transaction) []pipeline.Transaction {
	if f.IsZero() {
		return txs
	}

	out := make([]pipeline.Transaction, 0, len(txs))
	for i := range txs {
		if f.matches(&txs[i]) {
			out = append(out, txs[i])
		}
	}
	return out
}

func (f Filter) matches(t *pipeline.Transaction) bool {
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.Date.After(f.To) {
		return false
	}
	if f.City != "" && t.CityOrUnknown() != f.City {
		return false
	}
	if f.Gender != "" && t.GenderOrUnknown() != f.Gender {
		return false
	}
	if f.CardType != "" && t.CardTypeOrUnknown() != f.CardType {
		return false
	}
	return true
}
