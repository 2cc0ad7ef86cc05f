// Package rfm segments customer groups by Recency, Frequency and Monetary
// value. A customer group is the (city, gender, card type) triple standing
// in for an individual customer identity, since the data carries no customer
// ID. Everything here is a pure batch computation over the input set.
package rfm

import (
	"errors"
	"time"

	"github.com/spendlens/spendlens/internal/pipeline"
)

// ErrInsufficientGroups is returned when fewer than 2 customer groups exist;
// segmentation is reported unavailable rather than raising.
var ErrInsufficientGroups = errors.New("rfm: fewer than 2 customer groups")

// Segment labels, from best to worst retention posture.
const (
	SegmentChampions = "Champions"
	SegmentLoyal     = "Loyal Groups"
	SegmentAtRisk    = "At Risk"
	SegmentLost      = "Lost Groups"
	SegmentPotential = "Potential Loyalists"
)

// GroupMetrics holds the raw RFM inputs for one customer group.
type GroupMetrics struct {
	// CustomerGroup is the city_gender_cardtype key. Missing components use
	// the Unknown placeholder so grouping is deterministic across runs.
	CustomerGroup string `json:"customer_group"`

	// Recency is days between the group's most recent transaction and the
	// dataset's maximum date. Never negative.
	Recency int `json:"Recency"`

	// Frequency is the group's transaction count.
	Frequency int64 `json:"Frequency"`

	// Monetary is the group's total spend.
	Monetary float64 `json:"Monetary"`
}

// Score is the full RFM record for one customer group.
type Score struct {
	GroupMetrics

	RScore  int    `json:"R_Score"` // 1-5, 5 = most recent quintile
	FScore  int    `json:"F_Score"` // 1-5, 5 = most frequent quintile
	MScore  int    `json:"M_Score"` // 1-5, 5 = highest-spend quintile
	Segment string `json:"Segment"`
}

type groupAcc struct {
	key     string
	maxDate time.Time
	count   int64
	sum     float64
}

// Segment computes one RFM record per distinct customer group in the input.
// The reference date is the maximum transaction date of the whole set, so a
// filtered subset scores recency within that subset. Results are in
// first-seen group order and recomputed fresh on every call.
func Segment(txs []pipeline.Transaction) ([]Score, error) {
	groups := make(map[string]*groupAcc)
	var order []*groupAcc
	var reference time.Time

	for i := range txs {
		t := &txs[i]
		if t.Date.After(reference) {
			reference = t.Date
		}

		key := t.CityOrUnknown() + "_" + t.GenderOrUnknown() + "_" + t.CardTypeOrUnknown()
		g, ok := groups[key]
		if !ok {
			g = &groupAcc{key: key}
			groups[key] = g
			order = append(order, g)
		}
		g.count++
		g.sum += t.Amount
		if t.Date.After(g.maxDate) {
			g.maxDate = t.Date
		}
	}

	if len(order) < 2 {
		return nil, ErrInsufficientGroups
	}

	recencies := make([]float64, len(order))
	frequencies := make([]int64, len(order))
	monetaries := make([]float64, len(order))
	for i, g := range order {
		recencies[i] = reference.Sub(g.maxDate).Hours() / 24
		frequencies[i] = g.count
		monetaries[i] = g.sum
	}

	rScores := valueScores(recencies, true) // low recency = recently active = high score
	fScores := rankScores(frequencies)
	mScores := valueScores(monetaries, false)

	scores := make([]Score, len(order))
	for i, g := range order {
		scores[i] = Score{
			GroupMetrics: GroupMetrics{
				CustomerGroup: g.key,
				Recency:       int(recencies[i]),
				Frequency:     g.count,
				Monetary:      g.sum,
			},
			RScore:  rScores[i],
			FScore:  fScores[i],
			MScore:  mScores[i],
			Segment: classify(rScores[i], fScores[i], mScores[i]),
		}
	}
	return scores, nil
}

// classify maps scores to a segment label. Rules are evaluated in fixed
// priority order, first match wins; the default branch makes the
// classification total.
func classify(r, f, m int) string {
	switch {
	case r >= 4 && f >= 4 && m >= 4:
		return SegmentChampions
	case r >= 3 && f >= 3:
		return SegmentLoyal
	case r <= 2 && f >= 3:
		return SegmentAtRisk
	case r <= 2 && f <= 2:
		return SegmentLost
	default:
		return SegmentPotential
	}
}
