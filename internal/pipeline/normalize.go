package pipeline

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spendlens/spendlens/internal/dataset"
)

var titleCaser = cases.Title(language.Und)

// Normalize coerces raw rows into canonical base transactions. Rows with a
// missing or unparseable date or amount, or a non-positive amount, are
// dropped rather than reported. The operation is pure: the same input always
// yields the same output sequence.
func Normalize(rows []dataset.RawRow) []Transaction {
	txs := make([]Transaction, 0, len(rows))

	for _, row := range rows {
		date, ok := parseDate(row[dataset.ColDate])
		if !ok {
			continue
		}
		amount, ok := parseAmount(row[dataset.ColAmount])
		if !ok || amount <= 0 {
			continue
		}

		// The expense type column may also be named "category".
		expType := normalizeText(row, dataset.ColExpType)
		if expType == nil {
			expType = normalizeText(row, dataset.ColCategory)
		}

		txs = append(txs, Transaction{
			Date:     date,
			Amount:   amount,
			City:     normalizeText(row, dataset.ColCity),
			CardType: normalizeText(row, dataset.ColCardType),
			ExpType:  expType,
			Gender:   normalizeText(row, dataset.ColGender),
		})
	}

	return txs
}

// normalizeText trims and title-cases a categorical field. An absent column
// or blank value becomes nil so downstream consumers can tell "missing" from
// a real value.
func normalizeText(row dataset.RawRow, col string) *string {
	raw, ok := row[col]
	if !ok {
		return nil
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	s = titleCaser.String(s)
	return &s
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseAmount(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	// ParseFloat accepts NaN and infinities; neither is a spendable amount.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
