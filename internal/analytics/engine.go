package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/pipeline"
)

// topCityCount caps the city analysis to the highest-spending groups.
const topCityCount = 15

var hundred = decimal.NewFromInt(100)

// Run executes the fixed query catalogue over the enriched transaction set.
// Each query is computed independently; a failed one leaves its slice nil
// and records the error under its query name.
func Run(txs []pipeline.Transaction) *Report {
	report := &Report{Failures: make(map[string]error)}

	if rows, err := CityAnalysis(txs); err != nil {
		report.Failures[QueryCityAnalysis] = err
	} else {
		report.CityAnalysis = rows
	}
	if rows, err := CategoryPerformance(txs); err != nil {
		report.Failures[QueryCategoryPerformance] = err
	} else {
		report.CategoryPerformance = rows
	}
	if rows, err := GenderAnalysis(txs); err != nil {
		report.Failures[QueryGenderAnalysis] = err
	} else {
		report.GenderAnalysis = rows
	}
	if rows, err := MonthlyTrends(txs); err != nil {
		report.Failures[QueryMonthlyTrends] = err
	} else {
		report.MonthlyTrends = rows
	}
	if rows, err := WeekdayTrends(txs); err != nil {
		report.Failures[QueryWeekdayTrends] = err
	} else {
		report.WeekdayTrends = rows
	}

	return report
}

type bucket struct {
	count int64
	total decimal.Decimal
}

func (b *bucket) add(amount float64) {
	b.count++
	b.total = b.total.Add(decimal.NewFromFloat(amount))
}

func (b *bucket) mean() decimal.Decimal {
	return b.total.Div(decimal.NewFromInt(b.count))
}

// grandTotal sums the amounts of the entire input set. Percentages divide by
// this, so a filtered subset yields percentages within that subset.
func grandTotal(txs []pipeline.Transaction) decimal.Decimal {
	total := decimal.Zero
	for i := range txs {
		total = total.Add(decimal.NewFromFloat(txs[i].Amount))
	}
	return total
}

// CityAnalysis groups by (city, city tier) and reports count, sum, mean and
// each group's share of the grand total, descending by total spend, top 15.
// Ties keep input iteration order.
func CityAnalysis(txs []pipeline.Transaction) ([]CityRow, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyInput
	}

	type key struct{ city, tier string }
	buckets := make(map[key]*bucket)
	var order []key

	for i := range txs {
		k := key{txs[i].CityOrUnknown(), txs[i].CityTier}
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
			order = append(order, k)
		}
		b.add(txs[i].Amount)
	}

	// Sort on unrounded totals so rounding never flips an ordering decision.
	sort.SliceStable(order, func(i, j int) bool {
		return buckets[order[i]].total.GreaterThan(buckets[order[j]].total)
	})
	if len(order) > topCityCount {
		order = order[:topCityCount]
	}

	grand := grandTotal(txs)
	rows := make([]CityRow, 0, len(order))
	for _, k := range order {
		b := buckets[k]
		rows = append(rows, CityRow{
			City:            k.city,
			CityTier:        k.tier,
			TxnCount:        b.count,
			TotalSpend:      b.total.Round(2),
			AvgSpend:        b.mean().Round(2),
			SpendPercentage: b.total.Mul(hundred).Div(grand).Round(2),
		})
	}
	return rows, nil
}

// CategoryPerformance groups by category, excluding transactions without
// one, descending by total revenue. No cap.
func CategoryPerformance(txs []pipeline.Transaction) ([]CategoryRow, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyInput
	}

	buckets := make(map[string]*bucket)
	var order []string

	for i := range txs {
		if txs[i].Category == nil {
			continue
		}
		k := *txs[i].Category
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
			order = append(order, k)
		}
		b.add(txs[i].Amount)
	}
	if len(order) == 0 {
		return nil, ErrEmptyInput
	}

	sort.SliceStable(order, func(i, j int) bool {
		return buckets[order[i]].total.GreaterThan(buckets[order[j]].total)
	})

	rows := make([]CategoryRow, 0, len(order))
	for _, k := range order {
		b := buckets[k]
		rows = append(rows, CategoryRow{
			Category:            k,
			TransactionCount:    b.count,
			TotalRevenue:        b.total.Round(2),
			AvgTransactionValue: b.mean().Round(2),
		})
	}
	return rows, nil
}

// GenderAnalysis groups by (gender, city tier), descending by total spend.
func GenderAnalysis(txs []pipeline.Transaction) ([]GenderRow, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyInput
	}

	type key struct{ gender, tier string }
	buckets := make(map[key]*bucket)
	var order []key

	for i := range txs {
		k := key{txs[i].GenderOrUnknown(), txs[i].CityTier}
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
			order = append(order, k)
		}
		b.add(txs[i].Amount)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return buckets[order[i]].total.GreaterThan(buckets[order[j]].total)
	})

	rows := make([]GenderRow, 0, len(order))
	for _, k := range order {
		b := buckets[k]
		rows = append(rows, GenderRow{
			Gender:     k.gender,
			CityTier:   k.tier,
			TxnCount:   b.count,
			TotalSpend: b.total.Round(2),
			AvgSpend:   b.mean().Round(2),
		})
	}
	return rows, nil
}

// MonthlyTrends groups by (month, month name, quarter), ascending by month
// number January through December.
func MonthlyTrends(txs []pipeline.Transaction) ([]MonthlyRow, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyInput
	}

	type monthKey struct {
		month   int
		name    string
		quarter int
	}
	buckets := make(map[monthKey]*bucket)
	var order []monthKey

	for i := range txs {
		k := monthKey{txs[i].Month, txs[i].MonthName, txs[i].Quarter}
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
			order = append(order, k)
		}
		b.add(txs[i].Amount)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].month < order[j].month
	})

	rows := make([]MonthlyRow, 0, len(order))
	for _, k := range order {
		b := buckets[k]
		rows = append(rows, MonthlyRow{
			Month:               k.month,
			MonthName:           k.name,
			Quarter:             k.quarter,
			MonthlyTransactions: b.count,
			MonthlySpend:        b.total.Round(2),
			AvgTransaction:      b.mean().Round(2),
		})
	}
	return rows, nil
}

// weekdayOrder fixes the presentation order of the weekday trends query.
var weekdayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// WeekdayTrends groups by day of week, Monday through Sunday, flagging the
// weekend days so weekend and weekday spend can be compared directly.
func WeekdayTrends(txs []pipeline.Transaction) ([]WeekdayRow, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyInput
	}

	buckets := make(map[string]*bucket)
	weekend := make(map[string]bool)

	for i := range txs {
		k := txs[i].DayOfWeek
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
			weekend[k] = txs[i].IsWeekend
		}
		b.add(txs[i].Amount)
	}

	rows := make([]WeekdayRow, 0, len(buckets))
	for _, day := range weekdayOrder {
		b, ok := buckets[day]
		if !ok {
			continue
		}
		rows = append(rows, WeekdayRow{
			DayOfWeek:  day,
			IsWeekend:  weekend[day],
			TxnCount:   b.count,
			TotalSpend: b.total.Round(2),
			AvgSpend:   b.mean().Round(2),
		})
	}
	return rows, nil
}
