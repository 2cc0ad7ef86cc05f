package analytics

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrEmptyInput is returned by a query given an empty transaction set. One
// query failing never aborts the others; the consumer sees a missing result.
var ErrEmptyInput = errors.New("analytics: empty transaction set")

// Query names used as failure keys in a Report.
const (
	QueryCityAnalysis        = "city_analysis"
	QueryCategoryPerformance = "category_performance"
	QueryGenderAnalysis      = "gender_analysis"
	QueryMonthlyTrends       = "monthly_trends"
	QueryWeekdayTrends       = "weekday_trends"
)

// CityRow is one group of the city analysis: spend per (city, city tier),
// ordered by total spend, capped to the top cities.
type CityRow struct {
	City            string          `json:"city"`
	CityTier        string          `json:"city_tier"`
	TxnCount        int64           `json:"txn_count"`
	TotalSpend      decimal.Decimal `json:"total_spend"`
	AvgSpend        decimal.Decimal `json:"avg_spend"`
	SpendPercentage decimal.Decimal `json:"spend_percentage"`
}

// CategoryRow is one group of the category performance query. Transactions
// without a category are excluded from this view.
type CategoryRow struct {
	Category            string          `json:"category"`
	TransactionCount    int64           `json:"transaction_count"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	AvgTransactionValue decimal.Decimal `json:"avg_transaction_value"`
}

// GenderRow is one group of the gender analysis, split by city tier.
type GenderRow struct {
	Gender     string          `json:"gender"`
	CityTier   string          `json:"city_tier"`
	TxnCount   int64           `json:"txn_count"`
	TotalSpend decimal.Decimal `json:"total_spend"`
	AvgSpend   decimal.Decimal `json:"avg_spend"`
}

// MonthlyRow is one calendar month of the trends query, ordered January
// through December.
type MonthlyRow struct {
	Month               int             `json:"month"`
	MonthName           string          `json:"month_name"`
	Quarter             int             `json:"quarter"`
	MonthlyTransactions int64           `json:"monthly_transactions"`
	MonthlySpend        decimal.Decimal `json:"monthly_spend"`
	AvgTransaction      decimal.Decimal `json:"avg_transaction"`
}

// WeekdayRow is one day of week of the weekday trends query, ordered Monday
// through Sunday.
type WeekdayRow struct {
	DayOfWeek  string          `json:"day_of_week"`
	IsWeekend  bool            `json:"is_weekend"`
	TxnCount   int64           `json:"txn_count"`
	TotalSpend decimal.Decimal `json:"total_spend"`
	AvgSpend   decimal.Decimal `json:"avg_spend"`
}

// Report bundles the results of the fixed query catalogue. A nil slice with
// an entry in Failures means that view is unavailable, not that the whole
// run failed.
type Report struct {
	CityAnalysis        []CityRow     `json:"city_analysis,omitempty"`
	CategoryPerformance []CategoryRow `json:"category_performance,omitempty"`
	GenderAnalysis      []GenderRow   `json:"gender_analysis,omitempty"`
	MonthlyTrends       []MonthlyRow  `json:"monthly_trends,omitempty"`
	WeekdayTrends       []WeekdayRow  `json:"weekday_trends,omitempty"`

	Failures map[string]error `json:"-"`
}
