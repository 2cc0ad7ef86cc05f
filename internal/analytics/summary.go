package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/pipeline"
)

// SummaryRow is one (Metric, Value) pair of the summary export.
type SummaryRow struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

// Summary metric names. Their order in BuildSummary output is a
// compatibility contract for downstream consumers parsing the export.
const (
	MetricTotalRevenue       = "Total Revenue"
	MetricTotalTransactions  = "Total Transactions"
	MetricAverageTransaction = "Average Transaction"
	MetricCitiesCovered      = "Cities Covered"
	MetricTopCity            = "Top City"
	MetricPeakMonth          = "Peak Month"
)

// BuildSummary condenses the transaction set into the fixed two-column
// summary table: total revenue, transaction count, average transaction,
// city count, top city and peak month, in exactly that order.
func BuildSummary(txs []pipeline.Transaction) ([]SummaryRow, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyInput
	}

	total := decimal.Zero
	cities := make(map[string]bool)
	citySpend := make(map[string]decimal.Decimal)
	var cityOrder []string
	monthSpend := make(map[string]decimal.Decimal)
	var monthOrder []string

	for i := range txs {
		amount := decimal.NewFromFloat(txs[i].Amount)
		total = total.Add(amount)

		if txs[i].City != nil {
			city := *txs[i].City
			cities[city] = true
			if _, ok := citySpend[city]; !ok {
				cityOrder = append(cityOrder, city)
			}
			citySpend[city] = citySpend[city].Add(amount)
		}

		month := txs[i].MonthName
		if _, ok := monthSpend[month]; !ok {
			monthOrder = append(monthOrder, month)
		}
		monthSpend[month] = monthSpend[month].Add(amount)
	}

	avg := total.Div(decimal.NewFromInt(int64(len(txs))))

	return []SummaryRow{
		{MetricTotalRevenue, total.Round(2).String()},
		{MetricTotalTransactions, strconv.Itoa(len(txs))},
		{MetricAverageTransaction, avg.Round(2).String()},
		{MetricCitiesCovered, strconv.Itoa(len(cities))},
		{MetricTopCity, argmax(cityOrder, citySpend)},
		{MetricPeakMonth, argmax(monthOrder, monthSpend)},
	}, nil
}

// argmax returns the first-seen key with the largest spend.
func argmax(order []string, spend map[string]decimal.Decimal) string {
	best := ""
	var bestVal decimal.Decimal
	for _, k := range order {
		if best == "" || spend[k].GreaterThan(bestVal) {
			best = k
			bestVal = spend[k]
		}
	}
	return best
}

// WriteSummaryCSV serializes summary rows as a two-column CSV with header.
func WriteSummaryCSV(w io.Writer, rows []SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Metric", "Value"}); err != nil {
		return fmt.Errorf("WriteSummaryCSV: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.Metric, row.Value}); err != nil {
			return fmt.Errorf("WriteSummaryCSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("WriteSummaryCSV: %w", err)
	}
	return nil
}

// ParseSummaryCSV reads a summary export back into rows. Feeding an export
// through this reproduces the same Metric to Value mapping it was built from.
func ParseSummaryCSV(r io.Reader) ([]SummaryRow, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ParseSummaryCSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("ParseSummaryCSV: empty input")
	}

	rows := make([]SummaryRow, 0, len(records)-1)
	for _, rec := range records[1:] { // skip header
		if len(rec) < 2 {
			return nil, fmt.Errorf("ParseSummaryCSV: malformed row %v", rec)
		}
		rows = append(rows, SummaryRow{Metric: rec[0], Value: rec[1]})
	}
	return rows, nil
}
