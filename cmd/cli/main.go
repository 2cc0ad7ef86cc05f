package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/spendlens/spendlens/internal/analysis"
	"github.com/spendlens/spendlens/internal/analytics"
	"github.com/spendlens/spendlens/internal/dataset"
	"github.com/spendlens/spendlens/internal/logger"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze(log)
	case "rfm":
		runRFM(log)
	case "summary":
		runSummary(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Spendlens CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze   Run the full analysis over a transactions CSV")
	fmt.Println("  rfm       Print the RFM customer-group segmentation")
	fmt.Println("  summary   Print the summary export (optionally to a CSV file)")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// addFilterFlags registers the shared dataset/filter flags on a flag set.
func addFilterFlags(fs *flag.FlagSet) (file *string, filterOf func() (analytics.Filter, error)) {
	file = fs.String("file", "", "Path to the transactions CSV")
	city := fs.String("city", "", "Only transactions in this city")
	gender := fs.String("gender", "", "Only transactions with this gender")
	cardType := fs.String("card-type", "", "Only transactions with this card type")
	from := fs.String("from", "", "Start date (YYYY-MM-DD, inclusive)")
	to := fs.String("to", "", "End date (YYYY-MM-DD, inclusive)")

	filterOf = func() (analytics.Filter, error) {
		f := analytics.Filter{City: *city, Gender: *gender, CardType: *cardType}
		if *from != "" {
			t, err := time.Parse("2006-01-02", *from)
			if err != nil {
				return f, fmt.Errorf("invalid -from date %q: %w", *from, err)
			}
			f.From = t
		}
		if *to != "" {
			t, err := time.Parse("2006-01-02", *to)
			if err != nil {
				return f, fmt.Errorf("invalid -to date %q: %w", *to, err)
			}
			f.To = t
		}
		return f, nil
	}
	return file, filterOf
}

// runPipeline executes an analysis run for the CLI.
func runPipeline(log zerolog.Logger, file string, filter analytics.Filter) *analysis.State {
	if file == "" {
		log.Fatal().Msg("Error: -file is required")
	}

	ctx := logger.WithContext(context.Background(), log)
	state := &analysis.State{Path: file, Filter: filter}

	if err := analysis.Run(ctx, dataset.NewCache(), state); err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}
	return state
}

func runAnalyze(log zerolog.Logger) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	file, filterOf := addFilterFlags(fs)
	summaryOut := fs.String("summary-out", "", "Write the summary export CSV to this path")
	fs.Parse(os.Args[2:])

	filter, err := filterOf()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid filter")
	}

	state := runPipeline(log, *file, filter)

	printReport(state)
	printRFM(state)
	printSummary(state)

	if *summaryOut != "" && state.Summary != nil {
		if err := writeSummaryFile(*summaryOut, state.Summary); err != nil {
			log.Fatal().Err(err).Msg("Failed to write summary file")
		}
		fmt.Printf("Summary written to %s\n", *summaryOut)
	}
}

func runRFM(log zerolog.Logger) {
	fs := flag.NewFlagSet("rfm", flag.ExitOnError)
	file, filterOf := addFilterFlags(fs)
	fs.Parse(os.Args[2:])

	filter, err := filterOf()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid filter")
	}

	printRFM(runPipeline(log, *file, filter))
}

func runSummary(log zerolog.Logger) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	file, filterOf := addFilterFlags(fs)
	out := fs.String("out", "", "Write the summary CSV to this path instead of stdout")
	fs.Parse(os.Args[2:])

	filter, err := filterOf()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid filter")
	}

	state := runPipeline(log, *file, filter)
	if state.Summary == nil {
		fmt.Println("Summary unavailable (no matching transactions).")
		return
	}

	if *out != "" {
		if err := writeSummaryFile(*out, state.Summary); err != nil {
			log.Fatal().Err(err).Msg("Failed to write summary file")
		}
		fmt.Printf("Summary written to %s\n", *out)
		return
	}
	printSummary(state)
}

func writeSummaryFile(path string, rows []analytics.SummaryRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return analytics.WriteSummaryCSV(f, rows)
}

func printReport(state *analysis.State) {
	report := state.Report

	if report.CityAnalysis != nil {
		fmt.Println("\nTop cities by revenue:")
		w := newTable()
		fmt.Fprintln(w, "CITY\tTIER\tTXNS\tTOTAL\tAVG\tSHARE %")
		for _, row := range report.CityAnalysis {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
				row.City, row.CityTier, row.TxnCount,
				row.TotalSpend.StringFixed(2), row.AvgSpend.StringFixed(2),
				row.SpendPercentage.StringFixed(2))
		}
		w.Flush()
	}

	if report.CategoryPerformance != nil {
		fmt.Println("\nCategory performance:")
		w := newTable()
		fmt.Fprintln(w, "CATEGORY\tTXNS\tREVENUE\tAVG")
		for _, row := range report.CategoryPerformance {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
				row.Category, row.TransactionCount,
				row.TotalRevenue.StringFixed(2), row.AvgTransactionValue.StringFixed(2))
		}
		w.Flush()
	}

	if report.GenderAnalysis != nil {
		fmt.Println("\nSpending by gender and city tier:")
		w := newTable()
		fmt.Fprintln(w, "GENDER\tTIER\tTXNS\tTOTAL\tAVG")
		for _, row := range report.GenderAnalysis {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				row.Gender, row.CityTier, row.TxnCount,
				row.TotalSpend.StringFixed(2), row.AvgSpend.StringFixed(2))
		}
		w.Flush()
	}

	if report.MonthlyTrends != nil {
		fmt.Println("\nMonthly trends:")
		w := newTable()
		fmt.Fprintln(w, "MONTH\tQUARTER\tTXNS\tTOTAL\tAVG")
		for _, row := range report.MonthlyTrends {
			fmt.Fprintf(w, "%s\tQ%d\t%d\t%s\t%s\n",
				row.MonthName, row.Quarter, row.MonthlyTransactions,
				row.MonthlySpend.StringFixed(2), row.AvgTransaction.StringFixed(2))
		}
		w.Flush()
	}

	if report.WeekdayTrends != nil {
		fmt.Println("\nSpending by day of week:")
		w := newTable()
		fmt.Fprintln(w, "DAY\tWEEKEND\tTXNS\tTOTAL\tAVG")
		for _, row := range report.WeekdayTrends {
			fmt.Fprintf(w, "%s\t%t\t%d\t%s\t%s\n",
				row.DayOfWeek, row.IsWeekend, row.TxnCount,
				row.TotalSpend.StringFixed(2), row.AvgSpend.StringFixed(2))
		}
		w.Flush()
	}

	for name, err := range report.Failures {
		fmt.Printf("\nQuery %s unavailable: %v\n", name, err)
	}
}

func printRFM(state *analysis.State) {
	if state.Scores == nil {
		fmt.Printf("\nSegmentation unavailable: %s\n", state.SegmentationUnavailable)
		return
	}

	fmt.Println("\nCustomer group segmentation (RFM):")
	w := newTable()
	fmt.Fprintln(w, "CUSTOMER GROUP\tRECENCY\tFREQ\tMONETARY\tR\tF\tM\tSEGMENT")
	for _, s := range state.Scores {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%d\t%d\t%d\t%s\n",
			s.CustomerGroup, s.Recency, s.Frequency, s.Monetary,
			s.RScore, s.FScore, s.MScore, s.Segment)
	}
	w.Flush()
}

func printSummary(state *analysis.State) {
	if state.Summary == nil {
		return
	}

	fmt.Println("\nSummary:")
	w := newTable()
	for _, row := range state.Summary {
		fmt.Fprintf(w, "%s\t%s\n", row.Metric, row.Value)
	}
	w.Flush()
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}
