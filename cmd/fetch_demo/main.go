package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"

	"finbro/pkg/core/calc"
	"finbro/pkg/core/ingest"
	"finbro/pkg/core/synthesis"
	"finbro/pkg/core/validate"
)

// Config drives the demo run. Flags and FINBRO_* environment variables
// override the YAML file.
type Config struct {
	BaseURL     string   `yaml:"base_url"`
	APIKey      string   `yaml:"api_key"`
	Tickers     []string `yaml:"tickers"`
	Lenient     bool     `yaml:"lenient"`
	Parallelism int      `yaml:"parallelism"`
}

// Logger helper
func logStep(step string, details string) {
	fmt.Printf("\n[STEP] %s\n", step)
	fmt.Println("---------------------------------------------------------")
	fmt.Println(details)
	fmt.Println("---------------------------------------------------------")
}

func main() {
	configPath := flag.String("config", "config/finbro.yaml", "path to YAML config")
	tickersFlag := flag.String("tickers", "", "comma-separated tickers (overrides config)")
	lenientFlag := flag.Bool("lenient", false, "keep records with optional-field violations, reporting diagnostics")
	parallelFlag := flag.Int("parallel", 0, "validation workers per response (overrides config)")
	jsonFlag := flag.Bool("json", false, "dump validated records as JSON")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println("Note: no .env file found, using process environment")
	}

	cfg := loadConfig(*configPath)
	if *tickersFlag != "" {
		cfg.Tickers = splitTickers(*tickersFlag)
	}
	if *lenientFlag {
		cfg.Lenient = true
	}
	if *parallelFlag > 0 {
		cfg.Parallelism = *parallelFlag
	}
	if len(cfg.Tickers) == 0 {
		cfg.Tickers = []string{"AAPL"}
	}

	opts := []ingest.Option{
		ingest.WithParallelism(cfg.Parallelism),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, ingest.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, ingest.WithAPIKey(cfg.APIKey))
	}
	if cfg.Lenient {
		opts = append(opts, ingest.WithValidation(validate.NewLenientConfig()))
	}
	client := ingest.NewClient(opts...)

	logStep("0. Initialization", fmt.Sprintf("FinBro fetch demo | tickers=%v lenient=%v parallelism=%d",
		cfg.Tickers, cfg.Lenient, cfg.Parallelism))

	ctx := context.Background()
	zipper := synthesis.NewZipper()

	for _, ticker := range cfg.Tickers {
		logStep("1. Fetch + Validate", fmt.Sprintf("Requesting financial metrics for %s...", ticker))

		res, err := client.GetFinancialMetricsReport(ctx, ticker)
		if err != nil {
			fmt.Printf("[ERROR] %s: %v\n", ticker, err)
			continue
		}

		fmt.Printf("Run %s: %d records returned, %d validated, %d rejected, %d diagnostics\n",
			res.RunID, res.Total, len(res.Records), len(res.Failures), len(res.Diagnostics))

		for _, f := range res.Failures {
			fmt.Printf("  [REJECTED] index %d: %v\n", f.Index, f.Err)
		}
		for _, d := range res.Diagnostics {
			fmt.Printf("  [WARN] index %d (%s): %v\n", d.Index, d.Ticker, &d.Err)
		}
		if len(res.Records) == 0 {
			continue
		}

		timelines := zipper.Stitch(res.Records)
		for _, tl := range timelines {
			printTimeline(tl)
		}

		logStep("2. Growth Analysis", fmt.Sprintf("Year-over-year changes for %s", ticker))
		for _, g := range calc.GrowthRates(res.Records) {
			fmt.Printf("FY%d vs FY%d: revenue %s | net income %s | net margin %s\n",
				g.Year, g.PriorYear,
				fmtPct(g.RevenueGrowthPct), fmtPct(g.NetIncomeGrowthPct), fmtPct(g.NetMarginPct))
		}

		if *jsonFlag {
			out, err := json.MarshalIndent(res.Records, "", "  ")
			if err == nil {
				fmt.Println(string(out))
			}
		}
	}
}

func loadConfig(path string) Config {
	cfg := Config{Parallelism: 1}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Note: config %s not readable (%v), using defaults\n", path, err)
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Printf("[WARNING] Failed to parse %s: %v\n", path, err)
	}

	if v := os.Getenv("FINBRO_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("FINBRO_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("FINBRO_TICKERS"); v != "" {
		cfg.Tickers = splitTickers(v)
	}
	if v := os.Getenv("FINBRO_LENIENT"); v != "" {
		lenient, err := strconv.ParseBool(v)
		if err != nil {
			fmt.Printf("[WARNING] FINBRO_LENIENT=%q is not a boolean, ignoring\n", v)
		} else {
			cfg.Lenient = lenient
		}
	}
	if v := os.Getenv("FINBRO_PARALLELISM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fmt.Printf("[WARNING] FINBRO_PARALLELISM=%q is not an integer, ignoring\n", v)
		} else {
			cfg.Parallelism = n
		}
	}
	if cfg.Parallelism < 1 {
		cfg.Parallelism = 1
	}
	return cfg
}

func splitTickers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func printTimeline(tl *synthesis.Timeline) {
	fmt.Printf("\n%s timeline (%d years):\n", tl.Ticker, len(tl.Years))
	fmt.Printf("%-6s %18s %18s %18s %18s\n", "Year", "Revenue", "Net Income", "Cash from Ops", "Free Cash Flow")
	for _, year := range tl.SortedYears() {
		m := tl.Years[year]
		fmt.Printf("%-6d %18s %18s %18s %18s\n", year,
			fmtMoney(m.Revenue), fmtMoney(m.NetIncome),
			fmtMoney(m.CashFromOperations), fmtMoney(calc.FreeCashFlow(m)))
	}
	for _, r := range tl.Restatements {
		fmt.Printf("  [RESTATED] FY%d: %d figures revised (provider refresh %s -> %s)\n",
			r.Year, len(r.Changes),
			r.OldUpdated.Format("2006-01-02"), r.NewUpdated.Format("2006-01-02"))
	}
}

func fmtMoney(d *decimal.Decimal) string {
	if d == nil {
		return "(not reported)"
	}
	return "$" + d.StringFixed(0)
}

func fmtPct(d *decimal.Decimal) string {
	if d == nil {
		return "n/a"
	}
	return d.StringFixed(2) + "%"
}
