// Package main runs a headless game for a fixed number of days and prints
// the resulting balance sheet. Useful for checking tuning changes.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/engine"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
	"github.com/MRamiBalles/PropertyIdle/internal/sim"
)

type options struct {
	configPath string
	difficulty string
	days       int
	seed       int64
	autopilot  bool
}

func run(opts options, out io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.difficulty != "" {
		cfg.Balance = config.ForDifficulty(opts.difficulty)
	}
	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eng := engine.NewEngine(cfg.Balance, log, engine.WithRandom(engine.NewSeededRandom(seed)))
	runner := sim.NewRunner(eng, log, opts.autopilot)

	started := time.Now()
	sum := runner.Run(eng.NewGame(), opts.days)
	log.WithFields(map[string]interface{}{
		"seed":    seed,
		"days":    sum.DaysRun,
		"elapsed": time.Since(started).String(),
	}).Info("simulation finished")

	report(out, seed, sum)
	return nil
}

func report(out io.Writer, seed int64, sum sim.Summary) {
	s := sum.Final
	bs := sum.BalanceSheet
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "Seed\t%d\n", seed)
	fmt.Fprintf(w, "Date\t%s (%s days)\n", s.GameTime.CurrentDate, humanize.Comma(int64(s.GameTime.DaysPlayed)))
	fmt.Fprintf(w, "Economy\t%s, base rate %s, inflation %s\n",
		s.Economy.Phase, game.FormatPercent(s.Economy.BaseRate), game.FormatPercent(s.Economy.InflationRate))
	fmt.Fprintf(w, "Peak inflation\t%s\n", game.FormatPercent(s.Economy.HighestInflationRate))
	if s.GameOver != nil {
		fmt.Fprintf(w, "Game over\t%s\n", s.GameOver.Reason)
	}
	fmt.Fprintln(w, "\t")

	rows := []struct {
		label string
		value float64
	}{
		{"Cash", bs.TotalCash},
		{"Property value", bs.TotalPropertyValue},
		{"Debt", bs.TotalDebt},
		{"Orphaned debt", bs.OrphanedDebt},
		{"Net worth", bs.NetWorth},
		{"Rent income", bs.TotalRentIncome},
		{"Maintenance", bs.TotalMaintenanceCosts},
		{"Mortgage interest", bs.TotalMortgageInterest},
		{"Staff costs", bs.TotalStaffCosts},
		{"Interest earned", bs.TotalInterestEarned},
		{"Sale revenue", bs.TotalSaleRevenue},
		{"Savings baseline", bs.SavingsBaseline},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\n", r.label, game.FormatCurrency(r.value))
	}
	fmt.Fprintf(w, "Properties\t%d (%d sold)\n", bs.TotalProperties, bs.TotalPropertiesSold)
	fmt.Fprintf(w, "Autopilot commands\t%d\n", sum.Commands)
	fmt.Fprintln(w, "\t")

	types := make([]string, 0, len(sum.EventCounts))
	for t := range sum.EventCounts {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(w, "%s\t%s\n", t, humanize.Comma(int64(sum.EventCounts[events.EventType(t)])))
	}
	w.Flush()
}

func main() {
	_ = godotenv.Load()

	var opts options
	rootCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a headless property game and print its balance sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", opts.days)
			}
			return run(opts, cmd.OutOrStdout())
		},
	}
	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "config.yaml", "path to the YAML config file")
	flags.StringVar(&opts.difficulty, "difficulty", "", "balance preset: casual, normal or hard")
	flags.IntVarP(&opts.days, "days", "d", 365, "days to simulate")
	flags.Int64Var(&opts.seed, "seed", 0, "random seed (0 picks one from the clock)")
	flags.BoolVar(&opts.autopilot, "autopilot", false, "let vacant homes and buy affordable listings automatically")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
