// Monte Carlo run: samples the uncertain parameters, evaluates one model per
// scenario and prints the distribution of the return metrics.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"dutchbay_finance/pkg/config"
	"dutchbay_finance/pkg/core/montecarlo"
	"dutchbay_finance/pkg/core/report"
)

func main() {
	iterations := flag.Int("n", 1000, "number of trials")
	seed := flag.Uint64("seed", 42, "random seed (fixed seed reproduces the table)")
	scenarioPath := flag.String("scenario", "", "optional scenario override file")
	csvPath := flag.String("csv", "", "optional CSV export path for the trial table")
	flag.Parse()

	godotenv.Load()

	cfg := montecarlo.DefaultConfig(*iterations, *seed)
	if *scenarioPath != "" {
		scenario, err := config.LoadScenario(*scenarioPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Params, cfg.Debt, err = scenario.Apply(cfg.Params, cfg.Debt)
		if err != nil {
			log.Fatal(err)
		}
	}

	fmt.Printf("Running %d trials (seed %d)...\n", cfg.Iterations, cfg.Seed)
	table, err := montecarlo.Run(cfg)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Run %s complete\n", table.RunID)
	fmt.Printf("  Equity IRR: mean %.2f%%, std %.2f%%\n",
		table.Stats.MeanEquityIRR*100, table.Stats.StdEquityIRR*100)
	fmt.Printf("  Equity IRR: P10 %.2f%%  P50 %.2f%%  P90 %.2f%%\n",
		table.Stats.P10EquityIRR*100, table.Stats.P50EquityIRR*100, table.Stats.P90EquityIRR*100)
	fmt.Printf("  NPV: mean %.2fM\n", table.Stats.MeanNPV)
	fmt.Printf("  Min DSCR: mean %.2fx\n", table.Stats.MeanMinDSCR)

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		if err := report.WriteMonteCarloCSV(f, table); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Exported %d trials to %s\n", len(table.Trials), *csvPath)
	}
}
