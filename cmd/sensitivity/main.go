// One-at-a-time sensitivity run: stresses each tracked parameter around the
// base case and prints the tornado ranking.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"dutchbay_finance/pkg/config"
	"dutchbay_finance/pkg/core/model"
	"dutchbay_finance/pkg/core/report"
	"dutchbay_finance/pkg/core/sensitivity"
)

func main() {
	scenarioPath := flag.String("scenario", "", "optional scenario override file")
	csvPath := flag.String("csv", "", "optional CSV export path for the stress table")
	flag.Parse()

	godotenv.Load()

	params := model.DefaultParameters()
	debt := model.DefaultDebtStructure()
	if *scenarioPath != "" {
		scenario, err := config.LoadScenario(*scenarioPath)
		if err != nil {
			log.Fatal(err)
		}
		params, debt, err = scenario.Apply(params, debt)
		if err != nil {
			log.Fatal(err)
		}
	}

	table, err := sensitivity.Analyze(params, debt, sensitivity.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Stress results (equity IRR):")
	for _, row := range table.Rows {
		fmt.Printf("  %-24s %8.4f -> %8.4f   IRR %+.2f%%  NPV %+.2fM\n",
			row.Label, row.BaseValue, row.StressValue,
			row.DeltaEquityIRR*100, row.DeltaNPV)
	}

	fmt.Println("\nTornado ranking:")
	for i, r := range sensitivity.Tornado(table) {
		fmt.Printf("  %d. %-24s max |dIRR| %.2f%%\n", i+1, r.Label, r.MaxAbsDeltaIRR*100)
	}

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		if err := report.WriteSensitivityCSV(f, table); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("\nExported %d rows to %s\n", len(table.Rows), *csvPath)
	}
}
