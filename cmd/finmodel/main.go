// Base-case model run: builds the 20-year schedule and prints it with the
// headline return metrics, optionally exporting the schedule as CSV.
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
)

func main() {
	scenarioPath := flag.String("scenario", "", "optional scenario override file (.yaml or .hjson)")
	csvPath := flag.String("csv", "", "optional CSV export path for the schedule")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded .env")
	}
	if *scenarioPath == "" {
		*scenarioPath = os.Getenv("DUTCHBAY_SCENARIO")
	}

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
		fmt.Printf("Applied scenario %s\n", *scenarioPath)
	}

	res, err := model.Build(params, debt)
	if err != nil {
		log.Fatal(err)
	}

	report.PrintSchedule(os.Stdout, res)
	fmt.Println()
	report.PrintSummary(os.Stdout, res)

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		if err := report.WriteScheduleCSV(f, res); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Exported schedule to %s\n", *csvPath)
	}
}
