// Capital-structure optimization run: searches debt ratio, currency split and
// DFI share for the structure maximizing the chosen metric under the investor
// and lender floors.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"dutchbay_finance/pkg/core/optimize"
)

func main() {
	objective := flag.String("objective", "equity_irr", "equity_irr | project_irr | npv")
	minIRR := flag.Float64("min-irr", 0.15, "equity IRR floor")
	minDSCR := flag.Float64("min-dscr", 1.30, "minimum DSCR floor")
	flag.Parse()

	godotenv.Load()

	cfg := optimize.DefaultConfig()
	cfg.MinEquityIRR = *minIRR
	cfg.MinDSCR = *minDSCR
	switch *objective {
	case "equity_irr":
		cfg.Objective = optimize.MaximizeEquityIRR
	case "project_irr":
		cfg.Objective = optimize.MaximizeProjectIRR
	case "npv":
		cfg.Objective = optimize.MaximizeNPV
	default:
		log.Fatalf("unknown objective %q", *objective)
	}

	fmt.Printf("Optimizing %s with floors: equity IRR >= %.2f%%, DSCR >= %.2fx\n",
		cfg.Objective, cfg.MinEquityIRR*100, cfg.MinDSCR)

	result, err := optimize.CapitalStructure(cfg)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\nRun %s: %s (%d iterations)\n", result.RunID, result.Message, result.Iterations)
	fmt.Printf("  Debt ratio:  %.4f\n", result.DebtRatio)
	fmt.Printf("  Hard share:  %.4f\n", result.HardShare)
	fmt.Printf("  DFI share:   %.4f\n", result.DFIShare)
	fmt.Printf("  Equity IRR:  %.2f%%\n", result.EquityIRR*100)
	fmt.Printf("  Project IRR: %.2f%%\n", result.ProjectIRR*100)
	fmt.Printf("  NPV:         %.2fM\n", result.NPV)
	if result.MinDSCRDefined {
		fmt.Printf("  Min DSCR:    %.2fx\n", result.MinDSCR)
	}
	if !result.Converged {
		fmt.Println("\nWARNING: best effort only; do not rely on this point without review.")
	}
}
