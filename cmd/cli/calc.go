package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/batch"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/finance"
)

func cmdCalculate(metric string, args []string) int {
	fs := flag.NewFlagSet(metric, flag.ExitOnError)
	inPath := fs.String("in", "-", "Path to a JSON request or array of requests ('-' for stdin)")
	csvPath := fs.String("csv", "", "Optional: also write results to this CSV file")
	maintenance := fs.String("maintenance", string(finance.MaintenanceLegacy), "Maintenance policy: legacy or once")
	_ = fs.Parse(args)

	policy, err := finance.ParseMaintenancePolicy(*maintenance)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	raw, err := readInput(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", *inPath, err)
		return 1
	}

	results, err := batch.Evaluate(finance.Calculator{Maintenance: policy}, metric, raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *csvPath != "" {
		if err := batch.WriteCSV(*csvPath, results); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", *csvPath, err)
			return 1
		}
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(results), *csvPath)
	}

	for _, r := range results {
		if r.Error != "" {
			return 1
		}
	}
	return 0
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
