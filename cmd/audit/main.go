/*
main.go - Payroll audit CLI

PURPOSE:
  Runs one anomaly detection pass over a payroll CSV export and prints
  the report.

COMMAND-LINE FLAGS:
  -input    Path to the payroll CSV export (required)
  -year     Reference year (required)
  -month    Reference month, 1-12 (required)
  -format   Output format: text or json (default: text)
  -workers  Worker pool size; 0 means one per CPU, 1 disables parallelism

EXIT CODES:
  0  Run completed (with or without anomalies)
  1  Bad arguments, unreadable input, or malformed data

EXAMPLES:
  # Text report for August 2024
  ./audit -input folha.csv -year 2024 -month 8

  # JSON for downstream tooling
  ./audit -input folha.csv -year 2024 -month 8 -format json
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/warp/payroll-auditor/loader"
	"github.com/warp/payroll-auditor/payroll"
	"github.com/warp/payroll-auditor/report"
)

func main() {
	input := flag.String("input", "", "path to the payroll CSV export")
	year := flag.Int("year", 0, "reference year")
	month := flag.Int("month", 0, "reference month (1-12)")
	format := flag.String("format", "text", "output format: text or json")
	workers := flag.Int("workers", 1, "worker pool size (0 = one per CPU)")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *format != "text" && *format != "json" {
		log.Fatalf("unknown format %q: want text or json", *format)
	}

	reference, err := payroll.NewPeriod(*year, *month)
	if err != nil {
		log.Fatalf("Invalid reference period: %v", err)
	}

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("Failed to open input: %v", err)
	}
	defer f.Close()

	ds, err := loader.Load(f)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *input, err)
	}

	result, err := payroll.DetectParallel(context.Background(), ds.Store(), reference, *workers)
	if err != nil {
		log.Fatalf("Detection failed: %v", err)
	}

	rep := report.New(ds.Employees)
	switch *format {
	case "json":
		err = rep.WriteJSON(os.Stdout, result)
	default:
		err = rep.WriteText(os.Stdout, result)
	}
	if err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	if !result.Empty() {
		fmt.Fprintf(os.Stderr, "%d record(s) loaded, anomalies found\n", ds.Store().Len())
	}
}
