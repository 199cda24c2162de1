// Command eval runs a correction test suite against the query corrector.
//
// Usage:
//
//	go run ./cmd/eval -suite suites/movies.json [flags]
//
// Flags:
//
//	-suite     Path to test suite JSON file (required)
//	-output    Output format: summary, detailed, json, compact (default: summary)
//	-save      Save the report to a JSON file
//	-archive   Archive the report in the local store
//	-data-dir  Store directory for -archive (default: $VORDR_DATA_DIR or ~/.vordr)
//
// This command measures correction quality by:
// 1. Loading the suite and building a corrector from its schema
// 2. Running every case's query through the corrector
// 3. Comparing outcomes (unchanged, corrected, discarded) to expectations
// 4. Reporting per-case pass/fail and exiting nonzero on any failure
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/orneryd/vordr/pkg/config"
	"github.com/orneryd/vordr/pkg/eval"
	"github.com/orneryd/vordr/pkg/store"
)

func main() {
	// Parse flags
	suitePath := flag.String("suite", "", "Path to test suite JSON file")
	output := flag.String("output", "summary", "Output format: summary, detailed, json, compact")
	savePath := flag.String("save", "", "Save the report to a JSON file")
	archive := flag.Bool("archive", false, "Archive the report in the local store")
	dataDir := flag.String("data-dir", "", "Store directory for -archive")
	flag.Parse()

	if *suitePath == "" {
		fmt.Fprintln(os.Stderr, "❌ -suite is required")
		flag.Usage()
		os.Exit(1)
	}

	// Load test suite
	fmt.Printf("📂 Loading test suite from %s...\n", *suitePath)
	suite, err := eval.LoadSuite(*suitePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load suite: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Loaded %q: %d cases, %d whitelisted relationships\n",
		suite.Name, len(suite.Cases), relationshipCount(suite))

	// Run evaluation
	fmt.Println("\n🚀 Running evaluation...")
	report := eval.Run(suite)

	// Output results
	reporter := eval.NewReporter(os.Stdout)
	switch *output {
	case "summary":
		reporter.PrintSummary(report)
	case "detailed":
		reporter.PrintSummary(report)
		reporter.PrintDetails(report)
	case "json":
		reporter.PrintJSON(report)
	case "compact":
		reporter.PrintCompact(report)
	default:
		reporter.PrintSummary(report)
	}

	// Save results if requested
	if *savePath != "" {
		if err := reporter.SaveJSON(report, *savePath); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️ Failed to save report: %v\n", err)
		} else {
			fmt.Printf("💾 Report saved to %s\n", *savePath)
		}
	}

	// Archive in the store if requested
	if *archive {
		if err := archiveReport(report, *dataDir); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️ Failed to archive report: %v\n", err)
		} else {
			fmt.Printf("🗄️  Report %s archived\n", report.ID)
		}
	}

	// Exit with appropriate code
	if report.Metrics.Failed > 0 {
		os.Exit(1)
	}
}

func relationshipCount(suite *eval.Suite) int {
	if suite.Schema == nil {
		return 0
	}
	return len(suite.Schema.Relationships)
}

func archiveReport(report *eval.Report, dir string) error {
	if dir == "" {
		dir = config.LoadFromEnv().DataDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	s, err := store.Open(dir)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.PutReport(report)
}
