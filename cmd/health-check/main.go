// health-check runs the same checks as GET /api/health against the
// configured backends and exits 1 when the report is not healthy.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fincontrol/finance_backend/config"
)

func main() {
	asJSON := flag.Bool("json", false, "Print the report as JSON")
	timeout := flag.Duration("timeout", 10*time.Second, "Overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if conn, err := config.OpenDatabase(config.LoadDatabaseSettings(config.Environment())); err == nil {
		config.SetDB(conn)
	} else {
		fmt.Fprintf(os.Stderr, "database: %v\n", err)
	}
	if config.HealthCheckCache() {
		if err := config.ConnectRedis(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "redis: %v\n", err)
		}
	}

	report := config.RunHealthCheck(ctx)
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printReport(report)
	}
	if !report.Healthy() {
		os.Exit(1)
	}
}

func printReport(r *config.HealthReport) {
	fmt.Printf("Status: %s\n", strings.ToUpper(r.Status))
	if r.Message != "" {
		fmt.Println(r.Message)
	}
	names := make([]string, 0, len(r.Checks))
	for name := range r.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		check := r.Checks[name]
		line := fmt.Sprintf("  %-12s %s", name, check.Status)
		if check.ResponseTimeMs != nil {
			line += fmt.Sprintf(" (%.2fms)", *check.ResponseTimeMs)
		}
		if check.Error != "" {
			line += " - " + check.Error
		} else if check.Message != "" {
			line += " - " + check.Message
		}
		fmt.Println(line)
	}
}
