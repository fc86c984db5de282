// db-configure prints the resolved database settings for the current
// environment, tests the connection and optionally runs migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/models"
)

func main() {
	env := flag.String("env", config.Environment(), "Environment to resolve settings for")
	migrate := flag.Bool("migrate", false, "Run AutoMigrate after a successful connection test")
	timeout := flag.Duration("timeout", 10*time.Second, "Connection test timeout")
	flag.Parse()

	settings := config.LoadDatabaseSettings(*env)
	info := settings.ConnectionInfo()
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Println("Database configuration:")
	for _, k := range keys {
		fmt.Printf("  %-12s %s\n", k+":", info[k])
	}

	conn, err := config.OpenDatabase(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connection failed: %v\n", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	var result int
	if err := conn.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error; err != nil || result != 1 {
		fmt.Fprintf(os.Stderr, "connection test failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Connection OK")

	if !*migrate {
		return
	}
	config.SetDB(conn)
	if err := models.Migrate(); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Migrations applied")
}
