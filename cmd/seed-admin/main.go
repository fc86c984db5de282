// seed-admin creates a super admin account, or promotes an existing account
// with the same e-mail. Passwords of existing accounts are left untouched.
//
// Usage:
//
//	ADMIN_PASSWORD=... go run ./cmd/seed-admin -email admin@example.com -name "Administrador"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/models"
)

func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "Account e-mail (default $ADMIN_EMAIL)")
	name := flag.String("name", envOr("ADMIN_NAME", "Administrador"), "Display name for a new account")
	migrate := flag.Bool("migrate", false, "Run AutoMigrate before seeding")
	flag.Parse()

	password := os.Getenv("ADMIN_PASSWORD")
	if strings.TrimSpace(*email) == "" || password == "" {
		fmt.Fprintln(os.Stderr, "-email (or ADMIN_EMAIL) and ADMIN_PASSWORD are required")
		os.Exit(1)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	if *migrate {
		if err := models.Migrate(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to migrate: %v\n", err)
			os.Exit(1)
		}
	}

	user, created, err := models.SeedSuperAdmin(ctx, *name, *email, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed super admin: %v\n", err)
		os.Exit(1)
	}
	if created {
		fmt.Printf("Created super admin: email=%q id=%d\n", user.Email, user.ID)
		return
	}
	fmt.Printf("Super admin already present: email=%q id=%d (role=%s)\n", user.Email, user.ID, user.Role)
}

func envOr(key string, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
