package models

import (
	"log"

	"github.com/fincontrol/finance_backend/config"
)

// Migrate creates or updates every table the application owns.
func Migrate() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&Wallet{},
		&Transaction{},
		&Company{},
		&User{},
	)
}

func MigrateTable() {
	if err := Migrate(); err != nil {
		log.Fatal(err)
	}
}
