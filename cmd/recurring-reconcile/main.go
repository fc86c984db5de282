// recurring-reconcile creates the missing occurrences of every recurring
// transaction. Concurrent runs are serialized through a redis lock.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/models"
	"github.com/fincontrol/finance_backend/utils"
	"github.com/sirupsen/logrus"
)

const lockKey = "lock:recurring-reconcile"

func main() {
	masterID := flag.Int("transaction-id", 0, "Optional: reconcile a single recurring master")
	lockTTL := flag.Duration("lock-ttl", 10*time.Minute, "How long the redis lock is held at most")
	flag.Parse()

	ctx := context.Background()
	logger := config.GetLogger()

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}
	if err := config.ConnectRedis(ctx); err != nil {
		logger.WithFields(logrus.Fields{"field": "redis"}).Warn("redis unavailable, running without lock: " + err.Error())
	}

	var created int
	err := utils.RunLocked(ctx, lockKey, *lockTTL, func(ctx context.Context) error {
		var err error
		if *masterID > 0 {
			created, err = models.CreateMissingOccurrences(ctx, *masterID)
		} else {
			created, err = models.ReconcileRecurringTransactions(ctx)
		}
		return err
	})
	if errors.Is(err, utils.ErrLockNotObtained) {
		fmt.Fprintln(os.Stderr, "another reconciliation is running; exiting")
		os.Exit(2)
	}
	if err != nil {
		config.LogError(logger, "recurring-reconcile", "main", "reconcile", *masterID, err)
		fmt.Fprintf(os.Stderr, "reconcile failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created %d missing occurrence(s)\n", created)
}
