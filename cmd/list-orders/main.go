package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/config"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/repository/postgres"
)

func main() {
	session := flag.String("session", "", "session id (required)")
	limit := flag.Int("limit", 20, "max records to print")
	flag.Parse()

	if *session == "" {
		fmt.Fprintln(os.Stderr, "Usage: list-orders -session <session-id> [-limit 20]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Database.Enabled() {
		fmt.Fprintln(os.Stderr, "DB_HOST is not set, order records are disabled")
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := postgres.NewOrderRecordRepository(db, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	records, err := repo.ListBySession(ctx, *session, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list order records: %v\n", err)
		os.Exit(1)
	}

	for _, rec := range records {
		outcome := "FAILED " + rec.Category
		if rec.Success {
			outcome = "OK " + rec.OrderName
		}
		fmt.Printf("  %s  %-20s %-30s %s\n",
			rec.CreatedAt.Format(time.RFC3339), rec.Customer, outcome, rec.ID)
	}
	fmt.Printf("\n✅ %d record(s)\n", len(records))
}
