package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/config"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/erp"
)

func main() {
	name := flag.String("name", "", "customer name (required)")
	ctype := flag.String("type", "Individual", "customer type: Individual or Company")
	email := flag.String("email", "", "contact email")
	flag.Parse()

	if *name == "" {
		fmt.Fprintln(os.Stderr, "Usage: create-customer -name \"Ana Torres\" [-type Individual] [-email ana@example.mx]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if !cfg.ERP.Configured() {
		fmt.Fprintln(os.Stderr, "ERP credentials missing: set ERP_BASE_URL, ERP_API_KEY and ERP_API_SECRET")
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := erp.NewClient(cfg.ERP, cfg.Catalog.PageLength, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := client.CreateCustomer(ctx, erp.CustomerDoc{
		CustomerName: *name,
		CustomerType: *ctype,
		EmailID:      *email,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create customer: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Customer created: %s (%s)\n", created.CustomerName, created.Name)
}
