package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/config"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/erp"
)

func main() {
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

	fmt.Println("🔍 Fetching published items from ERPNext...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	items, err := client.ListItems(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list items: %v\n", err)
		os.Exit(1)
	}

	for _, item := range items {
		fmt.Printf("  %-20s %-40s %10.2f %s\n", item.Code, item.Name, item.Rate, cfg.ERP.Currency)
	}
	fmt.Printf("\n✅ %d items\n", len(items))
}
