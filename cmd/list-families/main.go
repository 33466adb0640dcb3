package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/facilpersianas/blindquote/internal/app"
	"github.com/facilpersianas/blindquote/internal/config"
	"github.com/facilpersianas/blindquote/internal/dimension"
)

func main() {
	envFile := flag.String("env", "", "Optional .env file to load before reading configuration")
	timeout := flag.Duration("timeout", 60*time.Second, "Overall timeout")
	history := flag.Int("history", 0, "Also list the N most recent stored catalog snapshots (needs DB_HOST)")
	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", *envFile, err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	components, err := app.Build(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	fmt.Printf("🔍 Fetching product families (%s source)...\n", cfg.Catalog.Source)
	families, err := components.Catalog.Families(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch families: %v\n", err)
		os.Exit(1)
	}

	for _, f := range families {
		opts := dimension.ForFamily(f, cfg.Pricing.CordSideLabels)
		fmt.Printf("\n%s\n", f.Title)
		fmt.Printf("  Products: %v\n", f.ProductIDs)
		fmt.Printf("  Width:  %.1f - %.1f cm (%d options)\n", f.MinWidth, f.MaxWidth, len(opts.Widths))
		fmt.Printf("  Height: %.1f - %.1f cm (%d options)\n", f.MinHeight, f.MaxHeight, len(opts.Heights))
		fmt.Printf("  Cord:   %d options\n", len(opts.CordSide))
	}
	fmt.Printf("\n✅ %d families\n", len(families))

	if *history <= 0 {
		return
	}
	if components.Snapshots == nil {
		fmt.Fprintln(os.Stderr, "Snapshot history needs a database (DB_HOST is not set)")
		os.Exit(1)
	}
	snapshots, err := components.Snapshots.ListRecent(ctx, *history)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list snapshots: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n📦 %d stored snapshots\n", len(snapshots))
	for _, snap := range snapshots {
		fmt.Printf("  %s  %s  %d families\n", snap.CreatedAt.Format(time.RFC3339), snap.ID, len(snap.Families))
	}
}
