package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/facilpersianas/blindquote/internal/app"
	"github.com/facilpersianas/blindquote/internal/config"
	"github.com/facilpersianas/blindquote/internal/domain"
)

// Prices a JSON array of line items and prints the updated items.
func main() {
	itemsFile := flag.String("items", "", "JSON file with an array of line items (- for stdin)")
	envFile := flag.String("env", "", "Optional .env file to load before reading configuration")
	timeout := flag.Duration("timeout", 60*time.Second, "Overall timeout")
	flag.Parse()

	if *itemsFile == "" {
		fmt.Println("Usage:")
		fmt.Println("  go run cmd/price-quote/main.go --items items.json [--env .env]")
		fmt.Println("  cat items.json | go run cmd/price-quote/main.go --items -")
		os.Exit(1)
	}

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", *envFile, err)
			os.Exit(1)
		}
	}

	var data []byte
	var err error
	if *itemsFile == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*itemsFile)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read items: %v\n", err)
		os.Exit(1)
	}

	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid items JSON: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// logs go to stderr so stdout stays valid JSON
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

	priced, err := components.Pricing.UpdatePrices(ctx, items)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pricing failed: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(priced); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		os.Exit(1)
	}
}

