// Seed adds todos through the configured store. Run from project root: go run ./scripts/seed -n 500
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"todolist/internal/config"
	"todolist/internal/database"
	"todolist/internal/repository"
	"todolist/pkg/logger"
)

func main() {
	total := flag.Int("n", 100, "number of todos to create")
	flag.Parse()

	cfg := config.Get()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	store, err := repository.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Store not available:", err)
		os.Exit(1)
	}
	defer database.Close(ctx)

	start := time.Now()
	for i := 1; i <= *total; i++ {
		if _, err := store.Create(ctx, fmt.Sprintf("Todo %d", i)); err != nil {
			fmt.Fprintln(os.Stderr, "\nInsert failed:", err)
			os.Exit(1)
		}
		if i%50 == 0 || i == *total {
			fmt.Printf("\rInserted %d / %d", i, *total)
		}
	}
	fmt.Printf("\nDone: %d todos in %v (%s)\n", *total, time.Since(start), cfg.StoreDriver)
}
