package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tzussman/rabpro/internal/catalog"
	"github.com/tzussman/rabpro/internal/config"
)

func runCatalog(args []string) int {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)

	configFile := fs.String("config", "", "YAML config file")
	data := fs.String("data", "", "Data root override")
	ttl := fs.Duration("ttl", 0, "Cache TTL (default from config, 24h)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: rabpro catalog [options]

Refresh the cached dataset catalog when it is missing or older than the
TTL. A failed refresh leaves the existing cache untouched.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, err := loadConfig(*configFile, config.Config{DataRoot: *data, CatalogTTL: *ttl})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	pathCfg, table, err := resolvePaths(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	if err := os.MkdirAll(pathCfg.DataRoot, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	client, err := newClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	ctx, cancel := signalContext()
	defer cancel()

	cache := catalog.New(client, table.Catalog)
	res := cache.Refresh(ctx, cfg.CatalogTTL)
	switch res.Status {
	case catalog.StatusRefreshed:
		fmt.Fprintf(os.Stderr, "[rabpro] Catalog refreshed: %s\n", table.Catalog)
		return ExitSuccess
	case catalog.StatusFresh:
		fmt.Fprintf(os.Stderr, "[rabpro] Catalog is fresh (TTL %s): %s\n", cfg.CatalogTTL, table.Catalog)
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "[rabpro] Catalog refresh failed: %v\n", res.Err)
		return ExitFetchFailed
	}
}
