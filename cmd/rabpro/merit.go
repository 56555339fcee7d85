package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/tzussman/rabpro/internal/config"
	"github.com/tzussman/rabpro/internal/merit"
)

func runMerit(args []string) int {
	fs := flag.NewFlagSet("merit", flag.ExitOnError)

	pattern := fs.String("pattern", "", "Regular expression matched against tile names (required)")
	username := fs.String("username", "", "MERIT Hydro username")
	password := fs.String("password", "", "MERIT Hydro password")
	configFile := fs.String("config", "", "YAML config file")
	data := fs.String("data", "", "Data root override")
	proxy := fs.String("proxy", "", "HTTP proxy URL (plain-HTTP requests only)")
	clean := fs.Bool("clean", false, "Re-download existing tiles and remove archives after extraction")
	quiet := fs.Bool("quiet", false, "Suppress progress output")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: rabpro merit -pattern <regexp> [options]

Download MERIT Hydro tile archives whose names match the pattern, then
extract them into the per-product raster directories. Downloading
requires the credentials issued with MERIT Hydro registration.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	if *pattern == "" {
		fmt.Fprintln(os.Stderr, "Error: -pattern is required (e.g. 'n30w120')")
		fs.Usage()
		return ExitInvalidArgs
	}

	overrides := config.Config{DataRoot: *data, Proxy: *proxy}
	overrides.Merit.Username = *username
	overrides.Merit.Password = *password

	cfg, err := loadConfig(*configFile, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}
	if *quiet {
		cfg.Progress = false
	}

	if err := cfg.ValidateMerit(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	_, table, err := resolvePaths(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	fetcher, err := newFetcher(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	ctx, cancel := signalContext()
	defer cancel()

	m := merit.New(merit.NewHTMLLister(fetcher.Client()), fetcher, table)
	if err := m.FetchTiles(ctx, *pattern, cfg.Merit.Username, cfg.Merit.Password, *clean); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, merit.ErrNoMatch) {
			return ExitNoMatch
		}
		return ExitFetchFailed
	}

	fmt.Fprintln(os.Stderr, "[rabpro] MERIT Hydro tiles ready")
	return ExitSuccess
}
