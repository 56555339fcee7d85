package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tzussman/rabpro/internal/config"
	"github.com/tzussman/rabpro/internal/fetch"
	rabprohttp "github.com/tzussman/rabpro/internal/http"
	"github.com/tzussman/rabpro/internal/paths"
)

// loadConfig layers defaults, an optional YAML file, and environment
// variables, then applies flag-level overrides.
func loadConfig(configFile string, overrides config.Config) (config.Config, error) {
	cfg := config.Default()

	if configFile != "" {
		fileCfg, err := config.LoadFromFile(configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}

	cfg = cfg.Merge(overrides)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// newClient builds the HTTP client from config.
func newClient(cfg config.Config) (*rabprohttp.Client, error) {
	opts := rabprohttp.DefaultOptions()
	opts.RetryAttempts = cfg.Retry.Attempts
	opts.RetryBackoff = cfg.Retry.Backoff
	opts.RetryMaxBackoff = cfg.Retry.MaxBackoff
	opts.Proxy = cfg.Proxy
	return rabprohttp.NewClient(opts)
}

// newFetcher builds the shared HTTP client and fetcher from config.
func newFetcher(cfg config.Config) (*fetch.Fetcher, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	return fetch.New(client, fetch.Options{Progress: cfg.Progress}), nil
}

// resolvePaths threads the configured overrides into path resolution.
func resolvePaths(cfg config.Config) (paths.Config, paths.Table, error) {
	return paths.Resolve(cfg.DataRoot, cfg.ConfigRoot)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[rabpro] Received interrupt, shutting down...")
		cancel()
	}()

	return ctx, cancel
}
