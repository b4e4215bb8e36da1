package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sales-tracker-scraper/internal/app"
	"sales-tracker-scraper/internal/config"
	"sales-tracker-scraper/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "scraper",
		Short: "Extract structured job postings and manage the LinkedIn session",
		Long: `scraper opens job-posting URLs in a headless browser and prints the
extracted title, company, salary, experience level and sector as JSON.
LinkedIn postings need a saved session; use "login" or "upload" first.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default configs/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level")

	cmd.AddCommand(
		newScrapeCmd(opts),
		newLoginCmd(opts),
		newStatusCmd(opts),
		newClearCmd(opts),
		newUploadCmd(opts),
	)
	return cmd
}

// withApp loads config, builds the service graph and runs fn.
func withApp(ctx context.Context, opts *rootOptions, appOpts app.Options, fn func(*app.App) error) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, OutputPaths: []string{"stderr"}})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	a, err := app.New(ctx, cfg, log, appOpts)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("Cleanup failed", logger.Err(err))
		}
	}()
	return fn(a)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
