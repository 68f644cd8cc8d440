package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/feedmarketer/feedsite"
	"github.com/feedmarketer/feedsite/logging"
)

// setup parses the common flags and builds the config and logger.
func setup(name string, args []string) (*feedsite.SiteConfig, *slog.Logger, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg, err := feedsite.LoadConfig(*configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     version,
	})
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func runServe(args []string) error {
	cfg, logger, err := setup("serve", args)
	if err != nil {
		return err
	}
	defer logging.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := feedsite.New(cfg, feedsite.WithLogger(logger))
	defer app.Close()
	return app.Start(ctx)
}

func runGenerate(args []string) error {
	cfg, logger, err := setup("generate", args)
	if err != nil {
		return err
	}
	defer logging.Flush()
	cfg.LogWarnings(logger)

	app := feedsite.New(cfg, feedsite.WithLogger(logger))
	defer app.Close()
	logger.Info("generating artifacts", "site", cfg.SiteURL(), "content", cfg.ContentDir, "public", cfg.PublicDir)
	return app.Regenerate(context.Background())
}

func runPosts(args []string) error {
	cfg, logger, err := setup("posts", args)
	if err != nil {
		return err
	}
	cfg.LogWarnings(logger)

	app := feedsite.New(cfg, feedsite.WithLogger(logger))
	defer app.Close()
	posts, err := app.Cache.All(context.Background())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(posts)
}

func runConfig(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("config takes no arguments")
	}
	fmt.Println(feedsite.ConfigHelp())
	return nil
}
