// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

// cronfleet-worker drains the deployment topic once and reconciles
// this host's cron drop directory to the latest published definitions.
// It is scheduled (typically from cron itself) rather than run as a
// daemon: each invocation processes the accumulated backlog and exits.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/cronfleet/cronfleet/broker"
	"github.com/cronfleet/cronfleet/deploy"
	"github.com/cronfleet/cronfleet/lib/config"
	"github.com/cronfleet/cronfleet/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  string
		verbose     bool
		showVersion bool
	)

	pflag.StringVarP(&configPath, "config", "c", "", "path to cronfleet.yaml (default: CRONFLEET_CONFIG)")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pflag.BoolVar(&showVersion, "version", false, "print version information and exit")
	pflag.Parse()

	if showVersion {
		fmt.Printf("cronfleet-worker %s\n", version.Info())
		return nil
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if err := cfg.Validate(broker.Kinds()); err != nil {
		return err
	}
	drainTimeout, err := cfg.DrainTimeout()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	transport, err := broker.Open(cfg.Broker)
	if err != nil {
		return err
	}
	defer transport.Close()

	// A fresh consumer group per invocation: the worker wants the
	// topic's full retained backlog, not a committed offset from some
	// previous run, because reconciliation is idempotent and replaying
	// is cheaper than tracking.
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown-host"
	}
	group := fmt.Sprintf("%s-%s-%s", cfg.Broker.GroupPrefix, hostname, uuid.NewString())

	subscription, err := transport.Subscribe(ctx, cfg.Broker.Topic, group)
	if err != nil {
		return fmt.Errorf("subscribing to %s as %s: %w", cfg.Broker.Topic, group, err)
	}
	defer subscription.Close()

	worker := &deploy.Worker{
		Reconciler: &deploy.Reconciler{
			Dir:               cfg.Worker.CrontabDir,
			InstallationToken: cfg.Worker.InstallationToken,
		},
		Timeout: drainTimeout,
	}

	slog.Info("draining deployment backlog",
		"topic", cfg.Broker.Topic,
		"group", group,
		"crontab_dir", cfg.Worker.CrontabDir)
	processed, err := worker.Drain(ctx, subscription)
	if err != nil {
		return fmt.Errorf("drain ended after %d messages: %w", processed, err)
	}
	return nil
}
