// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

// cronfleet-launch publishes a project's crontab files as one
// deployment message. It runs at the end of a build pipeline, after
// the build tool has determined the project's group and artifact IDs.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

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
		groupID     string
		artifactID  string
		crontabGlob string
		verbose     bool
		showVersion bool
	)

	pflag.StringVarP(&configPath, "config", "c", "", "path to cronfleet.yaml (default: CRONFLEET_CONFIG)")
	pflag.StringVar(&groupID, "group-id", "", "deployment group ID (required)")
	pflag.StringVar(&artifactID, "artifact-id", "", "deployment artifact ID (required)")
	pflag.StringVar(&crontabGlob, "cron-glob", "", "glob for crontab files (default: launch.crontab_glob from config)")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pflag.BoolVar(&showVersion, "version", false, "print version information and exit")
	pflag.Parse()

	if showVersion {
		fmt.Printf("cronfleet-launch %s\n", version.Info())
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

	if groupID == "" {
		return fmt.Errorf("--group-id is required")
	}
	if artifactID == "" {
		return fmt.Errorf("--artifact-id is required")
	}

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

	glob := cfg.Launch.CrontabGlob
	if crontabGlob != "" {
		glob = crontabGlob
	}
	crontabPaths, err := filepath.Glob(glob)
	if err != nil {
		return fmt.Errorf("bad crontab glob %q: %w", glob, err)
	}
	if len(crontabPaths) == 0 {
		workingDir, _ := os.Getwd()
		slog.Warn("no crontab files match, publishing an empty set; "+
			"existing installed crontabs for this artifact will be deleted fleet-wide",
			"glob", glob,
			"pwd", workingDir)
	}

	transport, err := broker.Open(cfg.Broker)
	if err != nil {
		return err
	}
	defer transport.Close()

	publisher := &deploy.Publisher{Broker: transport, Topic: cfg.Broker.Topic}
	return publisher.Publish(context.Background(), groupID, artifactID, crontabPaths)
}
