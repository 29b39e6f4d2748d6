// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cronfleet/cronfleet/broker"
	"github.com/cronfleet/cronfleet/lib/contenthash"
	"github.com/cronfleet/cronfleet/lib/cron"
	"github.com/cronfleet/cronfleet/lib/name"
)

// Publisher builds deployment messages from crontab files and hands
// them to the broker. It never touches the local filesystem beyond
// reading its inputs.
type Publisher struct {
	// Broker is the transport the message is published to.
	Broker broker.Broker

	// Topic is the deployment topic.
	Topic string
}

// Publish reads the given crontab files, bundles them into a single
// deployment message for (groupID, artifactID), and publishes it.
//
// The operation is all-or-nothing at the message level: any
// unreadable file or invalid identifier aborts before anything
// reaches the broker. A broker failure is returned to the caller
// without retry — once the broker accepts the publish, its own
// durability takes over.
//
// An empty crontabPaths slice is published as an empty desired set,
// which deletes every crontab the pair previously deployed on every
// host. Callers warn before doing that; this method does not
// second-guess them.
func (p *Publisher) Publish(ctx context.Context, groupID, artifactID string, crontabPaths []string) error {
	if err := name.Validate(groupID); err != nil {
		return fmt.Errorf("deploy: group ID: %w", err)
	}
	if err := name.Validate(artifactID); err != nil {
		return fmt.Errorf("deploy: artifact ID: %w", err)
	}

	crontabs := make([]JobDefinition, 0, len(crontabPaths))
	for _, path := range crontabPaths {
		baseName := filepath.Base(path)
		if err := name.Validate(baseName); err != nil {
			return fmt.Errorf("deploy: crontab file name: %w", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("deploy: reading crontab %s: %w", path, err)
		}
		content := string(data)
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}

		// Lint warnings never fail a publish: cronfleet distributes
		// crontab files, the host's cron daemon interprets them. The
		// warnings exist because publish time is the last moment a
		// human is watching.
		for _, problem := range cron.LintFile(content) {
			slog.Warn("crontab lint",
				"crontab", baseName,
				"problem", problem.String())
		}

		slog.Info("bundling crontab",
			"crontab", baseName,
			"digest", contenthash.Sum([]byte(content)).Short())
		crontabs = append(crontabs, JobDefinition{Name: baseName, Content: content})
	}

	message := &Message{
		Version:    ProtocolVersion,
		GroupID:    groupID,
		ArtifactID: artifactID,
		Crontabs:   crontabs,
	}
	payload, err := Encode(message)
	if err != nil {
		return fmt.Errorf("deploy: encoding message: %w", err)
	}

	if err := p.Broker.Publish(ctx, p.Topic, message.PartitionKey(), payload); err != nil {
		return fmt.Errorf("deploy: publishing to %s: %w", p.Topic, err)
	}
	slog.Info("published deployment",
		"group_id", groupID,
		"artifact_id", artifactID,
		"crontabs", len(crontabs),
		"topic", p.Topic)
	return nil
}
