// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cronfleet/cronfleet/broker"
	"github.com/cronfleet/cronfleet/lib/codec"
)

// maxBrokerFailures is the number of consecutive Subscription.Next
// failures allowed before Drain gives up. The counter resets on any
// successful receive, so this bounds hot-looping on a dead transport
// without abandoning a drain over one transient hiccup.
const maxBrokerFailures = 5

// Worker drains the deployment backlog once: it pulls messages until
// the subscription goes quiet for Timeout, dispatching each to the
// Reconciler. It is not a daemon — cron runs it periodically, and each
// invocation processes whatever accumulated since the last one.
type Worker struct {
	// Reconciler applies each decoded deployment.
	Reconciler *Reconciler

	// Timeout is the quiet period that signals an exhausted backlog.
	Timeout time.Duration
}

// Drain processes the subscription's backlog and returns the number
// of messages pulled. Failures local to one message — undecodable
// payload, unrecognized protocol version, reconciliation error — are
// logged and never stop the loop; a later deployment must not be
// blocked by an earlier broken one. Only a persistently failing
// transport or a done context ends a drain early.
func (w *Worker) Drain(ctx context.Context, subscription broker.Subscription) (int, error) {
	processed := 0
	consecutiveFailures := 0
	for {
		payload, err := subscription.Next(ctx, w.Timeout)
		if errors.Is(err, broker.ErrNoMessage) {
			slog.Info("backlog drained", "processed", processed)
			return processed, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return processed, ctx.Err()
			}
			consecutiveFailures++
			slog.Error("broker receive failed",
				"error", err,
				"consecutive_failures", consecutiveFailures)
			if consecutiveFailures >= maxBrokerFailures {
				return processed, fmt.Errorf("deploy: %d consecutive broker failures: %w", consecutiveFailures, err)
			}
			continue
		}
		consecutiveFailures = 0
		processed++
		w.handle(payload)
	}
}

// handle processes one message to its natural completion. It never
// returns an error: every failure mode is logged with enough context
// to reproduce, and the next message gets its turn regardless.
func (w *Worker) handle(payload []byte) {
	message, err := Decode(payload)
	if err != nil {
		diagnostic, diagnoseErr := codec.Diagnose(payload)
		if diagnoseErr != nil {
			diagnostic = fmt.Sprintf("%x", payload)
		}
		slog.Error("discarding undecodable message",
			"error", err,
			"payload", diagnostic)
		return
	}

	if message.Version != ProtocolVersion {
		slog.Info("discarding message with unrecognized protocol version",
			"version", message.Version,
			"supported", ProtocolVersion,
			"group_id", message.GroupID,
			"artifact_id", message.ArtifactID)
		return
	}

	applied, err := w.Reconciler.Reconcile(message.GroupID, message.ArtifactID, message.Crontabs)
	if err != nil {
		slog.Error("reconciliation failed, proceeding to next message",
			"group_id", message.GroupID,
			"artifact_id", message.ArtifactID,
			"crontabs", len(message.Crontabs),
			"error", err)
		return
	}
	slog.Info("reconciled deployment",
		"group_id", message.GroupID,
		"artifact_id", message.ArtifactID,
		"created", len(applied.Created),
		"updated", len(applied.Updated),
		"deleted", len(applied.Deleted),
		"unchanged", len(applied.Unchanged))
}
