// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

package broker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cronfleet/cronfleet/lib/config"
)

// ErrNoMessage is returned by Subscription.Next when no message
// arrived within the timeout. For a drain-style consumer this quiet
// period is the only signal that the backlog is exhausted.
var ErrNoMessage = errors.New("broker: no message available")

// Broker is the durable pub/sub log cronfleet publishes deployment
// messages to. Implementations are expected to preserve publish order
// for messages sharing a partition key; no ordering is assumed across
// keys.
type Broker interface {
	// Publish appends payload to the topic. The key selects the
	// partition: messages with equal keys are delivered to a
	// subscriber in publish order.
	Publish(ctx context.Context, topic string, key, payload []byte) error

	// Subscribe opens a subscription on the topic for the given
	// consumer group. A fresh group sees the topic's retained
	// backlog from the beginning.
	Subscribe(ctx context.Context, topic, group string) (Subscription, error)

	// Close releases the broker's resources. Subscriptions must be
	// closed separately.
	Close() error
}

// Subscription is a blocking iterator over a consumer group's view of
// a topic.
type Subscription interface {
	// Next blocks up to timeout for the next message and returns its
	// payload. Returns ErrNoMessage when the timeout elapses with
	// nothing available, or the context's error when ctx is done.
	Next(ctx context.Context, timeout time.Duration) ([]byte, error)

	// Close releases the subscription.
	Close() error
}

// openFunc constructs a broker variant from its configuration.
type openFunc func(cfg config.BrokerConfig) (Broker, error)

// variants is the fixed set of broker implementations, keyed by the
// config `broker.kind` string. Populated by each variant's init;
// nothing is loaded dynamically.
var variants = map[string]openFunc{}

func register(kind string, open openFunc) {
	if _, dup := variants[kind]; dup {
		panic("broker: duplicate variant registration: " + kind)
	}
	variants[kind] = open
}

// Kinds returns the registered variant names, sorted. Config
// validation reports this list on an unknown kind.
func Kinds() []string {
	kinds := make([]string, 0, len(variants))
	for kind := range variants {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Open constructs the broker variant selected by cfg.Kind.
func Open(cfg config.BrokerConfig) (Broker, error) {
	open, ok := variants[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("broker: unknown kind %q (known: %v)", cfg.Kind, Kinds())
	}
	return open(cfg)
}
