// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cronfleet/cronfleet/lib/config"
)

const testTimeout = 50 * time.Millisecond

func TestMemoryDeliveryOrder(t *testing.T) {
	ctx := context.Background()
	memory := NewMemory()
	defer memory.Close()

	subscription, err := memory.Subscribe(ctx, "deploys", "group-a")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer subscription.Close()

	payloads := []string{"first", "second", "third"}
	for _, payload := range payloads {
		if err := memory.Publish(ctx, "deploys", []byte("key"), []byte(payload)); err != nil {
			t.Fatalf("Publish(%s): %v", payload, err)
		}
	}

	for _, want := range payloads {
		got, err := subscription.Next(ctx, testTimeout)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if string(got) != want {
			t.Errorf("Next = %q, want %q", got, want)
		}
	}
}

func TestMemoryQuietPeriod(t *testing.T) {
	ctx := context.Background()
	memory := NewMemory()
	defer memory.Close()

	subscription, err := memory.Subscribe(ctx, "deploys", "group-a")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer subscription.Close()

	if _, err := subscription.Next(ctx, testTimeout); !errors.Is(err, ErrNoMessage) {
		t.Errorf("Next on empty topic = %v, want ErrNoMessage", err)
	}
}

func TestMemoryReplaysBacklogToNewGroup(t *testing.T) {
	ctx := context.Background()
	memory := NewMemory()
	defer memory.Close()

	// Publish before anyone subscribes: the launch CLI and the worker
	// never run at the same time.
	if err := memory.Publish(ctx, "deploys", []byte("key"), []byte("backlog")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	subscription, err := memory.Subscribe(ctx, "deploys", "late-group")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer subscription.Close()

	got, err := subscription.Next(ctx, testTimeout)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if string(got) != "backlog" {
		t.Errorf("Next = %q, want backlog", got)
	}
}

func TestMemoryIndependentGroups(t *testing.T) {
	ctx := context.Background()
	memory := NewMemory()
	defer memory.Close()

	first, err := memory.Subscribe(ctx, "deploys", "group-a")
	if err != nil {
		t.Fatalf("Subscribe group-a: %v", err)
	}
	defer first.Close()
	second, err := memory.Subscribe(ctx, "deploys", "group-b")
	if err != nil {
		t.Fatalf("Subscribe group-b: %v", err)
	}
	defer second.Close()

	if err := memory.Publish(ctx, "deploys", []byte("key"), []byte("fanout")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	for _, subscription := range []Subscription{first, second} {
		got, err := subscription.Next(ctx, testTimeout)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if string(got) != "fanout" {
			t.Errorf("Next = %q, want fanout", got)
		}
	}
}

func TestMemoryDuplicateGroup(t *testing.T) {
	ctx := context.Background()
	memory := NewMemory()
	defer memory.Close()

	subscription, err := memory.Subscribe(ctx, "deploys", "group-a")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer subscription.Close()

	if _, err := memory.Subscribe(ctx, "deploys", "group-a"); err == nil {
		t.Error("duplicate Subscribe = nil, want error")
	}
}

func TestMemoryNextHonorsContext(t *testing.T) {
	memory := NewMemory()
	defer memory.Close()

	subscription, err := memory.Subscribe(context.Background(), "deploys", "group-a")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer subscription.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := subscription.Next(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("Next with canceled context = %v, want context.Canceled", err)
	}
}

func TestOpenRegistry(t *testing.T) {
	memory, err := Open(config.BrokerConfig{Kind: "memory"})
	if err != nil {
		t.Fatalf("Open(memory): %v", err)
	}
	memory.Close()

	if _, err := Open(config.BrokerConfig{Kind: "carrier-pigeon"}); err == nil {
		t.Error("Open of unknown kind = nil, want error")
	}

	kinds := Kinds()
	want := []string{"kafka", "memory"}
	if len(kinds) != len(want) {
		t.Fatalf("Kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("Kinds[%d] = %q, want %q", i, kinds[i], want[i])
		}
	}
}

func TestOpenKafkaRequiresBrokers(t *testing.T) {
	if _, err := Open(config.BrokerConfig{Kind: "kafka"}); err == nil {
		t.Error("Open(kafka) without bootstrap addresses = nil, want error")
	}
}
