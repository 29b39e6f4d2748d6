// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cronfleet/cronfleet/lib/config"
)

func init() {
	register("memory", func(config.BrokerConfig) (Broker, error) {
		return NewMemory(), nil
	})
}

// memoryQueueCapacity bounds each consumer group's undelivered queue.
// A deployment topic carries a handful of small messages; hitting this
// limit means something is publishing in a loop.
const memoryQueueCapacity = 1024

// MemoryBroker is an in-process broker for development and tests. It
// retains every published message per topic and replays the retained
// log to each newly subscribed consumer group, mirroring how a fresh
// Kafka group starting at the first offset sees the backlog. All
// messages live on a single logical partition, so delivery order is
// publish order regardless of key.
type MemoryBroker struct {
	mu     sync.Mutex
	topics map[string]*memoryTopic
	closed bool
}

type memoryTopic struct {
	log    [][]byte
	groups map[string]chan []byte
}

// NewMemory returns an empty in-process broker.
func NewMemory() *MemoryBroker {
	return &MemoryBroker{topics: map[string]*memoryTopic{}}
}

func (b *MemoryBroker) topic(name string) *memoryTopic {
	topic, ok := b.topics[name]
	if !ok {
		topic = &memoryTopic{groups: map[string]chan []byte{}}
		b.topics[name] = topic
	}
	return topic
}

// Publish appends payload to the topic and delivers it to every
// subscribed group. The key is accepted for interface parity and
// ignored: a single partition has nothing to select.
func (b *MemoryBroker) Publish(_ context.Context, topicName string, _, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("broker: memory broker is closed")
	}

	topic := b.topic(topicName)
	topic.log = append(topic.log, payload)
	for group, queue := range topic.groups {
		select {
		case queue <- payload:
		default:
			return fmt.Errorf("broker: memory queue for group %q is full", group)
		}
	}
	return nil
}

// Subscribe registers a consumer group on the topic and replays the
// retained log into its queue. A group name may be subscribed once.
func (b *MemoryBroker) Subscribe(_ context.Context, topicName, group string) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, fmt.Errorf("broker: memory broker is closed")
	}

	topic := b.topic(topicName)
	if _, exists := topic.groups[group]; exists {
		return nil, fmt.Errorf("broker: group %q is already subscribed to %s", group, topicName)
	}
	if len(topic.log) > memoryQueueCapacity {
		return nil, fmt.Errorf("broker: retained log on %s exceeds queue capacity", topicName)
	}

	queue := make(chan []byte, memoryQueueCapacity)
	for _, payload := range topic.log {
		queue <- payload
	}
	topic.groups[group] = queue

	return &memorySubscription{broker: b, topicName: topicName, group: group, queue: queue}, nil
}

// Close marks the broker closed. Outstanding subscriptions keep
// draining whatever is already queued.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

type memorySubscription struct {
	broker    *MemoryBroker
	topicName string
	group     string
	queue     chan []byte
}

func (s *memorySubscription) Next(ctx context.Context, timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case payload := <-s.queue:
		return payload, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrNoMessage
	}
}

func (s *memorySubscription) Close() error {
	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()
	if topic, ok := s.broker.topics[s.topicName]; ok {
		delete(topic.groups, s.group)
	}
	return nil
}
