// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/cronfleet/cronfleet/lib/config"
)

func init() {
	register("kafka", openKafka)
}

// kafkaBroker is the production broker variant.
type kafkaBroker struct {
	bootstrap []string
	writer    *kafka.Writer
}

func openKafka(cfg config.BrokerConfig) (Broker, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("broker: kafka requires at least one bootstrap address")
	}
	return &kafkaBroker{
		bootstrap: cfg.Brokers,
		writer: &kafka.Writer{
			Addr: kafka.TCP(cfg.Brokers...),
			// RequireAll: the publish call only succeeds once every
			// in-sync replica has the message. The publisher treats a
			// successful publish as durable and never retries, so the
			// durability has to be real.
			RequiredAcks: kafka.RequireAll,
			// Hash balancer keys partition selection off the message
			// key, which is what keeps one (group, artifact) pair's
			// messages in publish order for consumers.
			Balancer: &kafka.Hash{},
		},
	}, nil
}

func (b *kafkaBroker) Publish(ctx context.Context, topic string, key, payload []byte) error {
	err := b.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: payload,
		Time:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("broker: kafka publish to %s: %w", topic, err)
	}
	return nil
}

func (b *kafkaBroker) Subscribe(ctx context.Context, topic, group string) (Subscription, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: b.bootstrap,
		GroupID: group,
		Topic:   topic,
		// Workers use a fresh consumer group per invocation; starting
		// at the first retained offset is what lets a newly
		// provisioned host replay the backlog and converge.
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
	})
	return &kafkaSubscription{reader: reader}, nil
}

func (b *kafkaBroker) Close() error {
	return b.writer.Close()
}

type kafkaSubscription struct {
	reader *kafka.Reader
}

func (s *kafkaSubscription) Next(ctx context.Context, timeout time.Duration) ([]byte, error) {
	readCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	message, err := s.reader.ReadMessage(readCtx)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			return nil, ErrNoMessage
		default:
			return nil, fmt.Errorf("broker: kafka read: %w", err)
		}
	}
	return message.Value, nil
}

func (s *kafkaSubscription) Close() error {
	return s.reader.Close()
}
