package repository

import (
	"context"

	"StockPull/internal/domain/models"
	drepo "StockPull/internal/domain/repository"
	pkgkafka "StockPull/pkg/kafka"
)

// KafkaPublisher ships portfolio events to a Kafka topic, keyed by the
// portfolio's cache key so every event for one portfolio keeps its order.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	key      []byte
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic, key string) drepo.SnapshotPublisher {
	if key == "" {
		key = DefaultCacheKey
	}
	return &KafkaPublisher{producer: producer, topic: topic, key: []byte(key)}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev *models.PortfolioEvent) error {
	return p.producer.Publish(ctx, p.topic, p.key, ev)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopPublisher drops every event. It stands in when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *models.PortfolioEvent) error { return nil }
func (NopPublisher) Close() error                                          { return nil }
