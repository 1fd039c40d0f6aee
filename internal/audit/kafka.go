package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher writes events to a kafka topic. Produces are asynchronous;
// a failed delivery is logged and dropped, never retried by us (consumers
// that need completeness read the journal, not the event stream).
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher connects to the brokers and ensures the topic exists.
func NewKafkaPublisher(ctx context.Context, brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("kafka ping: %w", err)
	}

	adm := kadm.NewClient(client)
	if _, err := adm.CreateTopic(ctx, 1, 1, nil, topic); err != nil {
		// Exists already, or the cluster forbids topic admin; both are fine
		// as long as produces succeed.
		logger.Debug("create audit topic", "topic", topic, "err", err)
	}

	return &KafkaPublisher{client: client, topic: topic, logger: logger}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("encode audit event", "kind", event.Kind, "err", err)
		return
	}
	rec := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Kind),
		Value: value,
	}
	p.client.Produce(ctx, rec, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("audit event dropped", "kind", event.Kind, "err", err)
		}
	})
}

func (p *KafkaPublisher) Close() error {
	p.client.Close()
	return nil
}
