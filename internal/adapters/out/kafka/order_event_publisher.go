// Package kafka publishes order events to Kafka with a sarama SyncProducer.
package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"logistics/internal/core/ports"

	"github.com/IBM/sarama"
)

const (
	headerEventType = "event-type"
	headerVersion   = "order-version"
)

// NewSyncProducer connects a producer that waits for all in-sync replicas.
// Messages are partitioned by key, so the events of one order stay ordered.
func NewSyncProducer(brokers []string, clientID string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Partitioner = sarama.NewHashPartitioner

	return sarama.NewSyncProducer(brokers, cfg)
}

// ParseBrokers splits a comma separated broker list and drops blanks.
func ParseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// OrderEventPublisher implements ports.OrderEventPublisher.
type OrderEventPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewOrderEventPublisher(producer sarama.SyncProducer, topic string) *OrderEventPublisher {
	return &OrderEventPublisher{producer: producer, topic: topic}
}

// PublishOrderChanged sends the events as one batch keyed by order id.
func (p *OrderEventPublisher) PublishOrderChanged(ctx context.Context, events ...ports.OrderChangedEvent) error {
	if len(events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msgs := make([]*sarama.ProducerMessage, 0, len(events))
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(e.OrderID),
			Value: sarama.ByteEncoder(payload),
			Headers: []sarama.RecordHeader{
				{Key: []byte(headerEventType), Value: []byte(ports.OrderChangedTopic)},
				{Key: []byte(headerVersion), Value: []byte(strconv.FormatInt(e.Version, 10))},
			},
			Timestamp: e.OccurredAt,
		})
	}

	return p.producer.SendMessages(msgs)
}

// Close releases the producer.
func (p *OrderEventPublisher) Close() error {
	return p.producer.Close()
}
