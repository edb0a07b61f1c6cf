package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// Producer publishes ticket-issued events. The checkout workflow calls
// it after its final step; a publish failure is logged, not rolled
// back, because the sale is already durable.
type Producer interface {
	PublishTicketsIssued(ctx context.Context, event *TicketIssuedEvent) error
	Close() error
}

// ProducerConfig contains configuration for the Kafka producer.
type ProducerConfig struct {
	Brokers          []string
	IssuedTopic      string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultProducerConfig returns a default producer configuration.
func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Brokers:          []string{"localhost:9092"},
		IssuedTopic:      "tickets.issued",
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

// KafkaProducer publishes events to Kafka.
type KafkaProducer struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
}

func NewKafkaProducer(config *ProducerConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("📤 Kafka ticket-issued producer created successfully")
	return &KafkaProducer{producer: producer, config: config}, nil
}

func (kp *KafkaProducer) PublishTicketsIssued(ctx context.Context, event *TicketIssuedEvent) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal ticket-issued event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: kp.config.IssuedTopic,
		Key:   sarama.StringEncoder(event.PartitionKey()),
		Value: sarama.ByteEncoder(messageBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte("tickets.issued")},
			{Key: []byte("producer"), Value: []byte("stagepass")},
			{Key: []byte("issued_at"), Value: []byte(event.IssuedAt.Format(time.RFC3339))},
		},
		Timestamp: event.IssuedAt,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send ticket-issued event to Kafka: %w", err)
	}

	log.Printf("📤 Ticket-issued event published - Topic: %s, Partition: %d, Offset: %d, Order: %s, Tickets: %d",
		kp.config.IssuedTopic, partition, offset, event.OrderID, len(event.TicketIDs))
	return nil
}

func (kp *KafkaProducer) Close() error {
	if kp.producer != nil {
		if err := kp.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		log.Printf("📤 Kafka ticket-issued producer closed")
	}
	return nil
}

// NoopProducer drops events. Used when Kafka is disabled.
type NoopProducer struct{}

func NewNoopProducer() Producer {
	return &NoopProducer{}
}

func (np *NoopProducer) PublishTicketsIssued(ctx context.Context, event *TicketIssuedEvent) error {
	log.Printf("📤 Kafka disabled, dropping ticket-issued event for order %s", event.OrderID)
	return nil
}

func (np *NoopProducer) Close() error {
	return nil
}
