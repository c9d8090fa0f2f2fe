package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// SecurityEventProducer publishes auth security events. The auth service
// treats publishing as best effort: a broker outage never fails a login.
type SecurityEventProducer interface {
	PublishSecurityEvent(ctx context.Context, event *SecurityEvent) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka producer
type KafkaProducerConfig struct {
	Brokers          []string
	SecurityTopic    string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig(brokers []string, topic string) *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          brokers,
		SecurityTopic:    topic,
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

// KafkaSecurityEventProducer publishes security events to Kafka
type KafkaSecurityEventProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaSecurityEventProducer creates a new Kafka producer
func NewKafkaSecurityEventProducer(config *KafkaProducerConfig) (SecurityEventProducer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = config.IdempotentWrites

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps per-account ordering
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaSecurityEventProducer{
		producer: producer,
		config:   config,
	}, nil
}

// PublishSecurityEvent publishes a single security event
func (p *KafkaSecurityEventProducer) PublishSecurityEvent(ctx context.Context, event *SecurityEvent) error {
	payload, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal security event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.config.SecurityTopic,
		Key:   sarama.StringEncoder(event.Email),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
		Timestamp: event.CreatedAt,
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to publish security event: %w", err)
	}
	return nil
}

// HealthCheck verifies the producer is usable
func (p *KafkaSecurityEventProducer) HealthCheck(ctx context.Context) error {
	if p.producer == nil {
		return fmt.Errorf("producer not initialized")
	}
	return nil
}

// Close shuts down the producer
func (p *KafkaSecurityEventProducer) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
