package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// Consumer reads ticket-issued events and dispatches confirmations.
type Consumer interface {
	Start(ctx context.Context) error
	Stop() error
}

type ConsumerConfig struct {
	Brokers          []string
	GroupID          string
	Topics           []string
	SessionTimeoutMs int
	HeartbeatMs      int
	OffsetOldest     bool
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:          []string{"localhost:9092"},
		GroupID:          "stagepass-notifications",
		Topics:           []string{"tickets.issued"},
		SessionTimeoutMs: 30000,
		HeartbeatMs:      3000,
		OffsetOldest:     false,
	}
}

// Dispatcher delivers one confirmation. The default implementation
// logs; a mail sender can be swapped in without touching the consumer.
type Dispatcher interface {
	DispatchIssuedConfirmation(ctx context.Context, event *TicketIssuedEvent) error
}

// LogDispatcher records confirmations to the process log.
type LogDispatcher struct{}

func (d *LogDispatcher) DispatchIssuedConfirmation(ctx context.Context, event *TicketIssuedEvent) error {
	log.Printf("📧 Order %s confirmed for %s with %d tickets",
		event.OrderID, event.CustomerEmail, len(event.TicketIDs))
	return nil
}

type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	dispatcher    Dispatcher
	cancel        context.CancelFunc
}

func NewKafkaConsumer(config *ConsumerConfig, dispatcher Dispatcher) (Consumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Return.Errors = true
	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		dispatcher:    dispatcher,
	}, nil
}

func (kc *KafkaConsumer) Start(ctx context.Context) error {
	ctx, kc.cancel = context.WithCancel(ctx)
	log.Printf("📥 Starting ticket-issued consumer for topics: %v", kc.config.Topics)

	go kc.handleErrors()
	go func() {
		handler := &issuedEventHandler{dispatcher: kc.dispatcher}
		for {
			select {
			case <-ctx.Done():
				log.Println("📥 Ticket-issued consumer shutting down")
				return
			default:
				if err := kc.consumerGroup.Consume(ctx, kc.config.Topics, handler); err != nil {
					log.Printf("📥 Error consuming messages: %v", err)
					time.Sleep(time.Second)
				}
			}
		}
	}()

	return nil
}

func (kc *KafkaConsumer) handleErrors() {
	for err := range kc.consumerGroup.Errors() {
		log.Printf("📥 Consumer group error: %v", err)
	}
}

func (kc *KafkaConsumer) Stop() error {
	if kc.cancel != nil {
		kc.cancel()
	}
	if err := kc.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	log.Println("📥 Ticket-issued consumer stopped")
	return nil
}

type issuedEventHandler struct {
	dispatcher Dispatcher
}

func (h *issuedEventHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *issuedEventHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *issuedEventHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			var event TicketIssuedEvent
			if err := json.Unmarshal(message.Value, &event); err != nil {
				log.Printf("📥 Skipping malformed ticket-issued event at offset %d: %v", message.Offset, err)
				session.MarkMessage(message, "")
				continue
			}

			if err := h.dispatcher.DispatchIssuedConfirmation(session.Context(), &event); err != nil {
				log.Printf("📥 Failed to dispatch confirmation for order %s: %v", event.OrderID, err)
				continue
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}
