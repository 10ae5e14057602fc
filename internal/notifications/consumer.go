package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

// Consumer drains the notification topic and hands messages to the
// email service
type Consumer interface {
	Start(ctx context.Context, numWorkers int) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeoutMs     int
	HeartbeatMs          int
	MaxProcessingTime    time.Duration
	OffsetOldest         bool
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              []string{"localhost:9092"},
		GroupID:              "roomly-notifications",
		Topics:               []string{"roomly.notifications"},
		SessionTimeoutMs:     30000,
		HeartbeatMs:          3000,
		MaxProcessingTime:    5 * time.Minute,
		OffsetOldest:         false,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

type kafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	emailService  EmailService
	ctx           context.Context
	cancel        context.CancelFunc
}

func NewKafkaConsumer(config *ConsumerConfig, emailService EmailService) (Consumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.MaxProcessingTime = config.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &kafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		emailService:  emailService,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func (kc *kafkaConsumer) Start(ctx context.Context, numWorkers int) error {
	log.Printf("📥 Starting %d notification workers for topics: %v", numWorkers, kc.config.Topics)

	go kc.handleErrors()

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			kc.runWorker(ctx, workerID)
		}(i)
	}

	return nil
}

func (kc *kafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &consumerGroupHandler{
		config:       kc.config,
		workerID:     workerID,
		emailService: kc.emailService,
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("📥 Worker %d shutting down", workerID)
			return
		default:
			if err := kc.consumerGroup.Consume(ctx, kc.config.Topics, handler); err != nil {
				log.Printf("📥 Worker %d error consuming messages: %v", workerID, err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (kc *kafkaConsumer) handleErrors() {
	for err := range kc.consumerGroup.Errors() {
		log.Printf("📥 Consumer group error: %v", err)
	}
}

func (kc *kafkaConsumer) Stop() error {
	log.Println("📥 Stopping notification consumer...")
	kc.cancel()

	if err := kc.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}

	log.Println("📥 Notification consumer stopped")
	return nil
}

func (kc *kafkaConsumer) HealthCheck(ctx context.Context) error {
	select {
	case <-kc.ctx.Done():
		return fmt.Errorf("consumer context is cancelled")
	default:
		if kc.emailService == nil {
			return fmt.Errorf("email service not configured")
		}
		return nil
	}
}

type consumerGroupHandler struct {
	config       *ConsumerConfig
	workerID     int
	emailService EmailService
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Printf("📥 Worker %d: consumer group session started", h.workerID)
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Printf("📥 Worker %d: consumer group session ended", h.workerID)
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			if err := h.processMessage(session.Context(), message); err != nil {
				log.Printf("📥 Worker %d: error processing message: %v", h.workerID, err)
			} else {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var notification EmailNotification
	if err := json.Unmarshal(message.Value, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	if notification.IsExpired() {
		log.Printf("📥 Worker %d: notification %s expired, skipping", h.workerID, notification.ID)
		return nil
	}

	notification.Status = NotificationStatusSending

	if err := h.sendWithRetry(ctx, &notification); err != nil {
		notification.MarkFailed(err)
		return err
	}

	notification.MarkSent()
	log.Printf("📧 Worker %d: notification sent to %s", h.workerID, notification.RecipientEmail)
	return nil
}

func (h *consumerGroupHandler) sendWithRetry(ctx context.Context, notification *EmailNotification) error {
	backoff := h.config.RetryBackoffDuration

	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		err := h.emailService.SendNotification(ctx, notification)
		if err == nil {
			return nil
		}

		if attempt == h.config.MaxRetries {
			return err
		}

		delay := backoff * time.Duration(1<<attempt)
		log.Printf("📥 Worker %d: retry %d after %v", h.workerID, attempt+1, delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
