package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// KafkaConfig параметры Kafka producer
type KafkaConfig struct {
	Brokers           []string
	ClientID          string
	CancellationTopic string
	AlertTopic        string
}

// NewSyncProducer создает синхронный producer с подтверждением от всех реплик
func NewSyncProducer(cfg KafkaConfig) (sarama.SyncProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = cfg.ClientID
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 5 * time.Second
	// Все события одного бронирования попадают в одну партицию
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return producer, nil
}

// KafkaNotifier публикует события в Kafka. Доставку (email, push) выполняют потребители топиков.
type KafkaNotifier struct {
	producer          sarama.SyncProducer
	cancellationTopic string
	alertTopic        string
	log               Logger
}

// NewKafkaNotifier создает новый экземпляр KafkaNotifier
func NewKafkaNotifier(producer sarama.SyncProducer, cfg KafkaConfig, log Logger) *KafkaNotifier {
	return &KafkaNotifier{
		producer:          producer,
		cancellationTopic: cfg.CancellationTopic,
		alertTopic:        cfg.AlertTopic,
		log:               log,
	}
}

// NotifyCancellation публикует событие отмены для второй стороны
func (n *KafkaNotifier) NotifyCancellation(ctx context.Context, event *CancellationEvent) error {
	return n.publish(n.cancellationTopic, event.BookingID.String(), "booking.cancelled", event.OccurredAt, event)
}

// AlertOperators публикует оповещение о неудачном или неподтвержденном возврате
func (n *KafkaNotifier) AlertOperators(ctx context.Context, alert *OperatorAlert) error {
	return n.publish(n.alertTopic, alert.BookingID.String(), "refund.reconciliation_required", alert.OccurredAt, alert)
}

func (n *KafkaNotifier) publish(topic, key, eventType string, at time.Time, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, eventType, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventType)},
		},
		Timestamp: at,
	}

	partition, offset, err := n.producer.SendMessage(msg)
	if err != nil {
		n.log.Error("Failed to publish %s to %s: key=%s: %v", eventType, topic, key, err)
		return fmt.Errorf("%w: %s: %v", ErrPublish, eventType, err)
	}

	n.log.Info("Published %s: topic=%s, partition=%d, offset=%d, key=%s", eventType, topic, partition, offset, key)
	return nil
}

// Close закрывает producer
func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}

// LogNotifier пишет события в лог. Используется, когда Kafka не настроена.
type LogNotifier struct {
	log Logger
}

// NewLogNotifier создает новый экземпляр LogNotifier
func NewLogNotifier(log Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyCancellation(ctx context.Context, event *CancellationEvent) error {
	n.log.Info("Cancellation notice: booking_id=%s, recipient=%s (%s), cancelled_by=%s, refund=%.2f (%s)",
		event.BookingID, event.RecipientID, event.RecipientRole, event.CancelledBy, event.RefundAmount, event.RefundStatus)
	return nil
}

func (n *LogNotifier) AlertOperators(ctx context.Context, alert *OperatorAlert) error {
	n.log.Warn("OPERATOR ALERT: refund requires reconciliation: booking_id=%s, payment_id=%s, status=%s, amount=%.2f: %s",
		alert.BookingID, alert.PaymentID, alert.RefundStatus, alert.RefundAmount, alert.Error)
	return nil
}

func (n *LogNotifier) Close() error {
	return nil
}
