package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testConfig = KafkaConfig{CancellationTopic: "booking.cancelled", AlertTopic: "operator.alerts"}

func TestKafkaNotifier_NotifyCancellation(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	event := &CancellationEvent{
		EventID:       uuid.New(),
		BookingID:     uuid.New(),
		RecipientID:   uuid.New(),
		RecipientRole: "provider",
		CancelledBy:   "client",
		Reason:        "plans changed",
		RefundAmount:  50,
		RefundStatus:  "succeeded",
		OccurredAt:    time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
	}

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "booking.cancelled" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != event.BookingID.String() {
			return errors.New("message must be keyed by booking id")
		}
		return nil
	})

	n := NewKafkaNotifier(producer, testConfig, nopLogger{})
	require.NoError(t, n.NotifyCancellation(context.Background(), event))
	require.NoError(t, n.Close())
}

func TestKafkaNotifier_AlertOperators_Payload(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	alert := &OperatorAlert{
		AlertID:      uuid.New(),
		BookingID:    uuid.New(),
		PaymentID:    uuid.New(),
		RefundStatus: "unknown",
		RefundAmount: 13.65,
		Error:        "gateway timeout",
	}

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "operator.alerts" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		body, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var decoded OperatorAlert
		if err := json.Unmarshal(body, &decoded); err != nil {
			return err
		}
		if decoded.RefundStatus != "unknown" || decoded.BookingID != alert.BookingID {
			return errors.New("unexpected alert payload")
		}
		return nil
	})

	n := NewKafkaNotifier(producer, testConfig, nopLogger{})
	require.NoError(t, n.AlertOperators(context.Background(), alert))
	require.NoError(t, n.Close())
}

func TestKafkaNotifier_PublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	n := NewKafkaNotifier(producer, testConfig, nopLogger{})
	err := n.NotifyCancellation(context.Background(), &CancellationEvent{BookingID: uuid.New()})

	assert.ErrorIs(t, err, ErrPublish)
	require.NoError(t, n.Close())
}

func TestLogNotifier(t *testing.T) {
	var n Notifier = NewLogNotifier(nopLogger{})

	assert.NoError(t, n.NotifyCancellation(context.Background(), &CancellationEvent{}))
	assert.NoError(t, n.AlertOperators(context.Background(), &OperatorAlert{}))
	assert.NoError(t, n.Close())
}
