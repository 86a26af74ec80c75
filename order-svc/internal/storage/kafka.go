package storage

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"homecafe/order-svc/internal/domain"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publishers use.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaEventPublisher struct {
	Writer MessageWriter
}

func NewKafkaEventPublisher(writer MessageWriter) *KafkaEventPublisher {
	return &KafkaEventPublisher{Writer: writer}
}

func (p *KafkaEventPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	})
}

// KafkaMessenger hands outbound chat operations to the transport gateway
// through a topic, keyed by chat so one chat's messages stay in order.
type KafkaMessenger struct {
	Writer MessageWriter
}

func NewKafkaMessenger(writer MessageWriter) *KafkaMessenger {
	return &KafkaMessenger{Writer: writer}
}

func (m *KafkaMessenger) publish(ctx context.Context, msg domain.OutboundMessage) error {
	msg.Timestamp = time.Now()
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	key := msg.TapID
	if msg.ChatID != 0 {
		key = strconv.FormatInt(msg.ChatID, 10)
	}
	return m.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

func (m *KafkaMessenger) SendText(ctx context.Context, chatID int64, text string, keyboard domain.Keyboard) error {
	return m.publish(ctx, domain.OutboundMessage{Kind: domain.OutboundSendText, ChatID: chatID, Text: text, Keyboard: keyboard})
}

func (m *KafkaMessenger) EditText(ctx context.Context, chatID int64, messageID int, text string, keyboard domain.Keyboard) error {
	return m.publish(ctx, domain.OutboundMessage{Kind: domain.OutboundEditText, ChatID: chatID, MessageID: messageID, Text: text, Keyboard: keyboard})
}

func (m *KafkaMessenger) SendFile(ctx context.Context, chatID int64, path, caption string) error {
	return m.publish(ctx, domain.OutboundMessage{Kind: domain.OutboundSendFile, ChatID: chatID, Path: path, Caption: caption})
}

func (m *KafkaMessenger) Notify(ctx context.Context, chatID int64, text string) error {
	return m.publish(ctx, domain.OutboundMessage{Kind: domain.OutboundNotify, ChatID: chatID, Text: text})
}

func (m *KafkaMessenger) AckTap(ctx context.Context, tapID, text string) error {
	if tapID == "" {
		return nil
	}
	return m.publish(ctx, domain.OutboundMessage{Kind: domain.OutboundAckTap, TapID: tapID, Text: text})
}
