package storage

import (
	"context"
	"log"

	"homecafe/order-svc/internal/domain"
)

// LogMessenger writes outbound chat operations to the log instead of a
// broker. main falls back to it when no Kafka broker is configured.
type LogMessenger struct{}

func (LogMessenger) SendText(_ context.Context, chatID int64, text string, keyboard domain.Keyboard) error {
	log.Printf("[chat %d] send: %q (%d button rows)", chatID, text, len(keyboard))
	return nil
}

func (LogMessenger) EditText(_ context.Context, chatID int64, messageID int, text string, keyboard domain.Keyboard) error {
	log.Printf("[chat %d] edit %d: %q (%d button rows)", chatID, messageID, text, len(keyboard))
	return nil
}

func (LogMessenger) SendFile(_ context.Context, chatID int64, path, caption string) error {
	log.Printf("[chat %d] file %s: %q", chatID, path, caption)
	return nil
}

func (LogMessenger) Notify(_ context.Context, chatID int64, text string) error {
	log.Printf("[chat %d] notify: %q", chatID, text)
	return nil
}

func (LogMessenger) AckTap(_ context.Context, tapID, text string) error {
	if tapID != "" {
		log.Printf("[tap %s] ack: %q", tapID, text)
	}
	return nil
}
