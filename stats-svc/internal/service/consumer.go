package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"homecafe/stats-svc/internal/domain"
)

var ErrMissingDate = errors.New("event has no date")

const maxRetryDelay = 30 * time.Second

type Consumer struct {
	Reader     MessageReader
	Store      StoreInterface
	RetryDelay time.Duration
}

func NewConsumer(reader MessageReader, store StoreInterface) *Consumer {
	return &Consumer{
		Reader:     reader,
		Store:      store,
		RetryDelay: time.Second,
	}
}

// wait sleeps for the attempt's backoff and reports false once ctx is done.
func (c *Consumer) wait(ctx context.Context, attempt int) bool {
	delay := c.RetryDelay << min(attempt, 5)
	if delay > maxRetryDelay || delay <= 0 {
		delay = maxRetryDelay
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Start reads order events until ctx is cancelled or the reader is closed.
// An offset is committed only after its event has been counted, or when the
// event can never be counted.
func (c *Consumer) Start(ctx context.Context) error {
	log.Println("Starting Stats Service consumer...")
	readFailures := 0
	for {
		message, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				log.Println("Order event reader closed, stopping consumer")
				return nil
			}
			log.Printf("Error reading message: %v", err)
			if !c.wait(ctx, readFailures) {
				return nil
			}
			readFailures++
			continue
		}
		readFailures = 0

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("Error unmarshaling message at offset %d: %v", message.Offset, err)
		} else if !c.processWithRetry(ctx, event) {
			return nil
		}

		if err := c.Reader.CommitMessages(ctx, message); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("Error committing offset %d: %v", message.Offset, err)
		}
	}
}

// processWithRetry retries transient failures until the event is counted.
// It returns false when ctx ends first.
func (c *Consumer) processWithRetry(ctx context.Context, event domain.OrderEvent) bool {
	for attempt := 0; ; attempt++ {
		err := c.Process(ctx, event)
		if err == nil {
			return true
		}
		if errors.Is(err, ErrMissingDate) {
			log.Printf("Dropping %s for order %s: %v", event.Type, event.OrderID, err)
			return true
		}
		log.Printf("Error processing %s for order %s (attempt %d): %v", event.Type, event.OrderID, attempt+1, err)
		if !c.wait(ctx, attempt) {
			return false
		}
	}
}

// Process applies one event to the daily counters. Redelivered events are
// counted once. When counting fails the event's marker is removed again so a
// retry or redelivery still counts it.
func (c *Consumer) Process(ctx context.Context, event domain.OrderEvent) error {
	if event.Type != domain.EventOrderPlaced && event.Type != domain.EventOrderReady {
		return nil
	}
	if event.Date == "" {
		return ErrMissingDate
	}

	fresh, err := c.Store.MarkProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("mark event %s: %w", event.EventID, err)
	}
	if !fresh {
		log.Printf("Skipping duplicate event %s", event.EventID)
		return nil
	}

	switch event.Type {
	case domain.EventOrderPlaced:
		err = c.Store.RecordPlaced(ctx, event)
	case domain.EventOrderReady:
		err = c.Store.RecordReady(ctx, event)
	}
	if err != nil {
		if unmarkErr := c.Store.UnmarkProcessed(ctx, event.EventID); unmarkErr != nil {
			return errors.Join(err, fmt.Errorf("unmark event %s: %w", event.EventID, unmarkErr))
		}
		return err
	}
	log.Printf("Counted %s for order %s on %s", event.Type, event.OrderID, event.Date)
	return nil
}
