package mocks

import (
	"context"
	"sync"

	"homecafe/stats-svc/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type StoreInterface struct {
	mock.Mock
}

func NewStoreInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *StoreInterface) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	ret := _m.Called(ctx, eventID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *StoreInterface) UnmarkProcessed(ctx context.Context, eventID string) error {
	ret := _m.Called(ctx, eventID)
	return ret.Error(0)
}

func (_m *StoreInterface) RecordPlaced(ctx context.Context, event domain.OrderEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

func (_m *StoreInterface) RecordReady(ctx context.Context, event domain.OrderEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

func (_m *StoreInterface) Daily(ctx context.Context, date string, top int) (domain.DailyStats, error) {
	ret := _m.Called(ctx, date, top)
	return ret.Get(0).(domain.DailyStats), ret.Error(1)
}

// MessageReader replays queued fetch errors and messages, then blocks until
// ctx is done. Committed messages are recorded in order.
type MessageReader struct {
	mu        sync.Mutex
	Messages  []kafka.Message
	Errs      []error
	Committed []kafka.Message
	Fetches   int
}

func (r *MessageReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	r.Fetches++
	if len(r.Errs) > 0 {
		err := r.Errs[0]
		r.Errs = r.Errs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.Messages) > 0 {
		msg := r.Messages[0]
		r.Messages = r.Messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *MessageReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Committed = append(r.Committed, msgs...)
	return nil
}
