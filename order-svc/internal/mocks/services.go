package mocks

import (
	"context"

	"homecafe/order-svc/internal/domain"
	"homecafe/order-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

type FulfillmentService struct {
	mock.Mock
}

func (_m *FulfillmentService) MarkReady(ctx context.Context, orderID string) (service.ReadyResult, error) {
	ret := _m.Called(ctx, orderID)
	return ret.Get(0).(service.ReadyResult), ret.Error(1)
}

func (_m *FulfillmentService) ListPending(ctx context.Context, limit int) (service.PendingPage, error) {
	ret := _m.Called(ctx, limit)
	return ret.Get(0).(service.PendingPage), ret.Error(1)
}

func (_m *FulfillmentService) DailySummary(ctx context.Context, date string) (service.DailySummary, error) {
	ret := _m.Called(ctx, date)
	return ret.Get(0).(service.DailySummary), ret.Error(1)
}

func (_m *FulfillmentService) Recent(ctx context.Context, n int) ([]domain.OrderRecord, error) {
	ret := _m.Called(ctx, n)
	return records(ret.Get(0)), ret.Error(1)
}

type ConversationService struct {
	mock.Mock
}

func (_m *ConversationService) Start(ctx context.Context, u domain.Update) error {
	return _m.Called(ctx, u).Error(0)
}

func (_m *ConversationService) HandleTap(ctx context.Context, u domain.Update) error {
	return _m.Called(ctx, u).Error(0)
}

func (_m *ConversationService) HandleMessage(ctx context.Context, u domain.Update) error {
	return _m.Called(ctx, u).Error(0)
}

func (_m *ConversationService) Cancel(ctx context.Context, u domain.Update) error {
	return _m.Called(ctx, u).Error(0)
}

type StaffDesk struct {
	mock.Mock
}

func (_m *StaffDesk) Authorized(chatID int64) bool {
	return _m.Called(chatID).Bool(0)
}

func (_m *StaffDesk) HandleCommand(ctx context.Context, u domain.Update, command string, args []string) error {
	return _m.Called(ctx, u, command, args).Error(0)
}

func (_m *StaffDesk) HandleTap(ctx context.Context, u domain.Update) error {
	return _m.Called(ctx, u).Error(0)
}

type Dispatcher struct {
	mock.Mock
}

func (_m *Dispatcher) Dispatch(ctx context.Context, u domain.Update) error {
	return _m.Called(ctx, u).Error(0)
}

var (
	_ service.OrderRepository              = (*OrderRepository)(nil)
	_ service.Messenger                    = (*Messenger)(nil)
	_ service.EventPublisher               = (*EventPublisher)(nil)
	_ service.PaymentAsset                 = (*PaymentAsset)(nil)
	_ service.FulfillmentServiceInterface  = (*FulfillmentService)(nil)
	_ service.ConversationServiceInterface = (*ConversationService)(nil)
	_ service.StaffDeskInterface           = (*StaffDesk)(nil)
	_ service.DispatcherInterface          = (*Dispatcher)(nil)
)
