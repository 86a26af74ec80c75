package mocks

import (
	"context"

	"homecafe/order-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type OrderRepository struct {
	mock.Mock
}

func (_m *OrderRepository) Append(ctx context.Context, rec domain.OrderRecord) error {
	ret := _m.Called(ctx, rec)
	return ret.Error(0)
}

func (_m *OrderRepository) MarkStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (domain.OrderRecord, error) {
	ret := _m.Called(ctx, orderID, from, to)
	return ret.Get(0).(domain.OrderRecord), ret.Error(1)
}

func (_m *OrderRepository) Recent(ctx context.Context, n int) ([]domain.OrderRecord, error) {
	ret := _m.Called(ctx, n)
	return records(ret.Get(0)), ret.Error(1)
}

func (_m *OrderRepository) ByDate(ctx context.Context, date string) ([]domain.OrderRecord, error) {
	ret := _m.Called(ctx, date)
	return records(ret.Get(0)), ret.Error(1)
}

func (_m *OrderRepository) ByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.OrderRecord, error) {
	ret := _m.Called(ctx, status)
	return records(ret.Get(0)), ret.Error(1)
}

func (_m *OrderRepository) Exists(ctx context.Context, orderID string) (bool, error) {
	ret := _m.Called(ctx, orderID)
	return ret.Bool(0), ret.Error(1)
}

func records(v interface{}) []domain.OrderRecord {
	if v == nil {
		return nil
	}
	return v.([]domain.OrderRecord)
}

type EventPublisher struct {
	mock.Mock
}

func (_m *EventPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

type PaymentAsset struct {
	mock.Mock
}

func (_m *PaymentAsset) Locate(orderID string, total decimal.Decimal) (string, error) {
	ret := _m.Called(orderID, total)
	return ret.String(0), ret.Error(1)
}
