package mocks

import (
	"context"

	"homecafe/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type Messenger struct {
	mock.Mock
}

func (_m *Messenger) SendText(ctx context.Context, chatID int64, text string, keyboard domain.Keyboard) error {
	ret := _m.Called(ctx, chatID, text, keyboard)
	return ret.Error(0)
}

func (_m *Messenger) EditText(ctx context.Context, chatID int64, messageID int, text string, keyboard domain.Keyboard) error {
	ret := _m.Called(ctx, chatID, messageID, text, keyboard)
	return ret.Error(0)
}

func (_m *Messenger) SendFile(ctx context.Context, chatID int64, path, caption string) error {
	ret := _m.Called(ctx, chatID, path, caption)
	return ret.Error(0)
}

func (_m *Messenger) Notify(ctx context.Context, chatID int64, text string) error {
	ret := _m.Called(ctx, chatID, text)
	return ret.Error(0)
}

func (_m *Messenger) AckTap(ctx context.Context, tapID, text string) error {
	ret := _m.Called(ctx, tapID, text)
	return ret.Error(0)
}
