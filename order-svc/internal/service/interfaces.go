package service

import (
	"context"

	"homecafe/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

type OrderRepository interface {
	Append(ctx context.Context, rec domain.OrderRecord) error
	MarkStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (domain.OrderRecord, error)
	Recent(ctx context.Context, n int) ([]domain.OrderRecord, error)
	ByDate(ctx context.Context, date string) ([]domain.OrderRecord, error)
	ByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.OrderRecord, error)
	Exists(ctx context.Context, orderID string) (bool, error)
}

type SessionStore interface {
	Do(customerID int64, fn func(current *domain.Session) *domain.Session)
}

// Messenger is the outbound side of the chat transport.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, keyboard domain.Keyboard) error
	EditText(ctx context.Context, chatID int64, messageID int, text string, keyboard domain.Keyboard) error
	SendFile(ctx context.Context, chatID int64, path, caption string) error
	Notify(ctx context.Context, chatID int64, text string) error
	AckTap(ctx context.Context, tapID, text string) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type PaymentAsset interface {
	Locate(orderID string, total decimal.Decimal) (string, error)
}

type ConversationServiceInterface interface {
	Start(ctx context.Context, u domain.Update) error
	HandleTap(ctx context.Context, u domain.Update) error
	HandleMessage(ctx context.Context, u domain.Update) error
	Cancel(ctx context.Context, u domain.Update) error
}

type FulfillmentServiceInterface interface {
	MarkReady(ctx context.Context, orderID string) (ReadyResult, error)
	ListPending(ctx context.Context, limit int) (PendingPage, error)
	DailySummary(ctx context.Context, date string) (DailySummary, error)
	Recent(ctx context.Context, n int) ([]domain.OrderRecord, error)
}

type StaffDeskInterface interface {
	Authorized(chatID int64) bool
	HandleCommand(ctx context.Context, u domain.Update, command string, args []string) error
	HandleTap(ctx context.Context, u domain.Update) error
}

type DispatcherInterface interface {
	Dispatch(ctx context.Context, u domain.Update) error
}
