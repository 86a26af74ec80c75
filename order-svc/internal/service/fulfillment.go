package service

import (
	"context"
	"log"
	"strings"

	"homecafe/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// ReadyResult is a committed pending to ready transition. NotifyErr is set
// when the customer could not be told; the status change stands regardless.
type ReadyResult struct {
	Order     domain.OrderRecord
	NotifyErr error
}

func (r ReadyResult) Warning() string {
	if r.NotifyErr == nil {
		return ""
	}
	return "could not notify customer: " + r.NotifyErr.Error()
}

type PendingPage struct {
	Orders    []domain.OrderRecord
	Remaining int
}

type DailySummary struct {
	Date   string
	Count  int
	Sales  decimal.Decimal
	Orders []domain.OrderRecord
}

type FulfillmentService struct {
	orders    OrderRepository
	messenger Messenger
	events    EventPublisher
}

// NewFulfillmentService accepts a nil messenger or publisher; notifications
// then report ErrNoTransport and events are skipped.
func NewFulfillmentService(orders OrderRepository, messenger Messenger, events EventPublisher) *FulfillmentService {
	return &FulfillmentService{orders: orders, messenger: messenger, events: events}
}

func (s *FulfillmentService) MarkReady(ctx context.Context, orderID string) (ReadyResult, error) {
	orderID = strings.TrimPrefix(strings.TrimSpace(orderID), "#")
	if orderID == "" {
		return ReadyResult{}, ErrMissingOrderID
	}

	rec, err := s.orders.MarkStatus(ctx, orderID, domain.StatusPending, domain.StatusReady)
	if err != nil {
		return ReadyResult{}, err
	}

	res := ReadyResult{Order: rec}
	if s.messenger == nil {
		res.NotifyErr = ErrNoTransport
	} else if err := s.messenger.Notify(ctx, rec.CustomerID, ReadyNotice(rec)); err != nil {
		log.Printf("Warning: order %s is ready but customer %d was not notified: %v", rec.OrderID, rec.CustomerID, err)
		res.NotifyErr = err
	}

	if s.events != nil {
		event := domain.OrderEvent{
			Type:    domain.EventOrderReady,
			OrderID: rec.OrderID,
			Date:    rec.Date,
			Total:   rec.Total,
		}
		if err := s.events.PublishOrderEvent(ctx, event); err != nil {
			log.Printf("Warning: publish order_ready for %s: %v", rec.OrderID, err)
		}
	}
	return res, nil
}

// ListPending returns at most limit pending orders, oldest first, and how
// many more are waiting. A limit of zero or less lists them all.
func (s *FulfillmentService) ListPending(ctx context.Context, limit int) (PendingPage, error) {
	pending, err := s.orders.ByStatus(ctx, domain.StatusPending)
	if err != nil {
		return PendingPage{}, err
	}
	if limit > 0 && len(pending) > limit {
		return PendingPage{Orders: pending[:limit], Remaining: len(pending) - limit}, nil
	}
	return PendingPage{Orders: pending}, nil
}

func (s *FulfillmentService) DailySummary(ctx context.Context, date string) (DailySummary, error) {
	records, err := s.orders.ByDate(ctx, date)
	if err != nil {
		return DailySummary{}, err
	}
	sales := decimal.Zero
	for _, r := range records {
		sales = sales.Add(r.Total)
	}
	return DailySummary{Date: date, Count: len(records), Sales: sales, Orders: records}, nil
}

func (s *FulfillmentService) Recent(ctx context.Context, n int) ([]domain.OrderRecord, error) {
	return s.orders.Recent(ctx, n)
}

var _ FulfillmentServiceInterface = (*FulfillmentService)(nil)
