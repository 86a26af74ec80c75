package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"homecafe/order-svc/internal/domain"
)

const textReadyUsage = "Please specify order ID.\nUsage: /ready <order id>"

// StaffDesk answers the staff commands and buttons in the staff chat.
type StaffDesk struct {
	fulfillment  FulfillmentServiceInterface
	messenger    Messenger
	staffChatID  int64
	pendingLimit int
	recentLimit  int

	Clock func() time.Time
}

func NewStaffDesk(fulfillment FulfillmentServiceInterface, messenger Messenger, staffChatID int64, pendingLimit, recentLimit int) *StaffDesk {
	return &StaffDesk{
		fulfillment:  fulfillment,
		messenger:    messenger,
		staffChatID:  staffChatID,
		pendingLimit: pendingLimit,
		recentLimit:  recentLimit,
		Clock:        time.Now,
	}
}

// Authorized reports whether chatID is the staff chat. With no staff chat
// configured nobody is.
func (d *StaffDesk) Authorized(chatID int64) bool {
	return d.staffChatID != 0 && chatID == d.staffChatID
}

func (d *StaffDesk) HandleCommand(ctx context.Context, u domain.Update, command string, args []string) error {
	if !d.Authorized(u.ChatID) {
		log.Printf("Rejected /%s from chat %d", command, u.ChatID)
		if err := d.messenger.SendText(ctx, u.ChatID, textStaffOnly, nil); err != nil {
			return err
		}
		return ErrUnauthorizedStaff
	}

	switch command {
	case "orders":
		records, err := d.fulfillment.Recent(ctx, d.recentLimit)
		if err != nil {
			return d.reportFailure(ctx, u.ChatID, "list orders", err)
		}
		return d.messenger.SendText(ctx, u.ChatID, RenderRecent(records), nil)

	case "today":
		summary, err := d.fulfillment.DailySummary(ctx, d.Clock().Format(domain.DateLayout))
		if err != nil {
			return d.reportFailure(ctx, u.ChatID, "daily summary", err)
		}
		return d.messenger.SendText(ctx, u.ChatID, RenderDailySummary(summary), nil)

	case "pending":
		page, err := d.fulfillment.ListPending(ctx, d.pendingLimit)
		if err != nil {
			return d.reportFailure(ctx, u.ChatID, "list pending", err)
		}
		text, kb := RenderPending(page)
		return d.messenger.SendText(ctx, u.ChatID, text, kb)

	case "ready":
		if len(args) == 0 {
			return d.messenger.SendText(ctx, u.ChatID, textReadyUsage, nil)
		}
		return d.messenger.SendText(ctx, u.ChatID, d.markReady(ctx, args[0]), nil)
	}
	log.Printf("Unknown staff command /%s", command)
	return nil
}

// HandleTap serves the buttons on the pending page: mark one order ready or
// refresh the page in place.
func (d *StaffDesk) HandleTap(ctx context.Context, u domain.Update) error {
	if !d.Authorized(u.ChatID) {
		log.Printf("Rejected staff tap %q from chat %d", u.Data, u.ChatID)
		return errors.Join(d.messenger.AckTap(ctx, u.TapID, ackStale), ErrUnauthorizedStaff)
	}

	var errs []error
	if orderID, ok := strings.CutPrefix(u.Data, tapReadyPrefix); ok {
		errs = append(errs, d.messenger.AckTap(ctx, u.TapID, ""))
		errs = append(errs, d.messenger.SendText(ctx, u.ChatID, d.markReady(ctx, orderID), nil))
	} else if u.Data == tapPendingRefresh {
		errs = append(errs, d.messenger.AckTap(ctx, u.TapID, "Refreshed"))
	} else {
		return d.messenger.AckTap(ctx, u.TapID, ackStale)
	}

	page, err := d.fulfillment.ListPending(ctx, d.pendingLimit)
	if err != nil {
		log.Printf("Error listing pending orders: %v", err)
		return errors.Join(append(errs, err)...)
	}
	text, kb := RenderPending(page)
	errs = append(errs, d.messenger.EditText(ctx, u.ChatID, u.MessageID, text, kb))
	return errors.Join(errs...)
}

func (d *StaffDesk) markReady(ctx context.Context, orderID string) string {
	res, err := d.fulfillment.MarkReady(ctx, orderID)
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return RenderNotFound(orderID)
	case errors.Is(err, ErrMissingOrderID):
		return textReadyUsage
	case err != nil:
		log.Printf("Error marking order %s ready: %v", orderID, err)
		return "⚠️ Could not update order " + orderID + ". Please try again."
	}
	return RenderReady(res)
}

func (d *StaffDesk) reportFailure(ctx context.Context, chatID int64, op string, err error) error {
	log.Printf("Error in %s: %v", op, err)
	return errors.Join(err, d.messenger.SendText(ctx, chatID, "⚠️ Could not read the order log right now.", nil))
}

var _ StaffDeskInterface = (*StaffDesk)(nil)
