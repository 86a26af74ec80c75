package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"homecafe/order-svc/internal/domain"
)

// Dispatcher routes inbound updates to the conversation or the staff desk.
type Dispatcher struct {
	conversation ConversationServiceInterface
	staff        StaffDeskInterface
}

func NewDispatcher(conversation ConversationServiceInterface, staff StaffDeskInterface) *Dispatcher {
	return &Dispatcher{conversation: conversation, staff: staff}
}

// ParseCommand splits "/ready abc_123" into "ready" and ["abc_123"]. A
// "@botname" suffix on the command is dropped.
func ParseCommand(text string) (string, []string) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	command := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(command, '@'); at >= 0 {
		command = command[:at]
	}
	return strings.ToLower(command), fields[1:]
}

func (d *Dispatcher) Dispatch(ctx context.Context, u domain.Update) error {
	switch u.Kind {
	case domain.UpdateCommand:
		return d.dispatchCommand(ctx, u)
	case domain.UpdateTap:
		if strings.HasPrefix(u.Data, tapReadyPrefix) || u.Data == tapPendingRefresh {
			return d.staff.HandleTap(ctx, u)
		}
		return d.conversation.HandleTap(ctx, u)
	case domain.UpdateMessage:
		if strings.HasPrefix(strings.TrimSpace(u.Text), "/") {
			return d.dispatchCommand(ctx, u)
		}
		return d.conversation.HandleMessage(ctx, u)
	}
	return fmt.Errorf("%w: %q", ErrUnknownUpdate, u.Kind)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, u domain.Update) error {
	command, args := ParseCommand(u.Text)
	switch command {
	case "start":
		return d.conversation.Start(ctx, u)
	case "cancel":
		return d.conversation.Cancel(ctx, u)
	case "orders", "today", "pending", "ready":
		return d.staff.HandleCommand(ctx, u, command, args)
	}
	log.Printf("Ignoring unknown command %q from customer %d", u.Text, u.Customer.ID)
	return nil
}

var _ DispatcherInterface = (*Dispatcher)(nil)
