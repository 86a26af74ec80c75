package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"homecafe/order-svc/internal/domain"
)

const paymentKeyword = "PAID"

// ConversationService drives each customer's ordering session. Every update
// for a customer runs inside that customer's session slot, so taps from one
// customer are handled one at a time and never touch another's session.
type ConversationService struct {
	catalog     *domain.Catalog
	sessions    SessionStore
	orders      OrderRepository
	messenger   Messenger
	payment     PaymentAsset
	events      EventPublisher
	ids         *OrderIDGenerator
	staffChatID int64

	Clock func() time.Time
}

func NewConversationService(
	catalog *domain.Catalog,
	sessions SessionStore,
	orders OrderRepository,
	messenger Messenger,
	payment PaymentAsset,
	events EventPublisher,
	staffChatID int64,
) *ConversationService {
	return &ConversationService{
		catalog:     catalog,
		sessions:    sessions,
		orders:      orders,
		messenger:   messenger,
		payment:     payment,
		events:      events,
		ids:         NewOrderIDGenerator(orders),
		staffChatID: staffChatID,
		Clock:       time.Now,
	}
}

// Start replaces whatever session the customer had with an empty one and
// shows the menu.
func (s *ConversationService) Start(ctx context.Context, u domain.Update) error {
	var err error
	s.sessions.Do(u.Customer.ID, func(current *domain.Session) *domain.Session {
		s.abandon(current)
		err = s.messenger.SendText(ctx, u.ChatID, WelcomeText(s.catalog), CategoryKeyboard(s.catalog))
		return domain.NewSession(u.Customer.ID)
	})
	return err
}

func (s *ConversationService) Cancel(ctx context.Context, u domain.Update) error {
	var err error
	s.sessions.Do(u.Customer.ID, func(current *domain.Session) *domain.Session {
		s.abandon(current)
		err = s.messenger.SendText(ctx, u.ChatID, textCancelled, nil)
		return nil
	})
	return err
}

// abandon frees the order id of a session that ends before payment.
func (s *ConversationService) abandon(current *domain.Session) {
	if current != nil {
		s.ids.Release(current.OrderID)
	}
}

type tapOutcome struct {
	ack      string
	text     string
	keyboard domain.Keyboard
	rejected bool
}

func reject() tapOutcome {
	return tapOutcome{ack: ackStale, rejected: true}
}

func (s *ConversationService) HandleTap(ctx context.Context, u domain.Update) error {
	var err error
	s.sessions.Do(u.Customer.ID, func(current *domain.Session) *domain.Session {
		if current == nil {
			log.Printf("Ignoring tap %q from customer %d: no active order", u.Data, u.Customer.ID)
			err = s.messenger.AckTap(ctx, u.TapID, ackStale)
			return nil
		}

		if current.State == domain.StateReview && u.Data == tapCheckout {
			err = s.checkout(ctx, u, current)
			return current
		}

		out := s.applyTap(current, u.Data)
		if out.rejected {
			log.Printf("Rejected tap %q from customer %d in state %s", u.Data, u.Customer.ID, current.State)
		}
		if ackErr := s.messenger.AckTap(ctx, u.TapID, out.ack); ackErr != nil {
			err = ackErr
		}
		if out.text != "" {
			if editErr := s.messenger.EditText(ctx, u.ChatID, u.MessageID, out.text, out.keyboard); editErr != nil {
				err = editErr
			}
		}
		return current
	})
	return err
}

// applyTap moves the session one step. Taps that do not belong to the
// current state leave the session untouched.
func (s *ConversationService) applyTap(sess *domain.Session, data string) tapOutcome {
	switch sess.State {
	case domain.StateCategorySelect:
		name, ok := strings.CutPrefix(data, tapCategoryPrefix)
		if !ok {
			return reject()
		}
		item, err := s.catalog.BeginItem(name)
		if err != nil {
			return reject()
		}
		sess.Item = item
		if s.catalog.RequiresTemperature(name) {
			sess.State = domain.StateTemperatureSelect
			return tapOutcome{text: temperaturePrompt(name), keyboard: TemperatureKeyboard()}
		}
		sess.State = domain.StateVariantSelect
		return tapOutcome{text: variantPrompt(item), keyboard: VariantKeyboard(s.catalog, name)}

	case domain.StateTemperatureSelect:
		raw, ok := strings.CutPrefix(data, tapTemperaturePrefix)
		if !ok || sess.Item == nil {
			return reject()
		}
		t, err := domain.ParseTemperature(raw)
		if err != nil {
			return reject()
		}
		if err := sess.Item.SetTemperature(t); err != nil {
			return reject()
		}
		sess.State = domain.StateVariantSelect
		return tapOutcome{text: variantPrompt(sess.Item), keyboard: VariantKeyboard(s.catalog, sess.Item.Category())}

	case domain.StateVariantSelect:
		name, ok := strings.CutPrefix(data, tapVariantPrefix)
		if !ok || sess.Item == nil {
			return reject()
		}
		if err := sess.Item.SetVariant(s.catalog, name); err != nil {
			return reject()
		}
		if !s.catalog.RequiresTemperature(sess.Item.Category()) {
			return s.finishItem(sess)
		}
		sess.State = domain.StateAddonSelect
		return tapOutcome{text: addonPrompt(s.catalog, sess.Item), keyboard: AddonKeyboard(s.catalog)}

	case domain.StateAddonSelect:
		if sess.Item == nil {
			return reject()
		}
		if data == tapAddonDone {
			return s.finishItem(sess)
		}
		name, ok := strings.CutPrefix(data, tapAddonPrefix)
		if !ok {
			return reject()
		}
		if _, err := s.catalog.AddonPrice(name); err != nil {
			return reject()
		}
		if !sess.Item.ToggleAddon(name) {
			return tapOutcome{ack: ackAlreadyAdded}
		}
		return tapOutcome{
			ack:      "✅ " + name + " added!",
			text:     addonPrompt(s.catalog, sess.Item),
			keyboard: AddonKeyboard(s.catalog),
		}

	case domain.StateReview:
		if data != tapAddMore {
			return reject()
		}
		sess.Item = nil
		sess.State = domain.StateCategorySelect
		return tapOutcome{text: categoryPrompt(), keyboard: CategoryKeyboard(s.catalog)}
	}
	return reject()
}

func (s *ConversationService) finishItem(sess *domain.Session) tapOutcome {
	line, err := sess.Item.Finalize(s.catalog)
	if err != nil {
		return reject()
	}
	sess.Cart.Append(line)
	sess.Item = nil
	sess.State = domain.StateReview
	return tapOutcome{text: CartReview(sess.Cart), keyboard: ReviewKeyboard()}
}

// checkout assigns the order id and sends payment instructions. A missing
// payment asset falls back to a text instruction.
func (s *ConversationService) checkout(ctx context.Context, u domain.Update, sess *domain.Session) error {
	if sess.Cart.Len() == 0 {
		log.Printf("Rejected checkout from customer %d: %v", u.Customer.ID, ErrEmptyCart)
		return s.messenger.AckTap(ctx, u.TapID, ackStale)
	}

	sess.State = domain.StateCheckout
	sess.OrderID = s.ids.Generate(ctx, u.Customer)
	total := sess.Cart.Total()
	sess.State = domain.StatePaymentPending

	var errs []error
	errs = append(errs, s.messenger.AckTap(ctx, u.TapID, ""))
	errs = append(errs, s.messenger.EditText(ctx, u.ChatID, u.MessageID, checkoutText(sess.OrderID, total), nil))

	path, err := s.payment.Locate(sess.OrderID, total)
	if err != nil {
		log.Printf("Warning: payment asset for order %s: %v", sess.OrderID, err)
		errs = append(errs, s.messenger.SendText(ctx, u.ChatID, paymentFallbackText(total), nil))
	} else {
		errs = append(errs, s.messenger.SendFile(ctx, u.ChatID, path, paymentCaption(sess.OrderID, total)))
	}
	return errors.Join(errs...)
}

func isPaymentConfirmation(u domain.Update) bool {
	return u.HasAttachment || strings.Contains(strings.ToUpper(u.Text), paymentKeyword)
}

// HandleMessage handles free text and attachments. Only a session waiting
// for payment acts on them.
func (s *ConversationService) HandleMessage(ctx context.Context, u domain.Update) error {
	var err error
	s.sessions.Do(u.Customer.ID, func(current *domain.Session) *domain.Session {
		switch {
		case current == nil:
			err = s.messenger.SendText(ctx, u.ChatID, textStartHint, nil)
			return nil
		case current.State != domain.StatePaymentPending:
			err = s.messenger.SendText(ctx, u.ChatID, textUseButtons, nil)
			return current
		case !isPaymentConfirmation(u):
			err = s.messenger.SendText(ctx, u.ChatID, textPaymentReprompt, nil)
			return current
		}

		var closed bool
		closed, err = s.confirmPayment(ctx, u, current)
		if closed {
			return nil
		}
		return current
	})
	return err
}

// confirmPayment records the order and closes the session. When the record
// cannot be written the session stays in PaymentPending so the customer can
// confirm again.
func (s *ConversationService) confirmPayment(ctx context.Context, u domain.Update, sess *domain.Session) (bool, error) {
	rec := domain.NewOrderRecord(sess.OrderID, u.Customer, sess.Cart, s.Clock())
	if err := s.orders.Append(ctx, rec); err != nil {
		log.Printf("Error saving order %s: %v", rec.OrderID, err)
		return false, errors.Join(err, s.messenger.SendText(ctx, u.ChatID, textSaveFailed, nil))
	}
	log.Printf("Order %s recorded for customer %d, total %s", rec.OrderID, rec.CustomerID, domain.FormatPrice(rec.Total))
	s.ids.Release(rec.OrderID)

	if s.events != nil {
		if err := s.events.PublishOrderEvent(ctx, placedEvent(rec, sess.Cart)); err != nil {
			log.Printf("Warning: publish order_placed for %s: %v", rec.OrderID, err)
		}
	}
	if s.staffChatID != 0 {
		if err := s.messenger.Notify(ctx, s.staffChatID, BaristaText(rec, sess.Cart)); err != nil {
			log.Printf("Failed to send notification to barista: %v", err)
		}
	}
	sess.Cart.Clear()
	sess.State = domain.StateClosed
	return true, s.messenger.SendText(ctx, u.ChatID, paymentReceivedText(rec.OrderID), nil)
}

func placedEvent(rec domain.OrderRecord, cart *domain.Cart) domain.OrderEvent {
	items := cart.Items()
	eventItems := make([]domain.EventItem, len(items))
	for i, item := range items {
		eventItems[i] = domain.EventItem{
			Category:    item.Category,
			Variant:     item.Variant,
			Temperature: item.Temperature,
			Addons:      item.Addons,
			LineTotal:   item.LineTotal,
		}
	}
	return domain.OrderEvent{
		Type:    domain.EventOrderPlaced,
		OrderID: rec.OrderID,
		Date:    rec.Date,
		Items:   eventItems,
		Total:   rec.Total,
	}
}

var _ ConversationServiceInterface = (*ConversationService)(nil)
