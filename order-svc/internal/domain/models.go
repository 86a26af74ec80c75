package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

type Customer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

func (c Customer) DisplayName() string {
	if c.FirstName != "" {
		return c.FirstName
	}
	return "Customer"
}

// Handle is "@username", or "N/A" for customers without one.
func (c Customer) Handle() string {
	if c.Username == "" {
		return "N/A"
	}
	return "@" + c.Username
}

// Update is one inbound event from the chat transport: a command, a button
// tap or a plain message.
type Update struct {
	Kind          string   `json:"kind"`
	Customer      Customer `json:"customer"`
	ChatID        int64    `json:"chat_id"`
	MessageID     int      `json:"message_id,omitempty"`
	TapID         string   `json:"tap_id,omitempty"`
	Data          string   `json:"data,omitempty"`
	Text          string   `json:"text,omitempty"`
	HasAttachment bool     `json:"has_attachment,omitempty"`
}

const (
	UpdateCommand = "command"
	UpdateTap     = "tap"
	UpdateMessage = "message"
)

type Button struct {
	Text string `json:"text"`
	Data string `json:"data"`
}

// Keyboard is a layout of choice buttons, one slice per row.
type Keyboard [][]Button

type ConversationState int

const (
	StateCategorySelect ConversationState = iota
	StateTemperatureSelect
	StateVariantSelect
	StateAddonSelect
	StateReview
	StateCheckout
	StatePaymentPending
	StateClosed
)

func (s ConversationState) String() string {
	switch s {
	case StateCategorySelect:
		return "CategorySelect"
	case StateTemperatureSelect:
		return "TemperatureSelect"
	case StateVariantSelect:
		return "VariantSelect"
	case StateAddonSelect:
		return "AddonSelect"
	case StateReview:
		return "Review"
	case StateCheckout:
		return "Checkout"
	case StatePaymentPending:
		return "PaymentPending"
	case StateClosed:
		return "Closed"
	}
	return "Unknown"
}

// Session is the in-memory state of one customer's ordering conversation.
type Session struct {
	CustomerID int64
	State      ConversationState
	Cart       *Cart
	Item       *ItemBuilder
	OrderID    string
}

func NewSession(customerID int64) *Session {
	return &Session{
		CustomerID: customerID,
		State:      StateCategorySelect,
		Cart:       NewCart(),
	}
}

type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
	StatusReady   OrderStatus = "ready"
)

type OrderRecord struct {
	OrderID        string          `json:"order_id"`
	Date           string          `json:"date"`
	Time           string          `json:"time"`
	CustomerName   string          `json:"customer_name"`
	CustomerHandle string          `json:"customer_handle"`
	CustomerID     int64           `json:"customer_id"`
	ItemsSummary   string          `json:"items"`
	Total          decimal.Decimal `json:"total"`
	Status         OrderStatus     `json:"status"`
}

func NewOrderRecord(orderID string, customer Customer, cart *Cart, at time.Time) OrderRecord {
	return OrderRecord{
		OrderID:        orderID,
		Date:           at.Format(DateLayout),
		Time:           at.Format(TimeLayout),
		CustomerName:   customer.DisplayName(),
		CustomerHandle: customer.Handle(),
		CustomerID:     customer.ID,
		ItemsSummary:   cart.Summary(),
		Total:          cart.Total(),
		Status:         StatusPending,
	}
}

const (
	EventOrderPlaced = "order_placed"
	EventOrderReady  = "order_ready"
)

type EventItem struct {
	Category    string          `json:"category"`
	Variant     string          `json:"variant"`
	Temperature Temperature     `json:"temperature"`
	Addons      []string        `json:"addons"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderEvent is published on the order events topic.
type OrderEvent struct {
	EventID   string          `json:"event_id"`
	Type      string          `json:"type"`
	OrderID   string          `json:"order_id"`
	Date      string          `json:"date"`
	Items     []EventItem     `json:"items,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Timestamp time.Time       `json:"timestamp"`
}

const (
	OutboundSendText = "send_text"
	OutboundEditText = "edit_text"
	OutboundSendFile = "send_file"
	OutboundNotify   = "notify"
	OutboundAckTap   = "ack_tap"
)

// OutboundMessage is one operation for the chat gateway to perform.
type OutboundMessage struct {
	Kind      string    `json:"kind"`
	ChatID    int64     `json:"chat_id,omitempty"`
	MessageID int       `json:"message_id,omitempty"`
	TapID     string    `json:"tap_id,omitempty"`
	Text      string    `json:"text,omitempty"`
	Keyboard  Keyboard  `json:"keyboard,omitempty"`
	Path      string    `json:"path,omitempty"`
	Caption   string    `json:"caption,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

var ErrOrderNotFound = errors.New("order not found or already marked as ready")
