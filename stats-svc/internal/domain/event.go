package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced = "order_placed"
	EventOrderReady  = "order_ready"
)

type EventItem struct {
	Category    string          `json:"category"`
	Variant     string          `json:"variant"`
	Temperature string          `json:"temperature"`
	Addons      []string        `json:"addons"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderEvent is the message order-svc publishes on the order events topic.
type OrderEvent struct {
	EventID   string          `json:"event_id"`
	Type      string          `json:"type"`
	OrderID   string          `json:"order_id"`
	Date      string          `json:"date"`
	Items     []EventItem     `json:"items,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Timestamp time.Time       `json:"timestamp"`
}

type ItemCount struct {
	Variant string `json:"variant"`
	Count   int64  `json:"count"`
}

type DailyStats struct {
	Date     string      `json:"date"`
	Orders   int64       `json:"orders"`
	Ready    int64       `json:"ready"`
	Sales    string      `json:"sales"`
	TopItems []ItemCount `json:"top_items"`
}
