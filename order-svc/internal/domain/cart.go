package domain

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrIncompleteItem           = errors.New("item is missing a variant or temperature")
	ErrTemperatureNotApplicable = errors.New("category does not take a temperature")
	ErrInvalidTemperature       = errors.New("invalid temperature")
)

type Temperature string

const (
	TemperatureHot           Temperature = "Hot"
	TemperatureIced          Temperature = "Iced"
	TemperatureNotApplicable Temperature = "N/A"
)

func Temperatures() []Temperature {
	return []Temperature{TemperatureHot, TemperatureIced}
}

func ParseTemperature(s string) (Temperature, error) {
	switch Temperature(s) {
	case TemperatureHot, TemperatureIced:
		return Temperature(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTemperature, s)
}

// LineItem is a finished cart entry. Only ItemBuilder.Finalize produces one.
type LineItem struct {
	Category    string
	Variant     string
	Temperature Temperature
	Addons      []string
	UnitPrice   decimal.Decimal
	AddonTotal  decimal.Decimal
	LineTotal   decimal.Decimal
}

// Summary is the order log encoding of the item:
// "<variant> (<temperature>) - Add-ons: <list or None>".
func (li LineItem) Summary() string {
	addons := "None"
	if len(li.Addons) > 0 {
		addons = strings.Join(li.Addons, ", ")
	}
	return fmt.Sprintf("%s (%s) - Add-ons: %s", li.Variant, li.Temperature, addons)
}

// ItemBuilder accumulates the choices for one item while the customer is
// still picking.
type ItemBuilder struct {
	category    string
	temperature Temperature
	variant     string
	unitPrice   decimal.Decimal
	addons      []string
}

// BeginItem opens a builder for the category. Temperature starts as
// NotApplicable for categories that do not take one and unset otherwise.
func (c *Catalog) BeginItem(category string) (*ItemBuilder, error) {
	if _, ok := c.prices[category]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	b := &ItemBuilder{category: category}
	if !c.RequiresTemperature(category) {
		b.temperature = TemperatureNotApplicable
	}
	return b, nil
}

func (b *ItemBuilder) Category() string         { return b.category }
func (b *ItemBuilder) Variant() string          { return b.variant }
func (b *ItemBuilder) Temperature() Temperature { return b.temperature }
func (b *ItemBuilder) UnitPrice() decimal.Decimal {
	return b.unitPrice
}

func (b *ItemBuilder) Addons() []string {
	return append([]string(nil), b.addons...)
}

func (b *ItemBuilder) SetTemperature(t Temperature) error {
	if b.temperature == TemperatureNotApplicable {
		return ErrTemperatureNotApplicable
	}
	if t != TemperatureHot && t != TemperatureIced {
		return fmt.Errorf("%w: %q", ErrInvalidTemperature, t)
	}
	b.temperature = t
	return nil
}

func (b *ItemBuilder) SetVariant(c *Catalog, variant string) error {
	p, err := c.PriceOf(b.category, variant)
	if err != nil {
		return err
	}
	b.variant = variant
	b.unitPrice = p
	return nil
}

// ToggleAddon selects an add-on. Selecting one that is already selected does
// nothing; the return value reports whether the selection changed.
func (b *ItemBuilder) ToggleAddon(name string) bool {
	for _, existing := range b.addons {
		if existing == name {
			return false
		}
	}
	b.addons = append(b.addons, name)
	return true
}

func addonTotal(c *Catalog, names []string) decimal.Decimal {
	total := decimal.Zero
	for _, name := range names {
		p, err := c.AddonPrice(name)
		if err != nil {
			log.Printf("Warning: pricing add-on as 0: %v", err)
			continue
		}
		total = total.Add(p)
	}
	return total
}

// Subtotal is the running price of the item as currently built.
func (b *ItemBuilder) Subtotal(c *Catalog) decimal.Decimal {
	return b.unitPrice.Add(addonTotal(c, b.addons))
}

func (b *ItemBuilder) Finalize(c *Catalog) (LineItem, error) {
	if b.variant == "" || b.temperature == "" {
		return LineItem{}, ErrIncompleteItem
	}
	addons := addonTotal(c, b.addons)
	return LineItem{
		Category:    b.category,
		Variant:     b.variant,
		Temperature: b.temperature,
		Addons:      append([]string(nil), b.addons...),
		UnitPrice:   b.unitPrice,
		AddonTotal:  addons,
		LineTotal:   b.unitPrice.Add(addons),
	}, nil
}

// Cart holds the finished items of one customer session.
type Cart struct {
	items []LineItem
}

func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) Append(item LineItem) {
	item.Addons = append([]string(nil), item.Addons...)
	c.items = append(c.items, item)
}

func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	for i, item := range c.items {
		out[i] = item
		out[i].Addons = append([]string(nil), item.Addons...)
	}
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) Clear() {
	c.items = nil
}

// Total is recomputed from the stored line totals on every call.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal)
	}
	return total
}

// Summary joins the item summaries with "; " for the order log.
func (c *Cart) Summary() string {
	parts := make([]string, len(c.items))
	for i, item := range c.items {
		parts[i] = item.Summary()
	}
	return strings.Join(parts, "; ")
}
