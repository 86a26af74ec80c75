package service

import (
	"fmt"
	"strings"

	"homecafe/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// Callback payloads carried by choice buttons.
const (
	tapCategoryPrefix    = "type_"
	tapTemperaturePrefix = "temp_"
	tapVariantPrefix     = "var_"
	tapAddonPrefix       = "addon_"
	tapAddonDone         = "addon_done"
	tapAddMore           = "add_more"
	tapCheckout          = "checkout"
	tapReadyPrefix       = "ready_"
	tapPendingRefresh    = "pending_refresh"
)

const (
	ackStale        = "This option is no longer available"
	ackAlreadyAdded = "Already added!"

	textStartHint       = "Type /start to place a new order."
	textUseButtons      = "Please use the buttons above to continue your order, or /cancel to start over."
	textPaymentReprompt = "Please send a payment screenshot or type 'PAID' to confirm."
	textCancelled       = "❌ Order cancelled.\n\nType /start to begin a new order."
	textSaveFailed      = "Sorry, we could not record your order just now. Please send your confirmation again in a moment."
	textStaffOnly       = "This command is only available in the staff chat."
)

func CategoryKeyboard(c *domain.Catalog) domain.Keyboard {
	var kb domain.Keyboard
	for _, cat := range c.Categories() {
		kb = append(kb, []domain.Button{{Text: cat.Name, Data: tapCategoryPrefix + cat.Name}})
	}
	return kb
}

func TemperatureKeyboard() domain.Keyboard {
	var kb domain.Keyboard
	for _, t := range domain.Temperatures() {
		kb = append(kb, []domain.Button{{Text: string(t), Data: tapTemperaturePrefix + string(t)}})
	}
	return kb
}

func VariantKeyboard(c *domain.Catalog, category string) domain.Keyboard {
	cat, ok := c.Category(category)
	if !ok {
		return nil
	}
	var kb domain.Keyboard
	for _, v := range cat.Variants {
		kb = append(kb, []domain.Button{{
			Text: fmt.Sprintf("%s - %s", v.Name, domain.FormatPrice(v.Price)),
			Data: tapVariantPrefix + v.Name,
		}})
	}
	return kb
}

func AddonKeyboard(c *domain.Catalog) domain.Keyboard {
	var kb domain.Keyboard
	for _, a := range c.Addons() {
		label := a.Name
		if a.Price.IsPositive() {
			label += fmt.Sprintf(" (+%s)", domain.FormatPrice(a.Price))
		}
		kb = append(kb, []domain.Button{{Text: label, Data: tapAddonPrefix + a.Name}})
	}
	kb = append(kb, []domain.Button{{Text: "✅ Done with add-ons", Data: tapAddonDone}})
	return kb
}

func ReviewKeyboard() domain.Keyboard {
	return domain.Keyboard{
		{{Text: "➕ Add Another Item", Data: tapAddMore}},
		{{Text: "💳 Proceed to Checkout", Data: tapCheckout}},
	}
}

// WelcomeText lists the whole menu. Free add-ons are left out of the list.
func WelcomeText(c *domain.Catalog) string {
	var b strings.Builder
	b.WriteString("☕ Welcome to Home Cafe!\n\n")
	b.WriteString("📋 Our Menu:\n")
	for _, cat := range c.Categories() {
		fmt.Fprintf(&b, "\n%s:\n", cat.Name)
		for _, v := range cat.Variants {
			fmt.Fprintf(&b, "• %s - %s\n", v.Name, domain.FormatPrice(v.Price))
		}
	}

	var paid []domain.Addon
	for _, a := range c.Addons() {
		if a.Price.IsPositive() {
			paid = append(paid, a)
		}
	}
	if len(paid) > 0 {
		b.WriteString("\n🥛 Add-ons:\n")
		for _, a := range paid {
			fmt.Fprintf(&b, "• %s (+%s)\n", a.Name, domain.FormatPrice(a.Price))
		}
	}
	b.WriteString("\nLet's start your order! 👇")
	return b.String()
}

func categoryPrompt() string {
	return "Select your item type:"
}

func temperaturePrompt(category string) string {
	return fmt.Sprintf("You selected: %s\n\nChoose temperature:", category)
}

func variantPrompt(item *domain.ItemBuilder) string {
	if item.Temperature() == domain.TemperatureNotApplicable {
		return fmt.Sprintf("You selected: %s\n\nChoose your item:", item.Category())
	}
	return fmt.Sprintf("%s - %s\n\nChoose your variety:", item.Category(), item.Temperature())
}

func addonPrompt(c *domain.Catalog, item *domain.ItemBuilder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Great choice! %s (%s)\n\n", item.Variant(), domain.FormatPrice(item.UnitPrice()))
	if addons := item.Addons(); len(addons) > 0 {
		fmt.Fprintf(&b, "Add-ons: %s\n", strings.Join(addons, ", "))
	}
	fmt.Fprintf(&b, "Subtotal: %s\n\n", domain.FormatPrice(item.Subtotal(c)))
	b.WriteString("Select add-ons (tap multiple if needed):")
	return b.String()
}

func writeLineItem(b *strings.Builder, n int, item domain.LineItem) {
	fmt.Fprintf(b, "%d. %s\n", n, item.Variant)
	if item.Temperature != domain.TemperatureNotApplicable {
		addons := "None"
		if len(item.Addons) > 0 {
			addons = strings.Join(item.Addons, ", ")
		}
		fmt.Fprintf(b, "   %s %s\n", item.Temperature, item.Category)
		fmt.Fprintf(b, "   Add-ons: %s\n", addons)
	}
	fmt.Fprintf(b, "   %s\n\n", domain.FormatPrice(item.LineTotal))
}

// CartReview renders the numbered cart followed by its total.
func CartReview(cart *domain.Cart) string {
	var b strings.Builder
	b.WriteString("📋 Your Cart:\n\n")
	for i, item := range cart.Items() {
		writeLineItem(&b, i+1, item)
	}
	fmt.Fprintf(&b, "Total: %s", domain.FormatPrice(cart.Total()))
	return b.String()
}

func checkoutText(orderID string, total decimal.Decimal) string {
	return fmt.Sprintf("Order ID: #%s\nTotal Amount: %s\n\n"+
		"Please make payment via PayNow and send:\n"+
		"• Screenshot of payment, OR\n"+
		"• Type 'PAID' to confirm\n\n"+
		"QR code will be sent in next message...", orderID, domain.FormatPrice(total))
}

func paymentCaption(orderID string, total decimal.Decimal) string {
	return fmt.Sprintf("💳 Scan to pay %s\nOrder #%s", domain.FormatPrice(total), orderID)
}

func paymentFallbackText(total decimal.Decimal) string {
	return fmt.Sprintf("⚠️ The payment QR code is not available right now. Please pay via PayNow to the cafe directly.\n\nAmount to pay: %s", domain.FormatPrice(total))
}

func paymentReceivedText(orderID string) string {
	return fmt.Sprintf("✅ Payment received!\n\nOrder ID: #%s\nYour order is being prepared.\n\n"+
		"Thank you for ordering from Home Cafe! ☕\n\nType /start to place a new order.", orderID)
}

// BaristaText is the new order notice for the staff chat.
func BaristaText(rec domain.OrderRecord, cart *domain.Cart) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 NEW ORDER #%s\n\n", rec.OrderID)
	fmt.Fprintf(&b, "👤 Customer: %s", rec.CustomerName)
	if rec.CustomerHandle != "N/A" {
		fmt.Fprintf(&b, " (%s)", rec.CustomerHandle)
	}
	b.WriteString("\n\n📋 Order Details:\n")
	for i, item := range cart.Items() {
		writeLineItem(&b, i+1, item)
	}
	fmt.Fprintf(&b, "💰 Total: %s", domain.FormatPrice(rec.Total))
	return b.String()
}

func ReadyNotice(rec domain.OrderRecord) string {
	return fmt.Sprintf("☕ Good news, %s!\n\nYour order #%s is ready for collection! 🎉\n\nPlease come pick it up. Thank you!",
		rec.CustomerName, rec.OrderID)
}

func statusEmoji(s domain.OrderStatus) string {
	if s == domain.StatusReady {
		return "✅"
	}
	return "⏳"
}

// RenderRecent lists records in the order given.
func RenderRecent(records []domain.OrderRecord) string {
	if len(records) == 0 {
		return "No orders yet!"
	}
	var b strings.Builder
	b.WriteString("📋 Recent Orders:\n\n")
	for _, r := range records {
		fmt.Fprintf(&b, "%s %s - %s %s\n", statusEmoji(r.Status), r.OrderID, r.Date, r.Time)
		fmt.Fprintf(&b, "Customer: %s %s\n", r.CustomerName, r.CustomerHandle)
		fmt.Fprintf(&b, "Total: %s\n\n", domain.FormatPrice(r.Total))
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderDailySummary(s DailySummary) string {
	if s.Count == 0 {
		return fmt.Sprintf("No orders on %s yet!", s.Date)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Summary (%s)\n\n", s.Date)
	fmt.Fprintf(&b, "Orders: %d\n", s.Count)
	fmt.Fprintf(&b, "Total Sales: %s\n\n", domain.FormatPrice(s.Sales))
	b.WriteString("Orders:\n")
	for _, r := range s.Orders {
		fmt.Fprintf(&b, "%s %s - %s - %s\n", statusEmoji(r.Status), r.OrderID, r.CustomerName, domain.FormatPrice(r.Total))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderPending returns the pending page with one mark-ready button per
// listed order. The refresh button is always present.
func RenderPending(p PendingPage) (string, domain.Keyboard) {
	var kb domain.Keyboard
	refresh := []domain.Button{{Text: "🔄 Refresh", Data: tapPendingRefresh}}
	if len(p.Orders) == 0 {
		return "✅ No pending orders! All caught up!", append(kb, refresh)
	}

	var b strings.Builder
	b.WriteString("⏳ Pending Orders:\n\n")
	for _, r := range p.Orders {
		fmt.Fprintf(&b, "%s\n", r.OrderID)
		fmt.Fprintf(&b, "Customer: %s %s\n", r.CustomerName, r.CustomerHandle)
		fmt.Fprintf(&b, "Time: %s %s\n", r.Date, r.Time)
		fmt.Fprintf(&b, "Items: %s\n", r.ItemsSummary)
		fmt.Fprintf(&b, "Total: %s\n\n", domain.FormatPrice(r.Total))
		kb = append(kb, []domain.Button{{Text: "✅ Ready " + r.OrderID, Data: tapReadyPrefix + r.OrderID}})
	}
	if p.Remaining > 0 {
		fmt.Fprintf(&b, "...and %d more pending.\n\n", p.Remaining)
	}
	b.WriteString("Tap a button or use /ready <order id> to mark as ready")
	return b.String(), append(kb, refresh)
}

func RenderReady(res ReadyResult) string {
	text := fmt.Sprintf("✅ Order %s marked as ready!\n", res.Order.OrderID)
	if res.NotifyErr != nil {
		return text + fmt.Sprintf("⚠️ Could not notify customer: %v", res.NotifyErr)
	}
	return text + fmt.Sprintf("Customer %s has been notified.", res.Order.CustomerName)
}

func RenderNotFound(orderID string) string {
	return fmt.Sprintf("❌ Order %s not found or already marked as ready.", orderID)
}
