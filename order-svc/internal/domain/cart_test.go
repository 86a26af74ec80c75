package domain_test

import (
	"testing"

	"homecafe/order-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildItem(t *testing.T, catalog *domain.Catalog, category, variant string, temp domain.Temperature, addons ...string) domain.LineItem {
	t.Helper()
	b, err := catalog.BeginItem(category)
	require.NoError(t, err)
	if temp != domain.TemperatureNotApplicable {
		require.NoError(t, b.SetTemperature(temp))
	}
	require.NoError(t, b.SetVariant(catalog, variant))
	for _, addon := range addons {
		b.ToggleAddon(addon)
	}
	item, err := b.Finalize(catalog)
	require.NoError(t, err)
	return item
}

func TestItemBuilder_IcedBlackWithOatMilk(t *testing.T) {
	catalog := domain.DefaultCatalog()

	item := buildItem(t, catalog, "Coffee", "Iced Black", domain.TemperatureIced, "Oat Milk")

	assert.Equal(t, "4.50", item.UnitPrice.StringFixed(2))
	assert.Equal(t, "1.00", item.AddonTotal.StringFixed(2))
	assert.Equal(t, "5.50", item.LineTotal.StringFixed(2))

	cart := domain.NewCart()
	cart.Append(item)
	assert.Equal(t, "$5.50", domain.FormatPrice(cart.Total()))
}

func TestItemBuilder_ToggleIsIdempotent(t *testing.T) {
	catalog := domain.DefaultCatalog()

	b, err := catalog.BeginItem("Coffee")
	require.NoError(t, err)
	require.NoError(t, b.SetTemperature(domain.TemperatureHot))
	require.NoError(t, b.SetVariant(catalog, "Ice White"))

	assert.True(t, b.ToggleAddon("Oat Milk"))
	assert.False(t, b.ToggleAddon("Oat Milk"))
	assert.True(t, b.ToggleAddon("Extra Espresso Shot"))

	assert.Equal(t, []string{"Oat Milk", "Extra Espresso Shot"}, b.Addons())

	item, err := b.Finalize(catalog)
	require.NoError(t, err)
	assert.Equal(t, "2.00", item.AddonTotal.StringFixed(2))
	assert.Equal(t, "7.50", item.LineTotal.StringFixed(2))
	assert.Equal(t, "Ice White (Hot) - Add-ons: Oat Milk, Extra Espresso Shot", item.Summary())
}

func TestItemBuilder_BakesHaveNoTemperature(t *testing.T) {
	catalog := domain.DefaultCatalog()

	b, err := catalog.BeginItem("Bakes")
	require.NoError(t, err)
	assert.Equal(t, domain.TemperatureNotApplicable, b.Temperature())
	assert.ErrorIs(t, b.SetTemperature(domain.TemperatureIced), domain.ErrTemperatureNotApplicable)

	require.NoError(t, b.SetVariant(catalog, "Banana Bread"))
	item, err := b.Finalize(catalog)
	require.NoError(t, err)

	assert.Equal(t, domain.TemperatureNotApplicable, item.Temperature)
	assert.Equal(t, "Banana Bread (N/A) - Add-ons: None", item.Summary())
}

func TestItemBuilder_Incomplete(t *testing.T) {
	catalog := domain.DefaultCatalog()

	tests := []struct {
		name  string
		build func(b *domain.ItemBuilder) error
	}{
		{
			name:  "no_variant",
			build: func(b *domain.ItemBuilder) error { return b.SetTemperature(domain.TemperatureHot) },
		},
		{
			name:  "no_temperature",
			build: func(b *domain.ItemBuilder) error { return b.SetVariant(catalog, "Iced Black") },
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			b, err := catalog.BeginItem("Coffee")
			require.NoError(t, err)
			require.NoError(t, testCase.build(b))
			_, err = b.Finalize(catalog)
			assert.ErrorIs(t, err, domain.ErrIncompleteItem)
		})
	}
}

func TestItemBuilder_UnknownVariantKeepsState(t *testing.T) {
	catalog := domain.DefaultCatalog()

	b, err := catalog.BeginItem("Coffee")
	require.NoError(t, err)
	require.NoError(t, b.SetVariant(catalog, "Iced Black"))

	err = b.SetVariant(catalog, "Banana Bread")
	assert.ErrorIs(t, err, domain.ErrUnknownVariant)
	assert.Equal(t, "Iced Black", b.Variant())
}

func TestItemBuilder_UnresolvedAddonCountsAsZero(t *testing.T) {
	catalog := domain.DefaultCatalog()

	item := buildItem(t, catalog, "Matcha", "Iced Matcha", domain.TemperatureIced, "Oat Milk", "Gold Flakes")

	assert.Equal(t, []string{"Oat Milk", "Gold Flakes"}, item.Addons)
	assert.Equal(t, "1.00", item.AddonTotal.StringFixed(2))
	assert.Equal(t, "8.00", item.LineTotal.StringFixed(2))
}

func TestCart_TotalIsSumOfLineTotals(t *testing.T) {
	catalog := domain.DefaultCatalog()
	addonSets := [][]string{
		nil,
		{"Oat Milk"},
		{"Oat Milk", "Oat Milk", "Extra Espresso Shot"},
		{"Normal Sugar", "Siew Dai (Less Sugar)", "Extra Espresso Shot", "Extra Espresso Shot"},
	}

	cart := domain.NewCart()
	expected := decimal.Zero
	for _, addons := range addonSets {
		item := buildItem(t, catalog, "Coffee", "Ice White", domain.TemperatureIced, addons...)

		addonSum := decimal.Zero
		for _, name := range item.Addons {
			p, err := catalog.AddonPrice(name)
			require.NoError(t, err)
			addonSum = addonSum.Add(p)
		}
		assert.True(t, item.LineTotal.Equal(item.UnitPrice.Add(addonSum)))

		cart.Append(item)
		expected = expected.Add(item.LineTotal)
	}
	cart.Append(buildItem(t, catalog, "Bakes", "Matcha Madeleines(4pcs)", domain.TemperatureNotApplicable))
	expected = expected.Add(decimal.RequireFromString("6.00"))

	assert.True(t, cart.Total().Equal(expected), "cart %s expected %s", cart.Total(), expected)
	assert.Equal(t, 5, cart.Len())
}

func TestCart_ItemsAreCopies(t *testing.T) {
	catalog := domain.DefaultCatalog()
	cart := domain.NewCart()
	cart.Append(buildItem(t, catalog, "Coffee", "Iced Black", domain.TemperatureIced, "Oat Milk"))

	items := cart.Items()
	items[0].Addons[0] = "Gold Flakes"
	items[0].LineTotal = decimal.NewFromInt(100)

	assert.Equal(t, "Oat Milk", cart.Items()[0].Addons[0])
	assert.Equal(t, "$5.50", domain.FormatPrice(cart.Total()))
}

func TestCart_Summary(t *testing.T) {
	catalog := domain.DefaultCatalog()
	cart := domain.NewCart()
	cart.Append(buildItem(t, catalog, "Coffee", "Iced Black", domain.TemperatureIced, "Oat Milk"))
	cart.Append(buildItem(t, catalog, "Bakes", "Banana Bread", domain.TemperatureNotApplicable))

	assert.Equal(t,
		"Iced Black (Iced) - Add-ons: Oat Milk; Banana Bread (N/A) - Add-ons: None",
		cart.Summary())

	cart.Clear()
	assert.Equal(t, 0, cart.Len())
	assert.True(t, cart.Total().IsZero())
}

func TestParsePrice(t *testing.T) {
	p, err := domain.ParsePrice("$12.50")
	require.NoError(t, err)
	assert.Equal(t, "$12.50", domain.FormatPrice(p))

	_, err = domain.ParsePrice("twelve")
	assert.Error(t, err)
}
