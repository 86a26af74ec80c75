package domain

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownCategory = errors.New("unknown menu category")
	ErrUnknownVariant  = errors.New("unknown variant for category")
	ErrUnknownAddon    = errors.New("unknown add-on")
)

type Variant struct {
	Name  string
	Price decimal.Decimal
}

type Category struct {
	Name          string
	NoTemperature bool
	Variants      []Variant
}

type Addon struct {
	Name  string
	Price decimal.Decimal
}

// Catalog is the menu. It is built once at startup and never mutated, so it
// is safe to share between goroutines without locking.
type Catalog struct {
	categories []Category
	addons     []Addon
	prices     map[string]map[string]decimal.Decimal
	addonIndex map[string]decimal.Decimal
	noTemp     map[string]bool
}

func NewCatalog(categories []Category, addons []Addon) (*Catalog, error) {
	c := &Catalog{
		prices:     make(map[string]map[string]decimal.Decimal, len(categories)),
		addonIndex: make(map[string]decimal.Decimal, len(addons)),
		noTemp:     make(map[string]bool, len(categories)),
	}

	for _, category := range categories {
		if category.Name == "" {
			return nil, errors.New("category without a name")
		}
		if _, dup := c.prices[category.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", category.Name)
		}
		if len(category.Variants) == 0 {
			return nil, fmt.Errorf("category %q has no variants", category.Name)
		}
		variants := make(map[string]decimal.Decimal, len(category.Variants))
		for _, v := range category.Variants {
			if v.Price.IsNegative() {
				return nil, fmt.Errorf("variant %q has a negative price", v.Name)
			}
			variants[v.Name] = v.Price
		}
		c.prices[category.Name] = variants
		c.noTemp[category.Name] = category.NoTemperature

		copied := category
		copied.Variants = append([]Variant(nil), category.Variants...)
		c.categories = append(c.categories, copied)
	}

	for _, addon := range addons {
		if addon.Price.IsNegative() {
			return nil, fmt.Errorf("add-on %q has a negative price", addon.Name)
		}
		if _, dup := c.addonIndex[addon.Name]; dup {
			return nil, fmt.Errorf("duplicate add-on %q", addon.Name)
		}
		c.addonIndex[addon.Name] = addon.Price
		c.addons = append(c.addons, addon)
	}

	return c, nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultCatalog is the house menu.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		[]Category{
			{Name: "Matcha", Variants: []Variant{
				{Name: "Iced Matcha", Price: price("7.00")},
				{Name: "Strawberry Matcha", Price: price("8.00")},
			}},
			{Name: "Coffee", Variants: []Variant{
				{Name: "Iced Black", Price: price("4.50")},
				{Name: "Ice White", Price: price("5.50")},
			}},
			{Name: "Bakes", NoTemperature: true, Variants: []Variant{
				{Name: "Banana Bread", Price: price("4.00")},
				{Name: "Earl Grey Madeleines(4pcs)", Price: price("5.00")},
				{Name: "Matcha Madeleines(4pcs)", Price: price("6.00")},
			}},
		},
		[]Addon{
			{Name: "Oat Milk", Price: price("1.00")},
			{Name: "Extra Espresso Shot", Price: price("1.00")},
			{Name: "Normal Sugar", Price: decimal.Zero},
			{Name: "Kosong (No Sugar)", Price: decimal.Zero},
			{Name: "Siew Dai (Less Sugar)", Price: decimal.Zero},
		},
	)
	if err != nil {
		panic(err)
	}
	return c
}

type menuFile struct {
	Categories []struct {
		Name          string `yaml:"name"`
		NoTemperature bool   `yaml:"no_temperature"`
		Variants      []struct {
			Name  string `yaml:"name"`
			Price string `yaml:"price"`
		} `yaml:"variants"`
	} `yaml:"categories"`
	Addons []struct {
		Name  string `yaml:"name"`
		Price string `yaml:"price"`
	} `yaml:"addons"`
}

// LoadCatalog reads a YAML menu file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var file menuFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}

	categories := make([]Category, 0, len(file.Categories))
	for _, fc := range file.Categories {
		category := Category{Name: fc.Name, NoTemperature: fc.NoTemperature}
		for _, fv := range fc.Variants {
			p, err := decimal.NewFromString(fv.Price)
			if err != nil {
				return nil, fmt.Errorf("price of %q: %w", fv.Name, err)
			}
			category.Variants = append(category.Variants, Variant{Name: fv.Name, Price: p})
		}
		categories = append(categories, category)
	}

	addons := make([]Addon, 0, len(file.Addons))
	for _, fa := range file.Addons {
		p, err := decimal.NewFromString(fa.Price)
		if err != nil {
			return nil, fmt.Errorf("price of %q: %w", fa.Name, err)
		}
		addons = append(addons, Addon{Name: fa.Name, Price: p})
	}

	return NewCatalog(categories, addons)
}

func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, category := range c.categories {
		out[i] = category
		out[i].Variants = append([]Variant(nil), category.Variants...)
	}
	return out
}

func (c *Catalog) Category(name string) (Category, bool) {
	for _, category := range c.categories {
		if category.Name == name {
			category.Variants = append([]Variant(nil), category.Variants...)
			return category, true
		}
	}
	return Category{}, false
}

func (c *Catalog) Addons() []Addon {
	return append([]Addon(nil), c.addons...)
}

// RequiresTemperature reports whether items of the category go through the
// temperature and add-on steps.
func (c *Catalog) RequiresTemperature(category string) bool {
	_, known := c.prices[category]
	return known && !c.noTemp[category]
}

func (c *Catalog) PriceOf(category, variant string) (decimal.Decimal, error) {
	variants, ok := c.prices[category]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	p, ok := variants[variant]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s/%s", ErrUnknownVariant, category, variant)
	}
	return p, nil
}

func (c *Catalog) AddonPrice(name string) (decimal.Decimal, error) {
	p, ok := c.addonIndex[name]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownAddon, name)
	}
	return p, nil
}
