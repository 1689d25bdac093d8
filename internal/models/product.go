package models

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Category is the catalog family of a product, stored exactly as entered.
type Category string

const (
	CategoryInformatique Category = "Informatique"
	CategoryBureautique  Category = "Bureautique"
)

// ValidCategories lists the accepted literals. Matching is exact, not case-folded.
var ValidCategories = []Category{
	CategoryInformatique,
	CategoryBureautique,
	"informatique",
	"bureautique",
}

// ParseCategory returns the category if it is one of ValidCategories.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !slices.Contains(ValidCategories, c) {
		return "", &CategoryError{Category: s}
	}
	return c, nil
}

// Priceable is anything that knows the price actually charged for one unit.
type Priceable interface {
	EffectivePrice() decimal.Decimal
}

// Article is a catalog entry that can be put on an invoice: a plain Product or a
// DiscountedProduct.
type Article interface {
	Priceable
	// Base returns the underlying product fields used for identity and display.
	Base() *Product
	String() string
}

// Product is a catalog item.
type Product struct {
	code     string
	name     string
	price    decimal.Decimal
	category Category
}

// NewProduct validates the category and builds a product.
func NewProduct(code, name string, price decimal.Decimal, category string) (*Product, error) {
	c, err := ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return &Product{code: code, name: name, price: price, category: c}, nil
}

func (p *Product) Code() string { return p.code }
func (p *Product) Name() string { return p.name }
func (p *Product) Category() Category { return p.category }
func (p *Product) Price() decimal.Decimal { return p.price }

// SetPrice replaces the base price. No validation is performed.
func (p *Product) SetPrice(price decimal.Decimal) {
	p.price = price
}

// EffectivePrice of a plain product is its base price.
func (p *Product) EffectivePrice() decimal.Decimal {
	return p.price
}

func (p *Product) Base() *Product { return p }

// String returns the canonical form code;name;price;category.
func (p *Product) String() string {
	return p.code + ";" + p.name + ";" + p.price.String() + ";" + string(p.category)
}

// Equal reports structural equality on code, name, price and category.
func (p *Product) Equal(other *Product) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.code == other.code &&
		p.name == other.name &&
		p.price.Equal(other.price) &&
		p.category == other.category
}

// DiscountedProduct is a product sold at a percentage off its base price.
type DiscountedProduct struct {
	*Product
	discount decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// NewDiscountedProduct builds a discounted product; category validation follows NewProduct.
// The discount is a percentage (20 means 20%) and is not bounded.
func NewDiscountedProduct(code, name string, price decimal.Decimal, category string, discount decimal.Decimal) (*DiscountedProduct, error) {
	p, err := NewProduct(code, name, price, category)
	if err != nil {
		return nil, err
	}
	return &DiscountedProduct{Product: p, discount: discount}, nil
}

// Base returns the embedded product, or nil for a nil receiver.
func (d *DiscountedProduct) Base() *Product {
	if d == nil {
		return nil
	}
	return d.Product
}

func (d *DiscountedProduct) Discount() decimal.Decimal { return d.discount }

// EffectivePrice applies the discount: price * (1 - discount/100).
func (d *DiscountedProduct) EffectivePrice() decimal.Decimal {
	return d.Price().Mul(decimal.NewFromInt(1).Sub(d.discount.Div(hundred)))
}

// String appends the discount to the product form.
func (d *DiscountedProduct) String() string {
	return d.Product.String() + ";" + d.discount.String()
}

// SameProduct reports whether two articles refer to equal products. Only the base
// product fields take part; the discount does not.
func SameProduct(a, b Article) bool {
	pa, pb := baseOf(a), baseOf(b)
	if pa == nil || pb == nil {
		return pa == nil && pb == nil
	}
	return pa.Equal(pb)
}

// baseOf returns a's product, or nil when a is nil or wraps a nil pointer.
func baseOf(a Article) *Product {
	if a == nil {
		return nil
	}
	return a.Base()
}
