package models

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// LineItemSnapshot is the persisted form of one line item. Price is the base price;
// Discount is set only for discounted products.
type LineItemSnapshot struct {
	Code     string           `json:"code"`
	Name     string           `json:"name"`
	Category string           `json:"category"`
	Price    decimal.Decimal  `json:"price"`
	Discount *decimal.Decimal `json:"discount,omitempty"`
	Quantity int              `json:"quantity"`
}

// Snapshot is the export of an invoice's line items, sorted by product name.
type Snapshot struct {
	InvoiceNumber int64              `json:"invoice"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []LineItemSnapshot `json:"items"`
}

// Sink receives exported snapshots.
type Sink interface {
	WriteSnapshot(ctx context.Context, s Snapshot) error
}

// Snapshot captures the current line items sorted by product name. Items with equal
// names keep their insertion order.
func (inv *Invoice) Snapshot() Snapshot {
	items := inv.LineItems()
	out := make([]LineItemSnapshot, 0, len(items))
	for _, li := range items {
		out = append(out, snapshotOf(li))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return Snapshot{
		InvoiceNumber: inv.number,
		CreatedAt:     inv.createdAt,
		Items:         out,
	}
}

func snapshotOf(li LineItem) LineItemSnapshot {
	p := li.Article.Base()
	s := LineItemSnapshot{
		Code:     p.Code(),
		Name:     p.Name(),
		Category: string(p.Category()),
		Price:    p.Price(),
		Quantity: li.Quantity,
	}
	if d, ok := li.Article.(*DiscountedProduct); ok {
		discount := d.Discount()
		s.Discount = &discount
	}
	return s
}
