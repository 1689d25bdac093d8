package models

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusFinal InvoiceStatus = "final"
)

// LineItem is a purchase: a shared product reference and a quantity.
type LineItem struct {
	Article  Article
	Quantity int
}

// NewLineItem pairs an article with a quantity. The quantity is not validated.
func NewLineItem(a Article, quantity int) LineItem {
	return LineItem{Article: a, Quantity: quantity}
}

// LineTotal is the effective unit price times the quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Article.EffectivePrice().Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Invoice owns an ordered list of line items, at most one per product.
// All methods are safe for concurrent use.
type Invoice struct {
	number    int64
	createdAt time.Time

	mu     sync.Mutex
	status InvoiceStatus
	items  []LineItem
}

// NewInvoice takes the next number from c and stamps the invoice with the current time.
func NewInvoice(c Counter) *Invoice {
	return NewInvoiceAt(c, time.Now())
}

// NewInvoiceAt is NewInvoice with an explicit creation time.
func NewInvoiceAt(c Counter, at time.Time) *Invoice {
	return &Invoice{
		number:    c.Next(),
		createdAt: at,
		status:    InvoiceStatusDraft,
	}
}

func (inv *Invoice) Number() int64 { return inv.number }

func (inv *Invoice) CreatedAt() time.Time { return inv.createdAt }

func (inv *Invoice) Status() InvoiceStatus {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.status
}

// CanEdit returns true while line items may still be added.
func (inv *Invoice) CanEdit() bool {
	return inv.Status() == InvoiceStatusDraft
}

// Finalize closes the invoice to further additions. Finalizing twice is a no-op.
func (inv *Invoice) Finalize() {
	inv.mu.Lock()
	inv.status = InvoiceStatusFinal
	inv.mu.Unlock()
}

// AddLineItem appends li unless a line item for an equal product is already present,
// in which case it returns a *DuplicateLineItemError and leaves the invoice unchanged.
// A line item without a product is rejected with ErrInvalidArticle.
func (inv *Invoice) AddLineItem(li LineItem) error {
	if baseOf(li.Article) == nil {
		return fmt.Errorf("invoice %d: %w", inv.number, ErrInvalidArticle)
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	if inv.status != InvoiceStatusDraft {
		return fmt.Errorf("invoice %d: %w", inv.number, ErrInvoiceFinalized)
	}
	for _, existing := range inv.items {
		if SameProduct(existing.Article, li.Article) {
			return &DuplicateLineItemError{InvoiceNumber: inv.number, ProductCode: li.Article.Base().Code()}
		}
	}
	inv.items = append(inv.items, li)
	return nil
}

// LineItems returns a copy of the line items in insertion order.
func (inv *Invoice) LineItems() []LineItem {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	out := make([]LineItem, len(inv.items))
	copy(out, inv.items)
	return out
}

// Len returns the number of line items.
func (inv *Invoice) Len() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.items)
}

// Total sums the line totals. An empty invoice totals zero.
func (inv *Invoice) Total() decimal.Decimal {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	total := decimal.Zero
	for _, li := range inv.items {
		total = total.Add(li.LineTotal())
	}
	return total
}

// String lists the invoice header then one line per item, in insertion order.
func (inv *Invoice) String() string {
	items := inv.LineItems()
	var b strings.Builder
	fmt.Fprintf(&b, "Facture #%d - Date: %s\nArticles:", inv.number, inv.createdAt.Format("2006-01-02 15:04:05"))
	for _, li := range items {
		fmt.Fprintf(&b, "\n%s (Quantité: %d)", li.Article.Base().Name(), li.Quantity)
	}
	return b.String()
}

// ExportLineItems writes a snapshot of the line items, sorted by product name, to sink.
// The invoice itself is not modified.
func (inv *Invoice) ExportLineItems(ctx context.Context, sink Sink) error {
	return sink.WriteSnapshot(ctx, inv.Snapshot())
}
