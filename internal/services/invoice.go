package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/diewo77/go-facturation/internal/logging"
	"github.com/diewo77/go-facturation/internal/models"
)

// InvoiceService creates invoices from a shared counter and keeps them for the session.
type InvoiceService struct {
	counter models.Counter
	now     func() time.Time
	logger  *zap.Logger

	mu       sync.RWMutex
	invoices []*models.Invoice
	byNumber map[int64]*models.Invoice
}

// NewInvoiceService returns a service that numbers invoices with counter.
func NewInvoiceService(counter models.Counter, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		counter:  counter,
		now:      time.Now,
		logger:   logging.OrNop(logger),
		byNumber: make(map[int64]*models.Invoice),
	}
}

// Create opens a new invoice.
func (s *InvoiceService) Create() *models.Invoice {
	inv := models.NewInvoiceAt(s.counter, s.now())

	s.mu.Lock()
	s.invoices = append(s.invoices, inv)
	s.byNumber[inv.Number()] = inv
	s.mu.Unlock()

	s.logger.Info("invoice created", zap.Int64("invoice", inv.Number()))
	return inv
}

// List returns the invoices in creation order.
func (s *InvoiceService) List() []*models.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Invoice, len(s.invoices))
	copy(out, s.invoices)
	return out
}

func (s *InvoiceService) Get(number int64) (*models.Invoice, error) {
	s.mu.RLock()
	inv, ok := s.byNumber[number]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("invoice %d: %w", number, models.ErrInvoiceNotFound)
	}
	return inv, nil
}

// AddLineItem puts quantity units of a on the invoice. A duplicate product is logged
// and returned as a *models.DuplicateLineItemError; the invoice is left unchanged.
func (s *InvoiceService) AddLineItem(number int64, a models.Article, quantity int) error {
	inv, err := s.Get(number)
	if err != nil {
		return err
	}
	err = inv.AddLineItem(models.NewLineItem(a, quantity))
	switch {
	case err == nil:
		s.logger.Info("line item added",
			zap.Int64("invoice", number),
			zap.String("product", a.Base().Code()),
			zap.Int("quantity", quantity))
		return nil
	case errors.Is(err, models.ErrDuplicateLineItem):
		s.logger.Warn("line item already on invoice",
			zap.Int64("invoice", number),
			zap.String("product", a.Base().Code()))
		return err
	case errors.Is(err, models.ErrInvoiceFinalized), errors.Is(err, models.ErrInvalidArticle):
		return err
	default:
		return models.Unexpected("add line item", err)
	}
}

// Total returns the total of one invoice.
func (s *InvoiceService) Total(number int64) (decimal.Decimal, error) {
	inv, err := s.Get(number)
	if err != nil {
		return decimal.Zero, err
	}
	return inv.Total(), nil
}

// Finalize closes an invoice to further additions.
func (s *InvoiceService) Finalize(number int64) error {
	inv, err := s.Get(number)
	if err != nil {
		return err
	}
	inv.Finalize()
	s.logger.Info("invoice finalized", zap.Int64("invoice", number))
	return nil
}

// Export writes the invoice's line items, sorted by product name, to sink.
func (s *InvoiceService) Export(ctx context.Context, number int64, sink models.Sink) error {
	inv, err := s.Get(number)
	if err != nil {
		return err
	}
	if err := inv.ExportLineItems(ctx, sink); err != nil {
		s.logger.Error("export failed", zap.Int64("invoice", number), zap.Error(err))
		return models.Unexpected("export line items", err)
	}
	s.logger.Info("line items exported",
		zap.Int64("invoice", number),
		zap.Int("items", inv.Len()))
	return nil
}

// Revenue sums the totals of every invoice of the session.
func (s *InvoiceService) Revenue() decimal.Decimal {
	total := decimal.Zero
	for _, inv := range s.List() {
		total = total.Add(inv.Total())
	}
	return total
}
