package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/diewo77/go-facturation/internal/models"
	"github.com/diewo77/go-facturation/validation"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return zap.New(core), logs
}

func TestCatalog_AddProduct(t *testing.T) {
	c := NewCatalog(nil)

	p, err := c.AddProduct(ProductInput{Code: "P1", Name: "Souris", Price: decimal.NewFromInt(25), Category: "Informatique"})
	require.NoError(t, err)
	assert.Equal(t, "P1;Souris;25;Informatique", p.String())

	d, err := c.AddDiscountedProduct(ProductInput{Code: "P2", Name: "Écran", Price: decimal.NewFromInt(100), Category: "informatique"}, decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.True(t, d.EffectivePrice().Equal(decimal.NewFromInt(80)))

	assert.Equal(t, 2, c.Len())
	list := c.List()
	require.Len(t, list, 2)
	assert.Same(t, models.Article(p), list[0])

	got, err := c.At(1)
	require.NoError(t, err)
	assert.Same(t, models.Article(d), got)

	_, err = c.At(2)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
	_, err = c.At(-1)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestCatalog_AddProduct_Errors(t *testing.T) {
	c := NewCatalog(nil)

	_, err := c.AddProduct(ProductInput{Code: "P1", Name: "Souris", Price: decimal.NewFromInt(1), Category: "Cuisine"})
	assert.ErrorIs(t, err, models.ErrCategoryInvalid)
	assert.NotErrorIs(t, err, models.ErrUnexpected)

	_, err = c.AddDiscountedProduct(ProductInput{Code: "P1", Name: "Souris", Price: decimal.NewFromInt(1), Category: "INFORMATIQUE"}, decimal.NewFromInt(5))
	assert.ErrorIs(t, err, models.ErrCategoryInvalid)

	_, err = c.AddProduct(ProductInput{Code: "P1", Name: "1234", Price: decimal.NewFromInt(-3), Category: "Informatique"})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "not_a_word", verr.Violations["designation"])
	assert.Equal(t, "must_not_be_negative", verr.Violations["price"])

	_, err = c.AddProduct(ProductInput{Code: "P1", Name: " ", Price: decimal.Zero, Category: "Informatique"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "required", verr.Violations["designation"])

	assert.Equal(t, 0, c.Len())
}

func TestInvoiceService_Create(t *testing.T) {
	s := NewInvoiceService(models.NewSequenceCounter(1), nil)
	fixed := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	first := s.Create()
	second := s.Create()
	assert.Equal(t, int64(1), first.Number())
	assert.Equal(t, int64(2), second.Number())
	assert.True(t, first.CreatedAt().Equal(fixed))

	got, err := s.Get(2)
	require.NoError(t, err)
	assert.Same(t, second, got)

	_, err = s.Get(3)
	assert.ErrorIs(t, err, models.ErrInvoiceNotFound)

	list := s.List()
	require.Len(t, list, 2)
	assert.Same(t, first, list[0])
}

func TestInvoiceService_InjectedCounter(t *testing.T) {
	a := NewInvoiceService(models.NewSequenceCounter(1), nil)
	b := NewInvoiceService(models.NewSequenceCounter(1), nil)
	assert.Equal(t, int64(1), a.Create().Number())
	assert.Equal(t, int64(1), b.Create().Number())

	shared := models.NewSequenceCounter(10)
	c := NewInvoiceService(shared, nil)
	d := NewInvoiceService(shared, nil)
	assert.Equal(t, int64(10), c.Create().Number())
	assert.Equal(t, int64(11), d.Create().Number())
}

func TestInvoiceService_ConcurrentCreate(t *testing.T) {
	s := NewInvoiceService(models.NewSequenceCounter(1), nil)
	const n = 100

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Create()
		}()
	}
	wg.Wait()

	seen := map[int64]bool{}
	for _, inv := range s.List() {
		assert.False(t, seen[inv.Number()], "duplicate number %d", inv.Number())
		seen[inv.Number()] = true
	}
	assert.Len(t, seen, n)
}

func TestInvoiceService_AddLineItemAndTotal(t *testing.T) {
	logger, logs := observedLogger()
	catalog := NewCatalog(nil)
	s := NewInvoiceService(models.NewSequenceCounter(1), logger)

	a, err := catalog.AddProduct(ProductInput{Code: "A", Name: "Produit A", Price: decimal.NewFromInt(50), Category: "Informatique"})
	require.NoError(t, err)
	b, err := catalog.AddDiscountedProduct(ProductInput{Code: "B", Name: "Produit B", Price: decimal.NewFromInt(100), Category: "Bureautique"}, decimal.NewFromInt(10))
	require.NoError(t, err)

	inv := s.Create()
	require.NoError(t, s.AddLineItem(inv.Number(), a, 2))
	require.NoError(t, s.AddLineItem(inv.Number(), b, 1))

	err = s.AddLineItem(inv.Number(), a, 7)
	assert.ErrorIs(t, err, models.ErrDuplicateLineItem)
	assert.Equal(t, 2, inv.Len())

	dup := logs.FilterMessage("line item already on invoice").All()
	require.Len(t, dup, 1)
	assert.Equal(t, zapcore.WarnLevel, dup[0].Level)
	assert.Equal(t, "A", dup[0].ContextMap()["product"])

	total, err := s.Total(inv.Number())
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(190)), "total = %s", total)

	_, err = s.Total(99)
	assert.ErrorIs(t, err, models.ErrInvoiceNotFound)
	assert.ErrorIs(t, s.AddLineItem(99, a, 1), models.ErrInvoiceNotFound)
}

func TestInvoiceService_Finalize(t *testing.T) {
	s := NewInvoiceService(models.NewSequenceCounter(1), nil)
	p, err := models.NewProduct("A", "Agenda", decimal.NewFromInt(3), "Bureautique")
	require.NoError(t, err)

	inv := s.Create()
	require.NoError(t, s.Finalize(inv.Number()))
	assert.ErrorIs(t, s.AddLineItem(inv.Number(), p, 1), models.ErrInvoiceFinalized)
	assert.ErrorIs(t, s.Finalize(42), models.ErrInvoiceNotFound)
}

func TestInvoiceService_Revenue(t *testing.T) {
	s := NewInvoiceService(models.NewSequenceCounter(1), nil)
	assert.True(t, s.Revenue().IsZero())

	p, err := models.NewProduct("A", "Agenda", decimal.NewFromInt(3), "Bureautique")
	require.NoError(t, err)
	q, err := models.NewDiscountedProduct("B", "Bloc", decimal.NewFromInt(10), "Bureautique", decimal.NewFromInt(50))
	require.NoError(t, err)

	first, second := s.Create(), s.Create()
	require.NoError(t, s.AddLineItem(first.Number(), p, 2))
	require.NoError(t, s.AddLineItem(second.Number(), q, 3))
	require.NoError(t, s.AddLineItem(second.Number(), p, 1))

	assert.True(t, s.Revenue().Equal(decimal.NewFromInt(24)), "revenue = %s", s.Revenue())
}

type memorySink struct {
	snaps []models.Snapshot
	err   error
}

func (m *memorySink) WriteSnapshot(_ context.Context, s models.Snapshot) error {
	if m.err != nil {
		return m.err
	}
	m.snaps = append(m.snaps, s)
	return nil
}

func TestInvoiceService_Export(t *testing.T) {
	logger, logs := observedLogger()
	s := NewInvoiceService(models.NewSequenceCounter(1), logger)
	z, err := models.NewProduct("Z", "Zinc", decimal.NewFromInt(1), "Bureautique")
	require.NoError(t, err)
	a, err := models.NewProduct("A", "Agenda", decimal.NewFromInt(1), "Bureautique")
	require.NoError(t, err)

	inv := s.Create()
	require.NoError(t, s.AddLineItem(inv.Number(), z, 1))
	require.NoError(t, s.AddLineItem(inv.Number(), a, 1))

	sink := &memorySink{}
	require.NoError(t, s.Export(context.Background(), inv.Number(), sink))
	require.Len(t, sink.snaps, 1)
	assert.Equal(t, "Agenda", sink.snaps[0].Items[0].Name)
	assert.Equal(t, "Zinc", sink.snaps[0].Items[1].Name)
	assert.Equal(t, 1, logs.FilterMessage("line items exported").Len())

	boom := errors.New("disk full")
	err = s.Export(context.Background(), inv.Number(), &memorySink{err: boom})
	assert.ErrorIs(t, err, models.ErrUnexpected)
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, s.Export(context.Background(), 7, sink), models.ErrInvoiceNotFound)
}
