// Package console is the interactive menu used to build the catalog and invoices.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/diewo77/go-facturation/i18n"
	"github.com/diewo77/go-facturation/internal/export"
	"github.com/diewo77/go-facturation/internal/logging"
	"github.com/diewo77/go-facturation/internal/models"
	"github.com/diewo77/go-facturation/internal/services"
	"github.com/diewo77/go-facturation/validation"
)

// Options configures a Console.
type Options struct {
	// Sink receives exports when the user does not name a file.
	Sink   models.Sink
	Logger *zap.Logger
}

// Console reads menu choices from in and writes prompts and results to out.
type Console struct {
	in       *bufio.Scanner
	out      io.Writer
	lines    chan string
	readErr  error
	once     sync.Once
	lang     string
	catalog  *services.Catalog
	invoices *services.InvoiceService
	sink     models.Sink
	logger   *zap.Logger
}

func New(in io.Reader, out io.Writer, catalog *services.Catalog, invoices *services.InvoiceService, opts Options) *Console {
	return &Console{
		in:       bufio.NewScanner(in),
		out:      out,
		lines:    make(chan string),
		catalog:  catalog,
		invoices: invoices,
		sink:     opts.Sink,
		logger:   logging.OrNop(opts.Logger),
	}
}

// Run loops over the main menu until the user quits, input ends or ctx is done.
// The language is taken from ctx (see i18n.WithLang). Run must not be called twice
// on the same Console.
func (c *Console) Run(ctx context.Context) error {
	c.lang = i18n.LangFromContext(ctx)
	c.once.Do(func() { go c.read(ctx) })
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.menu()
		choice, err := c.ask(ctx, "menu.prompt")
		if err != nil {
			return ignoreEOF(err)
		}

		switch choice {
		case "1":
			err = c.createArticle(ctx)
		case "2":
			err = c.createDiscountedArticle(ctx)
		case "3":
			inv := c.invoices.Create()
			c.say("ok.invoice", inv.Number())
		case "4":
			err = c.addPurchase(ctx)
		case "5":
			c.showInvoices()
		case "6":
			err = c.exportPurchases(ctx)
		case "7":
			c.say("menu.goodbye")
			return nil
		default:
			c.say("menu.invalid")
		}
		if err != nil {
			return ignoreEOF(err)
		}
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Console) menu() {
	fmt.Fprintln(c.out)
	for _, key := range []string{"menu.title", "menu.1", "menu.2", "menu.3", "menu.4", "menu.5", "menu.6", "menu.7"} {
		fmt.Fprintln(c.out, i18n.T(c.lang, key))
	}
}

func (c *Console) say(code string, args ...any) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, i18n.T(c.lang, code))
		return
	}
	fmt.Fprintln(c.out, i18n.Tf(c.lang, code, args...))
}

// read feeds input lines to ask. The scanner error, if any, is set before lines is closed.
func (c *Console) read(ctx context.Context) {
	defer close(c.lines)
	for c.in.Scan() {
		select {
		case c.lines <- c.in.Text():
		case <-ctx.Done():
			return
		}
	}
	c.readErr = c.in.Err()
}

// ask prints the prompt and returns the trimmed next line. It returns io.EOF once
// input ends and ctx.Err() as soon as ctx is done.
func (c *Console) ask(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(c.out, i18n.T(c.lang, prompt))
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			if c.readErr != nil {
				return "", c.readErr
			}
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

func (c *Console) violations(v validation.Violations) {
	for field, code := range v {
		c.say("err.field", i18n.T(c.lang, "field."+field), i18n.T(c.lang, code))
	}
}

func (c *Console) askDesignation(ctx context.Context) (string, error) {
	for {
		name, err := c.ask(ctx, "prompt.name")
		if err != nil {
			return "", err
		}
		v := make(validation.Violations)
		validation.Required("designation", name, v)
		validation.Word("designation", name, v)
		if v.Empty() {
			c.say("ok.name", name)
			return name, nil
		}
		c.violations(v)
	}
}

// askPrice accepts amounts written as "<number> MAD".
func (c *Console) askPrice(ctx context.Context) (decimal.Decimal, error) {
	for {
		raw, err := c.ask(ctx, "prompt.price")
		if err != nil {
			return decimal.Zero, err
		}
		if !strings.HasSuffix(raw, "MAD") {
			c.say("err.price_mad")
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(strings.TrimSuffix(raw, "MAD")))
		if err != nil {
			c.say("err.price_num")
			continue
		}
		v := make(validation.Violations)
		validation.NonNegative("price", price, v)
		if !v.Empty() {
			c.violations(v)
			continue
		}
		c.say("ok.price", price.String())
		return price, nil
	}
}

// askCategory pre-checks the category without regard to case; the catalog then applies
// the exact list.
func (c *Console) askCategory(ctx context.Context) (string, error) {
	for {
		cat, err := c.ask(ctx, "prompt.cat")
		if err != nil {
			return "", err
		}
		switch strings.ToLower(cat) {
		case "informatique", "bureautique":
			c.say("ok.cat", cat)
			return cat, nil
		}
		c.say("err.cat")
	}
}

// askDiscount accepts percentages such as "20%" or "12,5 %".
func (c *Console) askDiscount(ctx context.Context) (decimal.Decimal, error) {
	for {
		raw, err := c.ask(ctx, "prompt.disc")
		if err != nil {
			return decimal.Zero, err
		}
		if !strings.Contains(raw, "%") {
			c.say("err.disc_pct")
			continue
		}
		num := strings.ReplaceAll(strings.TrimSpace(strings.ReplaceAll(raw, "%", "")), ",", ".")
		discount, err := decimal.NewFromString(num)
		if err != nil {
			c.say("err.disc_num")
			continue
		}
		v := make(validation.Violations)
		validation.Range("discount", discount, decimal.Zero, decimal.NewFromInt(100), v)
		if !v.Empty() {
			c.violations(v)
			continue
		}
		c.say("ok.disc", discount.String())
		return discount, nil
	}
}

func (c *Console) createArticle(ctx context.Context) error {
	code, err := c.ask(ctx, "prompt.code")
	if err != nil {
		return err
	}
	name, err := c.askDesignation(ctx)
	if err != nil {
		return err
	}
	price, err := c.askPrice(ctx)
	if err != nil {
		return err
	}
	cat, err := c.askCategory(ctx)
	if err != nil {
		return err
	}

	_, err = c.catalog.AddProduct(services.ProductInput{Code: code, Name: name, Price: price, Category: cat})
	c.report(err, "ok.article")
	return nil
}

func (c *Console) createDiscountedArticle(ctx context.Context) error {
	code, err := c.ask(ctx, "prompt.code")
	if err != nil {
		return err
	}
	name, err := c.askDesignation(ctx)
	if err != nil {
		return err
	}
	price, err := c.askPrice(ctx)
	if err != nil {
		return err
	}
	// Not pre-checked: a bad category surfaces as a category error from the catalog.
	cat, err := c.ask(ctx, "prompt.cat")
	if err != nil {
		return err
	}
	discount, err := c.askDiscount(ctx)
	if err != nil {
		return err
	}

	_, err = c.catalog.AddDiscountedProduct(services.ProductInput{Code: code, Name: name, Price: price, Category: cat}, discount)
	c.report(err, "ok.discounted")
	return nil
}

// report prints the success message, or the message matching err's condition.
func (c *Console) report(err error, success string) {
	var verr *validation.Error
	var cerr *models.CategoryError
	switch {
	case err == nil:
		c.say(success)
	case errors.As(err, &cerr):
		c.say("err.category", cerr.Error())
	case errors.Is(err, models.ErrDuplicateLineItem):
		c.say("err.duplicate")
	case errors.Is(err, models.ErrInvoiceFinalized):
		c.say("err.final")
	case errors.As(err, &verr):
		c.violations(verr.Violations)
	default:
		c.logger.Error("console operation failed", zap.Error(err))
		c.say("err.unknown", err.Error())
	}
}

// askIndex reads a 1-based position and returns it 0-based; ok is false when the input
// is not a number.
func (c *Console) askIndex(ctx context.Context, prompt string) (int, bool, error) {
	raw, err := c.ask(ctx, prompt)
	if err != nil {
		return 0, false, err
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		c.say("err.number")
		return 0, false, nil
	}
	return n - 1, true, nil
}

// selectInvoice lists the invoices and reads a choice. It returns nil when nothing valid
// was picked.
func (c *Console) selectInvoice(ctx context.Context) (*models.Invoice, error) {
	invoices := c.invoices.List()
	if len(invoices) == 0 {
		c.say("err.no_inv")
		return nil, nil
	}
	c.say("list.invoices")
	for i, inv := range invoices {
		c.say("list.invoice", i+1, inv.Number())
	}
	i, ok, err := c.askIndex(ctx, "prompt.inv")
	if err != nil || !ok {
		return nil, err
	}
	if i < 0 || i >= len(invoices) {
		c.say("err.bad_inv")
		return nil, nil
	}
	return invoices[i], nil
}

func (c *Console) addPurchase(ctx context.Context) error {
	inv, err := c.selectInvoice(ctx)
	if err != nil || inv == nil {
		return err
	}

	articles := c.catalog.List()
	if len(articles) == 0 {
		c.say("err.no_art")
		return nil
	}
	c.say("list.articles")
	for i, a := range articles {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, a.String())
	}
	i, ok, err := c.askIndex(ctx, "prompt.art")
	if err != nil || !ok {
		return err
	}
	article, err := c.catalog.At(i)
	if err != nil {
		c.say("err.bad_art")
		return nil
	}

	var qty int
	for {
		raw, err := c.ask(ctx, "prompt.qty")
		if err != nil {
			return err
		}
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			c.say("err.number")
			continue
		}
		v := make(validation.Violations)
		validation.Positive("quantity", n, v)
		if !v.Empty() {
			c.violations(v)
			continue
		}
		qty = n
		break
	}

	c.report(c.invoices.AddLineItem(inv.Number(), article, qty), "ok.purchase")
	return nil
}

func (c *Console) showInvoices() {
	invoices := c.invoices.List()
	if len(invoices) == 0 {
		c.say("none.invoices")
		return
	}
	for _, inv := range invoices {
		fmt.Fprintln(c.out, inv.String())
		c.say("total", inv.Total().StringFixed(2))
	}
}

func (c *Console) exportPurchases(ctx context.Context) error {
	inv, err := c.selectInvoice(ctx)
	if err != nil || inv == nil {
		return err
	}
	path, err := c.ask(ctx, "prompt.path")
	if err != nil {
		return err
	}

	sink := c.sink
	if path != "" {
		sink = export.FileSink{Path: path}
	}
	if sink == nil {
		c.say("err.no_sink")
		return nil
	}
	if err := c.invoices.Export(ctx, inv.Number(), sink); err != nil {
		c.report(err, "")
		return nil
	}
	c.say("ok.export", inv.Number())
	return nil
}
