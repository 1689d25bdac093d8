package services

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/diewo77/go-facturation/internal/logging"
	"github.com/diewo77/go-facturation/internal/models"
	"github.com/diewo77/go-facturation/validation"
)

// ProductInput carries the fields entered for a new catalog article.
type ProductInput struct {
	Code     string
	Name     string
	Price    decimal.Decimal
	Category string
}

func (in ProductInput) validate() error {
	v := make(validation.Violations)
	validation.Required("designation", in.Name, v)
	validation.Word("designation", in.Name, v)
	validation.NonNegative("price", in.Price, v)
	return v.Err()
}

// Catalog keeps the articles available for purchase, in creation order.
type Catalog struct {
	logger *zap.Logger

	mu       sync.RWMutex
	articles []models.Article
}

func NewCatalog(logger *zap.Logger) *Catalog {
	return &Catalog{logger: logging.OrNop(logger)}
}

// AddProduct validates in and registers a plain product.
func (c *Catalog) AddProduct(in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := models.NewProduct(in.Code, in.Name, in.Price, in.Category)
	if err != nil {
		return nil, models.Unexpected("create product", err)
	}
	c.add(p)
	return p, nil
}

// AddDiscountedProduct validates in and registers a product sold at discount percent off.
func (c *Catalog) AddDiscountedProduct(in ProductInput, discount decimal.Decimal) (*models.DiscountedProduct, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := models.NewDiscountedProduct(in.Code, in.Name, in.Price, in.Category, discount)
	if err != nil {
		return nil, models.Unexpected("create discounted product", err)
	}
	c.add(p)
	return p, nil
}

func (c *Catalog) add(a models.Article) {
	c.mu.Lock()
	c.articles = append(c.articles, a)
	c.mu.Unlock()

	c.logger.Info("article created",
		zap.String("article", a.String()),
		zap.String("effective_price", a.EffectivePrice().String()))
}

// List returns the articles in creation order.
func (c *Catalog) List() []models.Article {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Article, len(c.articles))
	copy(out, c.articles)
	return out
}

// At returns the article at position i (0-based).
func (c *Catalog) At(i int) (models.Article, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.articles) {
		return nil, fmt.Errorf("article %d: %w", i+1, models.ErrProductNotFound)
	}
	return c.articles[i], nil
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.articles)
}
