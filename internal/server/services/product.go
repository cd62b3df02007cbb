package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"required"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Stock       int             `json:"stock" validate:"gte=0"`
	IsActive    *bool           `json:"isActive"`
}

// ProductService serves the catalog. List keeps the last good result and
// serves it when the store is unavailable.
type ProductService struct {
	repomanager repomanager.RepositoryManager
	validate    *validator.Validate
	logger      logging.Logger
	snapshot    atomic.Pointer[[]*models.Product]
}

func NewProductService(m repomanager.RepositoryManager, logger logging.Logger) *ProductService {
	return &ProductService{
		repomanager: m,
		validate:    validator.New(),
		logger:      logger.With("module", "product_service"),
	}
}

func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	list, err := s.repomanager.Products().List(ctx)
	if err != nil {
		if cached := s.snapshot.Load(); cached != nil {
			s.logger.Warn(ctx, "serving stale catalog", "error", err.Error())
			return *cached, nil
		}
		return nil, fmt.Errorf("error listing products: %w", err)
	}

	s.snapshot.Store(&list)
	return list, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.repomanager.Products().Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrProductNotFound
		}
		return nil, fmt.Errorf("error loading product: %w", err)
	}
	return p, nil
}

// Create adds a product to the catalog. Admin only.
func (s *ProductService) Create(ctx context.Context, identity models.Identity, req CreateProductRequest) (*models.Product, error) {
	if err := RequireRole(identity, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.create(ctx, req)
}

// Delete removes a product from the catalog. Admin only.
func (s *ProductService) Delete(ctx context.Context, identity models.Identity, id string) error {
	if err := RequireRole(identity, models.RoleAdmin); err != nil {
		return err
	}

	if err := s.repomanager.Products().Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrProductNotFound
		}
		return fmt.Errorf("error deleting product: %w", err)
	}

	s.logger.Info(ctx, "product deleted", "product_id", id, "by", identity.ID)
	return nil
}

// Seed loads a JSON array of products into an empty catalog and returns how
// many were added. A non-empty catalog is left untouched.
func (s *ProductService) Seed(ctx context.Context, path string) (int, error) {
	n, err := s.repomanager.Products().Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("error counting products: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var reqs []CreateProductRequest
	if err := json.Unmarshal(data, &reqs); err != nil {
		return 0, fmt.Errorf("invalid seed file %s: %w", path, err)
	}

	for i, req := range reqs {
		if _, err := s.create(ctx, req); err != nil {
			return i, fmt.Errorf("seed product %d: %w", i, err)
		}
	}

	s.logger.Info(ctx, "catalog seeded", "count", len(reqs), "file", path)
	return len(reqs), nil
}

func (s *ProductService) create(ctx context.Context, req CreateProductRequest) (*models.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)

	if err := s.validate.StructCtx(ctx, req); err != nil || !req.Price.IsPositive() {
		return nil, common.ErrInvalidProduct
	}

	image := strings.TrimSpace(req.Image)
	if image == "" {
		image = models.DefaultProductImage
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	p, err := s.repomanager.Products().Create(ctx, &models.Product{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Image:       image,
		Description: req.Description,
		Stock:       req.Stock,
		IsActive:    active,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating product: %w", err)
	}
	return p, nil
}
