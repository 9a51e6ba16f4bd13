package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/catalog"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
)

type ProductService struct {
	products repository.ProductRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewProductService(products repository.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		products: products,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *ProductService) Create(ctx context.Context, adminID string, req domain.CreateProductRequest) (*domain.Product, error) {
	p := req.NewProduct(uuid.New().String(), adminID, s.now().UTC())
	if err := s.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created",
		zap.String("product_id", p.ID),
		zap.String("sku", p.SKU),
		zap.String("admin_id", adminID))
	return p, nil
}

// Update applies every field present in the patch, zero values included.
func (s *ProductService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	if !patch.Apply(p) {
		return p, nil
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.products.Update(ctx, p); err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return notFound(err, ErrProductNotFound)
	}
	s.logger.Info("Product removed", zap.String("product_id", id))
	return nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, q catalog.Query) ([]domain.Product, error) {
	return s.products.Find(ctx, q)
}

func (s *ProductService) BestSeller(ctx context.Context) (*domain.Product, error) {
	ps, err := s.products.Find(ctx, catalog.BestSellerQuery())
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, ErrNoBestSeller
	}
	return &ps[0], nil
}

func (s *ProductService) NewArrivals(ctx context.Context) ([]domain.Product, error) {
	return s.products.Find(ctx, catalog.NewArrivalsQuery())
}

func (s *ProductService) Similar(ctx context.Context, id string) ([]domain.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.products.Find(ctx, catalog.SimilarQuery(p))
}
