package ports

import (
	"context"

	"github.com/vbforge/product-catalog/internal/core/domain"
)

// ProductRepository defines the persistence interface for products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	SearchByName(ctx context.Context, name string) ([]domain.Product, error)
	FindByPriceRange(ctx context.Context, min, max float64) ([]domain.Product, error)
	FindByTagName(ctx context.Context, tagName string) ([]domain.Product, error)
	Count(ctx context.Context) (int64, error)
}
