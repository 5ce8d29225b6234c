package ports

import (
	"context"

	"github.com/vbforge/product-catalog/internal/core/domain"
)

// ProductInput carries the mutable product fields accepted from clients.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Tags        []string
}

type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, id string, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	SearchByName(ctx context.Context, name string) ([]domain.Product, error)
	FindByPriceRange(ctx context.Context, min, max float64) ([]domain.Product, error)
	FindByTagName(ctx context.Context, tagName string) ([]domain.Product, error)
	AddTag(ctx context.Context, productID, tagID string) (*domain.Product, error)
	RemoveTag(ctx context.Context, productID, tagID string) (*domain.Product, error)
}
