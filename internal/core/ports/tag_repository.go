package ports

import (
	"context"

	"github.com/vbforge/product-catalog/internal/core/domain"
)

// TagRepository defines the persistence interface for tags.
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) (*domain.Tag, error)
	FindByID(ctx context.Context, id string) (*domain.Tag, error)
	FindByName(ctx context.Context, name string) (*domain.Tag, error)
	FindAll(ctx context.Context) ([]domain.Tag, error)
	Update(ctx context.Context, tag *domain.Tag) (*domain.Tag, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
