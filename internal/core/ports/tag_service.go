package ports

import (
	"context"

	"github.com/vbforge/product-catalog/internal/core/domain"
)

type TagService interface {
	Create(ctx context.Context, name string) (*domain.Tag, error)
	Get(ctx context.Context, id string) (*domain.Tag, error)
	GetByName(ctx context.Context, name string) (*domain.Tag, error)
	List(ctx context.Context) ([]domain.Tag, error)
	Update(ctx context.Context, id, name string) (*domain.Tag, error)
	Delete(ctx context.Context, id string) error
}
