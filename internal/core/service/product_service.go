package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vbforge/product-catalog/internal/core/domain"
	"github.com/vbforge/product-catalog/internal/core/ports"
)

// ProductService implements the catalog operations on products.
type ProductService struct {
	products ports.ProductRepository
	tags     ports.TagRepository
	logger   zerolog.Logger
}

func NewProductService(products ports.ProductRepository, tags ports.TagRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{products: products, tags: tags, logger: logger}
}

func (s *ProductService) Create(ctx context.Context, input ports.ProductInput) (*domain.Product, error) {
	if input.Price <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	now := time.Now().UTC()
	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Tags:        input.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("product_id", created.ID).Str("name", created.Name).Msg("product created")
	return created, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.FindAll(ctx)
}

func (s *ProductService) Update(ctx context.Context, id string, input ports.ProductInput) (*domain.Product, error) {
	if input.Price <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	if input.Tags != nil {
		product.Tags = input.Tags
	}
	product.UpdatedAt = time.Now().UTC()

	return s.products.Update(ctx, product)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

func (s *ProductService) SearchByName(ctx context.Context, name string) ([]domain.Product, error) {
	return s.products.SearchByName(ctx, name)
}

func (s *ProductService) FindByPriceRange(ctx context.Context, min, max float64) ([]domain.Product, error) {
	return s.products.FindByPriceRange(ctx, min, max)
}

func (s *ProductService) FindByTagName(ctx context.Context, tagName string) ([]domain.Product, error) {
	return s.products.FindByTagName(ctx, tagName)
}

// AddTag attaches an existing tag to a product. Attaching a tag twice is a
// no-op rather than an error.
func (s *ProductService) AddTag(ctx context.Context, productID, tagID string) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	tag, err := s.tags.FindByID(ctx, tagID)
	if err != nil {
		return nil, err
	}

	if product.HasTag(tag.Name) {
		return product, nil
	}
	product.Tags = append(product.Tags, tag.Name)
	product.UpdatedAt = time.Now().UTC()

	return s.products.Update(ctx, product)
}

// RemoveTag detaches a tag from a product. Removing a tag the product does
// not carry is a no-op.
func (s *ProductService) RemoveTag(ctx context.Context, productID, tagID string) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	tag, err := s.tags.FindByID(ctx, tagID)
	if err != nil {
		return nil, err
	}

	kept := product.Tags[:0]
	for _, t := range product.Tags {
		if t != tag.Name {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(product.Tags) {
		return product, nil
	}
	product.Tags = kept
	product.UpdatedAt = time.Now().UTC()

	return s.products.Update(ctx, product)
}
