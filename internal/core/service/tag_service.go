package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vbforge/product-catalog/internal/core/domain"
	"github.com/vbforge/product-catalog/internal/core/ports"
)

// TagService implements the catalog operations on tags.
type TagService struct {
	repo   ports.TagRepository
	logger zerolog.Logger
}

func NewTagService(repo ports.TagRepository, logger zerolog.Logger) *TagService {
	return &TagService{repo: repo, logger: logger}
}

func (s *TagService) Create(ctx context.Context, name string) (*domain.Tag, error) {
	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Tag{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("tag_id", created.ID).Str("name", created.Name).Msg("tag created")
	return created, nil
}

func (s *TagService) Get(ctx context.Context, id string) (*domain.Tag, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TagService) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	return s.repo.FindByName(ctx, name)
}

func (s *TagService) List(ctx context.Context) ([]domain.Tag, error) {
	return s.repo.FindAll(ctx)
}

func (s *TagService) Update(ctx context.Context, id, name string) (*domain.Tag, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tag.Name = name
	tag.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, tag)
}

func (s *TagService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("tag_id", id).Msg("tag deleted")
	return nil
}
