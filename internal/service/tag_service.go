package service

import (
	"context"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
)

// TagService coordinates tag management.
type TagService struct {
	tags repository.TagRepository
}

// NewTagService builds the service.
func NewTagService(tags repository.TagRepository) *TagService {
	return &TagService{tags: tags}
}

// Create adds a tag with a slug derived from its name.
func (s *TagService) Create(ctx context.Context, name string) (*domain.Tag, error) {
	exists, err := s.tags.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSlugTaken
	}

	tag := &domain.Tag{Name: name, Slug: slugify(name)}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// Update renames a tag, regenerating its slug.
func (s *TagService) Update(ctx context.Context, id, name string) (*domain.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tag.Name = name
	tag.Slug = slugify(name)
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete removes a tag; post associations cascade away in the database.
func (s *TagService) Delete(ctx context.Context, id string) error {
	if _, err := s.tags.GetByID(ctx, id); err != nil {
		return err
	}
	return s.tags.Delete(ctx, id)
}

// GetByID fetches a tag.
func (s *TagService) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	return s.tags.GetByID(ctx, id)
}

// GetBySlug fetches a tag by slug.
func (s *TagService) GetBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	return s.tags.GetBySlug(ctx, slug)
}

// List returns all tags ordered by name.
func (s *TagService) List(ctx context.Context) ([]*domain.Tag, error) {
	return s.tags.List(ctx)
}
