package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/persistence"
	"github.com/spec-kit/blog-service/internal/repository"
)

// wordsPerMinute drives the read-time estimate.
const wordsPerMinute = 200

// PostService coordinates blog post workflows.
type PostService struct {
	posts      repository.PostRepository
	tags       repository.TagRepository
	cache      *persistence.PostCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PostDependencies bundles requirements for the post service.
type PostDependencies struct {
	PostRepo   repository.PostRepository
	TagRepo    repository.TagRepository
	Cache      *persistence.PostCache
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewPostService builds the service.
func NewPostService(deps PostDependencies) *PostService {
	return &PostService{
		posts:      deps.PostRepo,
		tags:       deps.TagRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// PostCreateInput describes post creation payload.
type PostCreateInput struct {
	Title       string
	Description string
	Content     string
	Status      domain.PostStatus
	ImageURL    string
	TagNames    []string
}

// PostUpdateInput describes post update payload.
type PostUpdateInput struct {
	Title       string
	Description string
	Content     string
	Status      domain.PostStatus
	ImageURL    string
	TagNames    []string
}

// PostListInput describes listing filters.
type PostListInput struct {
	Status    *domain.PostStatus
	AuthorID  *string
	Search    *string
	SortBy    string
	Direction string
	Page      int
	PageSize  int
}

// Create persists a new post authored by the given user. The slug is derived
// from the title, with a numeric suffix on collision.
func (s *PostService) Create(ctx context.Context, author *domain.User, in PostCreateInput) (*domain.Post, error) {
	slug, err := s.GenerateSlug(ctx, in.Title)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.PostStatusDraft
	}

	post := &domain.Post{
		Title:       in.Title,
		Slug:        slug,
		Description: in.Description,
		Content:     in.Content,
		AuthorID:    author.ID,
		Status:      status,
		ReadTime:    estimateReadTime(in.Content),
		ImageURL:    in.ImageURL,
	}
	if status == domain.PostStatusPublished {
		now := time.Now()
		post.PostDate = &now
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, post, in.TagNames); err != nil {
		return nil, err
	}

	if post.Status == domain.PostStatusPublished {
		s.publishEvent(ctx, post)
	}
	return post, nil
}

// Update replaces the mutable fields of an existing post. Only the author
// may update it.
func (s *PostService) Update(ctx context.Context, actor *domain.User, id string, in PostUpdateInput) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.ID {
		return nil, ErrNotResourceOwner
	}

	wasPublished := post.Status == domain.PostStatusPublished
	oldSlug := post.Slug

	if in.Title != "" && in.Title != post.Title {
		slug, err := s.GenerateSlug(ctx, in.Title)
		if err != nil {
			return nil, err
		}
		post.Title = in.Title
		post.Slug = slug
	}
	post.Description = in.Description
	post.Content = in.Content
	post.ReadTime = estimateReadTime(in.Content)
	if in.ImageURL != "" {
		post.ImageURL = in.ImageURL
	}
	if in.Status != "" {
		post.Status = in.Status
	}
	if post.Status == domain.PostStatusPublished && post.PostDate == nil {
		now := time.Now()
		post.PostDate = &now
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	if in.TagNames != nil {
		if err := s.attachTags(ctx, post, in.TagNames); err != nil {
			return nil, err
		}
	}

	s.invalidate(ctx, oldSlug)
	if !wasPublished && post.Status == domain.PostStatusPublished {
		s.publishEvent(ctx, post)
	}
	return post, nil
}

// Delete removes a post. Only the author may delete it.
func (s *PostService) Delete(ctx context.Context, actor *domain.User, id string) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.ID {
		return ErrNotResourceOwner
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, post.Slug)
	return nil
}

// GetByID fetches a single post.
func (s *PostService) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// GetBySlug fetches a single post, consulting the cache first. Cache
// failures degrade to a repository read.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	if payload, err := s.cache.GetPost(ctx, slug); err == nil {
		var post domain.Post
		if err := unmarshalPost(payload, &post); err == nil {
			return &post, nil
		}
	} else if !persistence.IsMiss(err) {
		s.logger.Warn("post cache read failed", zap.String("slug", slug), zap.Error(err))
	}

	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if payload, err := marshalPost(post); err == nil {
		if err := s.cache.SetPost(ctx, slug, payload); err != nil {
			s.logger.Warn("post cache write failed", zap.String("slug", slug), zap.Error(err))
		}
	}
	return post, nil
}

// List returns posts matching the filter plus the total match count.
func (s *PostService) List(ctx context.Context, in PostListInput) ([]*domain.Post, int64, error) {
	if in.Page < 0 {
		return nil, 0, errors.New("page index must not be negative")
	}
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	filter := repository.PostFilter{
		Status:   in.Status,
		AuthorID: in.AuthorID,
		Search:   in.Search,
		SortBy:   in.SortBy,
		SortDesc: !strings.EqualFold(in.Direction, "asc"),
		Limit:    pageSize,
		Offset:   in.Page * pageSize,
	}
	return s.posts.List(ctx, filter)
}

// RecordView bumps the post's view counter. Best effort.
func (s *PostService) RecordView(ctx context.Context, postID string) {
	if _, err := s.cache.IncrementViews(ctx, postID); err != nil {
		s.logger.Debug("view counter update failed", zap.String("post_id", postID), zap.Error(err))
	}
}

// SetImageURL stores the uploaded image location on the post. Only the
// author may attach an image.
func (s *PostService) SetImageURL(ctx context.Context, actor *domain.User, id, imageURL string) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.ID {
		return nil, ErrNotResourceOwner
	}
	post.ImageURL = imageURL
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	s.invalidate(ctx, post.Slug)
	return post, nil
}

// GenerateSlug derives a unique slug from the title.
func (s *PostService) GenerateSlug(ctx context.Context, title string) (string, error) {
	base := slugify(title)
	if base == "" {
		base = "post"
	}

	slug := base
	for i := 2; ; i++ {
		exists, err := s.posts.ExistsBySlug(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *PostService) attachTags(ctx context.Context, post *domain.Post, tagNames []string) error {
	tagIDs := make([]string, 0, len(tagNames))
	post.Tags = post.Tags[:0]
	for _, name := range tagNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, err := s.tags.GetByName(ctx, name)
		if errors.Is(err, pgx.ErrNoRows) {
			tag = &domain.Tag{Name: name, Slug: slugify(name)}
			if err := s.tags.Create(ctx, tag); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		tagIDs = append(tagIDs, tag.ID)
		post.Tags = append(post.Tags, *tag)
	}
	return s.posts.ReplaceTags(ctx, post.ID, tagIDs)
}

func (s *PostService) publishEvent(ctx context.Context, post *domain.Post) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventPostPublished, post.AuthorID, events.PostPublishedPayload{
		PostID: post.ID,
		Slug:   post.Slug,
		Title:  post.Title,
		Status: post.Status,
	}))
}

func (s *PostService) invalidate(ctx context.Context, slug string) {
	if err := s.cache.InvalidatePost(ctx, slug); err != nil {
		s.logger.Warn("post cache invalidation failed", zap.String("slug", slug), zap.Error(err))
	}
}

func estimateReadTime(content string) string {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}
