package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
)

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*domain.Post
	tags  map[string][]string // postID -> tagIDs
	next  int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*domain.Post), tags: make(map[string][]string)}
}

func (f *fakePostRepo) Create(_ context.Context, post *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	post.ID = fmt.Sprintf("post-%d", f.next)
	stored := *post
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakePostRepo) Update(_ context.Context, post *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[post.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *post
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakePostRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) GetByID(_ context.Context, id string) (*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePostRepo) GetBySlug(_ context.Context, slug string) (*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.Slug == slug {
			copied := *p
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePostRepo) List(_ context.Context, filter repository.PostFilter) ([]*domain.Post, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*domain.Post
	for _, p := range f.posts {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.AuthorID != nil && p.AuthorID != *filter.AuthorID {
			continue
		}
		copied := *p
		matched = append(matched, &copied)
	}
	return matched, int64(len(matched)), nil
}

func (f *fakePostRepo) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePostRepo) ReplaceTags(_ context.Context, postID string, tagIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags[postID] = append([]string{}, tagIDs...)
	return nil
}

type fakeTagRepo struct {
	mu   sync.Mutex
	tags map[string]*domain.Tag // keyed by name
	next int
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: make(map[string]*domain.Tag)}
}

func (f *fakeTagRepo) Create(_ context.Context, tag *domain.Tag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	tag.ID = fmt.Sprintf("tag-%d", f.next)
	stored := *tag
	f.tags[tag.Name] = &stored
	return nil
}

func (f *fakeTagRepo) Update(_ context.Context, tag *domain.Tag) error { return nil }
func (f *fakeTagRepo) Delete(_ context.Context, id string) error      { return nil }

func (f *fakeTagRepo) GetByID(_ context.Context, id string) (*domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tags {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTagRepo) GetBySlug(_ context.Context, slug string) (*domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tags {
		if t.Slug == slug {
			copied := *t
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTagRepo) GetByName(_ context.Context, name string) (*domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tags[name]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTagRepo) List(_ context.Context) ([]*domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Tag
	for _, t := range f.tags {
		copied := *t
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeTagRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, err := f.GetByName(ctx, name)
	return err == nil, nil
}

func newTestPostService() (*PostService, *fakePostRepo) {
	repo := newFakePostRepo()
	svc := NewPostService(PostDependencies{
		PostRepo: repo,
		TagRepo:  newFakeTagRepo(),
		Logger:   zap.NewNop(),
	})
	return svc, repo
}

func TestCreatePostDefaultsToDraft(t *testing.T) {
	svc, _ := newTestPostService()
	author := &domain.User{ID: "user-1", Username: "alice"}

	post, err := svc.Create(context.Background(), author, PostCreateInput{
		Title:   "My First Post",
		Content: "hello world",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PostStatusDraft, post.Status)
	assert.Equal(t, "my-first-post", post.Slug)
	assert.Equal(t, "user-1", post.AuthorID)
	assert.Nil(t, post.PostDate)
	assert.Equal(t, "1 min read", post.ReadTime)
}

func TestCreatePublishedPostSetsPostDate(t *testing.T) {
	svc, _ := newTestPostService()
	author := &domain.User{ID: "user-1", Username: "alice"}

	post, err := svc.Create(context.Background(), author, PostCreateInput{
		Title:   "Announcement",
		Content: strings.Repeat("word ", 450),
		Status:  domain.PostStatusPublished,
	})
	require.NoError(t, err)

	require.NotNil(t, post.PostDate)
	assert.Equal(t, "3 min read", post.ReadTime)
}

func TestCreatePostSlugCollision(t *testing.T) {
	svc, _ := newTestPostService()
	author := &domain.User{ID: "user-1", Username: "alice"}
	ctx := context.Background()

	first, err := svc.Create(ctx, author, PostCreateInput{Title: "Same Title"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, author, PostCreateInput{Title: "Same Title"})
	require.NoError(t, err)
	third, err := svc.Create(ctx, author, PostCreateInput{Title: "Same Title"})
	require.NoError(t, err)

	assert.Equal(t, "same-title", first.Slug)
	assert.Equal(t, "same-title-2", second.Slug)
	assert.Equal(t, "same-title-3", third.Slug)
}

func TestCreatePostAttachesTags(t *testing.T) {
	svc, repo := newTestPostService()
	author := &domain.User{ID: "user-1", Username: "alice"}

	post, err := svc.Create(context.Background(), author, PostCreateInput{
		Title:    "Tagged Post",
		TagNames: []string{"Go", " ", "Databases"},
	})
	require.NoError(t, err)

	require.Len(t, post.Tags, 2)
	assert.Equal(t, "Go", post.Tags[0].Name)
	assert.Equal(t, "go", post.Tags[0].Slug)
	assert.Len(t, repo.tags[post.ID], 2)
}

func TestUpdatePostByNonAuthor(t *testing.T) {
	svc, _ := newTestPostService()
	ctx := context.Background()
	author := &domain.User{ID: "user-1", Username: "alice"}
	other := &domain.User{ID: "user-2", Username: "bob"}

	post, err := svc.Create(ctx, author, PostCreateInput{Title: "Mine"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, other, post.ID, PostUpdateInput{Content: "hijacked"})
	assert.ErrorIs(t, err, ErrNotResourceOwner)

	err = svc.Delete(ctx, other, post.ID)
	assert.ErrorIs(t, err, ErrNotResourceOwner)
}

func TestUpdatePostPublishTransition(t *testing.T) {
	svc, _ := newTestPostService()
	ctx := context.Background()
	author := &domain.User{ID: "user-1", Username: "alice"}

	post, err := svc.Create(ctx, author, PostCreateInput{Title: "Draft Post", Content: "wip"})
	require.NoError(t, err)
	require.Nil(t, post.PostDate)

	updated, err := svc.Update(ctx, author, post.ID, PostUpdateInput{
		Content: "done",
		Status:  domain.PostStatusPublished,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PostStatusPublished, updated.Status)
	assert.NotNil(t, updated.PostDate)
}

func TestUpdatePostTitleRegeneratesSlug(t *testing.T) {
	svc, _ := newTestPostService()
	ctx := context.Background()
	author := &domain.User{ID: "user-1", Username: "alice"}

	post, err := svc.Create(ctx, author, PostCreateInput{Title: "Old Title"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, author, post.ID, PostUpdateInput{Title: "New Title"})
	require.NoError(t, err)
	assert.Equal(t, "new-title", updated.Slug)
}

func TestDeletePostByAuthor(t *testing.T) {
	svc, _ := newTestPostService()
	ctx := context.Background()
	author := &domain.User{ID: "user-1", Username: "alice"}

	post, err := svc.Create(ctx, author, PostCreateInput{Title: "Short Lived"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, author, post.ID))

	_, err = svc.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestListRejectsNegativePage(t *testing.T) {
	svc, _ := newTestPostService()

	_, _, err := svc.List(context.Background(), PostListInput{Page: -1})
	assert.Error(t, err)
}
