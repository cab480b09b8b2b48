package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// PostFilter narrows and pages post listings.
type PostFilter struct {
	Status   *domain.PostStatus
	AuthorID *string
	Search   *string
	SortBy   string
	SortDesc bool
	Limit    int
	Offset   int
}

// PostRepository defines persistence access for blog posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)
	List(ctx context.Context, filter PostFilter) ([]*domain.Post, int64, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	ReplaceTags(ctx context.Context, postID string, tagIDs []string) error
}

type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository returns a Postgres-backed implementation.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

const postColumns = `id, title, slug, description, content, author_id, status, post_date, read_time, image_url, created_at, updated_at`

// sortColumns whitelists client-supplied sort keys.
var sortColumns = map[string]string{
	"postDate":  "post_date",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	const query = `
        INSERT INTO blog_posts (title, slug, description, content, author_id, status, post_date, read_time, image_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		post.Title,
		post.Slug,
		post.Description,
		post.Content,
		post.AuthorID,
		post.Status,
		post.PostDate,
		post.ReadTime,
		post.ImageURL,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	const query = `
        UPDATE blog_posts
        SET title=$1, slug=$2, description=$3, content=$4, status=$5, post_date=$6, read_time=$7, image_url=$8, updated_at=NOW()
        WHERE id=$9`

	cmd, err := r.pool.Exec(ctx, query,
		post.Title,
		post.Slug,
		post.Description,
		post.Content,
		post.Status,
		post.PostDate,
		post.ReadTime,
		post.ImageURL,
		post.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	post, err := r.getOne(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := r.getOne(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE slug=$1`, slug)
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]*domain.Post, int64, error) {
	where := " WHERE 1=1"
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		where += fmt.Sprintf(" AND author_id=$%d", len(args))
	}
	if filter.Search != nil && *filter.Search != "" {
		args = append(args, "%"+*filter.Search+"%")
		where += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blog_posts`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := sortColumns[filter.SortBy]
	if !ok {
		sortCol = "post_date"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM blog_posts%s ORDER BY %s %s NULLS LAST LIMIT $%d OFFSET $%d`,
		postColumns, where, sortCol, direction, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, post := range posts {
		if err := r.loadTags(ctx, post); err != nil {
			return nil, 0, err
		}
	}
	return posts, total, nil
}

func (r *postRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM blog_posts WHERE slug=$1)`, slug).Scan(&exists)
	return exists, err
}

func (r *postRepository) ReplaceTags(ctx context.Context, postID string, tagIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id=$1`, postID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)`, postID, tagID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *postRepository) getOne(ctx context.Context, query string, arg any) (*domain.Post, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	return scanPost(row)
}

func (r *postRepository) loadTags(ctx context.Context, post *domain.Post) error {
	const query = `
        SELECT t.id, t.name, t.slug
        FROM tags t
        JOIN post_tags pt ON pt.tag_id = t.id
        WHERE pt.post_id = $1
        ORDER BY t.name`

	rows, err := r.pool.Query(ctx, query, post.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	post.Tags = post.Tags[:0]
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
			return err
		}
		post.Tags = append(post.Tags, tag)
	}
	return rows.Err()
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Description,
		&post.Content,
		&post.AuthorID,
		&post.Status,
		&post.PostDate,
		&post.ReadTime,
		&post.ImageURL,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}
