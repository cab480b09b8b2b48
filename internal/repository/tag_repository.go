package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// TagRepository defines persistence access for tags.
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	Update(ctx context.Context, tag *domain.Tag) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	GetByName(ctx context.Context, name string) (*domain.Tag, error)
	List(ctx context.Context) ([]*domain.Tag, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type tagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository returns a Postgres-backed implementation.
func NewTagRepository(pool *pgxpool.Pool) TagRepository {
	return &tagRepository{pool: pool}
}

func (r *tagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	const query = `INSERT INTO tags (name, slug) VALUES ($1, $2) RETURNING id`
	return r.pool.QueryRow(ctx, query, tag.Name, tag.Slug).Scan(&tag.ID)
}

func (r *tagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tags SET name=$1, slug=$2 WHERE id=$3`, tag.Name, tag.Slug, tag.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tagRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tagRepository) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	return r.getOne(ctx, `SELECT id, name, slug FROM tags WHERE id=$1`, id)
}

func (r *tagRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	return r.getOne(ctx, `SELECT id, name, slug FROM tags WHERE slug=$1`, slug)
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	return r.getOne(ctx, `SELECT id, name, slug FROM tags WHERE name=$1`, name)
}

func (r *tagRepository) List(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	return tags, rows.Err()
}

func (r *tagRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tags WHERE name=$1)`, name).Scan(&exists)
	return exists, err
}

func (r *tagRepository) getOne(ctx context.Context, query string, arg any) (*domain.Tag, error) {
	var tag domain.Tag
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
		return nil, err
	}
	return &tag, nil
}
