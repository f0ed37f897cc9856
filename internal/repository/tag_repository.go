package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/school-portal/internal/domain"
)

// TagRepository encapsulates tag persistence.
type TagRepository interface {
	List(ctx context.Context) ([]domain.Tag, error)
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)
	Create(ctx context.Context, tag *domain.Tag) error
	Update(ctx context.Context, tag *domain.Tag) error
	Delete(ctx context.Context, id int64) error
	Ensure(ctx context.Context, tag *domain.Tag) error
}

type tagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository instantiates repository.
func NewTagRepository(pool *pgxpool.Pool) TagRepository {
	return &tagRepository{pool: pool}
}

const selectTag = `
        SELECT t.id, t.name, t.slug, t.description,
               (SELECT COUNT(*) FROM publication_tags pt WHERE pt.tag_id = t.id)
        FROM tags t`

func (r *tagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.pool.Query(ctx, selectTag+` ORDER BY t.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.Description, &tag.PublicationCount); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *tagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	var tag domain.Tag
	err := r.pool.QueryRow(ctx, selectTag+` WHERE t.id=$1`, id).
		Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.Description, &tag.PublicationCount)
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	const query = `INSERT INTO tags (name, slug, description) VALUES ($1, $2, $3) RETURNING id`
	return r.pool.QueryRow(ctx, query, tag.Name, tag.Slug, tag.Description).Scan(&tag.ID)
}

func (r *tagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	const query = `UPDATE tags SET name=$1, slug=$2, description=$3 WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, tag.Name, tag.Slug, tag.Description, tag.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tagRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Ensure inserts the tag unless one with the same name or slug exists.
func (r *tagRepository) Ensure(ctx context.Context, tag *domain.Tag) error {
	const query = `INSERT INTO tags (name, slug, description) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`
	_, err := r.pool.Exec(ctx, query, tag.Name, tag.Slug, tag.Description)
	return err
}
