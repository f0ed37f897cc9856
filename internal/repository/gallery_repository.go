package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/school-portal/internal/domain"
)

// GalleryRepository manages gallery media records.
type GalleryRepository interface {
	List(ctx context.Context, mediaType *domain.MediaType) ([]domain.GalleryItem, error)
	GetByID(ctx context.Context, id int64) (*domain.GalleryItem, error)
	Create(ctx context.Context, item *domain.GalleryItem) error
	Delete(ctx context.Context, id int64) error
}

type galleryRepository struct {
	pool *pgxpool.Pool
}

// NewGalleryRepository instantiates repository.
func NewGalleryRepository(pool *pgxpool.Pool) GalleryRepository {
	return &galleryRepository{pool: pool}
}

const selectGalleryItem = `
        SELECT g.id, g.title, g.description, g.url, g.storage_key, g.type, g.author_id,
               u.full_name, u.username, g.uploaded_at
        FROM gallery_items g JOIN users u ON u.id = g.author_id`

func (r *galleryRepository) List(ctx context.Context, mediaType *domain.MediaType) ([]domain.GalleryItem, error) {
	var where whereClause
	if mediaType != nil {
		where.add("g.type=$%d", *mediaType)
	}
	rows, err := r.pool.Query(ctx, selectGalleryItem+where.String()+` ORDER BY g.uploaded_at DESC`, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.GalleryItem
	for rows.Next() {
		item, err := scanGalleryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *galleryRepository) GetByID(ctx context.Context, id int64) (*domain.GalleryItem, error) {
	return scanGalleryItem(r.pool.QueryRow(ctx, selectGalleryItem+` WHERE g.id=$1`, id))
}

func (r *galleryRepository) Create(ctx context.Context, item *domain.GalleryItem) error {
	const query = `
        INSERT INTO gallery_items (title, description, url, storage_key, type, author_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, uploaded_at`
	return r.pool.QueryRow(ctx, query,
		item.Title,
		item.Description,
		item.URL,
		item.StorageKey,
		item.Type,
		item.AuthorID,
	).Scan(&item.ID, &item.UploadedAt)
}

func (r *galleryRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM gallery_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanGalleryItem(row pgx.Row) (*domain.GalleryItem, error) {
	var (
		item   domain.GalleryItem
		author domain.AuthorSummary
	)
	if err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.URL,
		&item.StorageKey,
		&item.Type,
		&item.AuthorID,
		&author.FullName,
		&author.Username,
		&item.UploadedAt,
	); err != nil {
		return nil, err
	}
	author.ID = item.AuthorID
	item.Author = &author
	return &item, nil
}
