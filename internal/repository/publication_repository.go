package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/school-portal/internal/domain"
)

// PublicationFilter captures public listing parameters.
type PublicationFilter struct {
	Status     *domain.PublicationStatus
	TagID      *int64
	CategoryID *int64
	Search     string
	Page       Page
}

// PublicationRepository encapsulates publication persistence.
type PublicationRepository interface {
	List(ctx context.Context, filter PublicationFilter) ([]domain.Publication, int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Publication, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Publication, error)
	Create(ctx context.Context, publication *domain.Publication, tagIDs []int64) error
	Update(ctx context.Context, publication *domain.Publication, tagIDs []int64) error
	Delete(ctx context.Context, id int64) error
	RecordVisit(ctx context.Context, visit *domain.Visit) error
}

type publicationRepository struct {
	pool *pgxpool.Pool
}

// NewPublicationRepository instantiates repository.
func NewPublicationRepository(pool *pgxpool.Pool) PublicationRepository {
	return &publicationRepository{pool: pool}
}

const selectPublication = `
        SELECT p.id, p.title, p.slug, p.description, p.content, p.main_image, p.status, p.author_id,
               u.full_name, u.username, p.category_id, cat.name, cat.slug,
               (SELECT COUNT(*) FROM comments c WHERE c.publication_id = p.id),
               (SELECT COUNT(*) FROM visits v WHERE v.publication_id = p.id),
               p.created_at, p.updated_at
        FROM publications p
        JOIN users u ON u.id = p.author_id
        LEFT JOIN categories cat ON cat.id = p.category_id`

func (r *publicationRepository) List(ctx context.Context, filter PublicationFilter) ([]domain.Publication, int64, error) {
	var where whereClause
	if filter.Status != nil {
		where.add("p.status=$%d", *filter.Status)
	}
	if filter.TagID != nil {
		where.add("EXISTS (SELECT 1 FROM publication_tags pt WHERE pt.publication_id = p.id AND pt.tag_id = $%d)", *filter.TagID)
	}
	if filter.CategoryID != nil {
		where.add("p.category_id=$%d", *filter.CategoryID)
	}
	if filter.Search != "" {
		where.add("(p.title ILIKE $%[1]d OR p.description ILIKE $%[1]d OR p.content ILIKE $%[1]d)", likePattern(filter.Search))
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM publications p` + where.String()
	if err := r.pool.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	limit := where.nextArg(page.Size)
	offset := where.nextArg(page.Offset())
	query := fmt.Sprintf(`%s%s ORDER BY p.created_at DESC LIMIT %s OFFSET %s`,
		selectPublication, where.String(), limit, offset)

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, err
	}
	publications, err := scanPublications(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachTags(ctx, publications); err != nil {
		return nil, 0, err
	}
	return publications, total, nil
}

func (r *publicationRepository) GetByID(ctx context.Context, id int64) (*domain.Publication, error) {
	return r.fetchSingle(ctx, selectPublication+` WHERE p.id=$1`, id)
}

func (r *publicationRepository) GetBySlug(ctx context.Context, slug string) (*domain.Publication, error) {
	return r.fetchSingle(ctx, selectPublication+` WHERE p.slug=$1`, slug)
}

func (r *publicationRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Publication, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	publications, err := scanPublications(rows)
	if err != nil {
		return nil, err
	}
	if len(publications) == 0 {
		return nil, pgx.ErrNoRows
	}
	if err := r.attachTags(ctx, publications); err != nil {
		return nil, err
	}
	return &publications[0], nil
}

func (r *publicationRepository) Create(ctx context.Context, publication *domain.Publication, tagIDs []int64) error {
	const query = `
        INSERT INTO publications (title, slug, description, content, main_image, status, author_id, category_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query,
			publication.Title,
			publication.Slug,
			publication.Description,
			publication.Content,
			publication.MainImage,
			publication.Status,
			publication.AuthorID,
			publication.CategoryID,
		).Scan(&publication.ID, &publication.CreatedAt, &publication.UpdatedAt); err != nil {
			return err
		}
		return replacePublicationTags(ctx, tx, publication.ID, tagIDs)
	})
}

// Update rewrites the publication. A nil tagIDs slice leaves tags untouched;
// an empty one clears them.
func (r *publicationRepository) Update(ctx context.Context, publication *domain.Publication, tagIDs []int64) error {
	const query = `
        UPDATE publications SET title=$1, slug=$2, description=$3, content=$4, main_image=$5,
            status=$6, category_id=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query,
			publication.Title,
			publication.Slug,
			publication.Description,
			publication.Content,
			publication.MainImage,
			publication.Status,
			publication.CategoryID,
			publication.ID,
		).Scan(&publication.UpdatedAt); err != nil {
			return err
		}
		if tagIDs == nil {
			return nil
		}
		return replacePublicationTags(ctx, tx, publication.ID, tagIDs)
	})
}

func (r *publicationRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM publications WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *publicationRepository) RecordVisit(ctx context.Context, visit *domain.Visit) error {
	const query = `
        INSERT INTO visits (publication_id, ip_address, user_agent)
        VALUES ($1, $2, $3)
        RETURNING id, visited_at`
	return r.pool.QueryRow(ctx, query, visit.PublicationID, visit.IPAddress, visit.UserAgent).
		Scan(&visit.ID, &visit.VisitedAt)
}

func (r *publicationRepository) attachTags(ctx context.Context, publications []domain.Publication) error {
	if len(publications) == 0 {
		return nil
	}
	ids := make([]int64, len(publications))
	index := make(map[int64]int, len(publications))
	for i, p := range publications {
		ids[i] = p.ID
		index[p.ID] = i
	}

	const query = `
        SELECT pt.publication_id, t.id, t.name, t.slug, t.description
        FROM publication_tags pt JOIN tags t ON t.id = pt.tag_id
        WHERE pt.publication_id = ANY($1)
        ORDER BY t.name ASC`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var publicationID int64
		var tag domain.Tag
		if err := rows.Scan(&publicationID, &tag.ID, &tag.Name, &tag.Slug, &tag.Description); err != nil {
			return err
		}
		i := index[publicationID]
		publications[i].Tags = append(publications[i].Tags, tag)
	}
	return rows.Err()
}

func replacePublicationTags(ctx context.Context, tx pgx.Tx, publicationID int64, tagIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM publication_tags WHERE publication_id=$1`, publicationID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	const query = `
        INSERT INTO publication_tags (publication_id, tag_id)
        SELECT $1, UNNEST($2::bigint[])
        ON CONFLICT DO NOTHING`
	_, err := tx.Exec(ctx, query, publicationID, tagIDs)
	return err
}

func scanPublications(rows pgx.Rows) ([]domain.Publication, error) {
	defer rows.Close()
	var result []domain.Publication
	for rows.Next() {
		var p domain.Publication
		var categoryName, categorySlug *string
		author := domain.AuthorSummary{}
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Slug,
			&p.Description,
			&p.Content,
			&p.MainImage,
			&p.Status,
			&p.AuthorID,
			&author.FullName,
			&author.Username,
			&p.CategoryID,
			&categoryName,
			&categorySlug,
			&p.CommentCount,
			&p.VisitCount,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		author.ID = p.AuthorID
		p.Author = &author
		if p.CategoryID != nil && categoryName != nil && categorySlug != nil {
			p.Category = &domain.Category{ID: *p.CategoryID, Name: *categoryName, Slug: *categorySlug}
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
