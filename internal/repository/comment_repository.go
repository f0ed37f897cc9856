package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/school-portal/internal/domain"
)

// CommentFilter narrows comment listings.
type CommentFilter struct {
	PublicationID *int64
	IsApproved    *bool
}

// CommentRepository encapsulates comment and reaction persistence.
type CommentRepository interface {
	List(ctx context.Context, filter CommentFilter) ([]domain.Comment, error)
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	Create(ctx context.Context, comment *domain.Comment) error
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id int64) error
	AddReaction(ctx context.Context, reaction *domain.Reaction) error
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository instantiates repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const selectComment = `
        SELECT c.id, c.publication_id, p.title, c.name, c.message, c.is_approved, c.created_at
        FROM comments c JOIN publications p ON p.id = c.publication_id`

func (r *commentRepository) List(ctx context.Context, filter CommentFilter) ([]domain.Comment, error) {
	var where whereClause
	if filter.PublicationID != nil {
		where.add("c.publication_id=$%d", *filter.PublicationID)
	}
	if filter.IsApproved != nil {
		where.add("c.is_approved=$%d", *filter.IsApproved)
	}

	query := fmt.Sprintf(`%s%s ORDER BY c.created_at DESC`, selectComment, where.String())
	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	comments, err := scanComments(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachReactions(ctx, comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	rows, err := r.pool.Query(ctx, selectComment+` WHERE c.id=$1`, id)
	if err != nil {
		return nil, err
	}
	comments, err := scanComments(rows)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, pgx.ErrNoRows
	}
	if err := r.attachReactions(ctx, comments); err != nil {
		return nil, err
	}
	return &comments[0], nil
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (publication_id, name, message, is_approved)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.PublicationID,
		comment.Name,
		comment.Message,
		comment.IsApproved,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	const query = `UPDATE comments SET message=$1, is_approved=$2 WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, comment.Message, comment.IsApproved, comment.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) AddReaction(ctx context.Context, reaction *domain.Reaction) error {
	const query = `
        INSERT INTO reactions (comment_id, type) VALUES ($1, $2)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, reaction.CommentID, reaction.Type).
		Scan(&reaction.ID, &reaction.CreatedAt)
}

func (r *commentRepository) attachReactions(ctx context.Context, comments []domain.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	ids := make([]int64, len(comments))
	index := make(map[int64]int, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
		index[c.ID] = i
	}

	const query = `
        SELECT id, comment_id, type, created_at FROM reactions
        WHERE comment_id = ANY($1) ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var reaction domain.Reaction
		if err := rows.Scan(&reaction.ID, &reaction.CommentID, &reaction.Type, &reaction.CreatedAt); err != nil {
			return err
		}
		i := index[reaction.CommentID]
		comments[i].Reactions = append(comments[i].Reactions, reaction)
	}
	return rows.Err()
}

func scanComments(rows pgx.Rows) ([]domain.Comment, error) {
	defer rows.Close()
	var result []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(
			&c.ID,
			&c.PublicationID,
			&c.PublicationTitle,
			&c.Name,
			&c.Message,
			&c.IsApproved,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
