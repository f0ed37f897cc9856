package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/school-portal/internal/domain"
)

// DestinationEmailRepository manages contact notification recipients.
type DestinationEmailRepository interface {
	List(ctx context.Context, activeOnly bool) ([]domain.DestinationEmail, error)
	GetByID(ctx context.Context, id int64) (*domain.DestinationEmail, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, dest *domain.DestinationEmail) error
	Update(ctx context.Context, dest *domain.DestinationEmail) error
	Delete(ctx context.Context, id int64) error
}

type destinationEmailRepository struct {
	pool *pgxpool.Pool
}

// NewDestinationEmailRepository instantiates repository.
func NewDestinationEmailRepository(pool *pgxpool.Pool) DestinationEmailRepository {
	return &destinationEmailRepository{pool: pool}
}

const selectDestinationEmail = `SELECT id, name, email, is_active, created_at FROM destination_emails`

func (r *destinationEmailRepository) List(ctx context.Context, activeOnly bool) ([]domain.DestinationEmail, error) {
	var where whereClause
	if activeOnly {
		where.add("is_active=$%d", true)
	}
	rows, err := r.pool.Query(ctx, selectDestinationEmail+where.String()+` ORDER BY id ASC`, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []domain.DestinationEmail
	for rows.Next() {
		dest, err := scanDestinationEmail(rows)
		if err != nil {
			return nil, err
		}
		emails = append(emails, *dest)
	}
	return emails, rows.Err()
}

func (r *destinationEmailRepository) GetByID(ctx context.Context, id int64) (*domain.DestinationEmail, error) {
	return scanDestinationEmail(r.pool.QueryRow(ctx, selectDestinationEmail+` WHERE id=$1`, id))
}

func (r *destinationEmailRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM destination_emails WHERE LOWER(email)=LOWER($1) AND id<>$2)`
	var taken bool
	err := r.pool.QueryRow(ctx, query, email, excludeID).Scan(&taken)
	return taken, err
}

func (r *destinationEmailRepository) Create(ctx context.Context, dest *domain.DestinationEmail) error {
	const query = `
        INSERT INTO destination_emails (name, email, is_active) VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, dest.Name, dest.Email, dest.IsActive).Scan(&dest.ID, &dest.CreatedAt)
}

func (r *destinationEmailRepository) Update(ctx context.Context, dest *domain.DestinationEmail) error {
	const query = `UPDATE destination_emails SET name=$1, email=$2, is_active=$3 WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, dest.Name, dest.Email, dest.IsActive, dest.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *destinationEmailRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM destination_emails WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanDestinationEmail(row pgx.Row) (*domain.DestinationEmail, error) {
	var d domain.DestinationEmail
	if err := row.Scan(&d.ID, &d.Name, &d.Email, &d.IsActive, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}
