package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/school-portal/internal/domain"
)

// DirectorRepository encapsulates the leadership roster.
type DirectorRepository interface {
	List(ctx context.Context, status *domain.DirectorStatus) ([]domain.Director, error)
	GetByID(ctx context.Context, id int64) (*domain.Director, error)
	Create(ctx context.Context, director *domain.Director) error
	Update(ctx context.Context, director *domain.Director) error
	Delete(ctx context.Context, id int64) error
}

type directorRepository struct {
	pool *pgxpool.Pool
}

// NewDirectorRepository instantiates repository.
func NewDirectorRepository(pool *pgxpool.Pool) DirectorRepository {
	return &directorRepository{pool: pool}
}

const selectDirector = `
        SELECT id, full_name, position, photo, description, status, registered_at
        FROM directors`

func (r *directorRepository) List(ctx context.Context, status *domain.DirectorStatus) ([]domain.Director, error) {
	var where whereClause
	if status != nil {
		where.add("status=$%d", *status)
	}
	rows, err := r.pool.Query(ctx, selectDirector+where.String()+` ORDER BY registered_at DESC`, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var directors []domain.Director
	for rows.Next() {
		director, err := scanDirector(rows)
		if err != nil {
			return nil, err
		}
		directors = append(directors, *director)
	}
	return directors, rows.Err()
}

func (r *directorRepository) GetByID(ctx context.Context, id int64) (*domain.Director, error) {
	return scanDirector(r.pool.QueryRow(ctx, selectDirector+` WHERE id=$1`, id))
}

func (r *directorRepository) Create(ctx context.Context, director *domain.Director) error {
	const query = `
        INSERT INTO directors (full_name, position, photo, description, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, registered_at`
	return r.pool.QueryRow(ctx, query,
		director.FullName,
		director.Position,
		director.Photo,
		director.Description,
		director.Status,
	).Scan(&director.ID, &director.RegisteredAt)
}

func (r *directorRepository) Update(ctx context.Context, director *domain.Director) error {
	const query = `
        UPDATE directors SET full_name=$1, position=$2, photo=$3, description=$4, status=$5
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		director.FullName,
		director.Position,
		director.Photo,
		director.Description,
		director.Status,
		director.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *directorRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM directors WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanDirector(row pgx.Row) (*domain.Director, error) {
	var d domain.Director
	if err := row.Scan(
		&d.ID,
		&d.FullName,
		&d.Position,
		&d.Photo,
		&d.Description,
		&d.Status,
		&d.RegisteredAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}
