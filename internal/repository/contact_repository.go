package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/school-portal/internal/domain"
)

// ContactSubjectRepository manages contact form subjects.
type ContactSubjectRepository interface {
	List(ctx context.Context) ([]domain.ContactSubject, error)
	GetByID(ctx context.Context, id int64) (*domain.ContactSubject, error)
	Create(ctx context.Context, subject *domain.ContactSubject) error
	Ensure(ctx context.Context, subject *domain.ContactSubject) error
}

// ContactMessageRepository manages the contact inbox.
type ContactMessageRepository interface {
	List(ctx context.Context, isReplied *bool) ([]domain.ContactMessage, error)
	GetByID(ctx context.Context, id int64) (*domain.ContactMessage, error)
	Create(ctx context.Context, message *domain.ContactMessage) error
	SetReplied(ctx context.Context, id int64, replied bool, at *time.Time) error
	Delete(ctx context.Context, id int64) error
}

type contactSubjectRepository struct {
	pool *pgxpool.Pool
}

// NewContactSubjectRepository instantiates repository.
func NewContactSubjectRepository(pool *pgxpool.Pool) ContactSubjectRepository {
	return &contactSubjectRepository{pool: pool}
}

func (r *contactSubjectRepository) List(ctx context.Context) ([]domain.ContactSubject, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description FROM contact_subjects ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []domain.ContactSubject
	for rows.Next() {
		var s domain.ContactSubject
		if err := rows.Scan(&s.ID, &s.Name, &s.Description); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *contactSubjectRepository) GetByID(ctx context.Context, id int64) (*domain.ContactSubject, error) {
	var s domain.ContactSubject
	err := r.pool.QueryRow(ctx, `SELECT id, name, description FROM contact_subjects WHERE id=$1`, id).
		Scan(&s.ID, &s.Name, &s.Description)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *contactSubjectRepository) Create(ctx context.Context, subject *domain.ContactSubject) error {
	const query = `INSERT INTO contact_subjects (name, description) VALUES ($1, $2) RETURNING id`
	return r.pool.QueryRow(ctx, query, subject.Name, subject.Description).Scan(&subject.ID)
}

func (r *contactSubjectRepository) Ensure(ctx context.Context, subject *domain.ContactSubject) error {
	const query = `INSERT INTO contact_subjects (name, description) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, subject.Name, subject.Description)
	return err
}

type contactMessageRepository struct {
	pool *pgxpool.Pool
}

// NewContactMessageRepository instantiates repository.
func NewContactMessageRepository(pool *pgxpool.Pool) ContactMessageRepository {
	return &contactMessageRepository{pool: pool}
}

const selectContactMessage = `
        SELECT m.id, m.name, m.email, m.subject_id, s.name, s.description, m.message,
               m.is_replied, m.replied_at, m.sent_at
        FROM contact_messages m LEFT JOIN contact_subjects s ON s.id = m.subject_id`

func (r *contactMessageRepository) List(ctx context.Context, isReplied *bool) ([]domain.ContactMessage, error) {
	var where whereClause
	if isReplied != nil {
		where.add("m.is_replied=$%d", *isReplied)
	}
	rows, err := r.pool.Query(ctx, selectContactMessage+where.String()+` ORDER BY m.sent_at DESC`, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ContactMessage
	for rows.Next() {
		msg, err := scanContactMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

func (r *contactMessageRepository) GetByID(ctx context.Context, id int64) (*domain.ContactMessage, error) {
	return scanContactMessage(r.pool.QueryRow(ctx, selectContactMessage+` WHERE m.id=$1`, id))
}

func (r *contactMessageRepository) Create(ctx context.Context, message *domain.ContactMessage) error {
	const query = `
        INSERT INTO contact_messages (name, email, subject_id, message)
        VALUES ($1, $2, $3, $4)
        RETURNING id, sent_at`
	return r.pool.QueryRow(ctx, query,
		message.Name,
		message.Email,
		message.SubjectID,
		message.Message,
	).Scan(&message.ID, &message.SentAt)
}

func (r *contactMessageRepository) SetReplied(ctx context.Context, id int64, replied bool, at *time.Time) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE contact_messages SET is_replied=$1, replied_at=$2 WHERE id=$3`, replied, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contactMessageRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM contact_messages WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanContactMessage(row pgx.Row) (*domain.ContactMessage, error) {
	var (
		m           domain.ContactMessage
		subjectName *string
		subjectDesc *string
	)
	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.SubjectID,
		&subjectName,
		&subjectDesc,
		&m.Message,
		&m.IsReplied,
		&m.RepliedAt,
		&m.SentAt,
	); err != nil {
		return nil, err
	}
	if m.SubjectID != nil && subjectName != nil {
		m.Subject = &domain.ContactSubject{ID: *m.SubjectID, Name: *subjectName}
		if subjectDesc != nil {
			m.Subject.Description = *subjectDesc
		}
	}
	return &m, nil
}
