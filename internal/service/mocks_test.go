package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/events"
	"github.com/spec-kit/school-portal/internal/mail"
	"github.com/spec-kit/school-portal/internal/repository"
	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

type mockUserRepo struct {
	CreateFunc              func(ctx context.Context, user *domain.User) error
	GetByIDFunc             func(ctx context.Context, id int64) (*domain.User, error)
	GetByEmailFunc          func(ctx context.Context, email string) (*domain.User, error)
	ExistsFunc              func(ctx context.Context, email, username string) (bool, error)
	ListFunc                func(ctx context.Context) ([]domain.User, error)
	UpdateAccessFunc        func(ctx context.Context, id int64, roleID *int64, isActive bool) error
	TouchLastConnectionFunc func(ctx context.Context, id int64, at time.Time) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, email, username)
	}
	return false, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateAccess(ctx context.Context, id int64, roleID *int64, isActive bool) error {
	if m.UpdateAccessFunc != nil {
		return m.UpdateAccessFunc(ctx, id, roleID, isActive)
	}
	return nil
}

func (m *mockUserRepo) TouchLastConnection(ctx context.Context, id int64, at time.Time) error {
	if m.TouchLastConnectionFunc != nil {
		return m.TouchLastConnectionFunc(ctx, id, at)
	}
	return nil
}

type mockRoleRepo struct {
	roles       map[string]domain.Role
	nameLookups int
	UpsertFunc  func(ctx context.Context, role *domain.Role) error
}

func newMockRoleRepo() *mockRoleRepo {
	return &mockRoleRepo{roles: map[string]domain.Role{
		domain.RoleAdministrator: {ID: 1, Name: domain.RoleAdministrator},
		domain.RoleEditor:        {ID: 2, Name: domain.RoleEditor},
		domain.RoleUser:          {ID: 3, Name: domain.RoleUser},
	}}
}

func (m *mockRoleRepo) List(_ context.Context) ([]domain.Role, error) {
	var out []domain.Role
	for _, r := range m.roles {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRoleRepo) GetByID(_ context.Context, id int64) (*domain.Role, error) {
	for _, r := range m.roles {
		if r.ID == id {
			role := r
			return &role, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockRoleRepo) GetByName(_ context.Context, name string) (*domain.Role, error) {
	m.nameLookups++
	r, ok := m.roles[name]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &r, nil
}

func (m *mockRoleRepo) Upsert(ctx context.Context, role *domain.Role) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, role)
	}
	return nil
}

type mockPublicationRepo struct {
	ListFunc        func(ctx context.Context, filter repository.PublicationFilter) ([]domain.Publication, int64, error)
	GetByIDFunc     func(ctx context.Context, id int64) (*domain.Publication, error)
	GetBySlugFunc   func(ctx context.Context, slug string) (*domain.Publication, error)
	CreateFunc      func(ctx context.Context, p *domain.Publication, tagIDs []int64) error
	UpdateFunc      func(ctx context.Context, p *domain.Publication, tagIDs []int64) error
	DeleteFunc      func(ctx context.Context, id int64) error
	RecordVisitFunc func(ctx context.Context, visit *domain.Visit) error
}

func (m *mockPublicationRepo) List(ctx context.Context, filter repository.PublicationFilter) ([]domain.Publication, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockPublicationRepo) GetByID(ctx context.Context, id int64) (*domain.Publication, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockPublicationRepo) GetBySlug(ctx context.Context, slug string) (*domain.Publication, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockPublicationRepo) Create(ctx context.Context, p *domain.Publication, tagIDs []int64) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p, tagIDs)
	}
	return nil
}

func (m *mockPublicationRepo) Update(ctx context.Context, p *domain.Publication, tagIDs []int64) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p, tagIDs)
	}
	return nil
}

func (m *mockPublicationRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockPublicationRepo) RecordVisit(ctx context.Context, visit *domain.Visit) error {
	if m.RecordVisitFunc != nil {
		return m.RecordVisitFunc(ctx, visit)
	}
	return nil
}

type mockCommentRepo struct {
	ListFunc        func(ctx context.Context, filter repository.CommentFilter) ([]domain.Comment, error)
	GetByIDFunc     func(ctx context.Context, id int64) (*domain.Comment, error)
	CreateFunc      func(ctx context.Context, c *domain.Comment) error
	UpdateFunc      func(ctx context.Context, c *domain.Comment) error
	DeleteFunc      func(ctx context.Context, id int64) error
	AddReactionFunc func(ctx context.Context, r *domain.Reaction) error
}

func (m *mockCommentRepo) List(ctx context.Context, filter repository.CommentFilter) ([]domain.Comment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *mockCommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c)
	}
	return nil
}

func (m *mockCommentRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockCommentRepo) AddReaction(ctx context.Context, r *domain.Reaction) error {
	if m.AddReactionFunc != nil {
		return m.AddReactionFunc(ctx, r)
	}
	return nil
}

type mockTagRepo struct {
	tags      map[int64]domain.Tag
	ensured   []string
	CreateErr error
}

func (m *mockTagRepo) List(_ context.Context) ([]domain.Tag, error) {
	var out []domain.Tag
	for _, t := range m.tags {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTagRepo) GetByID(_ context.Context, id int64) (*domain.Tag, error) {
	t, ok := m.tags[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

func (m *mockTagRepo) Create(_ context.Context, tag *domain.Tag) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if m.tags == nil {
		m.tags = map[int64]domain.Tag{}
	}
	tag.ID = int64(len(m.tags) + 1)
	m.tags[tag.ID] = *tag
	return nil
}

func (m *mockTagRepo) Update(_ context.Context, tag *domain.Tag) error {
	if _, ok := m.tags[tag.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.tags[tag.ID] = *tag
	return nil
}

func (m *mockTagRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.tags[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.tags, id)
	return nil
}

func (m *mockTagRepo) Ensure(_ context.Context, tag *domain.Tag) error {
	m.ensured = append(m.ensured, tag.Slug)
	return nil
}

type mockCategoryRepo struct {
	categories []domain.Category
	CreateErr  error
}

func (m *mockCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	return m.categories, nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	category.ID = int64(len(m.categories) + 1)
	m.categories = append(m.categories, *category)
	return nil
}

type mockSubjectRepo struct {
	subjects map[int64]domain.ContactSubject
	ensured  []string
}

func (m *mockSubjectRepo) List(_ context.Context) ([]domain.ContactSubject, error) {
	var out []domain.ContactSubject
	for _, s := range m.subjects {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id int64) (*domain.ContactSubject, error) {
	s, ok := m.subjects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}

func (m *mockSubjectRepo) Create(_ context.Context, subject *domain.ContactSubject) error {
	subject.ID = int64(len(m.subjects) + 100)
	return nil
}

func (m *mockSubjectRepo) Ensure(_ context.Context, subject *domain.ContactSubject) error {
	m.ensured = append(m.ensured, subject.Name)
	return nil
}

type mockMessageRepo struct {
	created      []domain.ContactMessage
	repliedCalls []repliedCall
	ListFunc     func(ctx context.Context, isReplied *bool) ([]domain.ContactMessage, error)
	GetByIDFunc  func(ctx context.Context, id int64) (*domain.ContactMessage, error)
	SetErr       error
	DeleteErr    error
}

type repliedCall struct {
	id      int64
	replied bool
	at      *time.Time
}

func (m *mockMessageRepo) List(ctx context.Context, isReplied *bool) ([]domain.ContactMessage, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, isReplied)
	}
	return nil, nil
}

func (m *mockMessageRepo) GetByID(ctx context.Context, id int64) (*domain.ContactMessage, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &domain.ContactMessage{ID: id}, nil
}

func (m *mockMessageRepo) Create(_ context.Context, msg *domain.ContactMessage) error {
	msg.ID = int64(len(m.created) + 1)
	msg.SentAt = time.Now()
	m.created = append(m.created, *msg)
	return nil
}

func (m *mockMessageRepo) SetReplied(_ context.Context, id int64, replied bool, at *time.Time) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.repliedCalls = append(m.repliedCalls, repliedCall{id: id, replied: replied, at: at})
	return nil
}

func (m *mockMessageRepo) Delete(_ context.Context, _ int64) error {
	return m.DeleteErr
}

type mockDestinationRepo struct {
	emails  []domain.DestinationEmail
	ListErr error
}

func (m *mockDestinationRepo) List(_ context.Context, activeOnly bool) ([]domain.DestinationEmail, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []domain.DestinationEmail
	for _, e := range m.emails {
		if !activeOnly || e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockDestinationRepo) GetByID(_ context.Context, id int64) (*domain.DestinationEmail, error) {
	for _, e := range m.emails {
		if e.ID == id {
			dest := e
			return &dest, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockDestinationRepo) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, e := range m.emails {
		if e.Email == email && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDestinationRepo) Create(_ context.Context, dest *domain.DestinationEmail) error {
	dest.ID = int64(len(m.emails) + 1)
	m.emails = append(m.emails, *dest)
	return nil
}

func (m *mockDestinationRepo) Update(_ context.Context, dest *domain.DestinationEmail) error {
	for i, e := range m.emails {
		if e.ID == dest.ID {
			m.emails[i] = *dest
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *mockDestinationRepo) Delete(_ context.Context, id int64) error {
	for i, e := range m.emails {
		if e.ID == id {
			m.emails = append(m.emails[:i], m.emails[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type mockGalleryRepo struct {
	items   map[int64]domain.GalleryItem
	deleted []int64
}

func (m *mockGalleryRepo) List(_ context.Context, mediaType *domain.MediaType) ([]domain.GalleryItem, error) {
	var out []domain.GalleryItem
	for _, it := range m.items {
		if mediaType == nil || it.Type == *mediaType {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockGalleryRepo) GetByID(_ context.Context, id int64) (*domain.GalleryItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &it, nil
}

func (m *mockGalleryRepo) Create(_ context.Context, item *domain.GalleryItem) error {
	if m.items == nil {
		m.items = map[int64]domain.GalleryItem{}
	}
	item.ID = int64(len(m.items) + 1)
	m.items[item.ID] = *item
	return nil
}

func (m *mockGalleryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockRevoker struct {
	revokedTokens []string
	revokedUsers  []int64
	err           error
}

func (m *mockRevoker) Revoke(_ context.Context, tokenID string, _ time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.revokedTokens = append(m.revokedTokens, tokenID)
	return nil
}

func (m *mockRevoker) RevokeUser(_ context.Context, userID int64, _ time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.revokedUsers = append(m.revokedUsers, userID)
	return nil
}

type recordingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

type recordingQueue struct {
	messages []mail.Message
	full     bool
}

func (q *recordingQueue) Enqueue(msg mail.Message) bool {
	if q.full {
		return false
	}
	q.messages = append(q.messages, msg)
	return true
}

type memoryStore struct {
	puts    map[string][]byte
	deleted []string
	putErr  error
}

func (s *memoryStore) Put(_ context.Context, key, _ string, body io.ReadSeeker, _ int64) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if s.puts == nil {
		s.puts = map[string][]byte{}
	}
	s.puts[key] = data
	return "https://cdn.school.test/" + key, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memoryStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://cdn.school.test/" + key + "?signed", nil
}

func ptr[T any](v T) *T { return &v }

func statusOf(err error) int {
	if err == nil {
		return 0
	}
	return apperrors.ToDomainError(err).HTTPStatus
}

func errNoRows() error { return pgx.ErrNoRows }
