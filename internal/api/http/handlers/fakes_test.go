package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/school-portal/internal/auth"
	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/repository"
	"github.com/spec-kit/school-portal/internal/service"
	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

var errNotStubbed = errors.New("not stubbed")

// newTestApp renders errors the same way the production error middleware does
// and optionally attaches identity to every request.
func newTestApp(identity *domain.Identity) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": de.Message})
		},
	})
	if identity != nil {
		app.Use(func(c *fiber.Ctx) error {
			auth.WithIdentity(c, *identity)
			return c.Next()
		})
	}
	return app
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out), string(body))
}

func ptr[T any](v T) *T { return &v }

type fakeAuthService struct {
	LoginFunc    func(ctx context.Context, email, password string) (*service.AuthResult, error)
	RegisterFunc func(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	LogoutFunc   func(ctx context.Context, identity *domain.Identity) error
	MeFunc       func(ctx context.Context, identity *domain.Identity) (*domain.User, error)
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if f.LoginFunc == nil {
		return nil, errNotStubbed
	}
	return f.LoginFunc(ctx, email, password)
}

func (f *fakeAuthService) Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error) {
	if f.RegisterFunc == nil {
		return nil, errNotStubbed
	}
	return f.RegisterFunc(ctx, in)
}

func (f *fakeAuthService) Logout(ctx context.Context, identity *domain.Identity) error {
	if f.LogoutFunc == nil {
		return errNotStubbed
	}
	return f.LogoutFunc(ctx, identity)
}

func (f *fakeAuthService) Me(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	if f.MeFunc == nil {
		return nil, errNotStubbed
	}
	return f.MeFunc(ctx, identity)
}

type fakePublicationService struct {
	ListFunc      func(ctx context.Context, filter repository.PublicationFilter) ([]domain.Publication, service.Pagination, error)
	GetFunc       func(ctx context.Context, id int64, visit service.VisitInfo) (*service.PublicationDetail, error)
	GetBySlugFunc func(ctx context.Context, slug string, visit service.VisitInfo) (*service.PublicationDetail, error)
	CreateFunc    func(ctx context.Context, author *domain.Identity, in service.PublicationInput) (*domain.Publication, error)
	UpdateFunc    func(ctx context.Context, caller *domain.Identity, id int64, in service.PublicationUpdate) (*domain.Publication, error)
	DeleteFunc    func(ctx context.Context, caller *domain.Identity, id int64) error
}

func (f *fakePublicationService) List(ctx context.Context, filter repository.PublicationFilter) ([]domain.Publication, service.Pagination, error) {
	if f.ListFunc == nil {
		return nil, service.Pagination{}, errNotStubbed
	}
	return f.ListFunc(ctx, filter)
}

func (f *fakePublicationService) Get(ctx context.Context, id int64, visit service.VisitInfo) (*service.PublicationDetail, error) {
	if f.GetFunc == nil {
		return nil, errNotStubbed
	}
	return f.GetFunc(ctx, id, visit)
}

func (f *fakePublicationService) GetBySlug(ctx context.Context, slug string, visit service.VisitInfo) (*service.PublicationDetail, error) {
	if f.GetBySlugFunc == nil {
		return nil, errNotStubbed
	}
	return f.GetBySlugFunc(ctx, slug, visit)
}

func (f *fakePublicationService) Create(ctx context.Context, author *domain.Identity, in service.PublicationInput) (*domain.Publication, error) {
	if f.CreateFunc == nil {
		return nil, errNotStubbed
	}
	return f.CreateFunc(ctx, author, in)
}

func (f *fakePublicationService) Update(ctx context.Context, caller *domain.Identity, id int64, in service.PublicationUpdate) (*domain.Publication, error) {
	if f.UpdateFunc == nil {
		return nil, errNotStubbed
	}
	return f.UpdateFunc(ctx, caller, id, in)
}

func (f *fakePublicationService) Delete(ctx context.Context, caller *domain.Identity, id int64) error {
	if f.DeleteFunc == nil {
		return errNotStubbed
	}
	return f.DeleteFunc(ctx, caller, id)
}

type fakeCommentService struct {
	ListFunc   func(ctx context.Context, caller *domain.Identity, filter repository.CommentFilter) ([]domain.Comment, error)
	CreateFunc func(ctx context.Context, in service.CommentInput) (*domain.Comment, error)
	ReactFunc  func(ctx context.Context, commentID int64, reactionType domain.ReactionType) (*domain.Reaction, error)
}

func (f *fakeCommentService) List(ctx context.Context, caller *domain.Identity, filter repository.CommentFilter) ([]domain.Comment, error) {
	if f.ListFunc == nil {
		return nil, errNotStubbed
	}
	return f.ListFunc(ctx, caller, filter)
}

func (f *fakeCommentService) Create(ctx context.Context, in service.CommentInput) (*domain.Comment, error) {
	if f.CreateFunc == nil {
		return nil, errNotStubbed
	}
	return f.CreateFunc(ctx, in)
}

func (f *fakeCommentService) Update(context.Context, int64, service.CommentUpdate) (*domain.Comment, error) {
	return nil, errNotStubbed
}

func (f *fakeCommentService) Delete(context.Context, int64) error {
	return errNotStubbed
}

func (f *fakeCommentService) React(ctx context.Context, commentID int64, reactionType domain.ReactionType) (*domain.Reaction, error) {
	if f.ReactFunc == nil {
		return nil, errNotStubbed
	}
	return f.ReactFunc(ctx, commentID, reactionType)
}

type fakeContactService struct {
	SubmitFunc      func(ctx context.Context, in service.ContactInput) (*domain.ContactMessage, error)
	ListFunc        func(ctx context.Context, isReplied *bool) ([]domain.ContactMessage, error)
	MarkRepliedFunc func(ctx context.Context, id int64, replied *bool) (*domain.ContactMessage, error)
}

func (f *fakeContactService) ListSubjects(context.Context) ([]domain.ContactSubject, error) {
	return []domain.ContactSubject{{ID: 1, Name: "Admissions"}}, nil
}

func (f *fakeContactService) CreateSubject(context.Context, service.ContactSubjectInput) (*domain.ContactSubject, error) {
	return nil, errNotStubbed
}

func (f *fakeContactService) Submit(ctx context.Context, in service.ContactInput) (*domain.ContactMessage, error) {
	if f.SubmitFunc == nil {
		return nil, errNotStubbed
	}
	return f.SubmitFunc(ctx, in)
}

func (f *fakeContactService) List(ctx context.Context, isReplied *bool) ([]domain.ContactMessage, error) {
	if f.ListFunc == nil {
		return nil, errNotStubbed
	}
	return f.ListFunc(ctx, isReplied)
}

func (f *fakeContactService) MarkReplied(ctx context.Context, id int64, replied *bool) (*domain.ContactMessage, error) {
	if f.MarkRepliedFunc == nil {
		return nil, errNotStubbed
	}
	return f.MarkRepliedFunc(ctx, id, replied)
}

func (f *fakeContactService) Delete(context.Context, int64) error {
	return errNotStubbed
}

type fakeCategoryService struct {
	categories []domain.Category
	CreateFunc func(ctx context.Context, in service.CategoryInput) (*domain.Category, error)
}

func (f *fakeCategoryService) List(context.Context) ([]domain.Category, error) {
	return f.categories, nil
}

func (f *fakeCategoryService) Create(ctx context.Context, in service.CategoryInput) (*domain.Category, error) {
	if f.CreateFunc == nil {
		return nil, errNotStubbed
	}
	return f.CreateFunc(ctx, in)
}

type fakeUploadService struct {
	got  service.FileUpload
	body []byte
	err  error
}

func (f *fakeUploadService) Upload(_ context.Context, file service.FileUpload) (*service.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.got = file
	data, err := io.ReadAll(file.Body)
	if err != nil {
		return nil, err
	}
	f.body = data
	return &service.UploadResult{
		URL:       "https://cdn.school.test/" + file.Filename,
		Key:       "images/2026/10/abc.png",
		Size:      file.Size,
		MimeType:  file.ContentType,
		MediaType: domain.MediaTypeImage,
	}, nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }
