package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/school-portal/internal/api/dto"
	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/repository"
	"github.com/spec-kit/school-portal/internal/service"
)

func TestCommentsHandler_ListPassesCallerAndFilters(t *testing.T) {
	caller := &domain.Identity{UserID: 1, RoleName: domain.RoleEditor}
	svc := &fakeCommentService{
		ListFunc: func(_ context.Context, got *domain.Identity, filter repository.CommentFilter) ([]domain.Comment, error) {
			require.NotNil(t, got)
			assert.Equal(t, domain.RoleEditor, got.RoleName)
			require.NotNil(t, filter.PublicationID)
			assert.Equal(t, int64(4), *filter.PublicationID)
			require.NotNil(t, filter.IsApproved)
			assert.False(t, *filter.IsApproved)
			return []domain.Comment{{ID: 8, Message: "pending"}}, nil
		},
	}
	app := newTestApp(caller)
	app.Get("/comments", NewCommentsHandler(svc).List)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/comments?publicationId=4&isApproved=false", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Comments []dto.CommentResponse `json:"comments"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Comments, 1)
	assert.Equal(t, "pending", body.Comments[0].Content)
}

func TestCommentsHandler_ListAnonymous(t *testing.T) {
	svc := &fakeCommentService{
		ListFunc: func(_ context.Context, got *domain.Identity, _ repository.CommentFilter) ([]domain.Comment, error) {
			assert.Nil(t, got)
			return nil, nil
		},
	}
	app := newTestApp(nil)
	app.Get("/comments", NewCommentsHandler(svc).List)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/comments", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/comments?isApproved=maybe", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCommentsHandler_CreateAcceptsMessageAlias(t *testing.T) {
	svc := &fakeCommentService{
		CreateFunc: func(_ context.Context, in service.CommentInput) (*domain.Comment, error) {
			assert.Equal(t, "Lovely event", in.Message)
			return &domain.Comment{ID: 2, PublicationID: in.PublicationID, Message: in.Message}, nil
		},
	}
	app := newTestApp(&domain.Identity{UserID: 5, RoleName: domain.RoleUser})
	app.Post("/comments", NewCommentsHandler(svc).Create)

	req := httptest.NewRequest(http.MethodPost, "/comments", strings.NewReader(`{"publicationId":3,"message":"Lovely event"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCommentsHandler_React(t *testing.T) {
	svc := &fakeCommentService{
		ReactFunc: func(_ context.Context, commentID int64, reactionType domain.ReactionType) (*domain.Reaction, error) {
			assert.Equal(t, int64(6), commentID)
			assert.Equal(t, domain.ReactionLike, reactionType)
			return &domain.Reaction{ID: 1, CommentID: commentID, Type: reactionType}, nil
		},
	}
	app := newTestApp(&domain.Identity{UserID: 5})
	app.Post("/reactions", NewCommentsHandler(svc).React)

	req := httptest.NewRequest(http.MethodPost, "/reactions", strings.NewReader(`{"commentId":6,"type":"like"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestContactHandler_SubmitAndSubjects(t *testing.T) {
	svc := &fakeContactService{
		SubmitFunc: func(_ context.Context, in service.ContactInput) (*domain.ContactMessage, error) {
			require.NotNil(t, in.SubjectID)
			assert.Equal(t, int64(1), *in.SubjectID)
			return &domain.ContactMessage{ID: 11, Name: in.Name, Email: in.Email, Message: in.Message}, nil
		},
	}
	app := newTestApp(nil)
	h := NewContactHandler(svc)
	app.Post("/contact", h.Submit)
	app.Get("/contact-subjects", h.ListSubjects)

	req := httptest.NewRequest(http.MethodPost, "/contact",
		strings.NewReader(`{"name":"Luis","email":"luis@example.com","subjectId":1,"message":"When do admissions open?"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/contact-subjects", nil))
	require.NoError(t, err)
	var body struct {
		Subjects []dto.ContactSubjectResponse `json:"subjects"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Subjects, 1)
	assert.Equal(t, "Admissions", body.Subjects[0].Name)
}

func TestContactHandler_MarkRepliedWithoutBody(t *testing.T) {
	var got *bool
	svc := &fakeContactService{
		MarkRepliedFunc: func(_ context.Context, id int64, replied *bool) (*domain.ContactMessage, error) {
			got = replied
			return &domain.ContactMessage{ID: id, IsReplied: true}, nil
		},
	}
	app := newTestApp(&domain.Identity{UserID: 1, RoleName: domain.RoleEditor})
	app.Put("/contact/:id", NewContactHandler(svc).MarkReplied)

	resp, err := app.Test(httptest.NewRequest(http.MethodPut, "/contact/3", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, got)

	req := httptest.NewRequest(http.MethodPut, "/contact/3", strings.NewReader(`{"isReplied":false}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, got)
	assert.False(t, *got)
}

func TestContactHandler_ListFilter(t *testing.T) {
	svc := &fakeContactService{
		ListFunc: func(_ context.Context, isReplied *bool) ([]domain.ContactMessage, error) {
			require.NotNil(t, isReplied)
			assert.True(t, *isReplied)
			return []domain.ContactMessage{{ID: 1}, {ID: 2}}, nil
		},
	}
	app := newTestApp(&domain.Identity{UserID: 1})
	app.Get("/contact", NewContactHandler(svc).List)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/contact?isReplied=true", nil))
	require.NoError(t, err)
	var body struct {
		Messages []dto.ContactMessageResponse `json:"messages"`
	}
	decodeBody(t, resp, &body)
	assert.Len(t, body.Messages, 2)
}

func multipartUpload(t *testing.T, filename, contentType, folder string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	if folder != "" {
		require.NoError(t, w.WriteField("folder", folder))
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestMediaHandler_Upload(t *testing.T) {
	uploads := &fakeUploadService{}
	app := newTestApp(&domain.Identity{UserID: 1, RoleName: domain.RoleEditor})
	app.Post("/upload", NewMediaHandler(nil, uploads).Upload)

	body, contentType := multipartUpload(t, "logo.png", "image/png", "branding", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.UploadResponse
	decodeBody(t, resp, &out)
	assert.True(t, out.Success)
	assert.Equal(t, "image/png", out.MimeType)
	assert.Equal(t, "image", out.Type)
	assert.Equal(t, int64(len("png-bytes")), out.Size)
	assert.Equal(t, "branding", uploads.got.Folder)
	assert.Equal(t, "png-bytes", string(uploads.body))
}

func TestMediaHandler_UploadWithoutFile(t *testing.T) {
	app := newTestApp(&domain.Identity{UserID: 1})
	app.Post("/upload", NewMediaHandler(nil, &fakeUploadService{}).Upload)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		deps       map[string]Pinger
		wantStatus int
		wantRedis  string
	}{
		{"all ok", map[string]Pinger{"postgres": fakePinger{}, "redis": fakePinger{}}, http.StatusOK, "ok"},
		{"redis disabled", map[string]Pinger{"postgres": fakePinger{}, "redis": nil}, http.StatusOK, "disabled"},
		{"redis down", map[string]Pinger{"postgres": fakePinger{}, "redis": fakePinger{err: errors.New("dial tcp: refused")}}, http.StatusServiceUnavailable, "dial tcp: refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(nil)
			app.Get("/ready", NewHealthHandler("school-portal", "test", tt.deps).Ready)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ready", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body struct {
				Error        string            `json:"error"`
				Dependencies map[string]string `json:"dependencies"`
			}
			decodeBody(t, resp, &body)
			assert.Equal(t, tt.wantRedis, body.Dependencies["redis"])
			assert.Equal(t, "ok", body.Dependencies["postgres"])
			if tt.wantStatus != http.StatusOK {
				assert.NotEmpty(t, body.Error)
			}
		})
	}
}
