package handlers

import (
	"github.com/spec-kit/school-portal/internal/api/dto"
	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/service"
)

func sessionUser(user *domain.User) dto.SessionUser {
	return dto.SessionUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.RoleName,
	}
}

func authResponse(result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      sessionUser(result.User),
	}
}

func userResponse(user *domain.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		Username:       user.Username,
		FullName:       user.FullName,
		IsActive:       user.IsActive,
		LastConnection: user.LastConnection,
		RegisteredAt:   user.RegisteredAt,
	}
	if user.RoleID != nil {
		resp.Role = &dto.RoleSummary{ID: *user.RoleID, Name: user.RoleNameOrEmpty()}
	}
	return resp
}

func roleResponse(role *domain.Role) dto.RoleResponse {
	return dto.RoleResponse{ID: role.ID, Name: role.Name, Description: role.Description, UserCount: role.UserCount}
}

func authorResponse(author *domain.AuthorSummary) *dto.AuthorResponse {
	if author == nil {
		return nil
	}
	return &dto.AuthorResponse{ID: author.ID, FullName: author.FullName, Username: author.Username}
}

func tagResponse(tag *domain.Tag) dto.TagResponse {
	return dto.TagResponse{
		ID:               tag.ID,
		Name:             tag.Name,
		Slug:             tag.Slug,
		Description:      tag.Description,
		PublicationCount: tag.PublicationCount,
	}
}

func categoryResponse(category *domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:               category.ID,
		Name:             category.Name,
		Slug:             category.Slug,
		Description:      category.Description,
		Color:            category.Color,
		Order:            category.Order,
		PublicationCount: category.PublicationCount,
		CreatedAt:        category.CreatedAt,
	}
}

func categorySummaryResponse(category *domain.Category) *dto.CategorySummaryResponse {
	if category == nil {
		return nil
	}
	return &dto.CategorySummaryResponse{ID: category.ID, Name: category.Name, Slug: category.Slug}
}

func publicationResponse(p *domain.Publication) dto.PublicationResponse {
	tags := make([]dto.TagResponse, 0, len(p.Tags))
	for i := range p.Tags {
		tags = append(tags, tagResponse(&p.Tags[i]))
	}
	return dto.PublicationResponse{
		ID:           p.ID,
		Title:        p.Title,
		Slug:         p.Slug,
		Description:  p.Description,
		Content:      p.Content,
		MainImage:    p.MainImage,
		Status:       string(p.Status),
		AuthorID:     p.AuthorID,
		Author:       authorResponse(p.Author),
		CategoryID:   p.CategoryID,
		Category:     categorySummaryResponse(p.Category),
		Tags:         tags,
		CommentCount: p.CommentCount,
		VisitCount:   p.VisitCount,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func publicationDetailResponse(d *service.PublicationDetail) dto.PublicationDetailResponse {
	comments := make([]dto.CommentResponse, 0, len(d.Comments))
	for i := range d.Comments {
		comments = append(comments, commentResponse(&d.Comments[i]))
	}
	return dto.PublicationDetailResponse{
		PublicationResponse: publicationResponse(&d.Publication),
		Comments:            comments,
	}
}

func reactionResponse(r *domain.Reaction) dto.ReactionResponse {
	return dto.ReactionResponse{ID: r.ID, CommentID: r.CommentID, Type: string(r.Type), CreatedAt: r.CreatedAt}
}

func commentResponse(c *domain.Comment) dto.CommentResponse {
	reactions := make([]dto.ReactionResponse, 0, len(c.Reactions))
	for i := range c.Reactions {
		reactions = append(reactions, reactionResponse(&c.Reactions[i]))
	}
	return dto.CommentResponse{
		ID:               c.ID,
		PublicationID:    c.PublicationID,
		PublicationTitle: c.PublicationTitle,
		Name:             c.Name,
		Content:          c.Message,
		IsApproved:       c.IsApproved,
		Reactions:        reactions,
		CreatedAt:        c.CreatedAt,
	}
}

func directorResponse(d *domain.Director) dto.DirectorResponse {
	return dto.DirectorResponse{
		ID:           d.ID,
		FullName:     d.FullName,
		Position:     d.Position,
		Photo:        d.Photo,
		Description:  d.Description,
		Status:       string(d.Status),
		RegisteredAt: d.RegisteredAt,
	}
}

func contactSubjectResponse(s *domain.ContactSubject) *dto.ContactSubjectResponse {
	if s == nil {
		return nil
	}
	return &dto.ContactSubjectResponse{ID: s.ID, Name: s.Name, Description: s.Description}
}

func contactMessageResponse(m *domain.ContactMessage) dto.ContactMessageResponse {
	return dto.ContactMessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		SubjectID: m.SubjectID,
		Subject:   contactSubjectResponse(m.Subject),
		Message:   m.Message,
		IsReplied: m.IsReplied,
		RepliedAt: m.RepliedAt,
		SentAt:    m.SentAt,
	}
}

func destinationEmailResponse(d *domain.DestinationEmail) dto.DestinationEmailResponse {
	return dto.DestinationEmailResponse{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
	}
}

func galleryResponse(g *domain.GalleryItem) dto.GalleryResponse {
	return dto.GalleryResponse{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		URL:         g.URL,
		StorageKey:  g.StorageKey,
		Type:        string(g.Type),
		AuthorID:    g.AuthorID,
		Author:      authorResponse(g.Author),
		UploadedAt:  g.UploadedAt,
	}
}
