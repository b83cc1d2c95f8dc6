package dto

import (
	"time"

	"gorm.io/datatypes"

	"workshop_backend/internals/features/contents/model"
	helper "workshop_backend/internals/helpers"
)

// ====================
// Response DTO
// ====================

type ContentDTO struct {
	ID        int            `json:"id"`
	DivID     string         `json:"divId"`
	Title     string         `json:"title"`
	Content   *string        `json:"content"`
	Type      string         `json:"type"`
	Meta      datatypes.JSON `json:"meta"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ====================
// Request DTO
// ====================

type CreateContentRequest struct {
	DivID   string         `json:"divId" validate:"required,max=100"`
	Title   string         `json:"title" validate:"required,max=255"`
	Content *string        `json:"content"`
	Type    string         `json:"type" validate:"required,max=50"`
	Meta    datatypes.JSON `json:"meta"`
}

// UpdateContentRequest is a partial update: absent fields keep their stored value.
type UpdateContentRequest struct {
	DivID   *string        `json:"divId" validate:"omitempty,min=1,max=100"`
	Title   *string        `json:"title" validate:"omitempty,min=1,max=255"`
	Content *string        `json:"content"`
	Type    *string        `json:"type" validate:"omitempty,min=1,max=50"`
	Meta    datatypes.JSON `json:"meta"`
}

// ====================
// Converters
// ====================

func ToContentDTO(m model.ContentModel) ContentDTO {
	return ContentDTO{
		ID:        m.ContentID,
		DivID:     m.ContentDivID,
		Title:     m.ContentTitle,
		Content:   m.ContentBody,
		Type:      m.ContentType,
		Meta:      m.ContentMeta,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToContentDTOs(rows []model.ContentModel) []ContentDTO {
	out := make([]ContentDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToContentDTO(r))
	}
	return out
}

func (r *CreateContentRequest) Normalize() {
	r.DivID = helper.NormalizeText(r.DivID)
	r.Title = helper.NormalizeText(r.Title)
	r.Type = helper.NormalizeText(r.Type)
	r.Content = helper.NormalizeTextPtr(r.Content)
}

func (r CreateContentRequest) ToModel() model.ContentModel {
	return model.ContentModel{
		ContentDivID: r.DivID,
		ContentTitle: r.Title,
		ContentBody:  r.Content,
		ContentType:  r.Type,
		ContentMeta:  r.Meta,
	}
}

func (r *UpdateContentRequest) Normalize() {
	r.DivID = helper.NormalizeTextPtr(r.DivID)
	r.Title = helper.NormalizeTextPtr(r.Title)
	r.Type = helper.NormalizeTextPtr(r.Type)
	r.Content = helper.NormalizeTextPtr(r.Content)
}

// ApplyTo merges the provided fields onto m.
func (r UpdateContentRequest) ApplyTo(m *model.ContentModel) {
	if r.DivID != nil {
		m.ContentDivID = *r.DivID
	}
	if r.Title != nil {
		m.ContentTitle = *r.Title
	}
	if r.Content != nil {
		m.ContentBody = r.Content
	}
	if r.Type != nil {
		m.ContentType = *r.Type
	}
	if len(r.Meta) > 0 {
		m.ContentMeta = r.Meta
	}
}
