package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"workshop_backend/internals/features/contents/model"
	helper "workshop_backend/internals/helpers"
)

func strPtr(s string) *string { return &s }

func TestUpdateContentRequest_ApplyTo(t *testing.T) {
	body := "old body"
	row := model.ContentModel{
		ContentDivID: "hero",
		ContentTitle: "Old",
		ContentBody:  &body,
		ContentType:  "text",
		ContentMeta:  datatypes.JSON(`{"a":1}`),
	}

	UpdateContentRequest{Title: strPtr("New")}.ApplyTo(&row)

	assert.Equal(t, "hero", row.ContentDivID)
	assert.Equal(t, "New", row.ContentTitle)
	assert.Equal(t, "old body", *row.ContentBody)
	assert.Equal(t, "text", row.ContentType)
	assert.JSONEq(t, `{"a":1}`, string(row.ContentMeta))

	UpdateContentRequest{Meta: datatypes.JSON(`{"b":2}`), Type: strPtr("html")}.ApplyTo(&row)
	assert.Equal(t, "html", row.ContentType)
	assert.JSONEq(t, `{"b":2}`, string(row.ContentMeta))
}

func TestCreateContentRequest_Validation(t *testing.T) {
	req := CreateContentRequest{DivID: "  ", Title: " About ", Type: "text"}
	req.Normalize()

	assert.Equal(t, "About", req.Title)

	err := helper.Validator().Struct(req)
	fields, ok := helper.ValidationMessages(err)
	assert.True(t, ok)
	assert.Contains(t, fields, "divId")
	assert.NotContains(t, fields, "title")
}
