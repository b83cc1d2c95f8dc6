package model

import (
	"time"

	"gorm.io/datatypes"
)

// ContentModel is an editable block of landing-page copy, addressed by the
// DOM id (divId) the frontend renders it into.
type ContentModel struct {
	ContentID    int            `gorm:"column:content_id;primaryKey;autoIncrement"`
	ContentDivID string         `gorm:"column:content_div_id;type:varchar(100);not null;uniqueIndex:uq_contents_div_id"`
	ContentTitle string         `gorm:"column:content_title;type:varchar(255);not null"`
	ContentBody  *string        `gorm:"column:content_body;type:text"`
	ContentType  string         `gorm:"column:content_type;type:varchar(50);not null"`
	ContentMeta  datatypes.JSON `gorm:"column:content_meta;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ContentModel) TableName() string { return "contents" }
