// internal/models/blog.go
package models

import (
	"github.com/google/uuid"
)

// Blog is a post with a view counter. Email receives the congratulation
// message when the counter reaches the milestone.
type Blog struct {
	BaseModel
	Title     string     `json:"title" gorm:"size:50;not null"`
	Slug      string     `json:"slug" gorm:"size:50;index"`
	Content   string     `json:"content" gorm:"type:text"`
	ImageKey  string     `json:"image_key" gorm:"size:255"`
	ViewCount int64      `json:"view_count" gorm:"default:0"`
	IsActive  bool       `json:"is_active" gorm:"default:true;index"`
	Email     string     `json:"email" gorm:"size:100;not null"`
	OwnerID   *uuid.UUID `json:"owner_id" gorm:"type:uuid"`

	Owner *User `json:"owner,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`
}
